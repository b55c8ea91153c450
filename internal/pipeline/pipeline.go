// Package pipeline runs named stages in order over a shared, typed state.
//
// A tool is described as a slice of Stage values operating on one state
// struct. Run executes them sequentially, reports each transition through an
// observer, and stops at the first failure.
package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Status is the lifecycle state of a stage.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Stage is one named step of a pipeline.
type Stage[S any] struct {
	Name string
	Run  func(ctx context.Context, state *S) error
}

// Event reports a stage transition.
type Event struct {
	Index   int
	Name    string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// StageError wraps the failure of a named stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Names returns the stage names in order.
func Names[S any](stages []Stage[S]) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}

// Run executes stages in order against state. observe may be nil.
// The first error, including context cancellation before a stage starts,
// stops the run and is returned as a *StageError.
func Run[S any](ctx context.Context, state *S, stages []Stage[S], observe func(Event)) error {
	if observe == nil {
		observe = func(Event) {}
	}

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			observe(Event{Index: i, Name: stage.Name, Status: StatusFailed, Err: err})
			return &StageError{Stage: stage.Name, Err: err}
		}

		start := time.Now()
		observe(Event{Index: i, Name: stage.Name, Status: StatusRunning})

		if err := stage.Run(ctx, state); err != nil {
			observe(Event{Index: i, Name: stage.Name, Status: StatusFailed, Err: err, Elapsed: time.Since(start)})
			return &StageError{Stage: stage.Name, Err: err}
		}

		observe(Event{Index: i, Name: stage.Name, Status: StatusDone, Elapsed: time.Since(start)})
	}
	return nil
}
