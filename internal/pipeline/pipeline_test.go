package pipeline

import (
	"context"
	"errors"
	"testing"
)

type counter struct {
	steps []string
}

func step(name string) Stage[counter] {
	return Stage[counter]{
		Name: name,
		Run: func(ctx context.Context, c *counter) error {
			c.steps = append(c.steps, name)
			return nil
		},
	}
}

func TestRun_Order(t *testing.T) {
	var state counter
	var events []Event

	err := Run(context.Background(), &state, []Stage[counter]{step("a"), step("b"), step("c")}, func(e Event) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := len(state.steps); got != 3 {
		t.Fatalf("ran %d stages, want 3", got)
	}
	for i, want := range []string{"a", "b", "c"} {
		if state.steps[i] != want {
			t.Errorf("step %d = %q, want %q", i, state.steps[i], want)
		}
	}

	wantStatus := []Status{StatusRunning, StatusDone, StatusRunning, StatusDone, StatusRunning, StatusDone}
	if len(events) != len(wantStatus) {
		t.Fatalf("got %d events, want %d", len(events), len(wantStatus))
	}
	for i, s := range wantStatus {
		if events[i].Status != s {
			t.Errorf("event %d status = %s, want %s", i, events[i].Status, s)
		}
	}
}

func TestRun_StopsAtFailure(t *testing.T) {
	boom := errors.New("boom")
	var state counter
	var last Event

	stages := []Stage[counter]{
		step("a"),
		{Name: "bad", Run: func(ctx context.Context, c *counter) error { return boom }},
		step("never"),
	}
	err := Run(context.Background(), &state, stages, func(e Event) { last = e })

	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != "bad" {
		t.Errorf("error = %v, want StageError for stage bad", err)
	}
	if last.Status != StatusFailed || last.Name != "bad" {
		t.Errorf("last event = %+v, want failed bad", last)
	}
	if len(state.steps) != 1 {
		t.Errorf("ran %v, want only a", state.steps)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var state counter

	stages := []Stage[counter]{
		{Name: "cancel", Run: func(ctx context.Context, c *counter) error {
			cancel()
			return nil
		}},
		step("after"),
	}
	err := Run(ctx, &state, stages, nil)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(state.steps) != 0 {
		t.Errorf("ran %v after cancel", state.steps)
	}
}

func TestNames(t *testing.T) {
	names := Names([]Stage[counter]{step("x"), step("y")})
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("Names = %v", names)
	}
}
