// Package history persists a summary of every tool run.
//
// Two backends are provided: PostgreSQL through pgxpool and an embedded
// SQLite file through modernc.org/sqlite. Open picks one from the driver
// name; an empty or "none" driver yields a store that records nothing.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Status of a finished run.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// ErrUnknownDriver is returned by Open for unsupported driver names.
var ErrUnknownDriver = errors.New("unknown history driver")

// Entry is one recorded run. Group values and colors are never stored.
type Entry struct {
	ID            string
	Tool          string
	UserEmail     string
	SpreadsheetID string
	Worksheet     string
	Columns       string
	Rows          int
	Groups        int
	Ranges        int
	Status        string
	Error         string
	Duration      time.Duration
	CreatedAt     time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	UserEmail string
	Tool      string
	Limit     int
}

// Store records and lists runs.
type Store interface {
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context, f Filter) ([]Entry, error)
	// Purge deletes entries created before cutoff and returns how many.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// Config selects and tunes a backend.
type Config struct {
	Driver          string
	URL             string
	SQLitePath      string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Open connects the configured backend and ensures its schema.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "none":
		return Nop{}, nil
	case "postgres":
		return OpenPostgres(ctx, cfg)
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

const defaultLimit = 50

func (f Filter) limit() int {
	if f.Limit <= 0 || f.Limit > 500 {
		return defaultLimit
	}
	return f.Limit
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error             { return nil }
func (Nop) List(context.Context, Filter) ([]Entry, error)   { return nil, nil }
func (Nop) Purge(context.Context, time.Time) (int64, error) { return 0, nil }
func (Nop) Close() error                                    { return nil }
