// Package store persists tasks. The primary backend is a Google Sheet;
// a SQLite backend exists for local use. Callers treat store failures
// as logged no-ops, never crashes.
package store

import (
	"context"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

// TaskStore reads and appends task rows.
type TaskStore interface {
	// List returns all tasks in row order, with Row assigned.
	List(ctx context.Context) ([]task.Task, error)
	// Append adds a confirmed draft as a new row.
	Append(ctx context.Context, d task.Draft) error
}
