// Package queue owns ContentPost lifecycle state. It is the only
// component that mutates a post's status or scheduled time; the
// orchestrator and driver go through its operations.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chesspress/internal/content"
)

var ErrNotFound = errors.New("post not found")

// StateError reports an operation attempted against a post in an
// incompatible status. The post is left unchanged.
type StateError struct {
	ID     string
	Status content.Status
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("post %s: cannot %s while %s", e.ID, e.Op, e.Status)
}

// Config selects the backing store.
//
// Driver values:
//   - "memory": process-local, lost on restart
//   - "sqlite": durable SQLite database file
//
// An empty driver means "memory".
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the persistence surface. A concrete implementation may be
// in-memory or durable; the queue service layers the state machine and
// locking on top.
//
// ScheduledBetween/CountScheduledBetween cover only posts in the
// scheduled status and must be index-backed, not history scans: they are
// the two read primitives the scheduling engine leans on.
type Store interface {
	Create(ctx context.Context, p *content.Post) error
	Get(ctx context.Context, id string) (*content.Post, error)
	Update(ctx context.Context, p *content.Post) error
	Delete(ctx context.Context, id string) error

	// ScheduledBetween returns scheduled posts with from <= ScheduledAt < to,
	// ascending. A zero from means "since forever".
	ScheduledBetween(ctx context.Context, from, to time.Time) ([]*content.Post, error)
	CountScheduledBetween(ctx context.Context, from, to time.Time) (int, error)

	Close() error
}
