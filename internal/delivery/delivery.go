// Package delivery defines the injected "deliver" capability: the one
// boundary where adapted content leaves the process. The core never
// assumes a delivery succeeded; whatever the transport reports is what
// gets recorded.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chesspress/internal/target"
)

var ErrNoDeliverer = errors.New("no deliverer for target")

// Payload is the adapted content handed to a transport.
type Payload struct {
	Title string
	Body  string
	Tags  []string
	Media []string
}

type Deliverer interface {
	Deliver(ctx context.Context, t target.Target, p Payload) error
}

// Func adapts a plain function to the Deliverer interface.
type Func func(ctx context.Context, t target.Target, p Payload) error

func (f Func) Deliver(ctx context.Context, t target.Target, p Payload) error {
	return f(ctx, t, p)
}

// Mux routes deliveries by target id. Targets without a registered
// transport fail with ErrNoDeliverer; retry policy, if any, belongs to
// the caller.
type Mux struct {
	mu sync.RWMutex
	m  map[string]Deliverer
}

func NewMux() *Mux {
	return &Mux{m: map[string]Deliverer{}}
}

func (x *Mux) Register(targetID string, d Deliverer) {
	x.mu.Lock()
	x.m[targetID] = d
	x.mu.Unlock()
}

func (x *Mux) Deliver(ctx context.Context, t target.Target, p Payload) error {
	x.mu.RLock()
	d := x.m[t.ID]
	x.mu.RUnlock()
	if d == nil {
		return fmt.Errorf("%q: %w", t.ID, ErrNoDeliverer)
	}
	return d.Deliver(ctx, t, p)
}
