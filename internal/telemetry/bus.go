// Package telemetry fans out per-target publish-attempt records to
// external consumers (dashboards, alerting) without coupling the
// orchestrator to any sink.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

type Outcome string

const (
	OutcomeDelivered        Outcome = "delivered"
	OutcomeAdapterMissing   Outcome = "adapter_missing"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeDeliveryFailed   Outcome = "delivery_failed"
	OutcomeTargetDisabled   Outcome = "target_disabled"
)

// Event is one fire attempt against one target.
type Event struct {
	PostID  string
	Target  string
	Outcome Outcome
	Detail  string // error text, empty on success
	At      time.Time
}

// Bus is an in-memory fanout.
//
// Contract:
//   - Publish MUST be non-blocking.
//   - Subscribers MUST use buffered channels.
//   - Slow subscribers may drop events (bounded backpressure).
type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns a simple in-memory fanout bus. It intentionally does not
// own any background goroutines.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	// Snapshot subscribers so Publish doesn't hold locks while attempting sends.
	b.mu.RLock()
	chs := make([]chan Event, 0, len(b.subs))
	for _, ch := range b.subs {
		chs = append(chs, ch)
	}
	b.mu.RUnlock()

	for _, ch := range chs {
		// Non-blocking delivery. If a subscriber unsubscribes concurrently
		// and the channel closes, recover from the send panic.
		func() {
			defer func() { _ = recover() }()
			select {
			case ch <- e:
			default:
			}
		}()
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			// Closing is safe because Publish recovers from send panics.
			close(ch)
		})
	}
	return ch, unsub
}
