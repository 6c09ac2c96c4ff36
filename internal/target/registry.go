package target

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNotFound = errors.New("target adapter not found")

// Registry maps target ids to adapters. Registration order is preserved
// (the scheduling engine uses it as a deterministic tie-break) and the
// last registration for an id wins, which supports test overrides.
//
// Enable/disable and credential updates live here rather than on the
// adapters so the adapters themselves stay pure configuration.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	adapters map[string]Adapter
	disabled map[string]bool
	creds    map[string]string
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{
		adapters: map[string]Adapter{},
		disabled: map[string]bool{},
		creds:    map[string]string{},
	}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Builtin returns every adapter variant this build knows about, in the
// canonical registration order.
func Builtin() []Adapter {
	return []Adapter{Twitter(), Instagram(), Facebook(), LinkedIn(), TikTok(), Telegram()}
}

func (r *Registry) Register(a Adapter) {
	id := a.Target().ID
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[id]; !exists {
		r.order = append(r.order, id)
	}
	r.adapters[id] = a
	if !a.Target().Enabled {
		r.disabled[id] = true
	}
	if ref := a.Target().CredentialRef; ref != "" {
		r.creds[id] = ref
	}
}

func (r *Registry) Get(id string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return a, nil
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.adapters[id])
	}
	return out
}

func (r *Registry) Enabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.adapters[id]
	return exists && !r.disabled[id]
}

func (r *Registry) SetEnabled(id string, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[id]; !ok {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if on {
		delete(r.disabled, id)
	} else {
		r.disabled[id] = true
	}
	return nil
}

// SetCredential updates the opaque credential handle for a target. The
// secret itself is owned externally; we only route the reference.
func (r *Registry) SetCredential(id, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[id]; !ok {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	r.creds[id] = ref
	return nil
}

func (r *Registry) Credential(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.creds[id]
}
