package strategy

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNotFound = errors.New("strategy not found")

// Registry is the named strategy store. Populated at startup from
// config, optionally extended at runtime; constructed explicitly and
// injected so parallel test instances never share state.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Strategy
}

func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{byName: map[string]Strategy{}}
	for _, s := range strategies {
		if err := r.Add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Add(s Strategy) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[s.Name]; exists {
		return fmt.Errorf("strategy %q already registered", s.Name)
	}
	r.byName[s.Name] = s
	return nil
}

// Update replaces an existing strategy or adds a new one.
func (r *Registry) Update(s Strategy) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[s.Name] = s
	return nil
}

func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; !exists {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(r.byName, name)
	return nil
}

func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	if !ok {
		return Strategy{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return s, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	return names
}

// Replace swaps the whole strategy set atomically (config reload path).
func (r *Registry) Replace(strategies []Strategy) error {
	next := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := next[s.Name]; dup {
			return fmt.Errorf("strategy %q defined twice", s.Name)
		}
		next[s.Name] = s
	}
	r.mu.Lock()
	r.byName = next
	r.mu.Unlock()
	return nil
}
