package queue

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chesspress/internal/content"
)

// memoryStore is the process-local Store. The sched index holds only
// posts currently in the scheduled status, so the engine's range reads
// never touch published/failed history.
type memoryStore struct {
	mu    sync.RWMutex
	posts map[string]*content.Post
	sched map[string]time.Time
}

// NewMemoryStore returns an empty in-memory store. Used for tests and
// for deployments that accept losing the queue on restart.
func NewMemoryStore() Store {
	return &memoryStore{
		posts: map[string]*content.Post{},
		sched: map[string]time.Time{},
	}
}

func (s *memoryStore) Create(_ context.Context, p *content.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.posts[p.ID]; exists {
		return fmt.Errorf("post %s already exists", p.ID)
	}
	s.posts[p.ID] = p.Clone()
	s.reindexLocked(p)
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*content.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *memoryStore) Update(_ context.Context, p *content.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[p.ID]; !ok {
		return fmt.Errorf("%s: %w", p.ID, ErrNotFound)
	}
	s.posts[p.ID] = p.Clone()
	s.reindexLocked(p)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.posts, id)
	delete(s.sched, id)
	return nil
}

func (s *memoryStore) reindexLocked(p *content.Post) {
	if p.Status == content.StatusScheduled {
		s.sched[p.ID] = p.ScheduledAt
	} else {
		delete(s.sched, p.ID)
	}
}

func (s *memoryStore) ScheduledBetween(_ context.Context, from, to time.Time) ([]*content.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*content.Post
	for id, at := range s.sched {
		if inRange(at, from, to) {
			out = append(out, s.posts[id].Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (s *memoryStore) CountScheduledBetween(_ context.Context, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, at := range s.sched {
		if inRange(at, from, to) {
			n++
		}
	}
	return n, nil
}

func inRange(at, from, to time.Time) bool {
	if !from.IsZero() && at.Before(from) {
		return false
	}
	return at.Before(to)
}

func (s *memoryStore) Close() error { return nil }
