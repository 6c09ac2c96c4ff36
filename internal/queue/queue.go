package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"chesspress/internal/content"
	"chesspress/pkg/logx"
)

// Queue layers the post state machine on a Store. All mutations are
// mutually exclusive per post id, which is what prevents a late cancel
// from racing a concurrent fire.
type Queue struct {
	store Store
	log   logx.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store Store, log logx.Logger) *Queue {
	return &Queue{store: store, log: log, locks: map[string]*sync.Mutex{}}
}

func (q *Queue) lock(id string) func() {
	q.mu.Lock()
	l, ok := q.locks[id]
	if !ok {
		l = &sync.Mutex{}
		q.locks[id] = l
	}
	q.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (q *Queue) forget(id string) {
	q.mu.Lock()
	delete(q.locks, id)
	q.mu.Unlock()
}

// Create stores a new draft post and returns its id. An empty id is
// assigned; a caller-provided id is kept (useful in tests).
func (q *Queue) Create(ctx context.Context, p *content.Post) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.Status = content.StatusDraft
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := q.store.Create(ctx, p); err != nil {
		return "", err
	}
	q.log.Debug("post created", logx.String("post", p.ID), logx.Strings("targets", p.Targets))
	return p.ID, nil
}

func (q *Queue) Get(ctx context.Context, id string) (*content.Post, error) {
	return q.store.Get(ctx, id)
}

// Schedule assigns a firing instant. Draft posts become scheduled;
// calling it on an already-scheduled post behaves like Reschedule.
func (q *Queue) Schedule(ctx context.Context, id string, at time.Time) error {
	defer q.lock(id)()
	p, err := q.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != content.StatusDraft && p.Status != content.StatusScheduled {
		return &StateError{ID: id, Status: p.Status, Op: "schedule"}
	}
	p.ScheduledAt = at
	p.Status = content.StatusScheduled
	p.UpdatedAt = time.Now().UTC()
	if err := q.store.Update(ctx, p); err != nil {
		return err
	}
	q.log.Info("post scheduled", logx.String("post", id), logx.Time("at", at))
	return nil
}

// Reschedule moves an already-scheduled post to a new instant. It is an
// error on any other status.
func (q *Queue) Reschedule(ctx context.Context, id string, at time.Time) error {
	defer q.lock(id)()
	p, err := q.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != content.StatusScheduled {
		return &StateError{ID: id, Status: p.Status, Op: "reschedule"}
	}
	p.ScheduledAt = at
	p.UpdatedAt = time.Now().UTC()
	if err := q.store.Update(ctx, p); err != nil {
		return err
	}
	q.log.Info("post rescheduled", logx.String("post", id), logx.Time("at", at))
	return nil
}

// Cancel removes a draft or scheduled post from the queue. Terminal
// posts stay put.
func (q *Queue) Cancel(ctx context.Context, id string) error {
	defer q.lock(id)()
	p, err := q.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Status.Terminal() {
		return &StateError{ID: id, Status: p.Status, Op: "cancel"}
	}
	if err := q.store.Delete(ctx, id); err != nil {
		return err
	}
	q.forget(id)
	q.log.Info("post cancelled", logx.String("post", id))
	return nil
}

// MarkPublished finalizes a fully-successful fire. Only a scheduled post
// may transition; this is the guard against double-firing.
func (q *Queue) MarkPublished(ctx context.Context, id string, results []content.TargetResult) error {
	return q.finalize(ctx, id, content.StatusPublished, results)
}

// MarkFailed finalizes a fire where at least one target failed. The full
// per-target result list is preserved so callers can republish to the
// failed subset only.
func (q *Queue) MarkFailed(ctx context.Context, id string, results []content.TargetResult) error {
	return q.finalize(ctx, id, content.StatusFailed, results)
}

func (q *Queue) finalize(ctx context.Context, id string, status content.Status, results []content.TargetResult) error {
	defer q.lock(id)()
	p, err := q.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != content.StatusScheduled {
		return &StateError{ID: id, Status: p.Status, Op: "mark " + string(status)}
	}
	p.Status = status
	p.Results = results
	p.UpdatedAt = time.Now().UTC()
	if err := q.store.Update(ctx, p); err != nil {
		return err
	}
	// Terminal posts take no further status transitions; dropping the
	// lock entry keeps the map from growing for the process lifetime.
	q.forget(id)
	return nil
}

// RecordEngagement attaches fetched per-target metrics to a post. Any
// status is allowed; metrics arrive after publication.
func (q *Queue) RecordEngagement(ctx context.Context, id, targetID string, m content.Engagement) error {
	defer q.lock(id)()
	p, err := q.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Metrics == nil {
		p.Metrics = map[string]content.Engagement{}
	}
	p.Metrics[targetID] = m
	p.UpdatedAt = time.Now().UTC()
	return q.store.Update(ctx, p)
}

// Upcoming returns scheduled posts due at or before now+within,
// ascending. Upcoming(now, 0) is the "due now" read the firing driver
// polls; it is safe to call repeatedly because the terminal-status guard
// prevents re-firing.
func (q *Queue) Upcoming(ctx context.Context, now time.Time, within time.Duration) ([]*content.Post, error) {
	// Stores hold millisecond precision; pad the exclusive upper bound so
	// a post scheduled at exactly now is due now.
	return q.store.ScheduledBetween(ctx, time.Time{}, now.Add(within).Add(time.Millisecond))
}

// Due is shorthand for Upcoming(now, 0).
func (q *Queue) Due(ctx context.Context, now time.Time) ([]*content.Post, error) {
	return q.Upcoming(ctx, now, 0)
}

// CountForDay counts scheduled posts on the calendar day containing day,
// local to day's location.
func (q *Queue) CountForDay(ctx context.Context, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return q.store.CountScheduledBetween(ctx, start, start.AddDate(0, 0, 1))
}

// HasNeighborWithin reports whether any scheduled post sits within the
// window on either side of at (the spacing constraint is symmetric).
func (q *Queue) HasNeighborWithin(ctx context.Context, at time.Time, window time.Duration) (bool, error) {
	n, err := q.store.CountScheduledBetween(ctx, at.Add(-window), at.Add(window).Add(time.Millisecond))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Snapshot adapts the queue to the scheduling engine's read surface.
// Store errors degrade to "no conflict" with a warning: scheduling a
// post a little too close beats failing creation outright.
func (q *Queue) Snapshot(ctx context.Context) *Snapshot {
	return &Snapshot{ctx: ctx, q: q}
}

type Snapshot struct {
	ctx context.Context
	q   *Queue
}

func (s *Snapshot) CountForDay(day time.Time) int {
	n, err := s.q.CountForDay(s.ctx, day)
	if err != nil {
		s.q.log.Warn("day count unavailable", logx.Err(err))
		return 0
	}
	return n
}

func (s *Snapshot) HasNeighborWithin(at time.Time, window time.Duration) bool {
	ok, err := s.q.HasNeighborWithin(s.ctx, at, window)
	if err != nil {
		s.q.log.Warn("neighbor check unavailable", logx.Err(err))
		return false
	}
	return ok
}

func (q *Queue) Close() error { return q.store.Close() }
