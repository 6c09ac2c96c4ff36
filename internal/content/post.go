// Package content defines the post entity and its lifecycle states.
//
// Posts are owned by the queue: nothing else mutates Status or
// ScheduledAt. Keep this package free of behavior beyond the model so
// both the in-memory and sqlite stores can persist it verbatim.
package content

import (
	"time"

	"chesspress/internal/game"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further status transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusFailed
}

// Engagement holds per-target metrics fetched after publication.
type Engagement struct {
	Impressions int
	Likes       int
	Shares      int
	Comments    int
	FetchedAt   time.Time
}

// TargetResult records the outcome of one delivery attempt to one target.
type TargetResult struct {
	Target string
	OK     bool
	Error  string
	At     time.Time
}

type Post struct {
	ID       string
	Title    string
	Body     string
	Tags     []string // ordered, duplicates allowed at this layer
	Media    []string // ordered URIs
	Targets  []string // target ids
	Category string

	// ScheduledAt is zero while the post is a draft.
	ScheduledAt time.Time
	Status      Status

	Game    *game.Source
	Metrics map[string]Engagement // keyed by target id
	Results []TargetResult        // set when the post reaches a terminal status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep-enough copy for handing across goroutines: slices
// and maps are copied, the game source is shared (it is immutable).
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Tags = append([]string(nil), p.Tags...)
	cp.Media = append([]string(nil), p.Media...)
	cp.Targets = append([]string(nil), p.Targets...)
	cp.Results = append([]TargetResult(nil), p.Results...)
	if p.Metrics != nil {
		cp.Metrics = make(map[string]Engagement, len(p.Metrics))
		for k, v := range p.Metrics {
			cp.Metrics[k] = v
		}
	}
	return &cp
}
