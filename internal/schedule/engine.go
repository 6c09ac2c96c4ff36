// Package schedule finds the best legal future instant to fire a post.
//
// The engine is a pure function over its inputs: the queue state arrives
// as an explicit Snapshot so the search is independently testable and
// deterministic (no hidden clock, no global registries).
package schedule

import (
	"time"

	"chesspress/internal/strategy"
	"chesspress/pkg/logx"
)

// Origin tells callers whether an instant came from the strategy search
// or from the forward-progress fallback, so telemetry can distinguish
// the two.
type Origin int

const (
	OriginStrategy Origin = iota
	OriginFallback
)

func (o Origin) String() string {
	if o == OriginFallback {
		return "fallback"
	}
	return "strategy"
}

// fallbackDelay keeps posts moving when no slot survives the constraint
// filters.
const fallbackDelay = time.Hour

// searchDays is the calendar horizon for candidate slots: one full week
// guarantees every weekly slot produces at least one candidate date.
const searchDays = 7

// searchWeeks bounds how far a slot is pushed into later weeks when the
// daily cap or spacing constraint rejects it. A full queue for two
// months straight means the fallback is the right answer anyway.
const searchWeeks = 8

// Snapshot is the queue read surface the engine needs. Both methods
// must be cheap (day-indexed), not history scans.
type Snapshot interface {
	// CountForDay counts already-queued posts whose scheduled time falls
	// on the given calendar day, local to day's location.
	CountForDay(day time.Time) int
	// HasNeighborWithin reports whether any queued post is scheduled
	// within the window on either side of at.
	HasNeighborWithin(at time.Time, window time.Duration) bool
}

type Engine struct {
	strategies *strategy.Registry
	log        logx.Logger
}

func New(strategies *strategy.Registry, log logx.Logger) *Engine {
	return &Engine{strategies: strategies, log: log}
}

// FindSlot returns the earliest legal instant for publishing to the
// given targets under the named strategy, or now+1h with OriginFallback
// when no candidate survives. Ties between equal instants resolve in
// plan (registration) order, so results are deterministic.
func (e *Engine) FindSlot(targetIDs []string, category, strategyName string, now time.Time, snap Snapshot) (time.Time, Origin, error) {
	st, err := e.strategies.Get(strategyName)
	if err != nil {
		return time.Time{}, OriginFallback, err
	}

	requested := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		requested[id] = struct{}{}
	}

	var best time.Time
	for _, plan := range st.Plans {
		if _, ok := requested[plan.TargetID]; !ok {
			continue
		}
		if !plan.Accepts(category) {
			continue
		}
		for _, slot := range plan.Slots {
			cand, ok := e.nextCandidate(slot, st.Global, now, snap)
			if ok && (best.IsZero() || cand.Before(best)) {
				best = cand
			}
		}
	}

	if best.IsZero() {
		fb := now.Add(fallbackDelay)
		e.log.Warn("no legal slot, falling back",
			logx.String("strategy", strategyName),
			logx.String("category", category),
			logx.Time("at", fb))
		return fb, OriginFallback, nil
	}
	return best, OriginStrategy, nil
}

// nextCandidate derives the first legal instant for one slot within the
// search horizon, applying the global constraint filters in order:
// future-only, weekend exclusion, daily cap, minimum spacing.
func (e *Engine) nextCandidate(slot strategy.TimeSlot, g strategy.Global, now time.Time, snap Snapshot) (time.Time, bool) {
	loc := now.Location()
	if g.RespectTimeZones {
		loc = slot.Location(loc)
	}
	localNow := now.In(loc)

	for off := 0; off < searchDays; off++ {
		day := localNow.AddDate(0, 0, off)
		if day.Weekday() != slot.Weekday {
			continue
		}
		cand := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, loc)
		if !cand.After(now) {
			// Same weekday but the time already passed; re-derive one
			// week later.
			cand = cand.AddDate(0, 0, 7)
		}
		// A weekly slot keeps its weekday forever, so the weekend
		// exclusion can never be outwaited.
		if g.AvoidWeekends && isWeekend(cand) {
			return time.Time{}, false
		}
		// Cap and spacing rejections are transient: a full Monday pushes
		// the slot to the following Monday, and so on, bounded.
		for week := 0; week < searchWeeks; week++ {
			if g.MaxPostsPerDay > 0 && snap.CountForDay(cand) >= g.MaxPostsPerDay {
				cand = cand.AddDate(0, 0, 7)
				continue
			}
			if g.MinBetweenPosts > 0 && snap.HasNeighborWithin(cand, g.MinBetweenPosts) {
				cand = cand.AddDate(0, 0, 7)
				continue
			}
			return cand, true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
