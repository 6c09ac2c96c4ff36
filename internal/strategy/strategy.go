// Package strategy holds declarative posting policies: per-target
// preferred time slots plus global pacing constraints. Strategies are
// configuration; the scheduling engine interprets them.
package strategy

import (
	"fmt"
	"time"
)

// TimeSlot is a recurring weekly posting window for one target.
// Immutable value.
type TimeSlot struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	TimeZone string // IANA id; empty = engine default
}

func (s TimeSlot) Validate() error {
	if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
		return fmt.Errorf("weekday %d out of range", s.Weekday)
	}
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("hour %d out of range", s.Hour)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("minute %d out of range", s.Minute)
	}
	if s.TimeZone != "" {
		if _, err := time.LoadLocation(s.TimeZone); err != nil {
			return fmt.Errorf("timezone %q: %w", s.TimeZone, err)
		}
	}
	return nil
}

// Location resolves the slot's zone, falling back when unset.
func (s TimeSlot) Location(fallback *time.Location) *time.Location {
	if s.TimeZone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return fallback
	}
	return loc
}

// Plan is one target's entry in a strategy.
type Plan struct {
	TargetID   string
	Slots      []TimeSlot
	Frequency  string   // informational frequency class ("daily", "weekly", ...)
	Categories []string // accepted content categories; empty or "all" = everything
}

// Accepts reports whether the plan takes content of the given category.
func (p Plan) Accepts(category string) bool {
	if len(p.Categories) == 0 {
		return true
	}
	for _, c := range p.Categories {
		if c == "all" || c == category {
			return true
		}
	}
	return false
}

// Global are the strategy-wide pacing constraints.
type Global struct {
	MinBetweenPosts  time.Duration
	MaxPostsPerDay   int
	RespectTimeZones bool
	AvoidWeekends    bool
}

type Strategy struct {
	Name   string
	Plans  []Plan
	Global Global
}

func (s Strategy) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("strategy name is required")
	}
	for _, p := range s.Plans {
		if p.TargetID == "" {
			return fmt.Errorf("strategy %q: plan with empty target", s.Name)
		}
		for i, slot := range p.Slots {
			if err := slot.Validate(); err != nil {
				return fmt.Errorf("strategy %q target %q slot %d: %w", s.Name, p.TargetID, i, err)
			}
		}
	}
	return nil
}

// Plan returns the entry for a target id, if present.
func (s Strategy) Plan(targetID string) (Plan, bool) {
	for _, p := range s.Plans {
		if p.TargetID == targetID {
			return p, true
		}
	}
	return Plan{}, false
}
