package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chesspress/internal/strategy"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

func parseWeekday(raw string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("unknown day %q", raw)
	}
	return d, nil
}

// parseClock splits "HH:MM" into hour and minute.
func parseClock(raw string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time %q is not HH:MM", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("time %q: bad hour", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time %q: bad minute", raw)
	}
	return h, m, nil
}

// Strategies converts the config sections into typed strategies, ready
// for the registry. The conversion validates slot syntax; semantic
// validation (zones, ranges) happens in strategy.Validate.
func (c *Config) StrategyList() ([]strategy.Strategy, error) {
	out := make([]strategy.Strategy, 0, len(c.Strategies))
	for name, sc := range c.Strategies {
		s, err := sc.toStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (sc StrategyConfig) toStrategy(name string) (strategy.Strategy, error) {
	minBetween, err := ParseDurationField("strategies."+name+".min_between_posts", sc.MinBetweenPosts)
	if err != nil {
		return strategy.Strategy{}, err
	}

	s := strategy.Strategy{
		Name: name,
		Global: strategy.Global{
			MinBetweenPosts:  minBetween,
			MaxPostsPerDay:   sc.MaxPostsPerDay,
			RespectTimeZones: sc.RespectTimezones,
			AvoidWeekends:    sc.AvoidWeekends,
		},
	}
	for _, pc := range sc.Plans {
		plan := strategy.Plan{
			TargetID:   strings.TrimSpace(pc.Target),
			Frequency:  pc.Frequency,
			Categories: pc.Categories,
		}
		for _, slc := range pc.Slots {
			day, err := parseWeekday(slc.Day)
			if err != nil {
				return strategy.Strategy{}, fmt.Errorf("strategy %q target %q: %w", name, pc.Target, err)
			}
			h, m, err := parseClock(slc.At)
			if err != nil {
				return strategy.Strategy{}, fmt.Errorf("strategy %q target %q: %w", name, pc.Target, err)
			}
			plan.Slots = append(plan.Slots, strategy.TimeSlot{
				Weekday:  day,
				Hour:     h,
				Minute:   m,
				TimeZone: strings.TrimSpace(slc.Timezone),
			})
		}
		s.Plans = append(s.Plans, plan)
	}
	if err := s.Validate(); err != nil {
		return strategy.Strategy{}, err
	}
	return s, nil
}

// Validate checks everything that can fail at boot rather than at
// fire time. Used directly and as the hot-reload validator.
func (c *Config) Validate() error {
	if _, err := c.StrategyList(); err != nil {
		return err
	}
	if def := strings.TrimSpace(c.Publisher.DefaultStrategy); def != "" {
		if _, ok := c.Strategies[def]; !ok {
			return fmt.Errorf("publisher.default_strategy %q is not defined", def)
		}
	}
	if _, err := ParseDurationField("publisher.deliver_timeout", c.Publisher.DeliverTimeout); err != nil {
		return err
	}
	if c.Storage != nil {
		switch strings.TrimSpace(c.Storage.Driver) {
		case "", "memory", "sqlite":
		default:
			return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
		}
		if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	if c.Driver != nil {
		if _, err := ParseDurationField("driver.fire_timeout", c.Driver.FireTimeout); err != nil {
			return err
		}
	}
	return nil
}

// DriverEnabled reports whether the due-post poller should run.
// Omitted section or omitted flag defaults to enabled.
func (c *Config) DriverEnabled() bool {
	if c.Driver == nil || c.Driver.Enabled == nil {
		return true
	}
	return *c.Driver.Enabled
}
