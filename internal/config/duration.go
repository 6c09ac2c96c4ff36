package config

import (
	"fmt"
	"strings"
	"time"
)

// Timeouts and spacing windows in the config file are Go duration
// strings ("90s", "2m"). An absent or empty field parses to zero; what
// zero means (disabled, or a built-in default) is the caller's call.

// ParseDurationField parses raw as a non-negative duration. path is
// the dotted config key, used only for error messages.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with def substituted
// for an empty or zero field, for keys where zero is not a meaningful
// setting.
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
