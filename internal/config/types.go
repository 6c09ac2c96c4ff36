package config

type Config struct {
	Logging LoggingConfig `json:"logging"`

	// Storage selects the post queue backend. Omitted = in-memory
	// (posts are lost on restart).
	Storage *StorageConfig `json:"storage,omitempty"`

	Publisher PublisherConfig `json:"publisher"`

	// Driver controls the cron poller that fires due posts. If the
	// whole section is omitted the driver defaults to enabled.
	Driver *DriverConfig `json:"driver,omitempty"`

	Telegram TelegramConfig `json:"telegram"`

	// Targets overrides per-platform settings keyed by target id
	// ("twitter", "telegram", ...). Platforms not listed keep their
	// built-in defaults and stay enabled.
	Targets map[string]TargetConfig `json:"targets,omitempty"`

	// Strategies defines the named posting policies, keyed by name.
	Strategies map[string]StrategyConfig `json:"strategies"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the persistence layer.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./chesspress.db" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// PublisherConfig controls post derivation and fire-time fan-out.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type PublisherConfig struct {
	Workers int `json:"workers,omitempty"` // fan-out pool; default 4

	// DeliverTimeout bounds a single target delivery. "0s" keeps the
	// built-in default (30s).
	DeliverTimeout string `json:"deliver_timeout,omitempty"`

	DefaultStrategy string `json:"default_strategy"`

	// BoardImageBase is the URL prefix for derived board diagrams.
	BoardImageBase string `json:"board_image_base,omitempty"`

	// RatePerSec and RateBurst shape the per-target delivery rate
	// limit. Zero keeps the defaults (1/s, burst 1).
	RatePerSec float64 `json:"rate_per_sec,omitempty"`
	RateBurst  int     `json:"rate_burst,omitempty"`
}

// DriverConfig controls the due-post poller.
type DriverConfig struct {
	// Enabled is a pointer so an omitted field (default true) is
	// distinguishable from an explicit false.
	Enabled *bool `json:"enabled,omitempty"`

	// PollSpec is a 5-field cron expression; omitted = every minute.
	PollSpec string `json:"poll_spec,omitempty"`

	Workers int `json:"workers,omitempty"`

	// FireTimeout is a Go duration string bounding one whole fire.
	FireTimeout string `json:"fire_timeout,omitempty"`

	HistorySize int `json:"history_size,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// Channel is the default chat the telegram target posts to
	// ("@channel" or a numeric chat id). Overridable per target via
	// targets.telegram.credential.
	Channel string `json:"channel"`
}

type TargetConfig struct {
	// Enabled is a pointer so an omitted field (default true) is
	// distinguishable from an explicit false.
	Enabled *bool `json:"enabled,omitempty"`
	// Credential is the opaque platform handle (chat id, page id,
	// account ref). Secrets themselves stay out of the config file.
	Credential string `json:"credential,omitempty"`
}

// StrategyConfig is the on-disk shape of one posting policy.
type StrategyConfig struct {
	Plans []PlanConfig `json:"plans"`

	// MinBetweenPosts is a Go duration string; the symmetric spacing
	// window around existing scheduled posts.
	MinBetweenPosts  string `json:"min_between_posts,omitempty"`
	MaxPostsPerDay   int    `json:"max_posts_per_day,omitempty"`
	RespectTimezones bool   `json:"respect_timezones,omitempty"`
	AvoidWeekends    bool   `json:"avoid_weekends,omitempty"`
}

type PlanConfig struct {
	Target     string       `json:"target"`
	Slots      []SlotConfig `json:"slots"`
	Frequency  string       `json:"frequency,omitempty"`
	Categories []string     `json:"categories,omitempty"`
}

// SlotConfig is a weekly posting window: day name plus "HH:MM".
type SlotConfig struct {
	Day      string `json:"day"`
	At       string `json:"at"`
	Timezone string `json:"timezone,omitempty"`
}
