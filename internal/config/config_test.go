package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
logging:
  level: debug
  console: true
storage:
  driver: sqlite
  path: ./chesspress.db
  busy_timeout: 2s
publisher:
  default_strategy: standard
  workers: 4
  deliver_timeout: 20s
telegram:
  token: "123:abc"
  channel: "@chesspress"
targets:
  tiktok:
    enabled: false
  telegram:
    credential: "@chesspress_games"
strategies:
  standard:
    min_between_posts: 2h
    max_posts_per_day: 3
    avoid_weekends: true
    plans:
      - target: twitter
        frequency: daily
        categories: [tactics, blitz]
        slots:
          - day: monday
            at: "14:00"
          - day: wed
            at: "09:30"
            timezone: Europe/Berlin
      - target: telegram
        slots:
          - day: friday
            at: "18:15"
`

func TestParseBytesYAML(t *testing.T) {
	t.Parallel()
	cfg, err := ParseBytes("config.yaml", []byte(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, "@chesspress", cfg.Telegram.Channel)
	require.NotNil(t, cfg.Targets["tiktok"].Enabled)
	require.False(t, *cfg.Targets["tiktok"].Enabled)
	require.Equal(t, "@chesspress_games", cfg.Targets["telegram"].Credential)
}

func TestParseBytesRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	_, err := ParseBytes("config.yaml", []byte("logging:\n  levle: debug\nstrategies: {}\n"))
	require.Error(t, err, "typo'd key must be rejected")
}

func TestStrategyListConversion(t *testing.T) {
	t.Parallel()
	cfg, err := ParseBytes("config.yaml", []byte(sampleYAML))
	require.NoError(t, err)

	list, err := cfg.StrategyList()
	require.NoError(t, err)
	require.Len(t, list, 1)

	s := list[0]
	require.Equal(t, "standard", s.Name)
	require.Equal(t, 2*time.Hour, s.Global.MinBetweenPosts)
	require.Equal(t, 3, s.Global.MaxPostsPerDay)
	require.True(t, s.Global.AvoidWeekends)

	plan, ok := s.Plan("twitter")
	require.True(t, ok)
	require.Len(t, plan.Slots, 2)
	require.Equal(t, time.Monday, plan.Slots[0].Weekday)
	require.Equal(t, 14, plan.Slots[0].Hour)
	require.Equal(t, 0, plan.Slots[0].Minute)
	require.Equal(t, time.Wednesday, plan.Slots[1].Weekday)
	require.Equal(t, 9, plan.Slots[1].Hour)
	require.Equal(t, 30, plan.Slots[1].Minute)
	require.Equal(t, "Europe/Berlin", plan.Slots[1].TimeZone)
	require.True(t, plan.Accepts("tactics"))
	require.False(t, plan.Accepts("endgame"))
}

func TestValidateRejectsBadInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "unknown default strategy",
			raw:  "publisher:\n  default_strategy: nope\nstrategies: {}\n",
		},
		{
			name: "bad day name",
			raw:  "strategies:\n  s:\n    plans:\n      - target: twitter\n        slots:\n          - day: funday\n            at: \"10:00\"\n",
		},
		{
			name: "bad clock",
			raw:  "strategies:\n  s:\n    plans:\n      - target: twitter\n        slots:\n          - day: monday\n            at: \"25:00\"\n",
		},
		{
			name: "bad duration",
			raw:  "strategies:\n  s:\n    min_between_posts: fortnight\n    plans: []\n",
		},
		{
			name: "bad storage driver",
			raw:  "storage:\n  driver: postgres\n  path: x\nstrategies: {}\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseBytes("config.yaml", []byte(tt.raw))
			require.NoError(t, err, "parse should succeed, validation should fail")
			require.Error(t, cfg.Validate())
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHESSPRESS_TELEGRAM_TOKEN", "999:zzz")
	t.Setenv("CHESSPRESS_LOG_LEVEL", "warn")
	t.Setenv("CHESSPRESS_STORAGE_PATH", "/var/lib/chesspress/queue.db")

	env, err := LoadEnv(context.Background())
	require.NoError(t, err)

	cfg, err := ParseBytes("config.yaml", []byte(sampleYAML))
	require.NoError(t, err)
	env.ApplyTo(cfg)

	require.Equal(t, "999:zzz", cfg.Telegram.Token)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, "/var/lib/chesspress/queue.db", cfg.Storage.Path)
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationField("x", " 90s ")
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, d)

	d, err = ParseDurationField("x", "")
	require.NoError(t, err)
	require.Zero(t, d)

	_, err = ParseDurationField("x", "-5s")
	require.Error(t, err)

	d, err = ParseDurationOrDefault("x", "", 7*time.Second)
	require.NoError(t, err)
	require.Equal(t, 7*time.Second, d)
}

func TestManagerLoadAndHashDedupe(t *testing.T) {
	t.Parallel()
	cfg, err := ParseBytes("config.yaml", []byte(sampleYAML))
	require.NoError(t, err)

	m := NewManager("config.yaml")
	m.Commit(cfg)
	require.Same(t, cfg, m.Get())

	// Identical content hashes identically; changed content does not.
	same, err := ParseBytes("config.yaml", []byte(sampleYAML))
	require.NoError(t, err)
	require.Equal(t, hashConfig(cfg), hashConfig(same))

	same.Logging.Level = "error"
	require.NotEqual(t, hashConfig(cfg), hashConfig(same))
}
