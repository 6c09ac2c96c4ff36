package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Env holds boot-time overrides. The config file stays the source of
// truth for structure; env vars cover the deployment-specific bits
// (paths and secrets) that should not live in a checked-in file.
type Env struct {
	ConfigPath    string `env:"CHESSPRESS_CONFIG,default=config.yaml"`
	TelegramToken string `env:"CHESSPRESS_TELEGRAM_TOKEN"`
	LogLevel      string `env:"CHESSPRESS_LOG_LEVEL"`
	StoragePath   string `env:"CHESSPRESS_STORAGE_PATH"`
}

func LoadEnv(ctx context.Context) (*Env, error) {
	e := &Env{}
	if err := envconfig.Process(ctx, e); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return e, nil
}

// ApplyTo layers env overrides onto a parsed config.
func (e *Env) ApplyTo(cfg *Config) {
	if tok := strings.TrimSpace(e.TelegramToken); tok != "" {
		cfg.Telegram.Token = tok
	}
	if lvl := strings.TrimSpace(e.LogLevel); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if p := strings.TrimSpace(e.StoragePath); p != "" {
		if cfg.Storage == nil {
			cfg.Storage = &StorageConfig{Driver: "sqlite"}
		}
		cfg.Storage.Path = p
	}
}
