package queue

import (
	"fmt"
	"strings"

	"chesspress/pkg/logx"
)

// Open builds the configured Store. Unknown drivers are a startup
// error, not a silent fallback.
func Open(cfg Config, log logx.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}
