// Package orchestrator turns source games into posts and fans fire-time
// deliveries out across targets. It owns no state of its own: posts live
// in the queue, adapters in the registry, transports behind the injected
// deliverer.
package orchestrator

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"chesspress/internal/content"
	"chesspress/internal/delivery"
	"chesspress/internal/game"
	"chesspress/internal/queue"
	"chesspress/internal/schedule"
	"chesspress/internal/target"
	"chesspress/internal/telemetry"
	"chesspress/pkg/logx"
)

type Config struct {
	Workers         int           // fan-out pool cap; 0 = 4
	DeliverTimeout  time.Duration // per-target delivery timeout; 0 = 30s
	DefaultStrategy string
	BoardImageBase  string // template base for derived board diagrams
}

type Orchestrator struct {
	cfg      Config
	adapters *target.Registry
	engine   *schedule.Engine
	q        *queue.Queue
	deliver  delivery.Deliverer
	bus      telemetry.Bus
	log      logx.Logger

	// now is swappable for tests.
	now func() time.Time
}

func New(cfg Config, adapters *target.Registry, engine *schedule.Engine, q *queue.Queue, deliver delivery.Deliverer, bus telemetry.Bus, log logx.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.DeliverTimeout <= 0 {
		cfg.DeliverTimeout = 30 * time.Second
	}
	return &Orchestrator{
		cfg:      cfg,
		adapters: adapters,
		engine:   engine,
		q:        q,
		deliver:  deliver,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}
}

// SetNow overrides the clock. Test hook.
func (o *Orchestrator) SetNow(fn func() time.Time) { o.now = fn }

// Options controls post derivation in CreateFromSource.
type Options struct {
	Title        string // empty = derived from the game
	Targets      []string
	Category     string
	Strategy     string // empty = configured default
	IncludeMedia bool
	Media        []string // explicit media URIs; board diagram derived when empty and IncludeMedia is set
	ExplicitAt   time.Time
}

// CreateFromSource derives a post from a game, finds a firing instant
// (explicit or via the scheduling engine), and creates it scheduled in
// the queue. A missing strategy surfaces before anything is persisted.
func (o *Orchestrator) CreateFromSource(ctx context.Context, src game.Source, opts Options) (*content.Post, error) {
	targets := opts.Targets
	if len(targets) == 0 {
		for _, id := range o.adapters.IDs() {
			if o.adapters.Enabled(id) {
				targets = append(targets, id)
			}
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets to publish to")
	}

	category := opts.Category
	if category == "" {
		category = "analysis"
	}

	title, body := game.Narrate(src)
	if opts.Title != "" {
		title = opts.Title
	}

	media := opts.Media
	if opts.IncludeMedia && len(media) == 0 && src.PositionKey != "" {
		media = []string{o.boardImageURI(src.PositionKey)}
	}

	at := opts.ExplicitAt
	if at.IsZero() {
		strategyName := opts.Strategy
		if strategyName == "" {
			strategyName = o.cfg.DefaultStrategy
		}
		now := o.now().UTC()
		slot, origin, err := o.engine.FindSlot(targets, category, strategyName, now, o.q.Snapshot(ctx))
		if err != nil {
			return nil, err
		}
		if origin == schedule.OriginFallback {
			o.log.Warn("scheduling fell back to now+1h", logx.String("strategy", strategyName))
		}
		at = slot
	}

	p := &content.Post{
		Title:    title,
		Body:     body,
		Tags:     game.Tags(src),
		Media:    media,
		Targets:  targets,
		Category: category,
		Game:     &src,
	}
	id, err := o.q.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := o.q.Schedule(ctx, id, at); err != nil {
		return nil, err
	}
	return o.q.Get(ctx, id)
}

// Republish clones a failed post into a fresh one targeting only the
// targets that failed, scheduled immediately. The original keeps its
// terminal status and result history.
func (o *Orchestrator) Republish(ctx context.Context, postID string) (*content.Post, error) {
	p, err := o.q.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.Status != content.StatusFailed {
		return nil, &queue.StateError{ID: postID, Status: p.Status, Op: "republish"}
	}

	var failed []string
	for _, r := range p.Results {
		if !r.OK {
			failed = append(failed, r.Target)
		}
	}
	if len(failed) == 0 {
		return nil, fmt.Errorf("post %s has no failed targets", postID)
	}

	clone := p.Clone()
	clone.ID = ""
	clone.Targets = failed
	clone.Results = nil
	clone.Metrics = nil

	id, err := o.q.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	if err := o.q.Schedule(ctx, id, o.now().UTC()); err != nil {
		return nil, err
	}
	o.log.Info("republish created", logx.String("from", postID), logx.String("post", id), logx.Strings("targets", failed))
	return o.q.Get(ctx, id)
}

func (o *Orchestrator) boardImageURI(positionKey string) string {
	base := o.cfg.BoardImageBase
	if base == "" {
		base = "https://img.chesspress.io/board"
	}
	return base + "/" + url.PathEscape(positionKey) + ".png"
}
