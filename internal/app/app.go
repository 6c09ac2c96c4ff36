// Package app assembles the publisher: config, logging, queue,
// registries, scheduling engine, transports, orchestrator, and the
// firing driver. Everything is constructed here and injected down so
// the domain packages stay free of globals.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"chesspress/internal/config"
	"chesspress/internal/delivery"
	"chesspress/internal/delivery/telegram"
	"chesspress/internal/driver"
	"chesspress/internal/orchestrator"
	"chesspress/internal/queue"
	"chesspress/internal/schedule"
	"chesspress/internal/strategy"
	"chesspress/internal/target"
	"chesspress/internal/telemetry"
	"chesspress/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store      queue.Store
	queue      *queue.Queue
	strategies *strategy.Registry
	targets    *target.Registry
	engine     *schedule.Engine
	mux        *delivery.Mux
	bus        telemetry.Bus
	orch       *orchestrator.Orchestrator
	driver     *driver.Service

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires the whole application from the config file at path, with
// env overrides layered on top. Nothing starts running yet; call Start.
func New(ctx context.Context, path string) (*App, error) {
	env, err := config.LoadEnv(ctx)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = env.ConfigPath
	}

	mgr := config.NewManager(path)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	env.ApplyTo(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	mgr.Commit(cfg)

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	mgr.SetLogger(log.With(logx.String("comp", "config")))
	mgr.SetValidator(func(_ context.Context, c *config.Config) error {
		env.ApplyTo(c)
		return c.Validate()
	})

	a := &App{cfgMgr: mgr, logSvc: logSvc, log: log}
	if err := a.build(ctx, cfg); err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, cfg *config.Config) error {
	// Queue.
	qcfg := queue.Config{}
	if cfg.Storage != nil {
		busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
		if err != nil {
			return err
		}
		qcfg = queue.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path, BusyTimeout: busy}
	}
	store, err := queue.Open(qcfg, a.log.With(logx.String("comp", "store")))
	if err != nil {
		return err
	}
	a.store = store
	a.queue = queue.New(store, a.log.With(logx.String("comp", "queue")))

	// Strategies.
	list, err := cfg.StrategyList()
	if err != nil {
		return err
	}
	a.strategies, err = strategy.NewRegistry(list...)
	if err != nil {
		return err
	}

	// Targets.
	a.targets = target.NewRegistry(target.Builtin()...)
	if err := a.applyTargets(cfg); err != nil {
		return err
	}

	a.engine = schedule.New(a.strategies, a.log.With(logx.String("comp", "schedule")))
	a.bus = telemetry.New()

	// Transports. Telegram is the built-in one; embedders register more
	// on the mux before Start.
	a.mux = delivery.NewMux()
	if strings.TrimSpace(cfg.Telegram.Token) != "" {
		td, err := telegram.New(telegram.Config{Token: cfg.Telegram.Token}, a.log.With(logx.String("comp", "telegram")))
		if err != nil {
			return fmt.Errorf("telegram transport: %w", err)
		}
		a.mux.Register("telegram", td)
	} else {
		a.log.Warn("telegram token not set; telegram deliveries will fail")
	}

	deliverTimeout, err := config.ParseDurationOrDefault("publisher.deliver_timeout", cfg.Publisher.DeliverTimeout, 30*time.Second)
	if err != nil {
		return err
	}
	var deliverer delivery.Deliverer = delivery.NewRateLimited(a.mux, cfg.Publisher.RatePerSec, cfg.Publisher.RateBurst)

	a.orch = orchestrator.New(orchestrator.Config{
		Workers:         cfg.Publisher.Workers,
		DeliverTimeout:  deliverTimeout,
		DefaultStrategy: cfg.Publisher.DefaultStrategy,
		BoardImageBase:  cfg.Publisher.BoardImageBase,
	}, a.targets, a.engine, a.queue, deliverer, a.bus, a.log.With(logx.String("comp", "orchestrator")))

	if cfg.DriverEnabled() {
		dcfg := driver.Config{}
		if cfg.Driver != nil {
			fireTimeout, err := config.ParseDurationOrDefault("driver.fire_timeout", cfg.Driver.FireTimeout, 2*time.Minute)
			if err != nil {
				return err
			}
			dcfg.PollSpec = cfg.Driver.PollSpec
			dcfg.Workers = cfg.Driver.Workers
			dcfg.FireTimeout = fireTimeout
			dcfg.HistorySize = cfg.Driver.HistorySize
		}
		a.driver = driver.New(dcfg, a.orch, a.queue, a.log.With(logx.String("comp", "driver")))
	}
	return nil
}

// applyTargets pushes config overrides into the adapter registry.
// Unknown target ids are an error so a typo can't silently disable the
// wrong platform.
func (a *App) applyTargets(cfg *config.Config) error {
	if ch := strings.TrimSpace(cfg.Telegram.Channel); ch != "" {
		if err := a.targets.SetCredential("telegram", ch); err != nil {
			return err
		}
	}
	for id, tc := range cfg.Targets {
		if tc.Enabled != nil {
			if err := a.targets.SetEnabled(id, *tc.Enabled); err != nil {
				return fmt.Errorf("targets.%s: %w", id, err)
			}
		}
		if ref := strings.TrimSpace(tc.Credential); ref != "" {
			if err := a.targets.SetCredential(id, ref); err != nil {
				return fmt.Errorf("targets.%s: %w", id, err)
			}
		}
	}
	return nil
}

// Start launches the config watcher, the reload loop, and the firing
// driver.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgMgr.Watch(runCtx)
	}()

	updates := a.cfgMgr.Subscribe(1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.cfgMgr.Unsubscribe(updates)
		for {
			select {
			case <-runCtx.Done():
				return
			case cfg, ok := <-updates:
				if !ok {
					return
				}
				a.applyConfig(cfg)
			}
		}
	}()

	if a.driver != nil {
		if err := a.driver.Start(runCtx); err != nil {
			cancel()
			return err
		}
	}
	a.log.Info("publisher started",
		logx.Strings("targets", a.targets.IDs()),
		logx.Strings("strategies", a.strategies.Names()),
		logx.Bool("driver", a.driver != nil))
	return nil
}

// applyConfig handles a validated hot reload. Only the dynamic parts
// move: log level and sinks, strategies, target overrides. Storage and
// transports need a restart.
func (a *App) applyConfig(cfg *config.Config) {
	a.logSvc.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	list, err := cfg.StrategyList()
	if err == nil {
		err = a.strategies.Replace(list)
	}
	if err != nil {
		// Validator should have caught this; keep the old set.
		a.log.Warn("strategy reload failed", logx.Err(err))
	}

	if err := a.applyTargets(cfg); err != nil {
		a.log.Warn("target reload failed", logx.Err(err))
	}

	a.log.Info("config reloaded",
		logx.Strings("strategies", a.strategies.Names()),
		logx.String("log_level", cfg.Logging.Level))
}

// Stop shuts everything down in reverse order of Start.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.driver != nil {
		a.driver.Stop(ctx)
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	select {
	case <-time.After(10 * time.Millisecond):
		// give in-flight log writes a beat before sinks close
	case <-ctx.Done():
	}

	if err := a.queue.Close(); err != nil {
		a.log.Warn("queue close failed", logx.Err(err))
	}
	a.log.Info("publisher stopped")
	_ = a.logSvc.Close()
}

// Orchestrator exposes the publishing API to embedders and the CLI.
func (a *App) Orchestrator() *orchestrator.Orchestrator { return a.orch }

// Queue exposes the post queue for inspection tooling.
func (a *App) Queue() *queue.Queue { return a.queue }

// Telemetry exposes the fire-attempt event bus.
func (a *App) Telemetry() telemetry.Bus { return a.bus }

// Deliveries exposes the transport mux so embedders can register
// deliverers for targets beyond the built-in telegram one.
func (a *App) Deliveries() *delivery.Mux { return a.mux }
