// Package driver owns the clock side of publishing: a cron tick polls
// the queue for due posts and hands them to the orchestrator. The core
// decides when a post should fire; this component makes it happen, and
// after a crash the durable queue's overdue scheduled posts are simply
// picked up by the next tick.
package driver

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"chesspress/internal/orchestrator"
	"chesspress/internal/queue"
	"chesspress/pkg/logx"
)

type Config struct {
	PollSpec    string        // cron spec; "" = every minute
	Workers     int           // concurrent fires; 0 = 2
	FireTimeout time.Duration // whole-fire budget; 0 = 2m
	HistorySize int           // fire history ring; 0 = 200
}

// HistoryItem records one driver-initiated fire for operator
// inspection.
type HistoryItem struct {
	PostID   string
	Started  time.Time
	Duration time.Duration
	Error    string
}

type Service struct {
	mu  sync.Mutex
	cfg Config
	log logx.Logger

	orch *orchestrator.Orchestrator
	q    *queue.Queue

	c      *cron.Cron
	parser cron.Parser
	jobs   chan string
	stopCh chan struct{}
	wg     sync.WaitGroup

	// inFlight dedupes posts already handed to a worker; the queue's
	// status guard is the real double-fire protection, this just avoids
	// churn when a fire outlives a poll interval.
	ifmu     sync.Mutex
	inFlight map[string]struct{}

	hmu     sync.Mutex
	history []HistoryItem
}

func New(cfg Config, orch *orchestrator.Orchestrator, q *queue.Queue, log logx.Logger) *Service {
	return &Service{
		cfg:      cfg,
		log:      log,
		orch:     orch,
		q:        q,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		inFlight: map[string]struct{}{},
	}
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return nil
	}
	s.stopCh = make(chan struct{})

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	s.jobs = make(chan string, 64)

	spec := s.cfg.PollSpec
	if spec == "" {
		spec = "* * * * *"
	}

	s.c = cron.New(cron.WithParser(s.parser))
	if _, err := s.c.AddFunc(spec, func() { s.poll(ctx) }); err != nil {
		return err
	}

	stopCh := s.stopCh
	jobs := s.jobs
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		idx := i
		go func() {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("panic in driver worker", logx.Int("worker", idx), logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
				}
			}()
			s.worker(ctx, stopCh, jobs)
		}()
	}
	s.c.Start()
	s.log.Info("driver started", logx.Int("workers", workers), logx.String("spec", spec))
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	stopCh := s.stopCh
	c := s.c
	s.stopCh = nil
	s.c = nil
	s.mu.Unlock()

	close(stopCh)
	if c != nil {
		<-c.Stop().Done()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		// workers finish in background
	}
	s.log.Info("driver stopped")
}

// poll enqueues every due post. Safe to run repeatedly: posts already
// in flight are skipped and finalized posts fail the queue's status
// guard anyway.
func (s *Service) poll(ctx context.Context) {
	due, err := s.q.Due(ctx, time.Now().UTC())
	if err != nil {
		s.log.Warn("due poll failed", logx.Err(err))
		return
	}
	for _, p := range due {
		s.ifmu.Lock()
		if _, busy := s.inFlight[p.ID]; busy {
			s.ifmu.Unlock()
			continue
		}
		s.inFlight[p.ID] = struct{}{}
		s.ifmu.Unlock()

		select {
		case s.jobs <- p.ID:
		default:
			s.release(p.ID)
			s.log.Warn("driver queue full, post deferred to next tick", logx.String("post", p.ID))
		}
	}
}

func (s *Service) release(id string) {
	s.ifmu.Lock()
	delete(s.inFlight, id)
	s.ifmu.Unlock()
}

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, jobs <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case id := <-jobs:
			s.fireOne(ctx, id)
		}
	}
}

func (s *Service) fireOne(ctx context.Context, id string) {
	defer s.release(id)
	start := time.Now()

	timeout := s.cfg.FireTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := s.orch.Fire(fctx, id)

	item := HistoryItem{PostID: id, Started: start, Duration: time.Since(start)}
	if err != nil {
		item.Error = err.Error()
		s.log.Warn("fire failed", logx.String("post", id), logx.Err(err))
	} else if !report.AnySucceeded {
		item.Error = "all targets failed"
	}

	s.hmu.Lock()
	s.history = append(s.history, item)
	size := s.cfg.HistorySize
	if size <= 0 {
		size = 200
	}
	if len(s.history) > size {
		s.history = s.history[len(s.history)-size:]
	}
	s.hmu.Unlock()
}

// History returns a copy of the recent fire records, oldest first.
func (s *Service) History() []HistoryItem {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	return append([]HistoryItem(nil), s.history...)
}
