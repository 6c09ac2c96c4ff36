package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"chesspress/internal/content"
	"chesspress/internal/delivery"
	"chesspress/internal/queue"
	"chesspress/internal/target"
	"chesspress/internal/telemetry"
	"chesspress/pkg/logx"
)

// Report aggregates one fire across all attempted targets.
type Report struct {
	PostID       string
	AnySucceeded bool
	PerTarget    []content.TargetResult
}

// Fire attempts delivery to every target of a scheduled post.
func (o *Orchestrator) Fire(ctx context.Context, postID string) (Report, error) {
	return o.FireTargets(ctx, postID, nil)
}

// FireTargets fires a subset of the post's targets (nil = all). The
// post ends published only when every attempted target succeeded;
// otherwise failed, with the full per-target result list preserved.
//
// Failures are isolated: one target's missing adapter, validation
// violation, or delivery error never aborts the others. Cancellation is
// not observed once the fan-out has begun; in-flight deliveries run to
// completion or per-target timeout.
func (o *Orchestrator) FireTargets(ctx context.Context, postID string, only []string) (Report, error) {
	p, err := o.q.Get(ctx, postID)
	if err != nil {
		return Report{}, err
	}
	if p.Status != content.StatusScheduled {
		return Report{}, &queue.StateError{ID: postID, Status: p.Status, Op: "fire"}
	}

	targets := p.Targets
	if len(only) > 0 {
		want := make(map[string]struct{}, len(only))
		for _, id := range only {
			want[id] = struct{}{}
		}
		targets = nil
		for _, id := range p.Targets {
			if _, ok := want[id]; ok {
				targets = append(targets, id)
			}
		}
	}
	if len(targets) == 0 {
		return Report{}, fmt.Errorf("post %s: no matching targets to fire", postID)
	}

	results := o.fanOut(ctx, p, targets)

	anyOK, allOK := false, true
	for _, r := range results {
		if r.OK {
			anyOK = true
		} else {
			allOK = false
		}
	}

	if allOK {
		err = o.q.MarkPublished(ctx, postID, results)
	} else {
		err = o.q.MarkFailed(ctx, postID, results)
	}
	var stateErr *queue.StateError
	if errors.As(err, &stateErr) {
		// Lost the race with a concurrent fire; our deliveries already
		// happened, so surface the conflict rather than hide it.
		o.log.Warn("fire finalization conflict", logx.String("post", postID), logx.Err(err))
		return Report{PostID: postID, AnySucceeded: anyOK, PerTarget: results}, err
	}
	if err != nil {
		return Report{}, err
	}

	o.log.Info("fire complete",
		logx.String("post", postID),
		logx.Bool("all_ok", allOK),
		logx.Int("targets", len(targets)))
	return Report{PostID: postID, AnySucceeded: anyOK, PerTarget: results}, nil
}

// fanOut runs per-target attempts on a bounded pool. No target's
// adaptation or delivery depends on another's, so order of execution is
// irrelevant; results land in input order.
func (o *Orchestrator) fanOut(ctx context.Context, p *content.Post, targets []string) []content.TargetResult {
	results := make([]content.TargetResult, len(targets))

	workers := o.cfg.Workers
	if workers > len(targets) {
		workers = len(targets)
	}

	type job struct {
		idx int
		id  string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = o.attempt(ctx, p, j.id)
			}
		}()
	}
	for i, id := range targets {
		jobs <- job{idx: i, id: id}
	}
	close(jobs)
	wg.Wait()
	return results
}

// attempt adapts, validates, and delivers to one target. It never
// panics outward: a bad adapter or transport is converted to a failed
// result so the sibling targets keep going.
func (o *Orchestrator) attempt(ctx context.Context, p *content.Post, targetID string) (res content.TargetResult) {
	res = content.TargetResult{Target: targetID, At: o.now().UTC()}
	defer func() {
		if r := recover(); r != nil {
			res.OK = false
			res.Error = fmt.Sprintf("panic: %v", r)
			o.log.Error("panic in fire attempt",
				logx.String("post", p.ID),
				logx.String("target", targetID),
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())))
			o.emit(p.ID, targetID, telemetry.OutcomeDeliveryFailed, res.Error)
		}
	}()

	a, err := o.adapters.Get(targetID)
	if err != nil {
		res.Error = err.Error()
		o.emit(p.ID, targetID, telemetry.OutcomeAdapterMissing, res.Error)
		return res
	}
	if !o.adapters.Enabled(targetID) {
		res.Error = fmt.Sprintf("target %q is disabled", targetID)
		o.emit(p.ID, targetID, telemetry.OutcomeTargetDisabled, res.Error)
		return res
	}

	if verrs := a.Validate(p.Body, p.Media); len(verrs) > 0 {
		res.Error = errors.Join(verrs...).Error()
		o.emit(p.ID, targetID, telemetry.OutcomeValidationFailed, res.Error)
		return res
	}

	t := a.Target()
	if ref := o.adapters.Credential(targetID); ref != "" {
		t.CredentialRef = ref
	}

	tags := a.GenerateTags(p.Tags, p.Category)
	payload := delivery.Payload{
		Title: a.FormatTitle(p.Title),
		Body:  a.FormatBody(p.Body, tags),
		Tags:  tags,
		Media: cappedMedia(p.Media, t),
	}

	dctx, cancel := context.WithTimeout(ctx, o.cfg.DeliverTimeout)
	defer cancel()
	if err := o.deliver.Deliver(dctx, t, payload); err != nil {
		res.Error = err.Error()
		o.emit(p.ID, targetID, telemetry.OutcomeDeliveryFailed, res.Error)
		return res
	}

	res.OK = true
	o.emit(p.ID, targetID, telemetry.OutcomeDelivered, "")
	return res
}

func cappedMedia(media []string, t target.Target) []string {
	if max := t.Limits.MaxMediaItems; max > 0 && len(media) > max {
		return media[:max]
	}
	return media
}

func (o *Orchestrator) emit(postID, targetID string, outcome telemetry.Outcome, detail string) {
	if o.bus != nil {
		o.bus.Publish(telemetry.Event{PostID: postID, Target: targetID, Outcome: outcome, Detail: detail, At: o.now()})
	}
	f := []logx.Field{
		logx.String("post", postID),
		logx.String("target", targetID),
		logx.String("outcome", string(outcome)),
	}
	if detail != "" {
		f = append(f, logx.String("detail", detail))
		o.log.Warn("fire attempt", f...)
		return
	}
	o.log.Info("fire attempt", f...)
}
