package provider

import (
	"context"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/valpere/pereval/internal/metrics"
)

// Stage labels which phase of a request issued a call.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageJudge    Stage = "judge"
)

// Dispatcher runs provider calls. It optionally caps the number of calls in
// flight across every request sharing it, and optionally bounds each call
// with a deadline. The zero configuration launches every call immediately.
type Dispatcher struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewDispatcher returns a dispatcher. maxConcurrency <= 0 means unlimited and
// timeout <= 0 means no per-call deadline.
func NewDispatcher(maxConcurrency int, timeout time.Duration) *Dispatcher {
	d := &Dispatcher{timeout: timeout}
	if maxConcurrency > 0 {
		d.sem = semaphore.NewWeighted(int64(maxConcurrency))
	}
	return d
}

// Call performs one provider call and always returns an Outcome.
func (d *Dispatcher) Call(ctx context.Context, stage Stage, p Provider, prompt string) Outcome {
	log := clog.FromContext(ctx).With("provider", p.Name(), "stage", string(stage))

	if d.sem != nil {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			out := Failed("waiting for a call slot: %v", err)
			metrics.ObserveCall(p.Name(), string(stage), false, 0)
			log.Warnf("provider call not started: %s", out.Err)
			return out
		}
		defer d.sem.Release(1)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := metrics.CallStarted()
	start := time.Now()
	out := generate(ctx, p, prompt)
	elapsed := time.Since(start)
	done()

	metrics.ObserveCall(p.Name(), string(stage), out.OK(), elapsed)
	if !out.OK() {
		log.Warnf("provider call failed after %s: %s", elapsed.Round(time.Millisecond), out.Err)
	} else {
		log.Debugf("provider call finished in %s", elapsed.Round(time.Millisecond))
	}
	return out
}

// FanOut sends prompt to every provider concurrently and waits for all of
// them. outcomes[i] belongs to providers[i].
func (d *Dispatcher) FanOut(ctx context.Context, stage Stage, providers []Provider, prompt string) []Outcome {
	outcomes := make([]Outcome, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			outcomes[i] = d.Call(ctx, stage, p, prompt)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// generate turns a panicking provider into a failed outcome.
func generate(ctx context.Context, p Provider, prompt string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed("provider %s panicked: %v", p.Name(), r)
		}
	}()
	return p.GenerateText(ctx, prompt)
}
