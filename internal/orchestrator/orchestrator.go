package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/valpere/pereval/internal"
	"github.com/valpere/pereval/internal/judge"
	"github.com/valpere/pereval/internal/metrics"
	"github.com/valpere/pereval/internal/provider"
	"github.com/valpere/pereval/internal/ranker"
)

// ErrMisconfigured reports a structural problem with the provider registry.
var ErrMisconfigured = errors.New("orchestrator misconfigured")

var tracer = otel.Tracer("github.com/valpere/pereval/internal/orchestrator")

type OrchestratorConfig struct {
	// MaxConcurrency caps provider calls in flight across all requests.
	// Zero launches every call immediately.
	MaxConcurrency int
	// Timeout bounds each provider call. Zero means no deadline.
	Timeout time.Duration
}

type Orchestrator struct {
	providers  []provider.Provider
	config     OrchestratorConfig
	dispatcher *provider.Dispatcher
	evaluator  *judge.Evaluator
}

// New checks the registry and wires the evaluator to the same providers and
// dispatcher used for generation.
func New(providers []provider.Provider, config OrchestratorConfig) (*Orchestrator, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: no providers registered", ErrMisconfigured)
	}
	seen := make(map[string]bool, len(providers))
	for i, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("%w: provider %d is nil", ErrMisconfigured, i)
		}
		if seen[p.Name()] {
			return nil, fmt.Errorf("%w: duplicate provider name %q", ErrMisconfigured, p.Name())
		}
		seen[p.Name()] = true
	}

	dispatcher := provider.NewDispatcher(config.MaxConcurrency, config.Timeout)
	return &Orchestrator{
		providers:  providers,
		config:     config,
		dispatcher: dispatcher,
		evaluator:  judge.NewEvaluator(providers, dispatcher),
	}, nil
}

// Providers returns the registered provider names in registration order.
func (o *Orchestrator) Providers() []string {
	names := make([]string, len(o.providers))
	for i, p := range o.providers {
		names[i] = p.Name()
	}
	return names
}

// GenerateResponses asks every provider to answer prompt, cross-evaluates the
// answers and ranks them. Provider failures become display text; the only
// error returned is ErrMisconfigured.
func (o *Orchestrator) GenerateResponses(ctx context.Context, prompt string) (*internal.EvaluationResult, error) {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := clog.FromContext(ctx).With("request_id", requestID)
	ctx = clog.WithLogger(ctx, log)

	ctx, span := tracer.Start(ctx, "orchestrator.GenerateResponses", trace.WithAttributes(
		attribute.String("request_id", requestID),
		attribute.Int("providers", len(o.providers)),
	))
	defer span.End()

	start := time.Now()
	outcomes := o.dispatcher.FanOut(ctx, provider.StageGenerate, o.providers, prompt)

	responses := internal.NewResponseSet()
	failed := 0
	for i, p := range o.providers {
		if !outcomes[i].OK() {
			failed++
		}
		responses.Add(p.Name(), outcomes[i].DisplayText())
	}
	log.Infof("collected %d responses (%d failed) in %s", responses.Len(), failed, time.Since(start).Round(time.Millisecond))

	evals := o.evaluator.Evaluate(ctx, responses, prompt)
	if err := o.checkInvariants(responses, evals); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ObserveEvaluation(false)
		return nil, err
	}

	ranker.Score(evals)
	ranking := ranker.Rank(evals)
	for _, e := range evals {
		metrics.SetFinalScore(e.ModelName, e.FinalScore)
	}
	metrics.ObserveEvaluation(true)

	log.Infof("best response %s (%.2f) after %s", ranking.Best.ModelName, ranking.Best.FinalScore, time.Since(start).Round(time.Millisecond))

	return &internal.EvaluationResult{
		RequestID:    requestID,
		Prompt:       prompt,
		Responses:    responses,
		Evaluations:  evals,
		BestResponse: ranking.Best,
		Ranking:      ranking.Entries,
	}, nil
}

func (o *Orchestrator) checkInvariants(responses *internal.ResponseSet, evals []internal.ModelEvaluation) error {
	if responses.Len() != len(o.providers) {
		return fmt.Errorf("%w: %d responses for %d providers", ErrMisconfigured, responses.Len(), len(o.providers))
	}
	if len(evals) != len(o.providers) {
		return fmt.Errorf("%w: %d evaluations for %d providers", ErrMisconfigured, len(evals), len(o.providers))
	}
	for i, p := range o.providers {
		if _, ok := responses.Get(p.Name()); !ok {
			return fmt.Errorf("%w: provider %q missing from responses", ErrMisconfigured, p.Name())
		}
		if evals[i].ModelName != p.Name() {
			return fmt.Errorf("%w: evaluation %d is for %q, expected %q", ErrMisconfigured, i, evals[i].ModelName, p.Name())
		}
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID attaches an id that GenerateResponses will reuse instead of
// minting a new one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
