package judge

import (
	"context"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/valpere/pereval/internal"
	"github.com/valpere/pereval/internal/provider"
)

var tracer = otel.Tracer("github.com/valpere/pereval/internal/judge")

// Evaluator cross-evaluates a response set. Every registered provider judges
// every response, its own included.
type Evaluator struct {
	judges     []provider.Provider
	dispatcher *provider.Dispatcher
}

func NewEvaluator(judges []provider.Provider, dispatcher *provider.Dispatcher) *Evaluator {
	if dispatcher == nil {
		dispatcher = provider.NewDispatcher(0, 0)
	}
	return &Evaluator{
		judges:     judges,
		dispatcher: dispatcher,
	}
}

// Evaluate returns one ModelEvaluation per model in responses, in the same
// order. FinalScore is left for the ranker.
func (e *Evaluator) Evaluate(ctx context.Context, responses *internal.ResponseSet, prompt string) []internal.ModelEvaluation {
	ctx, span := tracer.Start(ctx, "judge.Evaluate", trace.WithAttributes(
		attribute.Int("models", responses.Len()),
		attribute.Int("judges", len(e.judges)),
	))
	defer span.End()

	names := responses.Names()
	scores := make([][]int, len(names))
	for i := range scores {
		scores[i] = make([]int, len(internal.Criteria))
	}

	var g errgroup.Group
	for i, name := range names {
		for j, criterion := range internal.Criteria {
			g.Go(func() error {
				scores[i][j] = e.scoreCriterion(ctx, responses, prompt, name, criterion)
				return nil
			})
		}
	}
	_ = g.Wait()

	evals := make([]internal.ModelEvaluation, len(names))
	for i, name := range names {
		evals[i].ModelName = name
		for j, criterion := range internal.Criteria {
			evals[i].Scores.Set(criterion, scores[i][j])
		}
	}
	return evals
}

func (e *Evaluator) scoreCriterion(ctx context.Context, responses *internal.ResponseSet, prompt, model string, criterion internal.Criterion) int {
	ctx, span := tracer.Start(ctx, "judge.criterion", trace.WithAttributes(
		attribute.String("model", model),
		attribute.String("criterion", criterion.String()),
	))
	defer span.End()

	judgePrompt := BuildPrompt(prompt, criterion, model, responses)
	outcomes := e.dispatcher.FanOut(ctx, provider.StageJudge, e.judges, judgePrompt)

	values := make([]float64, len(outcomes))
	for i, out := range outcomes {
		values[i] = ExtractScore(out.DisplayText())
	}
	score := Aggregate(values)

	span.SetAttributes(attribute.Int("score", score))
	clog.FromContext(ctx).With("model", model, "criterion", criterion.String()).
		Debugf("judges returned %v, score %d", values, score)

	return score
}
