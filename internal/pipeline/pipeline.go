// Package pipeline composes flow stages: the fan-out analysis over a batch of
// items and the single-stage pipelines that consume its result.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/internal/flow"
	"github.com/kiranshivaraju/radassist/internal/metrics"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

const analyzeStage = "analyze"

// Pipeline is stateless; sessions own the state that results are stored in.
type Pipeline struct {
	inv      *flow.Invoker
	maxItems int
	metrics  *metrics.Metrics
}

func New(inv *flow.Invoker, maxItems int, m *metrics.Metrics) *Pipeline {
	if maxItems <= 0 {
		maxItems = contract.DefaultMaxItems
	}
	return &Pipeline{inv: inv, maxItems: maxItems, metrics: m}
}

// MaxItems is the batch cap enforced by Analyze.
func (p *Pipeline) MaxItems() int { return p.maxItems }

// Analyze runs series analysis over every item and anomaly detection over the
// first item concurrently. Both must succeed; there is no partial result.
func (p *Pipeline) Analyze(ctx context.Context, items []models.MediaItem) (models.AnalysisResult, error) {
	input := contract.ValidateAnalyze(items, p.maxItems)
	in, err := input.Get()
	if err != nil {
		p.metrics.ObserveAnalysis(string(flow.KindInputValidation))
		return models.AnalysisResult{}, &flow.StageError{Stage: analyzeStage, Kind: flow.KindInputValidation, Err: err}
	}

	var (
		series    contract.AnalyzeOutput
		anomalies contract.AnomalyOutput
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := flow.Invoke(gctx, p.inv, flow.AnalyzeSeries, input)
		series = out
		return err
	})
	g.Go(func() error {
		out, err := flow.Invoke(gctx, p.inv, flow.DetectAnomalies, contract.ValidateAnomaly(in.Items[0]))
		anomalies = out
		return err
	})
	if err := g.Wait(); err != nil {
		p.metrics.ObserveAnalysis(string(flow.KindPartialFailure))
		return models.AnalysisResult{}, &flow.StageError{Stage: analyzeStage, Kind: flow.KindPartialFailure, Err: err}
	}

	p.metrics.ObserveAnalysis("success")
	return models.AnalysisResult{
		Findings:  series.Findings,
		Anomalies: anomalies.Anomalies,
	}, nil
}

// Correlate produces a differential diagnosis. Conditions keep the backend's order.
func (p *Pipeline) Correlate(ctx context.Context, in contract.CorrelateInput) (models.CorrelationResult, error) {
	out, err := flow.Invoke(ctx, p.inv, flow.CorrelateSymptoms, contract.ValidateCorrelate(in))
	if err != nil {
		return models.CorrelationResult{}, err
	}
	return out.Result(), nil
}

// Report needs only the analysis findings and anomalies.
func (p *Pipeline) Report(ctx context.Context, in contract.ReportInput) (models.Report, error) {
	out, err := flow.Invoke(ctx, p.inv, flow.GenerateReport, contract.ValidateReport(in))
	if err != nil {
		return models.Report{}, err
	}
	return models.Report{MarkdownReport: out.MarkdownReport}, nil
}

func (p *Pipeline) Explain(ctx context.Context, in contract.ExplainInput) (contract.ExplainOutput, error) {
	return flow.Invoke(ctx, p.inv, flow.ExplainDiagnosis, contract.ValidateExplain(in))
}

func (p *Pipeline) Ask(ctx context.Context, in contract.AskInput) (string, error) {
	return flow.Invoke(ctx, p.inv, flow.ConversationalAnswer, contract.ValidateAsk(in))
}

// GenerateText sends a raw prompt with no schema.
func (p *Pipeline) GenerateText(ctx context.Context, prompt string) (string, error) {
	return flow.Invoke(ctx, p.inv, flow.GenerateText, contract.ValidateText(contract.TextInput{Prompt: prompt}))
}
