// Package session holds per-user analysis state: the current run, its explanation
// cache and conversation, and the registry that keeps sessions alive while in use.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/internal/explain"
	"github.com/kiranshivaraju/radassist/internal/flow"
	"github.com/kiranshivaraju/radassist/internal/metrics"
	"github.com/kiranshivaraju/radassist/internal/pipeline"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

var (
	// ErrSuperseded is reported when a newer analysis started while this operation ran.
	ErrSuperseded = errors.New("superseded by a newer analysis")
	ErrNoAnalysis = errors.New("no analysis result is available yet")
)

// Run is everything derived from one analyze action. A new analyze replaces it whole.
type Run struct {
	Epoch        uint64
	Items        []models.MediaItem
	Result       *models.AnalysisResult
	Explanations *explain.Cache
	Conversation *Conversation
}

// Analysis is what a successful Analyze committed: its epoch, items and result.
type Analysis struct {
	Epoch  uint64                `json:"epoch"`
	Items  []models.MediaItem    `json:"items"`
	Result models.AnalysisResult `json:"result"`
}

// Session is one user's working state. Safe for concurrent use.
type Session struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	CreatedAt time.Time

	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics

	mu    sync.RWMutex
	epoch uint64
	run   *Run
}

// State is a point-in-time copy of a Session for presentation.
type State struct {
	ID           uuid.UUID                  `json:"id"`
	Epoch        uint64                     `json:"epoch"`
	Items        []models.MediaItem         `json:"items"`
	Result       *models.AnalysisResult     `json:"result,omitempty"`
	Explanations []models.ExplanationRecord `json:"explanations"`
	Conversation []models.ConversationTurn  `json:"conversation"`
	CreatedAt    time.Time                  `json:"created_at"`
}

func New(tenantID uuid.UUID, p *pipeline.Pipeline, m *metrics.Metrics) *Session {
	return &Session{
		ID:        uuid.New(),
		TenantID:  tenantID,
		CreatedAt: time.Now().UTC(),
		pipeline:  p,
		metrics:   m,
	}
}

// current returns the active run and a copy of its result pointer, both read under lock.
func (s *Session) current() (*Run, *models.AnalysisResult) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.run == nil {
		return nil, nil
	}
	return s.run, s.run.Result
}

func (s *Session) isCurrent(epoch uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch == epoch
}

func (s *Session) withTenant(ctx context.Context) context.Context {
	return flow.WithTenant(ctx, s.TenantID)
}

// Analyze starts a new run over items. Invalid input is rejected without touching
// the current run; otherwise the previous run is retired before any backend call,
// and a failed analysis leaves the session with no result.
func (s *Session) Analyze(ctx context.Context, items []models.MediaItem) pipeline.Result[Analysis] {
	if _, err := contract.ValidateAnalyze(items, s.pipeline.MaxItems()).Get(); err != nil {
		return pipeline.Fail[Analysis](&flow.StageError{Stage: "analyze", Kind: flow.KindInputValidation, Err: err})
	}

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	if s.run != nil {
		s.run.Explanations.Retire()
	}
	run := &Run{Epoch: epoch, Items: items, Explanations: explain.New(epoch, keys, s.metrics)}
	s.run = run
	s.mu.Unlock()

	res, err := s.pipeline.Analyze(s.withTenant(ctx), items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return pipeline.Fail[Analysis](ErrSuperseded)
	}
	if err != nil {
		return pipeline.Fail[Analysis](err)
	}
	run.Result = &res
	run.Conversation = NewConversation(res)
	return pipeline.Ok(Analysis{Epoch: epoch, Items: items, Result: res})
}

// Correlate relates symptoms to the current analysis.
func (s *Session) Correlate(ctx context.Context, symptoms string) pipeline.Result[models.CorrelationResult] {
	_, result := s.current()
	if result == nil {
		return pipeline.Skip[models.CorrelationResult](ErrNoAnalysis.Error())
	}
	out, err := s.pipeline.Correlate(s.withTenant(ctx), contract.CorrelateInput{
		Symptoms:  symptoms,
		Findings:  result.Findings,
		Anomalies: result.Anomalies,
	})
	if err != nil {
		return pipeline.Fail[models.CorrelationResult](err)
	}
	return pipeline.Ok(out)
}

// Report builds the markdown report for the current analysis.
func (s *Session) Report(ctx context.Context) pipeline.Result[models.Report] {
	_, result := s.current()
	if result == nil {
		return pipeline.Skip[models.Report](ErrNoAnalysis.Error())
	}
	out, err := s.pipeline.Report(s.withTenant(ctx), contract.ReportInput{
		Findings:  result.Findings,
		Anomalies: result.Anomalies,
	})
	if err != nil {
		return pipeline.Fail[models.Report](err)
	}
	return pipeline.Ok(out)
}

// Explain generates, or regenerates, the explanation for one item of the current run.
// Without an analysis result it does nothing.
func (s *Session) Explain(ctx context.Context, key string) pipeline.Result[models.ExplanationRecord] {
	run, result := s.current()
	if result == nil {
		return pipeline.Skip[models.ExplanationRecord](ErrNoAnalysis.Error())
	}

	var item *models.MediaItem
	for i := range run.Items {
		if run.Items[i].Key == key {
			item = &run.Items[i]
			break
		}
	}
	if item == nil {
		return pipeline.Fail[models.ExplanationRecord](explain.ErrUnknownKey)
	}

	ticket, err := run.Explanations.Begin(key)
	if err != nil {
		return pipeline.Fail[models.ExplanationRecord](err)
	}

	out, err := s.pipeline.Explain(s.withTenant(ctx), contract.ExplainInput{Item: *item, Diagnosis: result.Findings})
	if err != nil {
		run.Explanations.Fail(ticket, err)
		return pipeline.Fail[models.ExplanationRecord](err)
	}
	if !run.Explanations.Complete(ticket, out) || !s.isCurrent(run.Epoch) {
		return pipeline.Fail[models.ExplanationRecord](ErrSuperseded)
	}
	rec, _ := run.Explanations.Get(key)
	return pipeline.Ok(rec)
}

// Explanations lists the records of the current run.
func (s *Session) Explanations() []models.ExplanationRecord {
	run, _ := s.current()
	if run == nil {
		return []models.ExplanationRecord{}
	}
	return run.Explanations.Snapshot()
}

// Ask sends a follow-up question about the current analysis.
func (s *Session) Ask(ctx context.Context, question string) pipeline.Result[models.ConversationTurn] {
	run, result := s.current()
	if result == nil {
		return pipeline.Skip[models.ConversationTurn](ErrNoAnalysis.Error())
	}
	s.mu.RLock()
	conv := run.Conversation
	s.mu.RUnlock()

	turn, err := conv.Ask(s.withTenant(ctx), s.pipeline, question)
	if err != nil {
		return pipeline.Fail[models.ConversationTurn](err)
	}
	s.metrics.IncConversationTurn()
	return pipeline.Ok(turn)
}

// Transcript returns the conversation of the current run.
func (s *Session) Transcript() []models.ConversationTurn {
	run, result := s.current()
	if result == nil {
		return []models.ConversationTurn{}
	}
	s.mu.RLock()
	conv := run.Conversation
	s.mu.RUnlock()
	return conv.Turns()
}

// State snapshots the session.
func (s *Session) State() State {
	run, result := s.current()
	st := State{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Items:        []models.MediaItem{},
		Explanations: []models.ExplanationRecord{},
		Conversation: []models.ConversationTurn{},
	}
	if run == nil {
		return st
	}
	st.Epoch = run.Epoch
	st.Items = run.Items
	st.Explanations = run.Explanations.Snapshot()
	if result != nil {
		r := *result
		st.Result = &r
		s.mu.RLock()
		conv := run.Conversation
		s.mu.RUnlock()
		st.Conversation = conv.Turns()
	}
	return st
}
