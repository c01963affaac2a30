// Package flow runs single backend exchanges: render a stage prompt, call the
// backend once under a timeout, and decode the reply into the stage's output type.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/internal/metrics"
	"github.com/kiranshivaraju/radassist/internal/prompt"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

const (
	defaultTimeout = 120 * time.Second
	recordTimeout  = 2 * time.Second
)

// Recorder persists invocation metadata. Records are written off the request
// path; call Invoker.Wait to drain them.
type Recorder interface {
	RecordInvocation(ctx context.Context, inv *models.FlowInvocation) error
}

// Invoker holds the collaborators shared by every stage invocation.
type Invoker struct {
	backend  models.Backend
	prompts  *prompt.Catalogue
	timeout  time.Duration
	metrics  *metrics.Metrics
	recorder Recorder
	logger   *slog.Logger

	pending sync.WaitGroup
}

type Option func(*Invoker)

// WithTimeout bounds each backend call. Zero or negative leaves the default.
func WithTimeout(d time.Duration) Option {
	return func(i *Invoker) {
		if d > 0 {
			i.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option { return func(i *Invoker) { i.metrics = m } }

func WithRecorder(r Recorder) Option { return func(i *Invoker) { i.recorder = r } }

func WithLogger(l *slog.Logger) Option { return func(i *Invoker) { i.logger = l } }

// NewInvoker creates an Invoker.
func NewInvoker(backend models.Backend, prompts *prompt.Catalogue, opts ...Option) *Invoker {
	inv := &Invoker{
		backend: backend,
		prompts: prompts,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Backend returns the backend all stages are sent to.
func (i *Invoker) Backend() models.Backend { return i.backend }

// Wait blocks until every queued invocation record has been written or dropped.
func (i *Invoker) Wait() { i.pending.Wait() }

// Invoke runs stage st once. A rejected input never reaches the backend. Backend
// failures, timeouts and panics become KindBackendInvocation; replies that fail to
// decode become KindSchemaParse. A stage whose prompt cannot be prepared is also
// KindBackendInvocation but wraps ErrPromptUnavailable, since no call was made.
func Invoke[In, Out any](ctx context.Context, inv *Invoker, st Stage[In, Out], input contract.Validated[In]) (out Out, err error) {
	start := time.Now()
	defer func() { inv.observe(ctx, st.Name, time.Since(start), err) }()

	in, err := input.Get()
	if err != nil {
		return out, &StageError{Stage: st.Name, Kind: KindInputValidation, Err: err}
	}

	tmpl, err := inv.prompts.Stage(st.Name)
	if err != nil {
		return out, &StageError{Stage: st.Name, Kind: KindBackendInvocation, Err: fmt.Errorf("%w: %w", ErrPromptUnavailable, err)}
	}
	parts, err := tmpl.Render(in)
	if err != nil {
		return out, &StageError{Stage: st.Name, Kind: KindBackendInvocation, Err: fmt.Errorf("%w: render: %w", ErrPromptUnavailable, err)}
	}

	resp, err := inv.call(ctx, models.GenerateRequest{
		Parts:      parts,
		Schema:     st.Schema,
		Modalities: tmpl.Modalities,
	})
	if err != nil {
		return out, &StageError{Stage: st.Name, Kind: KindBackendInvocation, Err: err}
	}

	out, err = st.Decode(resp)
	if err != nil {
		var zero Out
		return zero, &StageError{Stage: st.Name, Kind: KindSchemaParse, Err: err}
	}
	return out, nil
}

func (i *Invoker) call(ctx context.Context, req models.GenerateRequest) (resp models.GenerateResponse, err error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: backend panic: %v", models.ErrProviderUnavailable, r)
		}
	}()

	resp, err = i.backend.Generate(ctx, req)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, models.ErrInferenceTimeout) {
		err = fmt.Errorf("%w: %w", models.ErrInferenceTimeout, err)
	}
	return resp, err
}

func (i *Invoker) observe(ctx context.Context, stage string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	i.metrics.ObserveFlow(stage, outcome, d)

	attrs := []any{"stage", stage, "provider", i.backend.Name(), "outcome", outcome, "duration_ms", d.Milliseconds()}
	switch {
	case err == nil:
		i.logger.Info("flow invocation", attrs...)
	case KindOf(err) == KindInputValidation:
		i.logger.Warn("flow invocation rejected", append(attrs, "error", err)...)
	case errors.Is(err, ErrPromptUnavailable):
		i.logger.Error("flow prompt misconfigured", append(attrs, "error", err)...)
	default:
		i.logger.Error("flow invocation failed", append(attrs, "error", err)...)
	}

	if i.recorder == nil {
		return
	}
	tenantID, _ := TenantFrom(ctx)
	rec := &models.FlowInvocation{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Stage:      stage,
		Provider:   i.backend.Name(),
		Outcome:    outcome,
		DurationMS: d.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	base := context.WithoutCancel(ctx)
	i.pending.Add(1)
	go func() {
		defer i.pending.Done()
		rctx, cancel := context.WithTimeout(base, recordTimeout)
		defer cancel()
		if rerr := i.recorder.RecordInvocation(rctx, rec); rerr != nil {
			i.logger.Warn("failed to record flow invocation", "stage", stage, "error", rerr)
		}
	}()
}
