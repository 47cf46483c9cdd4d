package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/itish2003/notionkeep/metrics"
	"github.com/itish2003/notionkeep/models"
)

// Generator performs exactly one upstream generation call. Implementations
// never retry and never return an error: every failure is an AttemptOutcome.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) AttemptOutcome
}

// Sleeper suspends the current run for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type runState int

const (
	stateAttempt0 runState = iota
	stateBackOff
	stateAttempt1
	stateFallback
	stateDone
)

func (s runState) String() string {
	switch s {
	case stateAttempt0:
		return "attempt0"
	case stateBackOff:
		return "backoff"
	case stateAttempt1:
		return "attempt1"
	case stateFallback:
		return "fallback"
	default:
		return "done"
	}
}

// Orchestrator drives one chat question through the model roster in at most
// two passes, with a single global back-off between them, and falls back to
// a synthesized answer when no model answers.
type Orchestrator struct {
	models    []string
	generator Generator
	prompts   PromptBuilder
	synth     *Synthesizer
	sleep     Sleeper
	logger    *slog.Logger
}

type OrchestratorOption func(*Orchestrator)

// WithSleeper replaces the back-off wait, mainly for tests.
func WithSleeper(s Sleeper) OrchestratorOption {
	return func(o *Orchestrator) { o.sleep = s }
}

func WithLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = l }
}

func NewOrchestrator(roster []string, gen Generator, prompts PromptBuilder, synth *Synthesizer, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		models:    append([]string(nil), roster...),
		generator: gen,
		prompts:   prompts,
		synth:     synth,
		sleep:     SleepContext,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run is the request-local state of one orchestration.
type run struct {
	roster    *Roster
	prompt    string
	lastError *AttemptOutcome
	backoff   time.Duration
	answer    string
}

// Run always terminates in a ChatResult. Upstream failures, an empty roster
// and context cancellation all end in the fallback answer.
func (o *Orchestrator) Run(ctx context.Context, question string, nc models.NoteContext) models.ChatResult {
	r := &run{
		roster: NewRoster(o.models),
		prompt: o.prompts.Build(question, nc),
	}

	state := stateAttempt0
	for state != stateDone {
		o.logger.Debug("chat run", "state", state.String())
		switch state {
		case stateAttempt0:
			state = o.pass(ctx, r, true)
		case stateBackOff:
			state = o.backOff(ctx, r)
		case stateAttempt1:
			state = o.pass(ctx, r, false)
		case stateFallback:
			r.answer = o.synth.Synthesize(question, nc.Notes, r.lastError)
			metrics.ObserveChatResult(true)
			o.logger.Warn("chat answered by fallback", "last_error", lastKind(r.lastError))
			return models.ChatResult{AnswerText: r.answer, UsedFallback: true}
		}
	}

	metrics.ObserveChatResult(false)
	return models.ChatResult{AnswerText: r.answer, UsedFallback: false}
}

// pass traverses the non-exhausted candidates once and returns the next state.
func (o *Orchestrator) pass(ctx context.Context, r *run, first bool) runState {
	for _, i := range r.roster.Available() {
		if err := ctx.Err(); err != nil {
			r.record(OtherFailure(err.Error()))
			return stateFallback
		}

		model := r.roster.Candidate(i).Identifier
		out := o.generator.Generate(ctx, model, r.prompt)
		if out.Kind == OutcomeSuccess && strings.TrimSpace(out.Text) == "" {
			out = OtherFailure("empty response from model " + model)
		}

		switch out.Kind {
		case OutcomeSuccess:
			o.logger.Info("chat answered", "model", model)
			r.answer = out.Text
			return stateDone
		case OutcomeQuotaExceeded:
			o.logger.Warn("model quota exhausted", "model", model, "retry_after", out.RetryAfter)
			r.roster.MarkExhausted(i)
			r.record(out)
			if first && r.roster.AllExhausted() {
				r.backoff = out.RetryAfter
				return stateBackOff
			}
		default:
			o.logger.Warn("model call failed", "model", model, "error", firstLine(out.Message))
			r.record(out)
		}
	}
	if first {
		return stateAttempt1
	}
	return stateFallback
}

func (o *Orchestrator) backOff(ctx context.Context, r *run) runState {
	d := r.backoff
	if d <= 0 {
		d = DefaultRetryDelay
	}
	o.logger.Info("all models out of quota, backing off", "delay", d)
	metrics.ChatBackoffsTotal.Inc()
	if err := o.sleep(ctx, d); err != nil {
		// keep the quota error: it explains the outage better than a cancellation.
		return stateFallback
	}
	r.roster.ResetExhaustion()
	return stateAttempt1
}

func (r *run) record(out AttemptOutcome) {
	r.lastError = &out
}

func lastKind(o *AttemptOutcome) string {
	if o == nil {
		return "none"
	}
	return o.Kind.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
