package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/itish2003/notionkeep/models"
	"github.com/itish2003/notionkeep/store"
)

// ChatOptions configures a ChatService.
type ChatOptions struct {
	Models       []string
	ProbeModels  []string
	Locale       Locale
	SnippetChars int
	// Timeout bounds one chat run, back-off included. Zero leaves it to the caller.
	Timeout time.Duration
	Sleeper Sleeper
	Logger  *slog.Logger
}

// ChatService answers chat questions against the note repository.
type ChatService struct {
	repo         store.NoteRepository
	generator    Generator
	orchestrator *Orchestrator
	probeModels  []string
	locale       Locale
	timeout      time.Duration
	logger       *slog.Logger
}

// NewChatService wires the orchestrator. gen is nil when no API key is
// configured; chat and probe calls then fail with models.ErrConfiguration.
func NewChatService(repo store.NoteRepository, gen Generator, opts ChatOptions) *ChatService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	locale := opts.Locale
	if locale.Tag == "" {
		locale = LocaleFor("it")
	}
	s := &ChatService{
		repo:        repo,
		generator:   gen,
		probeModels: opts.ProbeModels,
		locale:      locale,
		timeout:     opts.Timeout,
		logger:      logger,
	}
	if gen != nil {
		orchOpts := []OrchestratorOption{WithLogger(logger)}
		if opts.Sleeper != nil {
			orchOpts = append(orchOpts, WithSleeper(opts.Sleeper))
		}
		s.orchestrator = NewOrchestrator(opts.Models, gen,
			NewPromptBuilder(locale, opts.SnippetChars), NewSynthesizer(locale), orchOpts...)
	}
	return s
}

// HasAPIKey reports whether an upstream generator is configured.
func (s *ChatService) HasAPIKey() bool { return s.generator != nil }

// AnswerChat validates the request, loads its note context and runs the
// orchestrator. Upstream failures never surface as errors; only a missing
// key, an unknown note or an unreadable repository do.
func (s *ChatService) AnswerChat(ctx context.Context, req models.ChatRequest) (models.ChatResult, error) {
	if strings.TrimSpace(req.Question) == "" {
		return models.ChatResult{}, fmt.Errorf("op=services.AnswerChat: empty message: %w", models.ErrInvalidArgument)
	}
	if s.orchestrator == nil {
		return models.ChatResult{}, fmt.Errorf("op=services.AnswerChat: no api key: %w", models.ErrConfiguration)
	}

	nc, err := s.noteContext(ctx, strings.TrimSpace(req.NoteID))
	if err != nil {
		return models.ChatResult{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res := s.orchestrator.Run(ctx, req.Question, nc)
	s.logger.Info("chat completed",
		slog.String("scope", nc.Scope.String()),
		slog.Int("notes", len(nc.Notes)),
		slog.Bool("fallback", res.UsedFallback),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (s *ChatService) noteContext(ctx context.Context, noteID string) (models.NoteContext, error) {
	if noteID != "" {
		n, err := s.repo.Get(ctx, noteID)
		if err != nil {
			if errors.Is(err, models.ErrNoteNotFound) {
				return models.NoteContext{}, err
			}
			return models.NoteContext{}, fmt.Errorf("op=services.AnswerChat: load note: %w", err)
		}
		return models.NoteContext{Notes: []models.Note{n}, Scope: models.SingleNote}, nil
	}
	notes, err := s.repo.List(ctx)
	if err != nil {
		return models.NoteContext{}, fmt.Errorf("op=services.AnswerChat: load notes: %w", err)
	}
	return models.NoteContext{Notes: notes, Scope: models.AllNotes}, nil
}

// ProbeModels sends a one-word prompt to each probe model and reports which answered.
func (s *ChatService) ProbeModels(ctx context.Context) (models.ModelsResponse, error) {
	if s.generator == nil {
		return models.ModelsResponse{}, fmt.Errorf("op=services.ProbeModels: no api key: %w", models.ErrConfiguration)
	}
	resp := models.ModelsResponse{Available: []models.ModelStatus{}, Unavailable: []models.ModelStatus{}}
	for _, m := range s.probeModels {
		if err := ctx.Err(); err != nil {
			return resp, fmt.Errorf("op=services.ProbeModels: %w", err)
		}
		out := s.generator.Generate(ctx, m, "Test")
		if out.Kind == OutcomeSuccess && strings.TrimSpace(out.Text) != "" {
			resp.Available = append(resp.Available, models.ModelStatus{Name: m, Status: "available"})
			continue
		}
		msg := out.Message
		if msg == "" {
			msg = s.locale.UnknownError
		}
		resp.Unavailable = append(resp.Unavailable, models.ModelStatus{Name: m, Status: "unavailable", Error: msg})
	}
	return resp, nil
}
