package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/itish2003/notionkeep/models"
	"github.com/itish2003/notionkeep/store"
)

// DefaultSearchLimit caps search results when the caller gives no limit.
const DefaultSearchLimit = 20

// AttachmentRemover deletes uploaded attachment files. FileStore implements it.
type AttachmentRemover interface {
	Remove(fileURL string) error
}

// NoteService is the CRUD layer between the HTTP handlers and the repository.
// Uploads left without a note are removed when files is set.
type NoteService struct {
	repo   store.NoteRepository
	files  AttachmentRemover
	logger *slog.Logger
}

func NewNoteService(repo store.NoteRepository, files AttachmentRemover, logger *slog.Logger) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{repo: repo, files: files, logger: logger}
}

func (s *NoteService) ListNotes(ctx context.Context) ([]models.Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=services.ListNotes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) GetNote(ctx context.Context, id string) (models.Note, error) {
	return s.repo.Get(ctx, id)
}

func (s *NoteService) CreateNote(ctx context.Context, req models.CreateNoteRequest) (models.Note, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Note{}, fmt.Errorf("op=services.CreateNote: empty title: %w", models.ErrInvalidArgument)
	}
	attachments := req.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	n, err := s.repo.Create(ctx, models.Note{Title: title, Content: req.Content, Attachments: attachments})
	if err != nil {
		return models.Note{}, err
	}
	s.logger.Info("note created", slog.String("note_id", n.ID))
	return n, nil
}

func (s *NoteService) UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (models.Note, error) {
	upd := models.NoteUpdate{Content: req.Content, Attachments: req.Attachments}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return models.Note{}, fmt.Errorf("op=services.UpdateNote: empty title: %w", models.ErrInvalidArgument)
		}
		upd.Title = &title
	}
	var before []models.Attachment
	if upd.Attachments != nil {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return models.Note{}, err
		}
		before = current.Attachments
	}
	n, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return models.Note{}, err
	}
	s.logger.Info("note updated", slog.String("note_id", id))
	if upd.Attachments != nil {
		s.removeOrphans(ctx, before)
	}
	return n, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, id string) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("note deleted", slog.String("note_id", id))
	s.removeOrphans(ctx, current.Attachments)
	return nil
}

// removeOrphans deletes the uploaded files among candidates that no note
// references any more. Failures are logged; the note change already happened.
func (s *NoteService) removeOrphans(ctx context.Context, candidates []models.Attachment) {
	if s.files == nil || len(candidates) == 0 {
		return
	}
	notes, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("skipping upload cleanup", slog.Any("error", err))
		return
	}
	inUse := make(map[string]struct{})
	for _, n := range notes {
		for _, a := range n.Attachments {
			inUse[a.FileURL] = struct{}{}
		}
	}
	for _, a := range candidates {
		if !strings.HasPrefix(a.FileURL, UploadURLPrefix) {
			continue
		}
		if _, ok := inUse[a.FileURL]; ok {
			continue
		}
		if err := s.files.Remove(a.FileURL); err != nil {
			s.logger.Warn("could not remove upload", slog.String("file_url", a.FileURL), slog.Any("error", err))
			continue
		}
		inUse[a.FileURL] = struct{}{}
		s.logger.Info("upload removed", slog.String("file_url", a.FileURL))
	}
}

// SearchNotes matches titles and contents; the Chroma backend ranks by similarity.
func (s *NoteService) SearchNotes(ctx context.Context, query string, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	notes, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("op=services.SearchNotes: %w", err)
	}
	return notes, nil
}
