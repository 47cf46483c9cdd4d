package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itish2003/notionkeep/models"
)

// MemoryStore keeps notes in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	notes []models.Note // newest insert first
	now   Clock
}

type MemoryOption func(*MemoryStore)

// WithClock overrides time.Now.
func WithClock(c Clock) MemoryOption {
	return func(s *MemoryStore) { s.now = c }
}

// WithWelcomeNote seeds the store with the welcome note.
func WithWelcomeNote() MemoryOption {
	return func(s *MemoryStore) {
		s.notes = append(s.notes, WelcomeNote(s.now()))
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, cloneNote(n))
	}
	sortByRecency(out)
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, fmt.Errorf("op=store.Get id=%s: %w", id, models.ErrNoteNotFound)
	}
	return cloneNote(s.notes[i]), nil
}

func (s *MemoryStore) Create(_ context.Context, note models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == "" {
		note.ID = uuid.NewString()
	} else if s.indexOf(note.ID) >= 0 {
		return models.Note{}, fmt.Errorf("op=store.Create id=%s: duplicate id: %w", note.ID, models.ErrInvalidArgument)
	}
	now := s.now()
	note.CreatedAt, note.UpdatedAt = now, now
	note = cloneNote(note)
	s.notes = append([]models.Note{note}, s.notes...)
	return cloneNote(note), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, upd models.NoteUpdate) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, fmt.Errorf("op=store.Update id=%s: %w", id, models.ErrNoteNotFound)
	}
	s.notes[i] = applyUpdate(s.notes[i], upd, s.now())
	return cloneNote(s.notes[i]), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("op=store.Delete id=%s: %w", id, models.ErrNoteNotFound)
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return nil
}

func (s *MemoryStore) Save(_ context.Context, note models.Note) error {
	if note.ID == "" {
		return fmt.Errorf("op=store.Save: empty id: %w", models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}
	if i := s.indexOf(note.ID); i >= 0 {
		note.CreatedAt = s.notes[i].CreatedAt
		s.notes[i] = cloneNote(note)
		return nil
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	s.notes = append([]models.Note{cloneNote(note)}, s.notes...)
	return nil
}

// Search matches query case-insensitively against titles and contents.
func (s *MemoryStore) Search(ctx context.Context, query string, limit int) ([]models.Note, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return trimTo(all, limit), nil
	}
	hits := make([]models.Note, 0)
	for _, n := range all {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			hits = append(hits, n)
		}
	}
	return trimTo(hits, limit), nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) indexOf(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func trimTo(notes []models.Note, limit int) []models.Note {
	if limit > 0 && len(notes) > limit {
		return notes[:limit]
	}
	return notes
}
