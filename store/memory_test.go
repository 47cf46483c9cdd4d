package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itish2003/notionkeep/models"
)

// stepClock returns t0, t0+1m, t0+2m, ...
func stepClock(t0 time.Time) Clock {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := t0.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestMemoryStore_WelcomeNote(t *testing.T) {
	s := NewMemoryStore(WithClock(stepClock(t0)), WithWelcomeNote())

	notes, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Welcome to NotionKeep", notes[0].Title)
	assert.Equal(t, t0, notes[0].CreatedAt)

	empty, err := NewMemoryStore().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_CreateGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithClock(stepClock(t0)))

	created, err := s.Create(ctx, models.Note{Title: "Spesa", Content: "latte, pane"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, t0, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestMemoryStore_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Create(ctx, models.Note{ID: "a", Title: "A"})
	require.NoError(t, err)

	_, err = s.Create(ctx, models.Note{ID: "a", Title: "B"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithClock(stepClock(t0)))
	a, _ := s.Create(ctx, models.Note{Title: "A"})
	b, _ := s.Create(ctx, models.Note{Title: "B"})
	_, _ = s.Create(ctx, models.Note{Title: "C"})

	title := "A aggiornata"
	_, err := s.Update(ctx, a.ID, models.NoteUpdate{Title: &title})
	require.NoError(t, err)

	notes, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"A aggiornata", "C", "B"}, []string{notes[0].Title, notes[1].Title, notes[2].Title})
	assert.Equal(t, b.ID, notes[2].ID)
}

func TestMemoryStore_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithClock(stepClock(t0)))
	n, _ := s.Create(ctx, models.Note{Title: "Titolo", Content: "vecchio"})

	content := "nuovo"
	upd, err := s.Update(ctx, n.ID, models.NoteUpdate{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "Titolo", upd.Title)
	assert.Equal(t, "nuovo", upd.Content)
	assert.Equal(t, n.CreatedAt, upd.CreatedAt)
	assert.True(t, upd.UpdatedAt.After(n.UpdatedAt))

	_, err = s.Update(ctx, "missing", models.NoteUpdate{Content: &content})
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	n, _ := s.Create(ctx, models.Note{Title: "Via"})

	require.NoError(t, s.Delete(ctx, n.ID))
	assert.ErrorIs(t, s.Delete(ctx, n.ID), models.ErrNoteNotFound)
	_, err := s.Get(ctx, n.ID)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestMemoryStore_SaveUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithClock(stepClock(t0)))

	require.NoError(t, s.Save(ctx, models.Note{ID: "file-1", Title: "diario", Content: "v1"}))
	first, err := s.Get(ctx, "file-1")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, models.Note{ID: "file-1", Title: "diario", Content: "v2"}))
	second, err := s.Get(ctx, "file-1")
	require.NoError(t, err)

	assert.Equal(t, "v2", second.Content)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	assert.ErrorIs(t, s.Save(ctx, models.Note{Title: "no id"}), models.ErrInvalidArgument)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	n, _ := s.Create(ctx, models.Note{Title: "A", Attachments: []models.Attachment{{FileName: "a.pdf"}}})

	got, _ := s.Get(ctx, n.ID)
	got.Attachments[0].FileName = "changed.pdf"
	got.Title = "changed"

	again, _ := s.Get(ctx, n.ID)
	assert.Equal(t, "A", again.Title)
	assert.Equal(t, "a.pdf", again.Attachments[0].FileName)
}

func TestMemoryStore_Search(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithClock(stepClock(t0)))
	_, _ = s.Create(ctx, models.Note{Title: "Ricette", Content: "pasta al pomodoro"})
	_, _ = s.Create(ctx, models.Note{Title: "Lavoro", Content: "riunione lunedì"})
	_, _ = s.Create(ctx, models.Note{Title: "Pomodori", Content: "orto"})

	hits, err := s.Search(ctx, "POMODOR", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Pomodori", hits[0].Title)
	assert.Equal(t, "Ricette", hits[1].Title)

	hits, err = s.Search(ctx, "pomodor", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.Search(ctx, "  ", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Create(ctx, models.Note{Title: "n"})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.List(ctx)
		}()
	}
	wg.Wait()

	notes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 20)
}
