// Package store keeps notes. The chat pipeline only reads from it; the HTTP
// handlers and the directory importer write to it.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/itish2003/notionkeep/models"
)

// NoteRepository is implemented by every note backend. Lookups of unknown
// ids return models.ErrNoteNotFound.
type NoteRepository interface {
	// List returns every note, most recently updated first.
	List(ctx context.Context) ([]models.Note, error)
	Get(ctx context.Context, id string) (models.Note, error)
	// Create assigns the id (when empty) and both timestamps.
	Create(ctx context.Context, note models.Note) (models.Note, error)
	// Update applies the non-nil fields of upd and bumps UpdatedAt.
	Update(ctx context.Context, id string, upd models.NoteUpdate) (models.Note, error)
	Delete(ctx context.Context, id string) error
	// Save inserts or replaces a note by id, keeping CreatedAt of an existing note.
	Save(ctx context.Context, note models.Note) error
	Search(ctx context.Context, query string, limit int) ([]models.Note, error)
	Close() error
}

// Clock lets tests pin timestamps.
type Clock func() time.Time

// WelcomeNote is the note a fresh in-memory store starts with.
func WelcomeNote(now time.Time) models.Note {
	return models.Note{
		ID:          "1",
		Title:       "Welcome to NotionKeep",
		Content:     "This is your first note. You can edit it or create a new one.",
		Attachments: []models.Attachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// sortByRecency orders notes by UpdatedAt, newest first; ties keep their order.
func sortByRecency(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}

func applyUpdate(n models.Note, upd models.NoteUpdate, now time.Time) models.Note {
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Content != nil {
		n.Content = *upd.Content
	}
	if upd.Attachments != nil {
		n.Attachments = cloneAttachments(*upd.Attachments)
	}
	n.UpdatedAt = now
	return n
}

func cloneNote(n models.Note) models.Note {
	n.Attachments = cloneAttachments(n.Attachments)
	return n
}

func cloneAttachments(in []models.Attachment) []models.Attachment {
	out := make([]models.Attachment, len(in))
	copy(out, in)
	return out
}
