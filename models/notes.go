package models

import "time"

// Attachment describes an uploaded file linked to a note.
type Attachment struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// Note is a single user note as stored by the note repository.
type Note struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NoteUpdate carries the fields of a partial note update. Nil fields are left untouched.
type NoteUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Content     *string       `json:"content,omitempty"`
	Attachments *[]Attachment `json:"attachments,omitempty"`
}

// ContextScope tells whether a NoteContext was built for one note or for the whole collection.
type ContextScope int

const (
	AllNotes ContextScope = iota
	SingleNote
)

func (s ContextScope) String() string {
	if s == SingleNote {
		return "single_note"
	}
	return "all_notes"
}

// NoteContext is the read-only set of notes a chat question is answered against.
type NoteContext struct {
	Notes []Note
	Scope ContextScope
}
