package models

// CreateNoteRequest is the body of POST /api/notes.
type CreateNoteRequest struct {
	Title       string       `json:"title" binding:"required,max=200"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
}

// UpdateNoteRequest is the body of PUT /api/notes/:id.
type UpdateNoteRequest struct {
	Title       *string       `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Content     *string       `json:"content,omitempty"`
	Attachments *[]Attachment `json:"attachments,omitempty"`
}

// ChatRequest is the body of POST /api/chat. NoteID is optional; when empty
// the question is answered against every note.
type ChatRequest struct {
	Question string `json:"message"`
	NoteID   string `json:"noteId,omitempty"`
}
