package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itish2003/notionkeep/models"
)

// NoteService is what the note endpoints need from the services layer.
type NoteService interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (models.Note, error)
	CreateNote(ctx context.Context, req models.CreateNoteRequest) (models.Note, error)
	UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	SearchNotes(ctx context.Context, query string, limit int) ([]models.Note, error)
}

// NotesController serves the note CRUD endpoints.
type NotesController struct {
	noteService NoteService
}

func NewNotesController(service NoteService) *NotesController {
	return &NotesController{noteService: service}
}

// ListNotes is the Gin handler for GET /api/notes, newest first.
func (c *NotesController) ListNotes(ctx *gin.Context) {
	notes, err := c.noteService.ListNotes(ctx.Request.Context())
	if err != nil {
		writeError(ctx, http.StatusInternalServerError, err, "Failed to fetch notes")
		return
	}
	ctx.JSON(http.StatusOK, notes)
}

// SearchNotes is the Gin handler for GET /api/notes/search?q=&limit=.
func (c *NotesController) SearchNotes(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(ctx, http.StatusBadRequest, models.ErrInvalidArgument, "Invalid limit")
			return
		}
		limit = n
	}
	notes, err := c.noteService.SearchNotes(ctx.Request.Context(), ctx.Query("q"), limit)
	if err != nil {
		writeError(ctx, http.StatusInternalServerError, err, "Failed to search notes")
		return
	}
	ctx.JSON(http.StatusOK, notes)
}

func (c *NotesController) GetNote(ctx *gin.Context) {
	note, err := c.noteService.GetNote(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to fetch note")
		return
	}
	ctx.JSON(http.StatusOK, note)
}

func (c *NotesController) CreateNote(ctx *gin.Context) {
	var req models.CreateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err)
		return
	}
	note, err := c.noteService.CreateNote(ctx.Request.Context(), req)
	if err != nil {
		c.fail(ctx, err, "Failed to create note")
		return
	}
	ctx.JSON(http.StatusCreated, note)
}

func (c *NotesController) UpdateNote(ctx *gin.Context) {
	var req models.UpdateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err)
		return
	}
	note, err := c.noteService.UpdateNote(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err, "Failed to update note")
		return
	}
	ctx.JSON(http.StatusOK, note)
}

func (c *NotesController) DeleteNote(ctx *gin.Context) {
	if err := c.noteService.DeleteNote(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.fail(ctx, err, "Failed to delete note")
		return
	}
	ctx.JSON(http.StatusOK, models.DeleteNoteResponse{Success: true})
}

func (c *NotesController) fail(ctx *gin.Context, err error, message string) {
	status := statusFor(err)
	switch {
	case errors.Is(err, models.ErrNoteNotFound):
		message = "Note not found"
	case status == http.StatusBadRequest:
		message = "Invalid request body"
	}
	writeError(ctx, status, err, message)
}
