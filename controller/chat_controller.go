package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/itish2003/notionkeep/models"
)

// ChatService is what the chat endpoints need from the services layer.
type ChatService interface {
	AnswerChat(ctx context.Context, req models.ChatRequest) (models.ChatResult, error)
	ProbeModels(ctx context.Context) (models.ModelsResponse, error)
	HasAPIKey() bool
}

const (
	msgMissingKey     = "API key di Google AI non configurata. Aggiungila nelle impostazioni."
	msgMissingKeyHint = "API key di Google AI non configurata"
	msgNoteNotFound   = "Nota non trovata"
	msgNotesFailed    = "Impossibile recuperare i dati delle note"
	msgEmptyMessage   = "Messaggio mancante"
)

type ChatController struct {
	chatService ChatService
}

func NewChatController(service ChatService) *ChatController {
	return &ChatController{chatService: service}
}

// Chat is the Gin handler for POST /api/chat. Upstream model failures still
// answer 200 with fallback=true; only request and configuration problems are errors.
func (c *ChatController) Chat(ctx *gin.Context) {
	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(ctx, http.StatusBadRequest, models.ErrInvalidArgument, msgEmptyMessage)
		return
	}

	result, err := c.chatService.AnswerChat(ctx.Request.Context(), req)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, models.ChatResponse{Response: result.AnswerText, Fallback: result.UsedFallback})
	case errors.Is(err, models.ErrConfiguration):
		writeError(ctx, http.StatusInternalServerError, err, msgMissingKey)
	case errors.Is(err, models.ErrNoteNotFound):
		writeError(ctx, http.StatusNotFound, err, msgNoteNotFound)
	case errors.Is(err, models.ErrInvalidArgument):
		writeError(ctx, http.StatusBadRequest, err, msgEmptyMessage)
	default:
		writeError(ctx, http.StatusInternalServerError, err, msgNotesFailed)
	}
}

// Models is the Gin handler for GET /api/models.
func (c *ChatController) Models(ctx *gin.Context) {
	resp, err := c.chatService.ProbeModels(ctx.Request.Context())
	if err != nil {
		msg := "Errore nella richiesta API"
		if errors.Is(err, models.ErrConfiguration) {
			msg = msgMissingKeyHint
		}
		writeError(ctx, http.StatusInternalServerError, err, msg)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CheckAPIKey is the Gin handler for GET /api/check-api-key.
func (c *ChatController) CheckAPIKey(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.APIKeyStatusResponse{HasAPIKey: c.chatService.HasAPIKey()})
}
