package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/itish2003/notionkeep/models"
)

// statusFor maps service sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// writeError records err on the gin context for the access log and answers
// with message, never with the raw error text.
func writeError(ctx *gin.Context, status int, err error, message string) {
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(status, models.ErrorResponse{Error: message})
}

// writeBindError reports a request body that failed to decode or validate.
// Validation failures list the offending fields.
func writeBindError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[lowerFirst(fe.Field())] = fe.Tag()
		}
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Details: details})
		return
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
