package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itish2003/notionkeep/models"
)

// FileStore is what the upload endpoint needs to persist a file.
type FileStore interface {
	Save(originalName, declaredType string, r io.Reader) (models.UploadResponse, error)
}

type UploadController struct {
	files    FileStore
	maxBytes int64
}

func NewUploadController(files FileStore, maxBytes int64) *UploadController {
	return &UploadController{files: files, maxBytes: maxBytes}
}

// Upload is the Gin handler for POST /api/upload (multipart field "file").
func (c *UploadController) Upload(ctx *gin.Context) {
	// room for the multipart envelope around the file itself
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxBytes+1<<20)

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, http.StatusRequestEntityTooLarge, models.ErrUploadTooLarge, "File too large")
			return
		}
		writeError(ctx, http.StatusBadRequest, err, "No file provided")
		return
	}
	defer file.Close()

	resp, err := c.files.Save(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, models.ErrUploadTooLarge) {
			writeError(ctx, http.StatusRequestEntityTooLarge, err, "File too large")
			return
		}
		writeError(ctx, http.StatusInternalServerError, err, "Failed to upload file")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
