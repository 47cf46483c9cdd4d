package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/itish2003/notionkeep/models"
)

// UploadURLPrefix is where the router serves the upload directory.
const UploadURLPrefix = "/uploads/"

// FileStore writes note attachments into a single upload directory.
type FileStore struct {
	Dir      string // absolute path of the upload directory
	MaxBytes int64
}

func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute path for %s: %w", dir, err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}
	return &FileStore{Dir: absPath, MaxBytes: maxBytes}, nil
}

// Save stores r under a fresh <uuid>.<ext> name. declaredType is the client
// content type; when it is missing or generic the type is sniffed instead.
func (fs *FileStore) Save(originalName, declaredType string, r io.Reader) (models.UploadResponse, error) {
	data, err := io.ReadAll(io.LimitReader(r, fs.MaxBytes+1))
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("op=services.FileStore.Save: read: %w", err)
	}
	if int64(len(data)) > fs.MaxBytes {
		return models.UploadResponse{}, fmt.Errorf("op=services.FileStore.Save: limit %d bytes: %w", fs.MaxBytes, models.ErrUploadTooLarge)
	}

	detected := mimetype.Detect(data)
	fileType := strings.TrimSpace(declaredType)
	if fileType == "" || fileType == "application/octet-stream" {
		fileType = detected.String()
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = detected.Extension()
	}
	name := uuid.NewString() + ext

	path, err := fs.resolve(name)
	if err != nil {
		return models.UploadResponse{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return models.UploadResponse{}, fmt.Errorf("op=services.FileStore.Save: write: %w", err)
	}

	return models.UploadResponse{
		Success:  true,
		FileURL:  UploadURLPrefix + name,
		FileName: filepath.Base(originalName),
		FileType: fileType,
		FileSize: int64(len(data)),
	}, nil
}

// Remove deletes an uploaded file by its public URL or bare name.
func (fs *FileStore) Remove(fileURL string) error {
	path, err := fs.resolve(strings.TrimPrefix(fileURL, UploadURLPrefix))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("op=services.FileStore.Remove: %w", err)
	}
	return nil
}

// resolve keeps every path inside Dir.
func (fs *FileStore) resolve(name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q: %w", name, models.ErrInvalidArgument)
	}
	cleanPath := filepath.Join(fs.Dir, base)
	if !strings.HasPrefix(cleanPath, fs.Dir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file name %q, escapes upload directory: %w", name, models.ErrInvalidArgument)
	}
	return cleanPath, nil
}
