package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/itish2003/notionkeep/models"
	"github.com/itish2003/notionkeep/store"
)

// Importer mirrors the .md, .txt and .pdf files of a directory into the note
// repository: one note per file, keyed by a stable id derived from the path.
type Importer struct {
	repo    store.NoteRepository
	dir     string
	extract func(path string) (string, error)
	logger  *slog.Logger

	mu     sync.Mutex
	hashes map[string]string // path -> content hash of the last import
}

func NewImporter(repo store.NoteRepository, dir string, logger *slog.Logger) (*Importer, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute path for INDEX_PATH: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		repo:    repo,
		dir:     absPath,
		extract: ExtractTextFromFile,
		logger:  logger.With(slog.String("component", "importer")),
		hashes:  make(map[string]string),
	}, nil
}

// NoteIDForPath is the note id of an imported file.
func NoteIDForPath(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}

// Run imports the directory once and then follows changes until ctx is done.
func (im *Importer) Run(ctx context.Context) error {
	im.Scan(ctx)
	return im.Watch(ctx)
}

// Scan brings the repository in line with the directory.
func (im *Importer) Scan(ctx context.Context) {
	im.logger.Info("starting directory scan", slog.String("dir", im.dir))

	seen := make(map[string]bool)
	err := filepath.WalkDir(im.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedFile(path) {
			return nil
		}
		seen[path] = true
		if err := im.importFile(ctx, path); err != nil {
			im.logger.Error("import failed", slog.String("path", path), slog.Any("error", err))
		}
		return nil
	})
	if err != nil {
		im.logger.Error("error walking directory", slog.String("dir", im.dir), slog.Any("error", err))
	}

	for _, path := range im.trackedPaths() {
		if !seen[path] {
			im.removeFile(ctx, path)
		}
	}
	im.logger.Info("directory scan finished", slog.Int("files", len(seen)))
}

// Watch follows create, write, remove and rename events until ctx is done.
func (im *Importer) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("op=services.Importer.Watch: failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(im.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("op=services.Importer.Watch: failed to add path to watcher: %w", err)
	}
	im.logger.Info("watching directory", slog.String("dir", im.dir))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			im.handle(ctx, watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			im.logger.Warn("watcher error", slog.Any("error", err))
		case <-ctx.Done():
			im.logger.Info("context cancelled, shutting down watcher")
			return nil
		}
	}
}

func (im *Importer) handle(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				im.logger.Warn("could not watch new directory", slog.String("path", event.Name), slog.Any("error", err))
			}
			return
		}
	}
	if !isSupportedFile(event.Name) {
		return
	}
	im.logger.Debug("watcher event", slog.String("event", event.String()))

	switch {
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		if err := im.importFile(ctx, event.Name); err != nil {
			im.logger.Error("import failed", slog.String("path", event.Name), slog.Any("error", err))
		}
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		// editors that save via rename produce a Create for the new file right after
		im.removeFile(ctx, event.Name)
	}
}

// importFile upserts the note of one file unless its content is unchanged.
func (im *Importer) importFile(ctx context.Context, path string) error {
	hash, err := calculateFileHash(path)
	if err != nil {
		return fmt.Errorf("could not hash file: %w", err)
	}
	im.mu.Lock()
	unchanged := im.hashes[path] == hash
	im.mu.Unlock()
	if unchanged {
		return nil
	}

	text, err := im.extract(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	id := NoteIDForPath(path)
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if existing, err := im.repo.Get(ctx, id); err == nil && existing.Title == title && existing.Content == text {
		// already imported by a previous run
		im.remember(path, hash)
		return nil
	}

	note := models.Note{
		ID:          id,
		Title:       title,
		Content:     text,
		Attachments: []models.Attachment{},
		UpdatedAt:   info.ModTime().UTC(),
	}
	if err := im.repo.Save(ctx, note); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	im.remember(path, hash)
	im.logger.Info("file imported", slog.String("path", path), slog.String("note_id", id))
	return nil
}

func (im *Importer) removeFile(ctx context.Context, path string) {
	im.mu.Lock()
	delete(im.hashes, path)
	im.mu.Unlock()

	err := im.repo.Delete(ctx, NoteIDForPath(path))
	switch {
	case err == nil:
		im.logger.Info("file removed from notes", slog.String("path", path))
	case errors.Is(err, models.ErrNoteNotFound):
	default:
		im.logger.Error("failed to delete note", slog.String("path", path), slog.Any("error", err))
	}
}

func (im *Importer) remember(path, hash string) {
	im.mu.Lock()
	im.hashes[path] = hash
	im.mu.Unlock()
}

func (im *Importer) trackedPaths() []string {
	im.mu.Lock()
	defer im.mu.Unlock()
	paths := make([]string, 0, len(im.hashes))
	for p := range im.hashes {
		paths = append(paths, p)
	}
	return paths
}

func calculateFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
