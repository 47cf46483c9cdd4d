package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itish2003/notionkeep/models"
	"github.com/itish2003/notionkeep/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestImporter(t *testing.T, repo store.NoteRepository, dir string) *Importer {
	t.Helper()
	im, err := NewImporter(repo, dir, quietLogger())
	require.NoError(t, err)
	return im
}

func TestNoteIDForPath_Stable(t *testing.T) {
	a := NoteIDForPath("/notes/diario.md")
	assert.Equal(t, a, NoteIDForPath("/notes/diario.md"))
	assert.NotEqual(t, a, NoteIDForPath("/notes/diario.txt"))
}

func TestImporter_Scan(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "diario.md"), "oggi ho scritto codice")
	writeFile(t, filepath.Join(dir, "sub", "lista.txt"), "uova")
	writeFile(t, filepath.Join(dir, "foto.png"), "not a note")
	repo := store.NewMemoryStore()

	im := newTestImporter(t, repo, dir)
	im.Scan(ctx)

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	n, err := repo.Get(ctx, NoteIDForPath(filepath.Join(im.dir, "diario.md")))
	require.NoError(t, err)
	assert.Equal(t, "diario", n.Title)
	assert.Equal(t, "oggi ho scritto codice", n.Content)
}

func TestImporter_SkipsUnchangedAndUpdatesChanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "diario.md")
	writeFile(t, path, "v1")
	repo := store.NewMemoryStore()
	im := newTestImporter(t, repo, dir)

	calls := 0
	im.extract = func(p string) (string, error) {
		calls++
		return ExtractTextFromFile(p)
	}

	im.Scan(ctx)
	im.Scan(ctx)
	assert.Equal(t, 1, calls)

	writeFile(t, path, "v2")
	im.Scan(ctx)
	assert.Equal(t, 2, calls)

	n, err := repo.Get(ctx, NoteIDForPath(path))
	require.NoError(t, err)
	assert.Equal(t, "v2", n.Content)
}

func TestImporter_RestartDoesNotRewrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "diario.md")
	writeFile(t, path, "contenuto")
	repo := store.NewMemoryStore()

	newTestImporter(t, repo, dir).Scan(ctx)
	before, err := repo.Get(ctx, NoteIDForPath(path))
	require.NoError(t, err)

	newTestImporter(t, repo, dir).Scan(ctx)
	after, err := repo.Get(ctx, NoteIDForPath(path))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImporter_ScanRemovesDeletedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "temp.txt")
	writeFile(t, path, "da cancellare")
	repo := store.NewMemoryStore()
	im := newTestImporter(t, repo, dir)

	im.Scan(ctx)
	require.NoError(t, os.Remove(path))
	im.Scan(ctx)

	_, err := repo.Get(ctx, NoteIDForPath(path))
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestImporter_WatchFollowsChanges(t *testing.T) {
	dir := t.TempDir()
	repo := store.NewMemoryStore()
	im := newTestImporter(t, repo, dir)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- im.Watch(ctx) }()

	path := filepath.Join(im.dir, "nuova.md")
	id := NoteIDForPath(path)

	// the watcher registers asynchronously; rewrite until the note shows up
	require.Eventually(t, func() bool {
		writeFile(t, path, "prima versione")
		_, err := repo.Get(context.Background(), id)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, err := repo.Get(context.Background(), id)
		return err != nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
