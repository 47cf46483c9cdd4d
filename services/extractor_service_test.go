package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextFromFile(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "idee.md")
	require.NoError(t, os.WriteFile(md, []byte("# Idee\n\nuna app"), 0o644))

	text, err := ExtractTextFromFile(md)
	require.NoError(t, err)
	assert.Equal(t, "# Idee\n\nuna app", text)

	_, err = ExtractTextFromFile(filepath.Join(dir, "foto.png"))
	assert.ErrorContains(t, err, "unsupported file type: .png")

	_, err = ExtractTextFromFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestIsSupportedFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.md":     true,
		"b.TXT":    true,
		"c.pdf":    true,
		"d.docx":   false,
		".hidden":  false,
		"noext":    false,
		"dir/e.Md": true,
	} {
		assert.Equal(t, want, isSupportedFile(path), path)
	}
}

func TestSetupPDFLicense_RequiresKey(t *testing.T) {
	assert.Error(t, SetupPDFLicense(" "))
}
