package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-pro", "gemini-pro-vision", "gemini-1.5-pro"}, cfg.Models)
	assert.Equal(t, 30*time.Second, cfg.RetryDelay)
	assert.Equal(t, float32(0.7), cfg.Temperature)
	assert.Equal(t, float32(0.8), cfg.TopP)
	assert.Equal(t, float32(40), cfg.TopK)
	assert.Equal(t, int32(1024), cfg.MaxOutputTokens)
	assert.Equal(t, 100, cfg.SnippetChars)
	assert.Equal(t, "it", cfg.ChatLanguage)
	assert.False(t, cfg.HasAPIKey())
	assert.False(t, cfg.UsesChroma())
	assert.Equal(t, "http://localhost:8000", cfg.ChromaURL)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_MODELS", "a,b")
	t.Setenv("DEFAULT_RETRY_DELAY", "5s")
	t.Setenv("NOTE_STORE", "Chroma")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, []string{"a", "b"}, cfg.Models)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay)
	assert.True(t, cfg.UsesChroma())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=config.Load")
}

func TestAPIKey_Precedence(t *testing.T) {
	cfg := Config{GoogleAIAPIKey: "  primary ", GeminiAPIKey: "secondary"}
	assert.Equal(t, "primary", cfg.APIKey())

	cfg = Config{GeminiAPIKey: "secondary"}
	assert.Equal(t, "secondary", cfg.APIKey())
	assert.True(t, cfg.HasAPIKey())
}
