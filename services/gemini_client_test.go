package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/itish2003/notionkeep/models"
)

type capturedRequest struct {
	model  string
	apiKey string
	body   map[string]any
}

// fakeGemini serves the generateContent endpoint with a fixed status and body.
func fakeGemini(t *testing.T, status int, body string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			path := r.URL.Path
			if i := strings.Index(path, "models/"); i >= 0 {
				seen.model = strings.TrimSuffix(path[i+len("models/"):], ":generateContent")
			}
			seen.apiKey = r.Header.Get("x-goog-api-key")
			_ = json.NewDecoder(r.Body).Decode(&seen.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGemini(t *testing.T, srv *httptest.Server) *GeminiClient {
	t.Helper()
	g, err := NewGeminiClient(context.Background(), "test-key", srv.URL, DefaultGenerationParameters(), nil)
	require.NoError(t, err)
	return g
}

func TestGeminiClient_Success(t *testing.T) {
	seen := &capturedRequest{}
	srv := fakeGemini(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hai due note."}]}}]}`, seen)

	out := newTestGemini(t, srv).Generate(context.Background(), "gemini-1.5-flash", "prompt di prova")

	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, "Hai due note.", out.Text)
	assert.Equal(t, "gemini-1.5-flash", seen.model)
	assert.Equal(t, "test-key", seen.apiKey)

	cfg, ok := seen.body["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig missing from %v", seen.body)
	assert.InDelta(t, 0.7, cfg["temperature"], 1e-6)
	assert.InDelta(t, 0.8, cfg["topP"], 1e-6)
	assert.InDelta(t, 40, cfg["topK"], 1e-6)
	assert.InDelta(t, 1024, cfg["maxOutputTokens"], 1e-6)
}

func TestGeminiClient_QuotaWithRetryDelay(t *testing.T) {
	srv := fakeGemini(t, http.StatusTooManyRequests, `{"error":{"code":429,
		"message":"You exceeded your current quota, please check your plan and billing details.",
		"status":"RESOURCE_EXHAUSTED",
		"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"12s"}]}}`, nil)

	out := newTestGemini(t, srv).Generate(context.Background(), "gemini-pro", "p")

	assert.Equal(t, OutcomeQuotaExceeded, out.Kind)
	assert.Equal(t, 12*time.Second, out.RetryAfter)
	assert.Contains(t, out.Message, `"retryDelay":"12s"`)
}

func TestGeminiClient_QuotaWithoutHint(t *testing.T) {
	srv := fakeGemini(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"Too many requests","status":"RESOURCE_EXHAUSTED"}}`, nil)

	out := newTestGemini(t, srv).Generate(context.Background(), "gemini-pro", "p")

	assert.Equal(t, OutcomeQuotaExceeded, out.Kind)
	assert.Equal(t, DefaultRetryDelay, out.RetryAfter)
}

func TestGeminiClient_ServerError(t *testing.T) {
	srv := fakeGemini(t, http.StatusInternalServerError,
		`{"error":{"code":500,"message":"Internal error encountered.","status":"INTERNAL"}}`, nil)

	out := newTestGemini(t, srv).Generate(context.Background(), "gemini-pro", "p")

	assert.Equal(t, OutcomeOtherFailure, out.Kind)
	assert.Contains(t, out.Message, "Internal error encountered.")
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{"candidates":[]}`, nil)

	out := newTestGemini(t, srv).Generate(context.Background(), "gemini-pro", "p")

	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Empty(t, out.Text)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "  ", "", DefaultGenerationParameters(), nil)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestRawErrorText(t *testing.T) {
	plain := errors.New("dial tcp: connection refused")
	assert.Equal(t, "dial tcp: connection refused", RawErrorText(plain))

	apiErr := genai.APIError{
		Code:    429,
		Message: "quota",
		Status:  "RESOURCE_EXHAUSTED",
		Details: []map[string]any{{"retryDelay": "7s"}},
	}
	got := RawErrorText(apiErr)
	assert.Equal(t, `Error 429, Message: quota, Status: RESOURCE_EXHAUSTED, Details: [{"retryDelay":"7s"}]`, got)
	assert.Equal(t, 7*time.Second, ParseRetryDelay(got, DefaultRetryDelay))
}
