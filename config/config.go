// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all settings parsed from environment variables.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// GoogleAIAPIKey is optional at startup; chat requests fail with a
	// configuration error while it is empty.
	GoogleAIAPIKey string `env:"GOOGLE_AI_API_KEY"`
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	GeminiBaseURL  string `env:"GEMINI_BASE_URL"`

	// Models is the ordered chat roster, most preferred first.
	Models          []string      `env:"GEMINI_MODELS" envSeparator:"," envDefault:"gemini-1.5-flash,gemini-pro,gemini-pro-vision,gemini-1.5-pro"`
	ProbeModels     []string      `env:"GEMINI_PROBE_MODELS" envSeparator:"," envDefault:"gemini-1.5-pro,gemini-1.5-flash,gemini-pro,gemini-pro-vision,gemini-1.0-pro,gemini-1.0-pro-latest"`
	Temperature     float32       `env:"GEMINI_TEMPERATURE" envDefault:"0.7"`
	TopP            float32       `env:"GEMINI_TOP_P" envDefault:"0.8"`
	TopK            float32       `env:"GEMINI_TOP_K" envDefault:"40"`
	MaxOutputTokens int32         `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"1024"`
	RetryDelay      time.Duration `env:"DEFAULT_RETRY_DELAY" envDefault:"30s"`
	ChatTimeout     time.Duration `env:"CHAT_TIMEOUT" envDefault:"60s"`
	ChatLanguage    string        `env:"CHAT_LANGUAGE" envDefault:"it"`
	SnippetChars    int           `env:"CONTEXT_SNIPPET_CHARS" envDefault:"100"`

	NoteStore        string        `env:"NOTE_STORE" envDefault:"memory"`
	SeedWelcomeNote  bool          `env:"SEED_WELCOME_NOTE" envDefault:"true"`
	ChromaURL        string        `env:"CHROMA_URL" envDefault:"http://localhost:8000"`
	ChromaCollection string        `env:"CHROMA_COLLECTION" envDefault:"notionkeep-notes"`
	ChromaConnectMax time.Duration `env:"CHROMA_CONNECT_MAX_ELAPSED" envDefault:"30s"`
	OllamaURL        string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaEmbedModel string        `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text:v1.5"`

	// IndexPath, when set, is a directory whose .md/.txt/.pdf files are imported as notes.
	IndexPath        string `env:"INDEX_PATH"`
	UnidocLicenseKey string `env:"UNIDOC_LICENSE_KEY"`

	UploadDir        string   `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	MaxUploadMB      int64    `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// APIKey returns the Gemini API key, preferring GOOGLE_AI_API_KEY.
func (c Config) APIKey() string {
	if k := strings.TrimSpace(c.GoogleAIAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(c.GeminiAPIKey)
}

// HasAPIKey reports whether an upstream API key is configured.
func (c Config) HasAPIKey() bool { return c.APIKey() != "" }

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// UsesChroma reports whether notes are kept in ChromaDB instead of memory.
func (c Config) UsesChroma() bool { return strings.ToLower(c.NoteStore) == "chroma" }

// MaxUploadBytes is the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB * 1024 * 1024 }

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }
