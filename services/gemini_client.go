package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/itish2003/notionkeep/metrics"
	"github.com/itish2003/notionkeep/models"
)

// GenerationParameters are applied identically to every roster model.
type GenerationParameters struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

func DefaultGenerationParameters() GenerationParameters {
	return GenerationParameters{Temperature: 0.7, TopP: 0.8, TopK: 40, MaxOutputTokens: 1024}
}

func (p GenerationParameters) config() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.Temperature),
		TopP:            genai.Ptr(p.TopP),
		TopK:            genai.Ptr(p.TopK),
		MaxOutputTokens: p.MaxOutputTokens,
	}
}

// GeminiClient wraps exactly one generateContent call per Generate and
// translates its result into an AttemptOutcome. It never retries.
type GeminiClient struct {
	client     *genai.Client
	params     GenerationParameters
	classifier ErrorClassifier
}

// NewGeminiClient connects to the Gemini API. baseURL is empty in production
// and points at a local server in tests.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string, params GenerationParameters, classifier ErrorClassifier) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("op=services.NewGeminiClient: missing api key: %w", models.ErrConfiguration)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("op=services.NewGeminiClient: %w", err)
	}
	if classifier == nil {
		classifier = NewQuotaClassifier(DefaultRetryDelay)
	}
	return &GeminiClient{client: client, params: params, classifier: classifier}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, model, prompt string) AttemptOutcome {
	start := time.Now()
	out := g.generate(ctx, model, prompt)
	metrics.ObserveUpstreamCall(model, out.Kind.String(), time.Since(start))
	return out
}

func (g *GeminiClient) generate(ctx context.Context, model, prompt string) AttemptOutcome {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), g.params.config())
	if err != nil {
		return g.classifier.Classify(RawErrorText(err))
	}
	if resp == nil {
		return OtherFailure("empty response body from model " + model)
	}
	// blank text is reported as Success and rejected by the orchestrator
	return Success(resp.Text())
}

// RawErrorText renders an upstream error with its details as JSON, so hints
// such as retryDelay":"12s" survive into the text the classifier sees.
func RawErrorText(err error) string {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	details, jerr := json.Marshal(apiErr.Details)
	if jerr != nil {
		return apiErr.Error()
	}
	return fmt.Sprintf("Error %d, Message: %s, Status: %s, Details: %s", apiErr.Code, apiErr.Message, apiErr.Status, details)
}
