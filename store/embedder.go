package store

import (
	"context"
	"fmt"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/ollama"
)

// Embedder turns texts into vectors. The Chroma embedding functions satisfy it.
type Embedder = embeddings.EmbeddingFunction

// NewOllamaEmbedder returns an embedding function backed by the /api/embed
// endpoint of a local Ollama server.
func NewOllamaEmbedder(baseURL, model string) (Embedder, error) {
	ef, err := ollama.NewOllamaEmbeddingFunction(
		ollama.WithBaseURL(baseURL),
		ollama.WithModel(embeddings.EmbeddingModel(model)),
	)
	if err != nil {
		return nil, fmt.Errorf("op=store.NewOllamaEmbedder: %w", err)
	}
	return ef, nil
}

// embedTexts embeds texts in one batch and returns plain vectors.
func embedTexts(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	embs, err := e.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embs) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(embs), len(texts))
	}
	vectors := make([][]float32, 0, len(embs))
	for i, emb := range embs {
		if emb == nil || emb.Len() == 0 {
			return nil, fmt.Errorf("empty embedding for text %d", i)
		}
		vectors = append(vectors, emb.ContentAsFloat32())
	}
	return vectors, nil
}
