package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

const ollamaEmbeddingDim = 768 // nomic-embed-text

// OllamaEmbedder implements Embedder against a local Ollama instance
type OllamaEmbedder struct {
	client *api.Client
	model  string
}

// NewOllamaEmbedder creates an Ollama-backed embedder
func NewOllamaEmbedder(host, model string) (*OllamaEmbedder, error) {
	if model == "" {
		model = "nomic-embed-text"
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	return &OllamaEmbedder{
		client: api.NewClient(base, &http.Client{Timeout: 120 * time.Second}),
		model:  model,
	}, nil
}

func (e *OllamaEmbedder) Name() string {
	return "ollama"
}

func (e *OllamaEmbedder) Dimension() int {
	return ollamaEmbeddingDim
}

// Embed returns one vector per input text
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed request failed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	return resp.Embeddings, nil
}
