package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/souravdas/ragchat/internal/llm"
)

// Provider implements llm.Provider against a local Ollama instance. This is
// the "mistral" model path: a locally hosted model instead of a remote API.
type Provider struct {
	host         string
	defaultModel string
	client       *api.Client
}

// NewProvider creates a new Ollama provider
func NewProvider(host, defaultModel string) (llm.Provider, error) {
	if defaultModel == "" {
		defaultModel = "mistral"
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	return &Provider{
		host:         host,
		defaultModel: defaultModel,
		client:       api.NewClient(base, &http.Client{Timeout: 300 * time.Second}),
	}, nil
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "mistral"
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.host != ""
}

// Complete generates an assistant reply for the given messages
func (p *Provider) Complete(ctx context.Context, messages []llm.Message, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	chat := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		chat = append(chat, api.Message{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	stream := false

	var content string
	var evalCount int
	err := p.client.Chat(ctx, &api.ChatRequest{
		Model:    model,
		Messages: chat,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": 0.8,
			"num_predict": 512,
		},
	}, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		if resp.Done {
			evalCount = resp.EvalCount
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat failed: %w", err)
	}

	return &llm.Response{
		Content:    content,
		Model:      model,
		TokensUsed: evalCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
