package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Type:   "claude",
			OpenAI: OpenAIConfig{APIKey: "sk-test"},
		},
		Auth:      AuthConfig{Mode: "basic", Username: "admin", Password: "secret"},
		Embedding: EmbeddingConfig{Provider: "openai"},
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().validate())
	})

	t.Run("unknown model type", func(t *testing.T) {
		cfg := validConfig()
		cfg.Model.Type = "gemini"
		assert.Error(t, cfg.validate())
	})

	t.Run("unknown auth mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.Mode = "oauth"
		assert.Error(t, cfg.validate())
	})

	t.Run("basic auth requires username", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.Username = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("bearer auth requires secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.Mode = "bearer"
		cfg.Auth.JWTSecret = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("openai embeddings require api key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Model.OpenAI.APIKey = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("ollama embeddings require host", func(t *testing.T) {
		cfg := validConfig()
		cfg.Embedding.Provider = "ollama"
		cfg.Model.Ollama.Host = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("ollama embeddings with host", func(t *testing.T) {
		cfg := validConfig()
		cfg.Embedding.Provider = "ollama"
		cfg.Model.Ollama.Host = "http://localhost:11434"
		assert.NoError(t, cfg.validate())
	})

	t.Run("unknown embedding provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Embedding.Provider = "huggingface"
		assert.Error(t, cfg.validate())
	})
}
