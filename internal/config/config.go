package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Milvus    MilvusConfig    `mapstructure:"milvus"`
	WordPress WordPressConfig `mapstructure:"wordpress"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Model     ModelConfig     `mapstructure:"model"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MilvusConfig struct {
	Address   string        `mapstructure:"address"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	OpTimeout time.Duration `mapstructure:"op_timeout"`
}

type WordPressConfig struct {
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// AuthConfig selects the authentication variant. Mode "basic" compares the
// configured credentials; mode "bearer" validates signed JWTs.
type AuthConfig struct {
	Mode            string        `mapstructure:"mode"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	PasswordHash    string        `mapstructure:"password_hash"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type ModelConfig struct {
	Type      string          `mapstructure:"type"`
	Name      string          `mapstructure:"name"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type OllamaConfig struct {
	Host string `mapstructure:"host"`
}

type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

type IngestConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Model.Type {
	case "claude", "openai", "mistral":
	default:
		return fmt.Errorf("unsupported model type: %q", c.Model.Type)
	}

	if c.Auth.Mode != "basic" && c.Auth.Mode != "bearer" {
		return fmt.Errorf("unsupported auth mode: %q", c.Auth.Mode)
	}

	if c.Auth.Mode == "basic" && c.Auth.Username == "" {
		return fmt.Errorf("auth.username must be set for basic auth")
	}
	if c.Auth.Mode == "bearer" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set for bearer auth")
	}

	switch c.Embedding.Provider {
	case "openai":
		if c.Model.OpenAI.APIKey == "" {
			return fmt.Errorf("model.openai.api_key must be set for openai embeddings")
		}
	case "ollama":
		if c.Model.Ollama.Host == "" {
			return fmt.Errorf("model.ollama.host must be set for ollama embeddings")
		}
	default:
		return fmt.Errorf("unsupported embedding provider: %q", c.Embedding.Provider)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "600s")

	// Milvus
	v.SetDefault("milvus.address", "localhost:19530")
	v.SetDefault("milvus.op_timeout", "30s")

	// WordPress
	v.SetDefault("wordpress.fetch_timeout", "600s")

	// Auth
	v.SetDefault("auth.mode", "basic")
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h") // 7 days

	// Model
	v.SetDefault("model.type", "claude")
	v.SetDefault("model.ollama.host", "http://localhost:11434")

	// Embedding
	v.SetDefault("embedding.provider", "openai")

	// Ingest
	v.SetDefault("ingest.chunk_size", 1000)

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 60)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Redis
	v.BindEnv("redis.url", "REDIS_URL")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.ttl", "REDIS_TTL")

	// Milvus
	v.BindEnv("milvus.address", "MILVUS_ADDRESS")
	v.BindEnv("milvus.username", "MILVUS_USERNAME")
	v.BindEnv("milvus.password", "MILVUS_PASSWORD")

	// WordPress content API
	v.BindEnv("wordpress.user", "WP_USER")
	v.BindEnv("wordpress.password", "WP_PASSWORD")

	// Auth
	v.BindEnv("auth.username", "AUTH_USERNAME")
	v.BindEnv("auth.password", "AUTH_PASSWORD")
	v.BindEnv("auth.password_hash", "AUTH_PASSWORD_HASH")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET_KEY")
	v.BindEnv("auth.mode", "AUTH_MODE")

	// Model
	v.BindEnv("model.type", "MODEL_TYPE")
	v.BindEnv("model.name", "MODEL_NAME")
	v.BindEnv("model.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("model.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("model.ollama.host", "OLLAMA_HOST")

	// Embedding
	v.BindEnv("embedding.provider", "EMBEDDING_PROVIDER")
	v.BindEnv("embedding.model", "EMBEDDING_MODEL")
}
