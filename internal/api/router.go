package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/souravdas/ragchat/internal/api/handler"
	custommiddleware "github.com/souravdas/ragchat/internal/api/middleware"
	"github.com/souravdas/ragchat/internal/config"
	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/ingest"
	"github.com/souravdas/ragchat/internal/llm"
	"github.com/souravdas/ragchat/internal/llm/anthropic"
	llmollama "github.com/souravdas/ragchat/internal/llm/ollama"
	llmopenai "github.com/souravdas/ragchat/internal/llm/openai"
	"github.com/souravdas/ragchat/internal/repository/redis"
	"github.com/souravdas/ragchat/internal/security"
	"github.com/souravdas/ragchat/internal/service"
	"github.com/souravdas/ragchat/internal/wordpress"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, redisClient *redis.Client, store domain.VectorStore) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Ingestion pipeline dependencies
	fetcher := wordpress.NewClient(cfg.WordPress.User, cfg.WordPress.Password, cfg.WordPress.FetchTimeout)
	splitter := ingest.NewSplitter(cfg.Ingest.ChunkSize)

	// Session memory and rate limiting on top of Redis
	history := redis.NewHistory(redisClient, cfg.Redis.TTL)
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	// Chat model router, selected by MODEL_TYPE
	models := llm.NewRouter(cfg.Model.Type)
	log.Info().Str("model_type", cfg.Model.Type).Msg("Initializing chat model providers")

	if cfg.Model.Anthropic.APIKey != "" {
		models.RegisterProvider(anthropic.NewProvider(cfg.Model.Anthropic.APIKey, cfg.Model.Name))
	}
	if cfg.Model.OpenAI.APIKey != "" {
		models.RegisterProvider(llmopenai.NewProvider(cfg.Model.OpenAI.APIKey, cfg.Model.Name))
	}
	if cfg.Model.Ollama.Host != "" {
		if p, err := llmollama.NewProvider(cfg.Model.Ollama.Host, cfg.Model.Name); err == nil {
			models.RegisterProvider(p)
		} else {
			log.Warn().Err(err).Msg("Skipping Ollama provider registration")
		}
	}

	// Services
	uploadService := service.NewUploadService(fetcher, splitter, store)
	chatService := service.NewChatService(history, models)

	// Handlers
	uploadHandler := handler.NewUploadHandler(uploadService)
	chatHandler := handler.NewChatHandler(chatService)

	// Auth middleware, selected by config
	var auth custommiddleware.Authenticator
	switch cfg.Auth.Mode {
	case "bearer":
		jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
		auth = custommiddleware.NewBearerAuthMiddleware(jwtManager)
	default:
		verifier := security.NewBasicVerifier(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash)
		auth = custommiddleware.NewBasicAuthMiddleware(verifier)
	}
	rateLimit := custommiddleware.NewRateLimitMiddleware(rateLimiter)

	// Public routes
	r.Get("/ping", handler.Ping)
	r.Get("/healthz", handler.Healthz(redisClient, store))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(rateLimit.Limit)

		r.Get("/", handler.Root)
		r.Get("/model", chatHandler.ModelInfo)

		r.Post("/chat", chatHandler.Chat)
		r.Get("/chat/history", chatHandler.History)
		r.Post("/chat/memory", chatHandler.Remember)

		r.Post("/upload", uploadHandler.Upload)
	})

	return r
}
