package handler

import (
	"context"
	"net/http"

	"github.com/souravdas/ragchat/internal/api/response"
)

const welcomeMessage = "RAG-based Query Suggestion Chatbot v1.0 🚀 " +
	"Ingests WordPress content into a vector store and serves " +
	"context-aware chat sessions. Check out /docs for the API surface."

// Pinger reports backend connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping is the liveness probe; answers without auth
func Ping(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, "pong!")
}

// Root returns the welcome message for authenticated callers
func Root(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, welcomeMessage)
}

// Healthz returns readiness status covering both backing stores
func Healthz(sessionStore, vectorStore Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessionStore.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "session store not ready")
			return
		}
		if err := vectorStore.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "vector store not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
