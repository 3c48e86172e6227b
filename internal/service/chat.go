package service

import (
	"context"

	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/llm"
)

// ChatService manages session memory. The generation side of the chat
// contract is reserved: the model router is wired for it but Complete is
// not called here yet.
type ChatService struct {
	memory domain.SessionStore
	models *llm.Router
}

// NewChatService creates a new chat service
func NewChatService(memory domain.SessionStore, models *llm.Router) *ChatService {
	return &ChatService{memory: memory, models: models}
}

// History returns the retained conversation window for a session,
// most-recent-last, at most domain.WindowPairs pairs.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.SessionTurn, error) {
	return s.memory.Window(ctx, sessionID)
}

// Remember appends a user/assistant exchange to the session window and
// restarts its TTL.
func (s *ChatService) Remember(ctx context.Context, sessionID, userMsg, assistantMsg string) error {
	return s.memory.Append(ctx, sessionID, userMsg, assistantMsg)
}

// ModelInfo reports the registered chat model providers
func (s *ChatService) ModelInfo() []llm.ProviderInfo {
	return s.models.GetProvidersInfo()
}
