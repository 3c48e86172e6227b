package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/souravdas/ragchat/internal/api/response"
	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/service"
)

// ChatHandler handles the chat and session-memory endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat accepts the chat request schema. The generation side of this
// endpoint is reserved; callers get 501 until it lands.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.NotImplemented(w, "chat generation is not available yet")
}

// History returns the retained conversation window for a session
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		response.BadRequest(w, "missing session_id")
		return
	}

	turns, err := h.chatService.History(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to fetch session history")
		response.InternalError(w, "failed to fetch session history")
		return
	}

	response.OK(w, map[string]any{
		"session_id": sessionID,
		"turns":      turns,
	})
}

// Remember appends a user/assistant exchange to a session window
func (h *ChatHandler) Remember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id" validate:"required,max=255"`
		User      string `json:"user"`
		Assistant string `json:"assistant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.chatService.Remember(r.Context(), req.SessionID, req.User, req.Assistant); err != nil {
		if errors.Is(err, domain.ErrMissingField) {
			response.BadRequest(w, err.Error())
			return
		}
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("Failed to append turns")
		response.InternalError(w, "failed to store conversation turns")
		return
	}

	response.OK(w, map[string]string{"status": "success"})
}

// ModelInfo reports the active chat model providers
func (h *ChatHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"providers": h.chatService.ModelInfo(),
	})
}
