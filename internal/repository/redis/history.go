package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/souravdas/ragchat/internal/domain"
)

const (
	historyKeyPrefix  = "chat:history:"
	defaultHistoryTTL = 600 * time.Second
)

// History persists a bounded window of conversation turns per session.
// Each session lives in a Redis list trimmed to the last WindowPairs*2
// entries; the TTL countdown restarts on every append.
type History struct {
	client *Client
	ttl    time.Duration
}

// NewHistory creates a new session history store
func NewHistory(client *Client, ttl time.Duration) *History {
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	return &History{client: client, ttl: ttl}
}

func historyKey(sessionID string) string {
	return historyKeyPrefix + sessionID
}

// Append stores a user/assistant pair, in that order, and resets the
// session TTL. Fails before any store mutation when either message is empty.
func (h *History) Append(ctx context.Context, sessionID, userMsg, assistantMsg string) error {
	if userMsg == "" || assistantMsg == "" {
		return domain.ErrMissingField
	}

	turns := []domain.SessionTurn{
		{Role: domain.RoleUser, Content: userMsg},
		{Role: domain.RoleAssistant, Content: assistantMsg},
	}

	encoded := make([]any, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal turn: %w", err)
		}
		encoded = append(encoded, data)
	}

	key := historyKey(sessionID)

	pipe := h.client.rdb.TxPipeline()
	pipe.RPush(ctx, key, encoded...)
	pipe.LTrim(ctx, key, int64(-domain.WindowPairs*2), -1)
	pipe.Expire(ctx, key, h.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to append turns to session store")
		return &domain.MemoryBackendError{Op: "append", Err: err}
	}

	log.Info().Str("session_id", sessionID).Msg("Turns appended to session history")
	return nil
}

// Window returns the retained turns for a session, most-recent-last. A
// missing session yields an empty slice, not an error.
func (h *History) Window(ctx context.Context, sessionID string) ([]domain.SessionTurn, error) {
	raw, err := h.client.rdb.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to read session history")
		return nil, &domain.MemoryBackendError{Op: "window", Err: err}
	}

	turns := make([]domain.SessionTurn, 0, len(raw))
	for _, item := range raw {
		var t domain.SessionTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, t)
	}

	return turns, nil
}
