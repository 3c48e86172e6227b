package domain

import "context"

// ContentFetcher retrieves JSON from the upstream content API
type ContentFetcher interface {
	FetchJSON(ctx context.Context, apiURL string) (any, error)
}

// VectorStore persists chunk records in a vector database
type VectorStore interface {
	// Ping verifies the backing store is reachable
	Ping(ctx context.Context) error

	// Reset drops every collection in the store
	Reset(ctx context.Context) error

	// EnsureCollection gets or creates the named collection; idempotent
	EnsureCollection(ctx context.Context, name string) error

	// Insert stores the records, assigning each a fresh unique ID
	Insert(ctx context.Context, collection string, records []ChunkRecord) error
}

// SessionStore persists the bounded per-session conversation window
type SessionStore interface {
	Append(ctx context.Context, sessionID, userMsg, assistantMsg string) error
	Window(ctx context.Context, sessionID string) ([]SessionTurn, error)
}
