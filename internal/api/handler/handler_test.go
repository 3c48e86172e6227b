package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/ingest"
	"github.com/souravdas/ragchat/internal/llm"
	"github.com/souravdas/ragchat/internal/service"
)

type stubFetcher struct {
	payload any
	err     error
}

func (s *stubFetcher) FetchJSON(ctx context.Context, apiURL string) (any, error) {
	return s.payload, s.err
}

type stubStore struct {
	resetCalls  int
	ensureCalls int
	insertCalls int
	insertErr   error
}

func (s *stubStore) Ping(ctx context.Context) error {
	return nil
}

func (s *stubStore) Reset(ctx context.Context) error {
	s.resetCalls++
	return nil
}

func (s *stubStore) EnsureCollection(ctx context.Context, name string) error {
	s.ensureCalls++
	return nil
}

func (s *stubStore) Insert(ctx context.Context, collection string, records []domain.ChunkRecord) error {
	s.insertCalls++
	return s.insertErr
}

type stubSessions struct {
	turns     []domain.SessionTurn
	appendErr error
}

func (s *stubSessions) Append(ctx context.Context, sessionID, userMsg, assistantMsg string) error {
	return s.appendErr
}

func (s *stubSessions) Window(ctx context.Context, sessionID string) ([]domain.SessionTurn, error) {
	return s.turns, nil
}

func decodeDetail(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp.Detail
}

func TestPing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()

	Ping(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong!", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestRoot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Root(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Chatbot")
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Healthz(&stubPinger{}, &stubPinger{})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ready")
	})

	t.Run("session store down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		down := &stubPinger{err: errors.New("connection refused")}
		Healthz(down, &stubPinger{})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "session store")
	})

	t.Run("vector store down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		down := &stubPinger{err: errors.New("connection refused")}
		Healthz(&stubPinger{}, down)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "vector store")
	})
}

func postPayload(body string) any {
	return []any{
		map[string]any{"content": map[string]any{"rendered": body}},
	}
}

func newUploadHandler(fetcher domain.ContentFetcher, store domain.VectorStore) *UploadHandler {
	svc := service.NewUploadService(fetcher, ingest.NewSplitter(0), store)
	return NewUploadHandler(svc)
}

func TestUploadHandler_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &stubStore{}
		h := newUploadHandler(&stubFetcher{payload: postPayload(strings.Repeat("x", 1500))}, store)

		body := `{"url": "https://blog.example.com/wp-json/wp/v2/posts", "create_collection": false}`
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Upload(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result domain.UploadResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "Data loaded successfully", result.Message)
		assert.Equal(t, "success", result.Status)
		assert.Equal(t, 2, result.Chunks)

		assert.Equal(t, 0, store.resetCalls)
		assert.Equal(t, 1, store.insertCalls)
	})

	t.Run("create_collection resets store", func(t *testing.T) {
		store := &stubStore{}
		h := newUploadHandler(&stubFetcher{payload: postPayload("content")}, store)

		body := `{"url": "https://blog.example.com/wp-json/wp/v2/posts", "create_collection": true, "collection_name": "Docs"}`
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Upload(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, store.resetCalls)
	})

	t.Run("invalid body", func(t *testing.T) {
		h := newUploadHandler(&stubFetcher{}, &stubStore{})

		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		h.Upload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decodeDetail(t, rec.Body))
	})

	t.Run("missing url fails validation", func(t *testing.T) {
		store := &stubStore{}
		h := newUploadHandler(&stubFetcher{}, store)

		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.Upload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, store.insertCalls)
	})

	t.Run("fetch failure maps to 500 and leaves store untouched", func(t *testing.T) {
		store := &stubStore{}
		h := newUploadHandler(&stubFetcher{err: &domain.RemoteAPIError{Status: 404, Body: "not found"}}, store)

		body := `{"url": "https://blog.example.com/wp-json/wp/v2/posts", "create_collection": true}`
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Upload(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, decodeDetail(t, rec.Body), "404")
		assert.Equal(t, 0, store.resetCalls)
		assert.Equal(t, 0, store.ensureCalls)
		assert.Equal(t, 0, store.insertCalls)
	})
}

func newChatHandler(sessions domain.SessionStore) *ChatHandler {
	models := llm.NewRouter("claude")
	return NewChatHandler(service.NewChatService(sessions, models))
}

func TestChatHandler_Chat(t *testing.T) {
	h := newChatHandler(&stubSessions{})

	t.Run("reserved endpoint answers 501", func(t *testing.T) {
		body := `{"session_id": "abc", "message": "hello"}`
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Chat(rec, req)

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("nope"))
		rec := httptest.NewRecorder()

		h.Chat(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_History(t *testing.T) {
	h := newChatHandler(&stubSessions{turns: []domain.SessionTurn{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}})

	t.Run("returns window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chat/history?session_id=abc", nil)
		rec := httptest.NewRecorder()

		h.History(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "hello")
	})

	t.Run("missing session_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
		rec := httptest.NewRecorder()

		h.History(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_Remember(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newChatHandler(&stubSessions{})

		body := `{"session_id": "abc", "user": "hi", "assistant": "hello"}`
		req := httptest.NewRequest(http.MethodPost, "/chat/memory", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Remember(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing field maps to 400", func(t *testing.T) {
		h := newChatHandler(&stubSessions{appendErr: domain.ErrMissingField})

		body := `{"session_id": "abc", "user": "hi"}`
		req := httptest.NewRequest(http.MethodPost, "/chat/memory", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Remember(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
