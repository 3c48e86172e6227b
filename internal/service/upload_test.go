package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/ingest"
)

func postPayload(body string) any {
	return []any{
		map[string]any{"content": map[string]any{"rendered": body}},
	}
}

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success loads chunks into default collection", func(t *testing.T) {
		fetcher := new(MockContentFetcher)
		store := new(MockVectorStore)
		svc := NewUploadService(fetcher, ingest.NewSplitter(0), store)

		fetcher.On("FetchJSON", ctx, "https://blog.example.com/wp-json/wp/v2/posts").
			Return(postPayload(strings.Repeat("x", 2500)), nil)
		store.On("EnsureCollection", ctx, domain.DefaultCollection).Return(nil)
		store.On("Insert", ctx, domain.DefaultCollection, mock.AnythingOfType("[]domain.ChunkRecord")).
			Run(func(args mock.Arguments) {
				records := args.Get(2).([]domain.ChunkRecord)
				assert.Len(t, records, 3)
				assert.Equal(t, "https://blog.example.com/wp-json/wp/v2/posts", records[0].Metadata["source"])
			}).
			Return(nil)

		result, err := svc.Upload(ctx, domain.UploadRequest{
			URL: "https://blog.example.com/wp-json/wp/v2/posts",
		})
		require.NoError(t, err)
		assert.Equal(t, "Data loaded successfully", result.Message)
		assert.Equal(t, "success", result.Status)
		assert.Equal(t, 3, result.Chunks)

		store.AssertNotCalled(t, "Reset", mock.Anything)
		fetcher.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("named collection", func(t *testing.T) {
		fetcher := new(MockContentFetcher)
		store := new(MockVectorStore)
		svc := NewUploadService(fetcher, ingest.NewSplitter(0), store)

		fetcher.On("FetchJSON", ctx, mock.Anything).Return(postPayload("short post"), nil)
		store.On("EnsureCollection", ctx, "Docs").Return(nil)
		store.On("Insert", ctx, "Docs", mock.Anything).Return(nil)

		result, err := svc.Upload(ctx, domain.UploadRequest{
			URL:            "https://blog.example.com/wp-json/wp/v2/posts",
			CollectionName: "Docs",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Chunks)
		store.AssertExpectations(t)
	})

	t.Run("create_collection triggers reset before load", func(t *testing.T) {
		fetcher := new(MockContentFetcher)
		store := new(MockVectorStore)
		svc := NewUploadService(fetcher, ingest.NewSplitter(0), store)

		fetcher.On("FetchJSON", ctx, mock.Anything).Return(postPayload("content"), nil)
		store.On("Reset", ctx).Return(nil)
		store.On("EnsureCollection", ctx, domain.DefaultCollection).Return(nil)
		store.On("Insert", ctx, domain.DefaultCollection, mock.Anything).Return(nil)

		_, err := svc.Upload(ctx, domain.UploadRequest{
			URL:              "https://blog.example.com/wp-json/wp/v2/posts",
			CreateCollection: true,
		})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("fetch failure leaves store untouched", func(t *testing.T) {
		fetcher := new(MockContentFetcher)
		store := new(MockVectorStore)
		svc := NewUploadService(fetcher, ingest.NewSplitter(0), store)

		fetcher.On("FetchJSON", ctx, mock.Anything).
			Return(nil, &domain.RemoteAPIError{Status: 404, Body: "not found"})

		_, err := svc.Upload(ctx, domain.UploadRequest{
			URL:              "https://blog.example.com/wp-json/wp/v2/posts",
			CreateCollection: true,
		})
		require.Error(t, err)

		var apiErr *domain.RemoteAPIError
		assert.ErrorAs(t, err, &apiErr)

		store.AssertNotCalled(t, "Reset", mock.Anything)
		store.AssertNotCalled(t, "EnsureCollection", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing URL", func(t *testing.T) {
		svc := NewUploadService(new(MockContentFetcher), ingest.NewSplitter(0), new(MockVectorStore))
		_, err := svc.Upload(ctx, domain.UploadRequest{})
		assert.Error(t, err)
	})

	t.Run("insert failure surfaces error", func(t *testing.T) {
		fetcher := new(MockContentFetcher)
		store := new(MockVectorStore)
		svc := NewUploadService(fetcher, ingest.NewSplitter(0), store)

		fetcher.On("FetchJSON", ctx, mock.Anything).Return(postPayload("content"), nil)
		store.On("EnsureCollection", ctx, domain.DefaultCollection).Return(nil)
		store.On("Insert", ctx, domain.DefaultCollection, mock.Anything).
			Return(&domain.StoreError{Op: "insert", Err: context.DeadlineExceeded})

		_, err := svc.Upload(ctx, domain.UploadRequest{
			URL: "https://blog.example.com/wp-json/wp/v2/posts",
		})
		require.Error(t, err)

		var storeErr *domain.StoreError
		assert.ErrorAs(t, err, &storeErr)
	})
}
