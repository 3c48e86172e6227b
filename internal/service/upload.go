package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/ingest"
	"github.com/souravdas/ragchat/internal/wordpress"
)

// UploadService orchestrates the ingestion pipeline:
// fetch -> split -> (reset) -> ensure collection -> insert.
type UploadService struct {
	fetcher  domain.ContentFetcher
	splitter *ingest.Splitter
	store    domain.VectorStore

	// Serializes mutations per collection so a reset cannot wipe another
	// request's in-flight insert.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUploadService creates a new upload service
func NewUploadService(fetcher domain.ContentFetcher, splitter *ingest.Splitter, store domain.VectorStore) *UploadService {
	return &UploadService{
		fetcher:  fetcher,
		splitter: splitter,
		store:    store,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *UploadService) collectionLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Upload runs the full ingestion pipeline for a single source URL. The fetch
// happens before any store mutation, so a failing source leaves the store
// untouched. The store reset is gated behind CreateCollection instead of
// firing unconditionally; there is no rollback for partially inserted
// records.
func (s *UploadService) Upload(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("source URL is required")
	}

	collection := req.CollectionName
	if collection == "" {
		collection = domain.DefaultCollection
	}

	payload, err := s.fetcher.FetchJSON(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from WordPress API: %w", err)
	}

	text := wordpress.ExtractText(payload)
	chunks, err := s.splitter.Split(text, map[string]string{"source": req.URL})
	if err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}

	lock := s.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	if req.CreateCollection {
		log.Warn().Str("collection", collection).Msg("Resetting vector store before load")
		if err := s.store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset vector store: %w", err)
		}
	}

	if err := s.store.EnsureCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to prepare collection %s: %w", collection, err)
	}

	if err := s.store.Insert(ctx, collection, chunks); err != nil {
		return nil, fmt.Errorf("failed to load data into collection %s: %w", collection, err)
	}

	log.Info().
		Str("collection", collection).
		Int("chunks", len(chunks)).
		Str("source", req.URL).
		Msg("Upload completed")

	return &domain.UploadResult{
		Message: "Data loaded successfully",
		Status:  "success",
		Chunks:  len(chunks),
	}, nil
}
