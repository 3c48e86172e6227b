package milvus

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	client "github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/rs/zerolog/log"

	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/embedding"
)

const (
	fieldID        = "id"
	fieldEmbedding = "embedding"
	fieldContent   = "content"
	fieldSource    = "source"
	fieldChunk     = "chunk"

	defaultOpTimeout = 30 * time.Second
)

// Store persists chunk records as embedded vectors in Milvus collections.
// Every client call is bounded by opTimeout.
type Store struct {
	client    *Client
	embedder  embedding.Embedder
	opTimeout time.Duration
}

// NewStore creates a new vector store gateway
func NewStore(c *Client, embedder embedding.Embedder, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Store{client: c, embedder: embedder, opTimeout: opTimeout}
}

// Ping verifies the Milvus connection is alive
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, err := s.client.mc.ListCollections(ctx, client.NewListCollectionOption()); err != nil {
		return &domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// Reset drops every collection in the store. Destructive and global; callers
// gate it behind an explicit flag.
func (s *Store) Reset(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	collections, err := s.client.mc.ListCollections(ctx, client.NewListCollectionOption())
	if err != nil {
		return &domain.StoreError{Op: "list collections", Err: err}
	}

	for _, name := range collections {
		log.Warn().Str("collection", name).Msg("Dropping collection")
		if err := s.client.mc.DropCollection(ctx, client.NewDropCollectionOption(name)); err != nil {
			return &domain.StoreError{Op: "drop collection " + name, Err: err}
		}
	}

	log.Info().Int("dropped", len(collections)).Msg("Vector store reset")
	return nil
}

// EnsureCollection creates the named collection if it does not exist, then
// loads it. Idempotent.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrEmptyCollection
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	has, err := s.client.mc.HasCollection(ctx, client.NewHasCollectionOption(name))
	if err != nil {
		return &domain.StoreError{Op: "check collection", Err: err}
	}

	if !has {
		log.Info().Str("collection", name).Int("dim", s.embedder.Dimension()).Msg("Creating collection")

		schema := &entity.Schema{
			CollectionName: name,
			AutoID:         false,
			Fields: []*entity.Field{
				entity.NewField().
					WithName(fieldID).
					WithDataType(entity.FieldTypeVarChar).
					WithIsPrimaryKey(true).
					WithMaxLength(64),
				entity.NewField().
					WithName(fieldEmbedding).
					WithDataType(entity.FieldTypeFloatVector).
					WithDim(int64(s.embedder.Dimension())),
				entity.NewField().
					WithName(fieldContent).
					WithDataType(entity.FieldTypeVarChar).
					WithMaxLength(65535),
				entity.NewField().
					WithName(fieldSource).
					WithDataType(entity.FieldTypeVarChar).
					WithMaxLength(1024),
				entity.NewField().
					WithName(fieldChunk).
					WithDataType(entity.FieldTypeInt64),
			},
		}

		indexOpts := []client.CreateIndexOption{
			client.NewCreateIndexOption(name, fieldEmbedding, index.NewHNSWIndex(entity.COSINE, 16, 128)),
		}

		err = s.client.mc.CreateCollection(ctx, client.NewCreateCollectionOption(name, schema).WithIndexOptions(indexOpts...))
		if err != nil {
			return &domain.StoreError{Op: "create collection", Err: err}
		}
	}

	loadTask, err := s.client.mc.LoadCollection(ctx, client.NewLoadCollectionOption(name))
	if err != nil {
		return &domain.StoreError{Op: "load collection", Err: err}
	}
	if err := loadTask.Await(ctx); err != nil {
		return &domain.StoreError{Op: "await collection load", Err: err}
	}

	return nil
}

// Insert embeds and stores the records one at a time, assigning each a fresh
// time-ordered UUID. The first failure aborts the remainder; records already
// written stay written.
func (s *Store) Insert(ctx context.Context, collection string, records []domain.ChunkRecord) error {
	if collection == "" {
		return domain.ErrEmptyCollection
	}

	for i := range records {
		records[i].ID = newRecordID()

		if err := s.insertOne(ctx, collection, &records[i]); err != nil {
			log.Error().Err(err).Int("inserted", i).Str("collection", collection).
				Msg("Insert aborted mid-sequence")
			return err
		}
	}

	log.Info().Int("records", len(records)).Str("collection", collection).
		Msg("Records added to collection")
	return nil
}

func (s *Store) insertOne(ctx context.Context, collection string, rec *domain.ChunkRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	vectors, err := s.embedder.Embed(ctx, []string{rec.Content})
	if err != nil {
		return &domain.StoreError{Op: "embed record", Err: err}
	}

	chunkIdx, _ := strconv.ParseInt(rec.Metadata[fieldChunk], 10, 64)

	opt := client.NewColumnBasedInsertOption(collection).
		WithVarcharColumn(fieldID, []string{rec.ID}).
		WithFloatVectorColumn(fieldEmbedding, s.embedder.Dimension(), vectors).
		WithVarcharColumn(fieldContent, []string{rec.Content}).
		WithVarcharColumn(fieldSource, []string{rec.Metadata[fieldSource]}).
		WithInt64Column(fieldChunk, []int64{chunkIdx})

	if _, err := s.client.mc.Insert(ctx, opt); err != nil {
		return &domain.StoreError{Op: "insert record", Err: err}
	}

	return nil
}

// newRecordID returns a time-ordered identifier, falling back to a random
// UUID when the node cannot produce a v1.
func newRecordID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
