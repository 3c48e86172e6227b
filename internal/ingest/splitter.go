package ingest

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/souravdas/ragchat/internal/domain"
)

// DefaultChunkSize is the fixed segment length in characters
const DefaultChunkSize = 1000

// Splitter cuts text into fixed-size, non-overlapping segments. The split
// is purely length based; boundaries may fall mid-sentence.
type Splitter struct {
	chunkSize int
}

// NewSplitter creates a splitter with the given segment size
func NewSplitter(chunkSize int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Splitter{chunkSize: chunkSize}
}

// Split returns ceil(L/chunkSize) chunk records for a text of L characters,
// whose contents concatenate back to the input. The size counts characters,
// not bytes, so multibyte input never gets cut mid-rune. Source metadata is
// copied unchanged onto every chunk; the chunk index is added under "chunk".
func (s *Splitter) Split(text string, meta map[string]string) ([]domain.ChunkRecord, error) {
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	runes := []rune(text)
	chunks := make([]domain.ChunkRecord, 0, (len(runes)+s.chunkSize-1)/s.chunkSize)
	for i, idx := 0, 0; i < len(runes); i, idx = i+s.chunkSize, idx+1 {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		m := make(map[string]string, len(meta)+1)
		for k, v := range meta {
			m[k] = v
		}
		m["chunk"] = strconv.Itoa(idx)

		chunks = append(chunks, domain.ChunkRecord{
			Content:  string(runes[i:end]),
			Metadata: m,
		})
	}

	log.Info().Int("chunks", len(chunks)).Int("chars", len(runes)).Msg("Document split into chunks")
	return chunks, nil
}
