package embedding

import "context"

// Embedder turns text into dense vectors for the vector store
type Embedder interface {
	// Name returns the embedder identifier
	Name() string

	// Dimension returns the output vector size
	Dimension() int

	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
