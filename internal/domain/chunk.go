package domain

// ChunkRecord is a single text segment destined for the vector store.
// The ID is assigned at insert time, not at split time.
type ChunkRecord struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// DefaultCollection is used when the caller omits a collection name
const DefaultCollection = "Default_Collection"
