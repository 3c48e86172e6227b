package domain

// UploadRequest is the body of POST /upload
type UploadRequest struct {
	URL              string `json:"url" validate:"required,url"`
	CreateCollection bool   `json:"create_collection"`
	CollectionName   string `json:"collection_name" validate:"omitempty,max=255"`
}

// UploadResult is returned on a successful upload
type UploadResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Chunks  int    `json:"chunks,omitempty"`
}

// ChatRequest is the body of POST /chat. The generation side of this
// contract is reserved; only the session memory fields are live.
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"required,max=255"`
	Message   string `json:"message" validate:"required,max=8000"`
}
