package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/souravdas/ragchat/internal/api/response"
	"github.com/souravdas/ragchat/internal/domain"
	"github.com/souravdas/ragchat/internal/service"
)

var validate = validator.New()

// UploadHandler handles the content ingestion endpoint
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload ingests a WordPress API URL into the vector store
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req domain.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.uploadService.Upload(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("url", req.URL).Msg("Upload failed")

		if errors.Is(err, domain.ErrEmptyText) || errors.Is(err, domain.ErrEmptyCollection) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, result)
}
