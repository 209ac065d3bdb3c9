package api

import (
	"context"
	"net/http"

	"github.com/smashden/smashden/internal/domain/types"
)

// MediaDependencies defines the interface for gallery listings.
type MediaDependencies interface {
	Media(ctx context.Context) ([]types.MediaFile, error)
}

// MediaHandler handles gallery listing requests.
type MediaHandler struct {
	deps MediaDependencies
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(deps MediaDependencies) *MediaHandler {
	return &MediaHandler{deps: deps}
}

// HandleGetMedia handles GET /api/media requests. Files are listed newest
// first.
func (h *MediaHandler) HandleGetMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	files, err := h.deps.Media(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}
