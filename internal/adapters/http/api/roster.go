package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/smashden/smashden/internal/domain/types"
)

// RosterDependencies defines the interface for roster queries.
type RosterDependencies interface {
	Roster(ctx context.Context, limit int) ([]types.RosterEntry, error)
}

// RosterHandler handles ranked roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleGetRoster handles GET /api/roster?limit=N requests. A missing
// limit returns the full roster up to the configured cap.
func (h *RosterHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.deps.Roster(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
