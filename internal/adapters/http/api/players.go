package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/smashden/smashden/internal/domain/types"
)

// PlayersDependencies defines the interface for player operations.
type PlayersDependencies interface {
	Player(ctx context.Context, name string) (types.RosterEntry, error)
	AddPlayer(ctx context.Context, name, character string) (types.RosterEntry, error)
}

// PlayersHandler handles player registration and lookup requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// playerRequest mirrors the wire schema for POST /api/players.
type playerRequest struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// HandleAddPlayer handles POST /api/players. It accepts a JSON body or a
// submitted HTML form; form submissions redirect back to the rankings page
// so the sign-up flow works without JavaScript.
func (h *PlayersHandler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req playerRequest
	fromForm := !isJSONRequest(r)
	if fromForm {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form data", http.StatusBadRequest)
			return
		}
		req.Name = r.PostFormValue("name")
		req.Character = r.PostFormValue("character")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	entry, err := h.deps.AddPlayer(r.Context(), req.Name, req.Character)
	if err != nil {
		if fromForm {
			status, _ := domainStatus(err)
			http.Error(w, err.Error(), status)
			return
		}
		writeDomainError(w, err)
		return
	}

	if fromForm {
		http.Redirect(w, r, "/rankings.html", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleGetPlayer handles GET /api/players/{name} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/players/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	entry, err := h.deps.Player(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
