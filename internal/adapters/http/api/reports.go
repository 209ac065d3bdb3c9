package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/smashden/smashden/internal/domain/model"
	"github.com/smashden/smashden/internal/domain/types"
)

// ReportsDependencies defines the interface for match report processing.
type ReportsDependencies interface {
	ReportMatch(ctx context.Context, report model.MatchReport) (types.MatchOutcome, error)
}

// ReportsHandler handles match report submissions.
type ReportsHandler struct {
	deps ReportsDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportsDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// reportRequest mirrors the wire schema for POST /api/reports.
type reportRequest struct {
	ReportID string `json:"report_id"`
	Winner   string `json:"winner"`
	Loser    string `json:"loser"`
}

// HandlePostReport handles POST /api/reports. It accepts a JSON body or a
// submitted HTML form; form submissions redirect back to the rankings page
// on success and get a plain-text error otherwise.
func (h *ReportsHandler) HandlePostReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req reportRequest
	fromForm := !isJSONRequest(r)
	if fromForm {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form data", http.StatusBadRequest)
			return
		}
		req.ReportID = r.PostFormValue("report_id")
		req.Winner = r.PostFormValue("winner")
		req.Loser = r.PostFormValue("loser")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	// Clients that lost their token still get a unique one, so the
	// submission is processed exactly once but cannot be replayed.
	if strings.TrimSpace(req.ReportID) == "" {
		req.ReportID = uuid.NewString()
	}

	outcome, err := h.deps.ReportMatch(r.Context(), model.MatchReport{
		ReportID: req.ReportID,
		Winner:   req.Winner,
		Loser:    req.Loser,
	})
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
	writeJSON(w, http.StatusOK, outcome)
}
