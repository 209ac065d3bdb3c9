// Package api exposes the hub over HTTP: roster queries, player
// registration, match reports, the media listing, stats, and health.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/smashden/smashden/internal/adapters/repository"
	"github.com/smashden/smashden/internal/domain/model"
	"github.com/smashden/smashden/internal/domain/rating"
	"github.com/smashden/smashden/internal/domain/types"
	"github.com/smashden/smashden/pkg/logger"
)

// Dependencies defines the application surface the handlers call into.
type Dependencies interface {
	Roster(ctx context.Context, limit int) ([]types.RosterEntry, error)
	Player(ctx context.Context, name string) (types.RosterEntry, error)
	AddPlayer(ctx context.Context, name, character string) (types.RosterEntry, error)
	ReportMatch(ctx context.Context, report model.MatchReport) (types.MatchOutcome, error)
	Media(ctx context.Context) ([]types.MediaFile, error)
}

// Server wires the HTTP handlers to their routes.
type Server struct {
	rosterHandler  *RosterHandler
	playersHandler *PlayersHandler
	reportsHandler *ReportsHandler
	mediaHandler   *MediaHandler
	statsHandler   *StatsHandler
	healthHandler  *HealthHandler
	logger         logger.Logger
}

// NewServer creates a Server backed by the given application layer.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		rosterHandler:  NewRosterHandler(deps),
		playersHandler: NewPlayersHandler(deps),
		reportsHandler: NewReportsHandler(deps),
		mediaHandler:   NewMediaHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		healthHandler:  NewHealthHandler(),
		logger:         logger.Get().Named("api"),
	}
}

// Register attaches all API routes to the given mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) error {
	if mux == nil {
		return errors.New("nil mux")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/roster", MetricsMiddleware(s.rosterHandler.HandleGetRoster, "roster"))
	mux.HandleFunc("/api/players", MetricsMiddleware(s.playersHandler.HandleAddPlayer, "add_player"))
	mux.HandleFunc("/api/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "get_player"))
	mux.HandleFunc("/api/reports", MetricsMiddleware(s.reportsHandler.HandlePostReport, "post_report"))
	mux.HandleFunc("/api/media", MetricsMiddleware(s.mediaHandler.HandleGetMedia, "media"))

	s.logger.Info(ctx, "api routes registered")
	return nil
}

// errorResponse is the JSON envelope for error replies.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// domainStatus maps application errors to an HTTP status and a stable
// machine-readable code.
func domainStatus(err error) (int, string) {
	switch {
	case errors.Is(err, rating.ErrUnknownPlayer):
		return http.StatusNotFound, "unknown_player"
	case errors.Is(err, rating.ErrDuplicatePlayer):
		return http.StatusConflict, "duplicate_player"
	case errors.Is(err, rating.ErrInvalidMatch):
		return http.StatusBadRequest, "invalid_match"
	case errors.Is(err, rating.ErrInvalidPlayer):
		return http.StatusBadRequest, "invalid_player"
	case errors.Is(err, repository.ErrReadStore), errors.Is(err, repository.ErrWriteStore):
		return http.StatusServiceUnavailable, "storage_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := domainStatus(err)
	writeError(w, status, code, err)
}

// isJSONRequest reports whether the request body is JSON rather than a
// submitted HTML form.
func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
