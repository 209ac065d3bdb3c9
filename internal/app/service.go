// Package service provides the core hub service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/smashden/smashden/internal/adapters/repository"
	"github.com/smashden/smashden/internal/domain/dedupe"
	"github.com/smashden/smashden/internal/domain/model"
	"github.com/smashden/smashden/internal/domain/rating"
	"github.com/smashden/smashden/internal/domain/types"
	"github.com/smashden/smashden/pkg/logger"
	"github.com/smashden/smashden/pkg/metrics"
)

// Broadcaster pushes roster snapshots to live viewers.
type Broadcaster interface {
	BroadcastRoster(entries []types.RosterEntry)
}

// MediaLister lists the gallery's files.
type MediaLister interface {
	List(ctx context.Context) ([]types.MediaFile, error)
}

// noopBroadcaster is used when no live hub is wired in.
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastRoster([]types.RosterEntry) {}

// Service owns the roster. Every read-modify-write cycle runs under one
// process-wide mutex, so concurrent reports can never interleave between
// load and save.
type Service struct {
	mu sync.Mutex

	// Core components
	store       repository.Store
	engine      *rating.Engine
	deduper     dedupe.Deduper
	library     MediaLister
	broadcaster Broadcaster

	// Configuration
	dedupeSize     int
	initialRating  float64
	season         string
	maxRosterLimit int
	clock          func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the roster store. The service cannot start without one.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine sets the rating engine.
func WithEngine(engine *rating.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithDeduper sets the report token tracker.
func WithDeduper(deduper dedupe.Deduper) Option {
	return func(s *Service) {
		if deduper != nil {
			s.deduper = deduper
		}
	}
}

// WithMediaLibrary sets the gallery source.
func WithMediaLibrary(library MediaLister) Option {
	return func(s *Service) {
		if library != nil {
			s.library = library
		}
	}
}

// WithBroadcaster sets where roster snapshots are pushed after a change.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) {
		if b != nil {
			s.broadcaster = b
		}
	}
}

// WithDedupeSize sets the size of the report token cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithInitialRating sets the rating new players start at.
func WithInitialRating(r float64) Option {
	return func(s *Service) {
		if r > 0 {
			s.initialRating = r
		}
	}
}

// WithSeason sets the season reset mode, SeasonOff or SeasonMonthly.
func WithSeason(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.season = mode
		}
	}
}

// WithMaxRosterLimit caps how many entries a roster query may return.
func WithMaxRosterLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxRosterLimit = limit
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dedupeSize:     50000,
		initialRating:  1500,
		season:         SeasonOff,
		maxRosterLimit: 500,
		clock:          time.Now,
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates the wiring and proves the roster is readable. A roster
// file that exists but cannot be parsed is fatal here, before the hub
// takes traffic.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting hub service...")

	if s.store == nil {
		return fmt.Errorf("no roster store configured")
	}
	if s.engine == nil {
		s.engine = rating.NewEngine(rating.WithInitialRating(s.initialRating))
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper(
			dedupe.WithMaxSize(s.dedupeSize),
		)
	}
	if s.broadcaster == nil {
		s.broadcaster = noopBroadcaster{}
	}

	players, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("roster unreadable: %w", err)
	}
	metrics.UpdateRosterSize(len(players))

	s.started = true
	s.logger.Info(ctx, "hub service started",
		logger.Int("players", len(players)),
		logger.String("season", s.season),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop marks the service stopped. The store keeps no open handles, so
// there is nothing else to release.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "hub service stopped")
}

// Roster returns the ranked roster, best first. A limit of zero or less
// means "as many as allowed".
func (s *Service) Roster(ctx context.Context, limit int) ([]types.RosterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.loadRoster(ctx)
	if err != nil {
		return nil, err
	}
	metrics.UpdateRosterSize(len(players))

	entries := rankedEntries(players)
	if limit <= 0 || limit > s.maxRosterLimit {
		limit = s.maxRosterLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Player returns one player's current standing. Lookup folds case and
// surrounding whitespace.
func (s *Service) Player(ctx context.Context, name string) (types.RosterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.loadRoster(ctx)
	if err != nil {
		return types.RosterEntry{}, err
	}

	key := model.Key(name)
	for _, entry := range rankedEntries(players) {
		if model.Key(entry.Name) == key {
			return entry, nil
		}
	}
	return types.RosterEntry{}, fmt.Errorf("%w: %s", rating.ErrUnknownPlayer, strings.TrimSpace(name))
}

// AddPlayer registers a new player at the initial rating. Names are
// unique on the roster regardless of case.
func (s *Service) AddPlayer(ctx context.Context, name, character string) (types.RosterEntry, error) {
	name = strings.TrimSpace(name)
	character = strings.TrimSpace(character)
	if name == "" || character == "" {
		return types.RosterEntry{}, fmt.Errorf("%w: name and character are required", rating.ErrInvalidPlayer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.loadRoster(ctx)
	if err != nil {
		return types.RosterEntry{}, err
	}

	key := model.Key(name)
	for _, p := range players {
		if p.Key() == key {
			return types.RosterEntry{}, fmt.Errorf("%w: %s", rating.ErrDuplicatePlayer, name)
		}
	}

	players = append(players, s.engine.NewRecord(name, character))
	if err := s.store.Save(ctx, players); err != nil {
		return types.RosterEntry{}, err
	}

	metrics.RecordPlayerAdded()
	metrics.UpdateRosterSize(len(players))

	entries := rankedEntries(players)
	s.broadcaster.BroadcastRoster(entries)

	s.logger.Info(ctx, "player added",
		logger.String("name", name),
		logger.String("character", character),
	)

	return findEntry(entries, key), nil
}

// ReportMatch applies one match result. A report carrying a token the
// service has already seen is acknowledged without touching any rating.
func (s *Service) ReportMatch(ctx context.Context, report model.MatchReport) (types.MatchOutcome, error) {
	winner := strings.TrimSpace(report.Winner)
	loser := strings.TrimSpace(report.Loser)
	if winner == "" || loser == "" || model.Key(winner) == model.Key(loser) {
		metrics.RecordReportRejected("invalid_match")
		return types.MatchOutcome{}, fmt.Errorf("%w: winner and loser must name two different players", rating.ErrInvalidMatch)
	}

	token := strings.TrimSpace(report.ReportID)
	if token != "" && s.deduper.SeenAndRecord(ctx, token) {
		metrics.RecordReportDuplicate()
		s.logger.Debug(ctx, "duplicate report ignored", logger.String("reportID", token))
		return s.duplicateOutcome(ctx, winner, loser)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.loadRoster(ctx)
	if err != nil {
		s.unrecord(ctx, token)
		metrics.RecordReportRejected("storage_error")
		return types.MatchOutcome{}, err
	}

	winnerKey, loserKey := model.Key(winner), model.Key(loser)
	wi, li := -1, -1
	for i, p := range players {
		switch p.Key() {
		case winnerKey:
			wi = i
		case loserKey:
			li = i
		}
	}
	if wi < 0 || li < 0 {
		s.unrecord(ctx, token)
		metrics.RecordReportRejected("unknown_player")
		missing := winner
		if wi >= 0 {
			missing = loser
		}
		return types.MatchOutcome{}, fmt.Errorf("%w: %s", rating.ErrUnknownPlayer, missing)
	}

	before := players[wi].Rating
	players[wi], players[li] = s.engine.Apply(players[wi], players[li])

	if err := s.store.Save(ctx, players); err != nil {
		s.unrecord(ctx, token)
		metrics.RecordReportRejected("storage_error")
		return types.MatchOutcome{}, err
	}

	swing := players[wi].Rating - before
	metrics.RecordReportApplied()
	metrics.ObserveRatingSwing(math.Abs(swing))
	metrics.UpdateRosterSize(len(players))

	entries := rankedEntries(players)
	s.broadcaster.BroadcastRoster(entries)

	s.logger.Info(ctx, "match applied",
		logger.String("winner", players[wi].Name),
		logger.String("loser", players[li].Name),
		logger.Float64("swing", swing),
	)

	return types.MatchOutcome{
		Winner: findEntry(entries, winnerKey),
		Loser:  findEntry(entries, loserKey),
	}, nil
}

// Media lists the gallery, newest first.
func (s *Service) Media(ctx context.Context) ([]types.MediaFile, error) {
	if s.library == nil {
		return []types.MediaFile{}, nil
	}
	return s.library.List(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"season":  s.season,
	}
	if s.deduper != nil {
		stats["trackedReports"] = s.deduper.Size()
	}
	if !s.started {
		return stats
	}

	if players, err := s.store.Load(ctx); err == nil {
		stats["players"] = len(players)
		metrics.UpdateRosterSize(len(players))
	}
	if last, err := s.store.LastReset(ctx); err == nil && !last.IsZero() {
		stats["lastSeasonReset"] = last.UTC().Format(time.RFC3339)
	}

	return stats
}

// duplicateOutcome reports the current standing of both players for a
// replayed token.
func (s *Service) duplicateOutcome(ctx context.Context, winner, loser string) (types.MatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.loadRoster(ctx)
	if err != nil {
		return types.MatchOutcome{}, err
	}

	entries := rankedEntries(players)
	return types.MatchOutcome{
		Duplicate: true,
		Winner:    findEntry(entries, model.Key(winner)),
		Loser:     findEntry(entries, model.Key(loser)),
	}, nil
}

// loadRoster reads the roster and applies a pending season rollover.
// Callers must hold s.mu.
func (s *Service) loadRoster(ctx context.Context) ([]model.PlayerRecord, error) {
	players, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.maybeSeasonReset(ctx, players)
}

// unrecord releases a report token after a failed apply so the report
// can be retried.
func (s *Service) unrecord(ctx context.Context, token string) {
	if token != "" {
		s.deduper.Unrecord(ctx, token)
	}
}

// rankedEntries sorts players best-first and decorates them for the
// front end. Ties break on the folded name so ranks are stable.
func rankedEntries(players []model.PlayerRecord) []types.RosterEntry {
	sorted := make([]model.PlayerRecord, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].Key() < sorted[j].Key()
	})

	entries := make([]types.RosterEntry, len(sorted))
	for i, p := range sorted {
		entries[i] = types.RosterEntry{
			Rank:       i + 1,
			Name:       p.Name,
			Character:  p.Character,
			Rating:     p.Rating,
			Confidence: p.Confidence,
			Color:      model.ColorFor(p.Name),
		}
	}
	return entries
}

// findEntry returns the entry whose folded name matches key, or a zero
// entry when it is gone.
func findEntry(entries []types.RosterEntry, key string) types.RosterEntry {
	for _, e := range entries {
		if model.Key(e.Name) == key {
			return e
		}
	}
	return types.RosterEntry{}
}
