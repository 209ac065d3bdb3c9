package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/smashden/smashden/pkg/logger"
)

// Run executes a complete seeding pass against a running hub.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // simulation, not crypto

	logger.Get().Info(ctx, "starting den seeder",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.Players),
		logger.Int("matches", config.Matches),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int64("seed", seed))

	// Step 1: Check the hub is up
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Build the cast and make sure everyone is on the roster
	players := buildPlayers(rng, config.Players)
	client := newHTTPClient(config.Timeout)
	if err := ensurePlayers(ctx, config, client, players, stats); err != nil {
		return fmt.Errorf("player sign-up failed: %w", err)
	}

	// Step 3: Simulate matches and submit them concurrently
	reports := generateReports(rng, players, config.Matches)
	if err := submitReports(ctx, config, client, reports, stats); err != nil {
		return fmt.Errorf("report submission failed: %w", err)
	}

	// Step 4: Fetch the resulting ladder
	roster, err := fetchRoster(ctx, config, client)
	if err != nil {
		return fmt.Errorf("roster retrieval failed: %w", err)
	}

	// Step 5: Verify the ladder against the hidden skills
	if err := verifyRanking(players, roster, config.Verbose); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the hub is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	drainAndClose(resp)

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final seeding statistics.
func displayFinalStats(stats *Stats) {
	var successRate, reportsPerSecond float64

	if stats.MatchesSubmitted > 0 {
		successRate = float64(stats.MatchesApplied) / float64(stats.MatchesSubmitted) * percentageMultiplier
	}

	if stats.Duration > 0 {
		reportsPerSecond = float64(stats.MatchesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("playersCreated", stats.PlayersCreated),
		logger.Int("playersExisting", stats.PlayersExisting),
		logger.Int("matchesSubmitted", stats.MatchesSubmitted),
		logger.Int("matchesApplied", stats.MatchesApplied),
		logger.Int("matchesDuplicate", stats.MatchesDuplicate),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("reportsPerSecond", reportsPerSecond))
}
