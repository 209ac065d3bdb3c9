package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/smashden/smashden/internal/seeder"
)

// Default configuration constants.
const (
	defaultPlayers    = 12
	defaultMatches    = 200
	defaultWorkers    = 4
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the hub")
		players = flag.Int("players", defaultPlayers, "Number of players to put on the roster")
		matches = flag.Int("matches", defaultMatches, "Number of match reports to submit")
		workers = flag.Int("workers", defaultWorkers, "Number of concurrent submitters")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed    = flag.Int64("seed", 0, "RNG seed for reproducible runs (default: derived from the clock)")
		logFile = flag.String("log", "", "Log file for seeder output (default: stdout only)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeder.ShowHelp()
		return
	}

	// Setup logging
	if err := seeder.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create seeder configuration
	config := &seeder.Config{
		BaseURL: *baseURL,
		Players: *players,
		Matches: *matches,
		Workers: *workers,
		Timeout: *timeout,
		Seed:    *seed,
		LogFile: *logFile,
		Verbose: *verbose,
	}

	// Run the seeder
	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
