package seeder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/smashden/smashden/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the logger and, when logFile is set, mirrors
// seeder output to that file.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		return nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seeder.
func ShowHelp() {
	os.Stdout.WriteString(`Smash Den Seeder
================

Populates a running hub with players and simulated match reports, then
checks the resulting ladder against the hidden skills that drove the
simulation.

Usage:
  go run cmd/seed/main.go [options]

Options:
  -url string
        Base URL of the hub (default "http://localhost:8080")
  -players int
        Number of players to put on the roster (default 12)
  -matches int
        Number of match reports to submit (default 200)
  -workers int
        Number of concurrent submitters (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed int
        RNG seed for reproducible runs (default: derived from the clock)
  -log string
        Also write seeder output to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed/main.go

  # A bigger den with a reproducible ladder
  go run cmd/seed/main.go -players 16 -matches 1000 -seed 42

  # Point at a remote hub
  go run cmd/seed/main.go -url http://den.example.net:8080
`)
}
