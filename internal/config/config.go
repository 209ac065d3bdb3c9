// Package config defines process configuration and loading.
//
// Conventions:
// - Defaults come from New; Load layers a YAML file and env vars on top.
// - External errors are wrapped in this package's sentinel errors.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RosterPath locates the roster CSV file.
	RosterPath string `koanf:"roster_path"`

	// MediaDir locates the gallery directory. Empty disables the gallery.
	MediaDir string `koanf:"media_dir"`

	// MaxRosterLimit caps GET /api/roster?limit.
	MaxRosterLimit int `koanf:"max_roster_limit"`

	// DedupeSize bounds the report token cache.
	DedupeSize int `koanf:"dedupe_size"`

	// InitialRating is the rating assigned to new players.
	InitialRating float64 `koanf:"initial_rating"`

	// Season selects the rating reset policy: "off" or "monthly".
	Season string `koanf:"season"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		RosterPath:     "data/roster.csv",
		MediaDir:       "media",
		MaxRosterLimit: 500,
		DedupeSize:     50_000,
		InitialRating:  1500,
		Season:         "off",
	}
}
