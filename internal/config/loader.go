package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Season reset policies accepted by validate.
const (
	seasonOff     = "off"
	seasonMonthly = "monthly"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if SMASHDEN_CONFIG is set
//  3. env (prefix SMASHDEN_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("SMASHDEN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SMASHDEN_ADDR, SMASHDEN_ROSTER_PATH, ...
	// Map env keys like SMASHDEN_ROSTER_PATH -> roster_path (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SMASHDEN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "smashden_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy so defaults survive for unset keys.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.RosterPath == "" {
		return fmt.Errorf("%w: roster_path must not be empty", ErrInvalidConfig)
	}
	if c.MaxRosterLimit < 1 {
		return fmt.Errorf("%w: max_roster_limit must be at least 1", ErrInvalidConfig)
	}
	if c.InitialRating < 0 {
		return fmt.Errorf("%w: initial_rating must not be negative", ErrInvalidConfig)
	}
	switch c.Season {
	case seasonOff, seasonMonthly:
	default:
		return fmt.Errorf("%w: season must be %q or %q", ErrInvalidConfig, seasonOff, seasonMonthly)
	}
	return nil
}
