// Package model contains domain models passed between layers.
package model

import "strings"

// PlayerRecord is one row of the persisted roster. Name is the unique key;
// uniqueness is case-insensitive. Rating and Confidence are always finite
// and non-negative.
type PlayerRecord struct {
	Name       string
	Character  string
	Rating     float64
	Confidence float64
}

// Key returns the case-folded lookup key for the record's name.
func (p PlayerRecord) Key() string {
	return Key(p.Name)
}

// Key folds a player name for case-insensitive lookup and duplicate checks.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MatchReport is a submitted match result. ReportID is an optional client
// token used for idempotent resubmission; Winner and Loser are player names.
type MatchReport struct {
	ReportID string
	Winner   string
	Loser    string
}
