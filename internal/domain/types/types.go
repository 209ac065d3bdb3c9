// Package types contains the wire shapes shared across the application.
package types

import "time"

// RosterEntry is one row of the ranked roster as served to the front end.
type RosterEntry struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	Character  string  `json:"character"`
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
	Color      string  `json:"color"`
}

// MatchOutcome is the result of a processed match report.
type MatchOutcome struct {
	Duplicate bool        `json:"duplicate"`
	Winner    RosterEntry `json:"winner"`
	Loser     RosterEntry `json:"loser"`
}

// MediaFile is one gallery item. URL is where the file is served from.
type MediaFile struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	URL     string    `json:"url"`
}
