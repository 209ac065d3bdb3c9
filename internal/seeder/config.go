package seeder

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL string        // Base URL of the hub
	Players int           // Number of players to ensure on the roster
	Matches int           // Number of match reports to submit
	Workers int           // Number of concurrent submitters
	Timeout time.Duration // HTTP request timeout
	Seed    int64         // RNG seed; 0 derives one from the clock
	LogFile string        // Log file for seeder output
	Verbose bool          // Enable verbose logging
}

// player is one seeded den regular. Skill is hidden from the hub and only
// used to pick match winners, so the final ladder can be checked against it.
type player struct {
	Name      string
	Character string
	Skill     float64
}

// signup is the wire shape submitted to POST /api/players.
type signup struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// report is the wire shape submitted to POST /api/reports.
type report struct {
	ReportID string `json:"report_id"`
	Winner   string `json:"winner"`
	Loser    string `json:"loser"`
}

// rosterEntry mirrors one row of GET /api/roster.
type rosterEntry struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	Character  string  `json:"character"`
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
	Color      string  `json:"color"`
}

// outcome mirrors the response from POST /api/reports.
type outcome struct {
	Duplicate bool        `json:"duplicate"`
	Winner    rosterEntry `json:"winner"`
	Loser     rosterEntry `json:"loser"`
}

// Stats holds seeding statistics.
type Stats struct {
	PlayersCreated   int
	PlayersExisting  int
	MatchesSubmitted int
	MatchesApplied   int
	MatchesDuplicate int
	MatchesFailed    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
