package models

import "time"

// Winner identifies the outcome recorded for a match.
type Winner string

const (
	// WinnerTeam1 indicates team 1 won the match
	WinnerTeam1 Winner = "team1"

	// WinnerTeam2 indicates team 2 won the match
	WinnerTeam2 Winner = "team2"

	// WinnerAbandoned indicates the match was abandoned with no result
	WinnerAbandoned Winner = "abandoned"
)

// MatchStatus represents the lifecycle state of a live match session.
type MatchStatus string

const (
	// MatchStatusPending indicates proposed teams that are still
	// editable and have no rating effect yet
	MatchStatusPending MatchStatus = "pending"

	// MatchStatusActive indicates a confirmed match awaiting a result
	MatchStatusActive MatchStatus = "active"
)

// MatchSession is the live state of the single match in an arena.
// Terminal transitions (report, abandon, cancel) remove the session
// from the arena registry rather than marking it.
type MatchSession struct {
	// SessionID uniquely addresses this session for command dispatch
	SessionID string

	// ArenaID is the Discord channel hosting the match
	ArenaID string

	// AuthorID is the user who proposed the match; pending-state
	// edits are restricted to them
	AuthorID string

	// MatchID is assigned on confirmation, from the creation-time
	// clock in unix seconds
	MatchID int64

	// Team1 and Team2 are frozen member snapshots
	Team1 Team
	Team2 Team

	// Status is the current lifecycle state
	Status MatchStatus
}

// MatchRecord is one entry in the append-only match log. Records are
// never mutated after being written.
type MatchRecord struct {
	// MatchID is the creation-time unix timestamp of the match
	MatchID int64

	// Winner is the recorded outcome
	Winner Winner

	// Team1IDs and Team2IDs are the rosters in order
	Team1IDs []string
	Team2IDs []string

	// Timestamp is when the result was recorded
	Timestamp time.Time
}
