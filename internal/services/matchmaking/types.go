package matchmaking

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/matchbot/internal/common/clock"
	"github.com/KirkDiggler/matchbot/internal/common/shuffle"
	"github.com/KirkDiggler/matchbot/internal/common/uuid"
	"github.com/KirkDiggler/matchbot/internal/models"
	matchRepo "github.com/KirkDiggler/matchbot/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/matchbot/internal/repositories/player"
)

// Config holds configuration for the matchmaking service
type Config struct {
	// Repository dependencies
	PlayerRepo playerRepo.Repository
	MatchRepo  matchRepo.Repository

	// Service dependencies
	Clock         clock.Clock
	Shuffler      shuffle.Shuffler
	UUIDGenerator uuid.UUID
	Logger        *zap.Logger

	// SessionTimeout evicts idle sessions; defaults to
	// DefaultSessionTimeout when zero
	SessionTimeout time.Duration
}

// PlayerRef names one player in a request. Ratings are never supplied
// by callers; they come from the player repository.
type PlayerRef struct {
	ID          string
	DisplayName string
}

// MatchOutcome is a player's result in one recorded match
type MatchOutcome string

const (
	OutcomeWin       MatchOutcome = "win"
	OutcomeLoss      MatchOutcome = "loss"
	OutcomeAbandoned MatchOutcome = "abandoned"
)

// ProposeTeamsInput contains the data needed to propose balanced teams
type ProposeTeamsInput struct {
	ArenaID string
	ActorID string
	Players []PlayerRef
}

// ProposeTeamsOutput contains the proposed split
type ProposeTeamsOutput struct {
	SessionID string
	Team1     models.Team
	Team2     models.Team
}

// SwapPlayersInput contains the data needed to swap across teams
type SwapPlayersInput struct {
	ArenaID   string
	ActorID   string
	PlayerID1 string
	PlayerID2 string
}

// SwapPlayersOutput contains the adjusted teams
type SwapPlayersOutput struct {
	SessionID string
	Team1     models.Team
	Team2     models.Team
}

// ConfirmMatchInput contains the data needed to lock a proposal in
type ConfirmMatchInput struct {
	ArenaID string
	ActorID string
}

// ConfirmMatchOutput contains the now-active match
type ConfirmMatchOutput struct {
	MatchID     int64
	Team1       models.Team
	Team2       models.Team
	UseMentions bool
}

// CancelMatchInput contains the data needed to cancel a session.
// Force bypasses the author check and is reserved for moderators.
type CancelMatchInput struct {
	ArenaID string
	ActorID string
	Force   bool
}

// CancelMatchOutput reports what was cancelled
type CancelMatchOutput struct {
	WasActive bool
}

// StartDraftInput contains the data needed to open a captain's draft.
// Captains holds either two explicit captains or nothing, in which
// case two are drawn at random.
type StartDraftInput struct {
	ArenaID  string
	ActorID  string
	Players  []PlayerRef
	Captains []PlayerRef
}

// StartDraftOutput contains the opening draft state
type StartDraftOutput struct {
	SessionID      string
	Captains       [2]models.TeamMember
	Team1          models.Team
	Team2          models.Team
	Pool           []models.TeamMember
	CurrentCaptain models.TeamMember
	PicksRequired  int
}

// SubmitPickInput contains one captain's picks for the current turn
type SubmitPickInput struct {
	ArenaID   string
	ActorID   string
	PlayerIDs []string
}

// SubmitPickOutput contains the draft state after the pick. When the
// draft completes the session becomes an active match and MatchID is
// set.
type SubmitPickOutput struct {
	SessionID      string
	Complete       bool
	MatchID        int64
	Team1          models.Team
	Team2          models.Team
	Pool           []models.TeamMember
	CurrentCaptain models.TeamMember
	PicksRequired  int
	UseMentions    bool
}

// ReportResultInput contains the data needed to close out a match
type ReportResultInput struct {
	ArenaID string
	ActorID string
	Winner  models.Winner
}

// PlayerResult is one player's rating movement from a reported match
type PlayerResult struct {
	PlayerID    string
	DisplayName string
	Rating      float64
	Delta       float64
}

// ReportResultOutput contains the recorded result and, for decided
// matches, every participant's rating movement
type ReportResultOutput struct {
	MatchID      int64
	Winner       models.Winner
	Team1Results []PlayerResult
	Team2Results []PlayerResult
	UseMentions  bool
}

// GetLeaderboardInput contains the data needed to list players by
// rating
type GetLeaderboardInput struct{}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank        int
	PlayerID    string
	DisplayName string
	Rating      float64
}

// GetLeaderboardOutput contains the ranked players
type GetLeaderboardOutput struct {
	Entries []LeaderboardEntry
}

// GetMatchHistoryInput contains the data needed to list a player's
// matches
type GetMatchHistoryInput struct {
	PlayerID string
}

// HistoryEntry is one match from a player's perspective
type HistoryEntry struct {
	MatchID   int64
	Outcome   MatchOutcome
	Timestamp time.Time
}

// GetMatchHistoryOutput contains the player's matches, most recent
// first
type GetMatchHistoryOutput struct {
	Entries []HistoryEntry
}

// GetPlayerRatingInput contains the data needed to look up a player
type GetPlayerRatingInput struct {
	PlayerID    string
	DisplayName string
}

// GetPlayerRatingOutput contains the player's current standing
type GetPlayerRatingOutput struct {
	Player        *models.Player
	MatchesPlayed int
}

// EditRatingInput contains the data needed for a moderator rating
// override
type EditRatingInput struct {
	ActorID     string
	PlayerID    string
	DisplayName string
	Rating      float64
}

// EditRatingOutput contains the player after the override
type EditRatingOutput struct {
	Player *models.Player
}

// ToggleMentionsInput contains the data needed to flip mention
// silencing
type ToggleMentionsInput struct {
	ActorID string
}

// ToggleMentionsOutput contains the new silencing state
type ToggleMentionsOutput struct {
	Silenced bool
}
