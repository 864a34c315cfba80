package matchmaking

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/KirkDiggler/matchbot/internal/services/matchmaking Service

import (
	"context"
	"time"
)

// Service orchestrates team balancing, captain drafts, match lifecycle
// and ratings for every arena.
type Service interface {
	// ProposeTeams splits ten players into the fairest two teams and
	// opens a pending match in the arena
	ProposeTeams(ctx context.Context, input *ProposeTeamsInput) (*ProposeTeamsOutput, error)

	// SwapPlayers exchanges one player from each team of a pending match
	SwapPlayers(ctx context.Context, input *SwapPlayersInput) (*SwapPlayersOutput, error)

	// ConfirmMatch locks a pending proposal in as the arena's active match
	ConfirmMatch(ctx context.Context, input *ConfirmMatchInput) (*ConfirmMatchOutput, error)

	// CancelMatch discards the arena's live session, whatever its kind
	CancelMatch(ctx context.Context, input *CancelMatchInput) (*CancelMatchOutput, error)

	// StartDraft opens a captain's draft in the arena
	StartDraft(ctx context.Context, input *StartDraftInput) (*StartDraftOutput, error)

	// SubmitPick applies the current captain's picks; completing the
	// draft promotes it to an active match
	SubmitPick(ctx context.Context, input *SubmitPickInput) (*SubmitPickOutput, error)

	// ReportResult closes the arena's active match, updating ratings for
	// decided outcomes and recording the match either way
	ReportResult(ctx context.Context, input *ReportResultInput) (*ReportResultOutput, error)

	// GetLeaderboard lists every known player by rating, best first
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)

	// GetMatchHistory lists a player's recorded matches, most recent first
	GetMatchHistory(ctx context.Context, input *GetMatchHistoryInput) (*GetMatchHistoryOutput, error)

	// GetPlayerRating returns a player's standing, creating them at the
	// defaults if they are new
	GetPlayerRating(ctx context.Context, input *GetPlayerRatingInput) (*GetPlayerRatingOutput, error)

	// EditRating overrides a player's rating without touching deviation
	EditRating(ctx context.Context, input *EditRatingInput) (*EditRatingOutput, error)

	// ToggleMentions flips whether announcements ping participants
	ToggleMentions(ctx context.Context, input *ToggleMentionsInput) (*ToggleMentionsOutput, error)

	// Run drives background session expiry until ctx is cancelled
	Run(ctx context.Context, interval time.Duration)
}
