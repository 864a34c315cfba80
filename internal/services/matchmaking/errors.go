package matchmaking

// MatchmakingError is a custom error type for matchmaking errors
type MatchmakingError string

// Error implements the error interface
func (e MatchmakingError) Error() string {
	return string(e)
}

// Define errors
const (
	// Validation errors: rejected before any state change
	ErrInvalidPlayerCount MatchmakingError = "exactly 10 unique players are required"
	ErrDuplicatePlayers   MatchmakingError = "players must be distinct"
	ErrInvalidPickCount   MatchmakingError = "wrong number of players picked for this turn"
	ErrPlayerNotInPool    MatchmakingError = "picked player is not in the draft pool"
	ErrInvalidSwap        MatchmakingError = "a swap needs exactly one player from each team"
	ErrInvalidCaptains    MatchmakingError = "captains must be two distinct players from the match"
	ErrInvalidWinner      MatchmakingError = "winner must be one of the two teams"

	// Authorization errors: wrong actor, state unchanged
	ErrNotYourTurn    MatchmakingError = "it is not your turn to pick"
	ErrNotYourSession MatchmakingError = "only the user who started this session can do that"

	// Conflict: the arena already holds a live session
	ErrMatchInProgress MatchmakingError = "this channel already has a match in progress"

	// Not found: nothing to act on
	ErrNoPendingMatch    MatchmakingError = "no proposed match in this channel"
	ErrNoActiveMatch     MatchmakingError = "no active match in this channel"
	ErrNoDraftInProgress MatchmakingError = "no draft in progress in this channel"
	ErrNoMatchHistory    MatchmakingError = "no recorded matches for this player"

	// Config validation
	ErrNilConfig     MatchmakingError = "config cannot be nil"
	ErrNilPlayerRepo MatchmakingError = "player repository cannot be nil"
	ErrNilMatchRepo  MatchmakingError = "match repository cannot be nil"
	ErrNilClock      MatchmakingError = "clock cannot be nil"
	ErrNilShuffler   MatchmakingError = "shuffler cannot be nil"
	ErrNilUUID       MatchmakingError = "UUID generator cannot be nil"
)
