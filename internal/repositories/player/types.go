package player

import "github.com/KirkDiggler/matchbot/internal/models"

// GetOrCreatePlayerInput contains parameters for fetching or lazily
// creating a player
type GetOrCreatePlayerInput struct {
	PlayerID    string
	DisplayName string
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	PlayerID string
}

// SavePlayerInput contains parameters for saving a player
type SavePlayerInput struct {
	Player *models.Player
}

// ListPlayersInput contains parameters for listing players
type ListPlayersInput struct{}

// ListPlayersOutput contains the result of listing players
type ListPlayersOutput struct {
	Players []*models.Player
}

// RatingDelta is one player's pending rating change
type RatingDelta struct {
	PlayerID       string
	RatingDelta    float64
	DeviationDelta float64
}

// ApplyRatingDeltasInput contains the rating changes of one match.
// UpdateID, when set, dedupes retries: a second call with the same ID
// returns the already-updated players without applying anything again.
type ApplyRatingDeltasInput struct {
	UpdateID string
	Deltas   []RatingDelta
}

// ApplyRatingDeltasOutput contains the updated players, aligned with
// the input delta order
type ApplyRatingDeltasOutput struct {
	Players []*models.Player
}

// SetRatingInput contains parameters for an admin rating override
type SetRatingInput struct {
	PlayerID string
	Rating   float64
}
