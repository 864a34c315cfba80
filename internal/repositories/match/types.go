package match

import "github.com/KirkDiggler/matchbot/internal/models"

// AppendMatchInput contains parameters for appending a match record
type AppendMatchInput struct {
	Record *models.MatchRecord
}

// GetPlayerMatchesInput contains parameters for retrieving a player's
// match history
type GetPlayerMatchesInput struct {
	PlayerID string
}

// GetPlayerMatchesOutput contains a player's matches, most recent first
type GetPlayerMatchesOutput struct {
	Records []*models.MatchRecord
}
