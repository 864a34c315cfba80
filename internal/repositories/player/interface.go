package player

import (
	"context"

	"github.com/KirkDiggler/matchbot/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/matchbot/internal/repositories/player Repository

// Repository defines the interface for player rating persistence
type Repository interface {
	// GetOrCreatePlayer retrieves a player by ID, creating them with
	// default rating values on first reference and refreshing a
	// changed display name
	GetOrCreatePlayer(ctx context.Context, input *GetOrCreatePlayerInput) (*models.Player, error)

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)

	// SavePlayer persists a player
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// ListPlayers retrieves every known player
	ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error)

	// ApplyRatingDeltas applies rating and deviation changes to a set
	// of players in a single transaction
	ApplyRatingDeltas(ctx context.Context, input *ApplyRatingDeltasInput) (*ApplyRatingDeltasOutput, error)

	// SetRating overrides a player's rating, leaving deviation untouched
	SetRating(ctx context.Context, input *SetRatingInput) (*models.Player, error)
}
