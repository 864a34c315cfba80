package match

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/matchbot/internal/repositories/match Repository

// Repository defines the interface for the append-only match log
type Repository interface {
	// AppendMatch appends a completed or abandoned match record
	AppendMatch(ctx context.Context, input *AppendMatchInput) error

	// GetPlayerMatches retrieves the matches a player took part in,
	// most recent first
	GetPlayerMatches(ctx context.Context, input *GetPlayerMatchesInput) (*GetPlayerMatchesOutput, error)
}
