package models

// Rating defaults assigned to a player on first reference. A high
// deviation marks the estimate as untrusted until the player has some
// reported matches behind them.
const (
	DefaultRating    = 1500.0
	DefaultDeviation = 350.0
)

// Player represents a rated participant
type Player struct {
	// ID is the Discord user ID of the player
	ID string

	// DisplayName is the player's current display name, refreshed
	// whenever it changes upstream
	DisplayName string

	// Rating is the player's skill estimate
	Rating float64

	// Deviation measures how uncertain the rating estimate is;
	// never negative
	Deviation float64
}
