// Package shuffle provides the randomness used when captains are not
// chosen explicitly. It lives behind an interface so tests can supply
// deterministic picks.
package shuffle

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_shuffle.go github.com/KirkDiggler/matchbot/internal/common/shuffle Shuffler

type Shuffler interface {
	// Pick returns n distinct indices in [0, total).
	Pick(total, n int) []int
}

// Config for the default shuffler
type Config struct {
	// Optional seed for testing
	Seed int64
}

// DefaultShuffler implements Shuffler with a seeded random source
type DefaultShuffler struct {
	random *rand.Rand
}

// New creates a new shuffler
func New(cfg *Config) *DefaultShuffler {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &DefaultShuffler{
		random: rand.New(source),
	}
}

// Pick returns n distinct indices in [0, total).
func (s *DefaultShuffler) Pick(total, n int) []int {
	if n > total {
		n = total
	}

	return s.random.Perm(total)[:n]
}
