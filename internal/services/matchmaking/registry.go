package matchmaking

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/matchbot/internal/common/clock"
	"github.com/KirkDiggler/matchbot/internal/models"
)

// DefaultSessionTimeout evicts sessions that have seen no successful
// mutation for this long.
const DefaultSessionTimeout = 15 * time.Minute

// Slot is the single live occupancy of an arena: at most one of a
// proposed/active match or a running draft. Both nil means idle.
type Slot struct {
	Match *models.MatchSession
	Draft *Draft
}

// Empty returns true when nothing is live in the slot.
func (s *Slot) Empty() bool {
	return s.Match == nil && s.Draft == nil
}

// arena serializes all access to one channel's slot.
type arena struct {
	mu       sync.Mutex
	slot     Slot
	deadline time.Time
}

// RegistryConfig holds configuration for the arena registry
type RegistryConfig struct {
	Clock clock.Clock

	// SessionTimeout overrides DefaultSessionTimeout when positive
	SessionTimeout time.Duration
}

// Registry tracks the live session of every arena and serializes
// mutations per arena. Operations on distinct arenas never block each
// other.
type Registry struct {
	mu      sync.Mutex
	arenas  map[string]*arena
	clock   clock.Clock
	timeout time.Duration
}

// NewRegistry creates a new arena registry
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}

	return &Registry{
		arenas:  make(map[string]*arena),
		clock:   cfg.Clock,
		timeout: timeout,
	}, nil
}

func (r *Registry) arenaFor(arenaID string) *arena {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.arenas[arenaID]
	if !ok {
		a = &arena{}
		r.arenas[arenaID] = a
	}

	return a
}

// Update runs fn inside the arena's critical section. An expired slot
// is cleared before fn sees it, so a stale session can never gate a new
// one. The idle deadline refreshes only when fn succeeds and leaves the
// slot occupied; a failed fn never extends a session's life.
func (r *Registry) Update(arenaID string, fn func(slot *Slot) error) error {
	a := r.arenaFor(arenaID)

	a.mu.Lock()
	defer a.mu.Unlock()

	now := r.clock.Now()
	if !a.slot.Empty() && now.After(a.deadline) {
		a.slot = Slot{}
	}

	if err := fn(&a.slot); err != nil {
		return err
	}

	if a.slot.Empty() {
		a.deadline = time.Time{}
	} else {
		a.deadline = now.Add(r.timeout)
	}

	return nil
}

// SweepExpired clears every slot past its idle deadline.
func (r *Registry) SweepExpired() {
	r.mu.Lock()
	arenas := make([]*arena, 0, len(r.arenas))
	for _, a := range r.arenas {
		arenas = append(arenas, a)
	}
	r.mu.Unlock()

	now := r.clock.Now()
	for _, a := range arenas {
		a.mu.Lock()
		if !a.slot.Empty() && now.After(a.deadline) {
			a.slot = Slot{}
		}
		a.mu.Unlock()
	}
}

// Run sweeps expired sessions on the given interval until ctx is
// cancelled. Expiry is also enforced lazily on access, so the sweep
// only reclaims memory for arenas nobody touches again.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.SweepExpired()
		}
	}
}
