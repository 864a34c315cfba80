package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/KirkDiggler/matchbot/internal/common/clock/mocks"
	"github.com/KirkDiggler/matchbot/internal/models"
)

func registryFixture(t *testing.T) (*Registry, *clockMocks.MockClock) {
	ctrl := gomock.NewController(t)
	mockClock := clockMocks.NewMockClock(ctrl)

	r, err := NewRegistry(&RegistryConfig{
		Clock:          mockClock,
		SessionTimeout: 15 * time.Minute,
	})
	require.NoError(t, err)

	return r, mockClock
}

func occupy(t *testing.T, r *Registry, arenaID, sessionID string) {
	t.Helper()

	err := r.Update(arenaID, func(slot *Slot) error {
		slot.Match = &models.MatchSession{SessionID: sessionID, ArenaID: arenaID}
		return nil
	})
	require.NoError(t, err)
}

func TestNewRegistry_Validation(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = NewRegistry(&RegistryConfig{})
	assert.ErrorIs(t, err, ErrNilClock)
}

func TestRegistry_UpdateErrorPropagatesUnchangedSlot(t *testing.T) {
	r, mockClock := registryFixture(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(now).AnyTimes()

	occupy(t, r, "arena-1", "s1")

	err := r.Update("arena-1", func(slot *Slot) error {
		return ErrMatchInProgress
	})
	assert.ErrorIs(t, err, ErrMatchInProgress)

	err = r.Update("arena-1", func(slot *Slot) error {
		require.NotNil(t, slot.Match)
		assert.Equal(t, "s1", slot.Match.SessionID)
		return nil
	})
	require.NoError(t, err)
}

func TestRegistry_ArenasAreIndependent(t *testing.T) {
	r, mockClock := registryFixture(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(now).AnyTimes()

	occupy(t, r, "arena-1", "s1")

	err := r.Update("arena-2", func(slot *Slot) error {
		assert.True(t, slot.Empty())
		return nil
	})
	require.NoError(t, err)
}

func TestRegistry_ExpiredSessionClearedOnAccess(t *testing.T) {
	r, mockClock := registryFixture(t)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mockClock.EXPECT().Now().Return(start)
	occupy(t, r, "arena-1", "s1")

	// Inside the window the session survives and the deadline refreshes.
	mockClock.EXPECT().Now().Return(start.Add(10 * time.Minute))
	err := r.Update("arena-1", func(slot *Slot) error {
		assert.NotNil(t, slot.Match)
		return nil
	})
	require.NoError(t, err)

	// 40 minutes in is past the refreshed deadline of 25.
	mockClock.EXPECT().Now().Return(start.Add(40 * time.Minute))
	err = r.Update("arena-1", func(slot *Slot) error {
		assert.True(t, slot.Empty())
		return nil
	})
	require.NoError(t, err)
}

func TestRegistry_FailedUpdateDoesNotExtendDeadline(t *testing.T) {
	r, mockClock := registryFixture(t)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mockClock.EXPECT().Now().Return(start)
	occupy(t, r, "arena-1", "s1")

	mockClock.EXPECT().Now().Return(start.Add(10 * time.Minute))
	err := r.Update("arena-1", func(slot *Slot) error {
		return ErrNotYourSession
	})
	assert.ErrorIs(t, err, ErrNotYourSession)

	// The deadline is still start+15, so the session is gone at +16.
	mockClock.EXPECT().Now().Return(start.Add(16 * time.Minute))
	err = r.Update("arena-1", func(slot *Slot) error {
		assert.True(t, slot.Empty())
		return nil
	})
	require.NoError(t, err)
}

func TestRegistry_SweepExpiredClearsIdleArenas(t *testing.T) {
	r, mockClock := registryFixture(t)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mockClock.EXPECT().Now().Return(start).Times(2)
	occupy(t, r, "arena-1", "s1")
	occupy(t, r, "arena-2", "s2")

	mockClock.EXPECT().Now().Return(start.Add(20 * time.Minute))
	r.SweepExpired()

	mockClock.EXPECT().Now().Return(start.Add(20 * time.Minute)).Times(2)
	for _, arenaID := range []string{"arena-1", "arena-2"} {
		err := r.Update(arenaID, func(slot *Slot) error {
			assert.True(t, slot.Empty())
			return nil
		})
		require.NoError(t, err)
	}
}

func TestRegistry_EmptyingSlotClearsDeadline(t *testing.T) {
	r, mockClock := registryFixture(t)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mockClock.EXPECT().Now().Return(start)
	occupy(t, r, "arena-1", "s1")

	mockClock.EXPECT().Now().Return(start.Add(time.Minute))
	err := r.Update("arena-1", func(slot *Slot) error {
		slot.Match = nil
		return nil
	})
	require.NoError(t, err)

	// A fresh session much later starts a fresh window.
	mockClock.EXPECT().Now().Return(start.Add(2 * time.Hour))
	occupy(t, r, "arena-1", "s2")

	mockClock.EXPECT().Now().Return(start.Add(2*time.Hour + 5*time.Minute))
	err = r.Update("arena-1", func(slot *Slot) error {
		require.NotNil(t, slot.Match)
		assert.Equal(t, "s2", slot.Match.SessionID)
		return nil
	})
	require.NoError(t, err)
}
