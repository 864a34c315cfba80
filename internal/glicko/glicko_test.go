package glicko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTeam() []Rating {
	team := make([]Rating, 5)
	for i := range team {
		team[i] = Rating{Rating: 1500, Deviation: 350}
	}
	return team
}

func TestNewTeamRatings_WinRaisesLossLowers(t *testing.T) {
	new1, new2, deltas1, deltas2 := NewTeamRatings(defaultTeam(), defaultTeam(), 1)

	require.Len(t, new1, 5)
	require.Len(t, new2, 5)

	for i := range deltas1 {
		assert.Greater(t, deltas1[i], 0.0, "winner delta must be positive")
		assert.Less(t, deltas2[i], 0.0, "loser delta must be negative")
	}
}

func TestNewTeamRatings_EqualRatingsSymmetricMagnitude(t *testing.T) {
	_, _, winDeltas, _ := NewTeamRatings(defaultTeam(), defaultTeam(), 1)
	_, _, lossDeltas, _ := NewTeamRatings(defaultTeam(), defaultTeam(), 0)

	for i := range winDeltas {
		assert.Equal(t, winDeltas[i], -lossDeltas[i],
			"win and loss magnitudes must match at equal ratings")
	}
}

func TestNewTeamRatings_IdenticalMembersGetIdenticalDeltas(t *testing.T) {
	_, _, deltas1, deltas2 := NewTeamRatings(defaultTeam(), defaultTeam(), 1)

	for i := 1; i < len(deltas1); i++ {
		assert.Equal(t, deltas1[0], deltas1[i])
		assert.Equal(t, deltas2[0], deltas2[i])
	}
}

func TestNewTeamRatings_DeviationNeverNegative(t *testing.T) {
	teams := [][]Rating{
		defaultTeam(),
		{{1500, 1}, {1500, 1}, {1500, 1}, {1500, 1}, {1500, 1}},
		{{2100, 40}, {1900, 60}, {1500, 350}, {1200, 90}, {1000, 350}},
	}

	for _, team1 := range teams {
		for _, team2 := range teams {
			new1, new2, _, _ := NewTeamRatings(team1, team2, 1)
			for _, r := range append(new1, new2...) {
				assert.GreaterOrEqual(t, r.Deviation, 0.0)
			}
		}
	}
}

func TestNewTeamRatings_DeviationShrinksAfterResult(t *testing.T) {
	new1, _, _, _ := NewTeamRatings(defaultTeam(), defaultTeam(), 1)

	for _, r := range new1 {
		assert.Less(t, r.Deviation, 350.0, "a reported result must reduce uncertainty")
	}
}

func TestNewTeamRatings_UnderdogWinMovesMoreThanFavouriteWin(t *testing.T) {
	underdogs := []Rating{{1300, 100}, {1300, 100}, {1300, 100}, {1300, 100}, {1300, 100}}
	favourites := []Rating{{1700, 100}, {1700, 100}, {1700, 100}, {1700, 100}, {1700, 100}}

	_, _, upsetDeltas, _ := NewTeamRatings(underdogs, favourites, 1)
	_, _, expectedDeltas, _ := NewTeamRatings(favourites, underdogs, 1)

	assert.Greater(t, upsetDeltas[0], expectedDeltas[0],
		"an upset win must move ratings more than an expected win")
}

func TestNewTeamRatings_Deterministic(t *testing.T) {
	team1 := []Rating{{1620, 120}, {1480, 210}, {1555, 80}, {1500, 350}, {1390, 175}}
	team2 := []Rating{{1605, 95}, {1515, 300}, {1460, 130}, {1550, 220}, {1420, 350}}

	firstNew1, firstNew2, firstD1, firstD2 := NewTeamRatings(team1, team2, 0)
	secondNew1, secondNew2, secondD1, secondD2 := NewTeamRatings(team1, team2, 0)

	assert.Equal(t, firstNew1, secondNew1)
	assert.Equal(t, firstNew2, secondNew2)
	assert.Equal(t, firstD1, secondD1)
	assert.Equal(t, firstD2, secondD2)
}
