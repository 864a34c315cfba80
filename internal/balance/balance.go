// Package balance splits ten rated players into two teams of five with
// the closest possible average ratings.
package balance

import (
	"errors"
	"math"
	"math/bits"

	"github.com/KirkDiggler/matchbot/internal/models"
)

// Define errors
var (
	ErrInvalidPlayerCount = errors.New("exactly 10 players are required")
	ErrDuplicatePlayers   = errors.New("players must be distinct")
)

// BalanceTeams partitions exactly ten distinct players into two teams
// of five, minimizing the absolute difference of the teams' average
// ratings. Every 5-of-10 combination is evaluated; player 0 is pinned
// to team 1 so each partition is visited once. Candidates are visited
// in ascending bitmask order and the first one achieving the minimum
// wins ties, so identical input yields an identical result.
func BalanceTeams(players []models.TeamMember) (models.Team, models.Team, error) {
	if len(players) != models.MatchPlayerCount {
		return nil, nil, ErrInvalidPlayerCount
	}

	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if _, ok := seen[p.PlayerID]; ok {
			return nil, nil, ErrDuplicatePlayers
		}
		seen[p.PlayerID] = struct{}{}
	}

	bestDiff := math.Inf(1)
	var best1, best2 models.Team

	for mask := uint(0); mask < 1<<models.MatchPlayerCount; mask++ {
		if bits.OnesCount(mask) != models.TeamSize || mask&1 == 0 {
			continue
		}

		var sum1, sum2 float64
		for i, p := range players {
			if mask&(1<<i) != 0 {
				sum1 += p.Rating
			} else {
				sum2 += p.Rating
			}
		}

		diff := math.Abs(sum1-sum2) / models.TeamSize
		if diff < bestDiff {
			bestDiff = diff

			team1 := make(models.Team, 0, models.TeamSize)
			team2 := make(models.Team, 0, models.TeamSize)
			for i, p := range players {
				if mask&(1<<i) != 0 {
					team1 = append(team1, p)
				} else {
					team2 = append(team2, p)
				}
			}
			best1, best2 = team1, team2
		}
	}

	return best1, best2, nil
}
