package models

// TeamSize is the fixed number of players per team.
const TeamSize = 5

// MatchPlayerCount is the total number of players in a match.
const MatchPlayerCount = 2 * TeamSize

// TeamMember is a snapshot of a player taken at team-formation time.
// Rating changes elsewhere must not retroactively alter an in-flight
// match, so teams hold copies rather than references into the store.
type TeamMember struct {
	// PlayerID is the Discord user ID of the player
	PlayerID string

	// DisplayName is the display name at formation time
	DisplayName string

	// Rating is the rating at formation time
	Rating float64

	// Deviation is the deviation at formation time
	Deviation float64
}

// Team is an ordered roster of TeamSize member snapshots.
type Team []TeamMember

// AverageRating returns the mean rating of the team's members.
func (t Team) AverageRating() float64 {
	if len(t) == 0 {
		return 0
	}

	var sum float64
	for _, m := range t {
		sum += m.Rating
	}

	return sum / float64(len(t))
}

// AverageDeviation returns the mean deviation of the team's members.
func (t Team) AverageDeviation() float64 {
	if len(t) == 0 {
		return 0
	}

	var sum float64
	for _, m := range t {
		sum += m.Deviation
	}

	return sum / float64(len(t))
}

// PlayerIDs returns the member IDs in roster order.
func (t Team) PlayerIDs() []string {
	ids := make([]string, 0, len(t))
	for _, m := range t {
		ids = append(ids, m.PlayerID)
	}

	return ids
}

// IndexOf returns the roster index of the given player, or -1 when
// they are not on the team.
func (t Team) IndexOf(playerID string) int {
	for i, m := range t {
		if m.PlayerID == playerID {
			return i
		}
	}

	return -1
}

// Contains reports whether the team has a member with the given ID.
func (t Team) Contains(playerID string) bool {
	for _, m := range t {
		if m.PlayerID == playerID {
			return true
		}
	}

	return false
}
