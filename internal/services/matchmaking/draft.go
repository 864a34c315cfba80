package matchmaking

import (
	"github.com/KirkDiggler/matchbot/internal/models"
)

// pickSchedule is the number of picks each draft turn requires.
// Captains seed their own teams, so eight players are drafted across
// the 1-2-2-2-1 schedule. Turn 5 never needs a submission: the lone
// player left after turn 4 is assigned automatically.
var pickSchedule = map[int]int{
	1: 1,
	2: 2,
	3: 2,
	4: 2,
	5: 1,
}

// autoAssignTurn is the turn after which the leftover player is
// assigned without a submission.
const autoAssignTurn = 4

// Draft holds the state of one captain's draft. It is owned by the
// arena registry and is only touched inside the arena's critical
// section, so it carries no locking of its own.
type Draft struct {
	// SessionID uniquely identifies this draft
	SessionID string

	// ArenaID is the channel hosting the draft
	ArenaID string

	// AuthorID is the user who started the draft
	AuthorID string

	// Captains lead team 1 and team 2 respectively
	Captains [2]models.TeamMember

	// Pool holds the players still available to pick
	Pool []models.TeamMember

	// Team1 and Team2 accumulate picks, each seeded with its captain
	Team1 models.Team
	Team2 models.Team

	// PickTurn is the current turn, starting at 1
	PickTurn int

	// CurrentCaptain indexes Captains for whoever picks next
	CurrentCaptain int

	// Complete is set once both teams have five members
	Complete bool
}

func newDraft(sessionID, arenaID, authorID string, captains [2]models.TeamMember, pool []models.TeamMember) *Draft {
	return &Draft{
		SessionID:      sessionID,
		ArenaID:        arenaID,
		AuthorID:       authorID,
		Captains:       captains,
		Pool:           pool,
		Team1:          models.Team{captains[0]},
		Team2:          models.Team{captains[1]},
		PickTurn:       1,
		CurrentCaptain: 0,
	}
}

// PicksRequired returns how many players the current captain must pick
// this turn.
func (d *Draft) PicksRequired() int {
	return pickSchedule[d.PickTurn]
}

// CurrentCaptainMember returns the captain whose turn it is.
func (d *Draft) CurrentCaptainMember() models.TeamMember {
	return d.Captains[d.CurrentCaptain]
}

// SubmitPick applies one turn's picks for the given actor. Every check
// runs before any mutation, so a rejected pick leaves the draft exactly
// as it was. After turn 4 the last pool player joins the team that did
// not just pick and the draft completes.
func (d *Draft) SubmitPick(actorID string, playerIDs []string) error {
	if d.Complete {
		return ErrNoDraftInProgress
	}

	if actorID != d.CurrentCaptainMember().PlayerID {
		return ErrNotYourTurn
	}

	if len(playerIDs) != d.PicksRequired() {
		return ErrInvalidPickCount
	}

	picked := make([]models.TeamMember, 0, len(playerIDs))
	seen := make(map[string]struct{}, len(playerIDs))
	for _, playerID := range playerIDs {
		if _, dup := seen[playerID]; dup {
			return ErrPlayerNotInPool
		}
		seen[playerID] = struct{}{}

		member, ok := d.poolMember(playerID)
		if !ok {
			return ErrPlayerNotInPool
		}
		picked = append(picked, member)
	}

	for _, member := range picked {
		d.removeFromPool(member.PlayerID)
		if d.CurrentCaptain == 0 {
			d.Team1 = append(d.Team1, member)
		} else {
			d.Team2 = append(d.Team2, member)
		}
	}

	if d.PickTurn == autoAssignTurn && len(d.Pool) == 1 {
		// The alternating schedule guarantees the leftover player
		// belongs to the team that did not just pick.
		leftover := d.Pool[0]
		d.Pool = nil
		if d.CurrentCaptain == 0 {
			d.Team2 = append(d.Team2, leftover)
		} else {
			d.Team1 = append(d.Team1, leftover)
		}
		d.Complete = true
		return nil
	}

	d.PickTurn++
	d.CurrentCaptain = 1 - d.CurrentCaptain
	return nil
}

func (d *Draft) poolMember(playerID string) (models.TeamMember, bool) {
	for _, member := range d.Pool {
		if member.PlayerID == playerID {
			return member, true
		}
	}
	return models.TeamMember{}, false
}

func (d *Draft) removeFromPool(playerID string) {
	for i, member := range d.Pool {
		if member.PlayerID == playerID {
			d.Pool = append(d.Pool[:i], d.Pool[i+1:]...)
			return
		}
	}
}
