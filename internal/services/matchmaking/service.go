package matchmaking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/matchbot/internal/balance"
	"github.com/KirkDiggler/matchbot/internal/common/clock"
	"github.com/KirkDiggler/matchbot/internal/common/shuffle"
	"github.com/KirkDiggler/matchbot/internal/common/uuid"
	"github.com/KirkDiggler/matchbot/internal/glicko"
	"github.com/KirkDiggler/matchbot/internal/models"
	matchRepo "github.com/KirkDiggler/matchbot/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/matchbot/internal/repositories/player"
)

type service struct {
	playerRepo playerRepo.Repository
	matchRepo  matchRepo.Repository
	clock      clock.Clock
	shuffler   shuffle.Shuffler
	uuider     uuid.UUID
	logger     *zap.Logger
	registry   *Registry

	// mentionMu guards silenced, a process-wide announcement switch
	mentionMu sync.Mutex
	silenced  bool
}

// New creates a new matchmaking service
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	if cfg.MatchRepo == nil {
		return nil, ErrNilMatchRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.Shuffler == nil {
		return nil, ErrNilShuffler
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUID
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry, err := NewRegistry(&RegistryConfig{
		Clock:          cfg.Clock,
		SessionTimeout: cfg.SessionTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &service{
		playerRepo: cfg.PlayerRepo,
		matchRepo:  cfg.MatchRepo,
		clock:      cfg.Clock,
		shuffler:   cfg.Shuffler,
		uuider:     cfg.UUIDGenerator,
		logger:     logger,
		registry:   registry,
	}, nil
}

// Run drives the registry's periodic expiry sweep until ctx is
// cancelled.
func (s *service) Run(ctx context.Context, interval time.Duration) {
	s.registry.Run(ctx, interval)
}

func (s *service) ProposeTeams(ctx context.Context, input *ProposeTeamsInput) (*ProposeTeamsOutput, error) {
	var output *ProposeTeamsOutput

	err := s.registry.Update(input.ArenaID, func(slot *Slot) error {
		if !slot.Empty() {
			return ErrMatchInProgress
		}

		// Resolve only once the arena is known to be free, so a
		// rejected proposal leaves the player store untouched.
		members, err := s.resolveMembers(ctx, input.Players)
		if err != nil {
			return err
		}

		team1, team2, err := balance.BalanceTeams(members)
		if err != nil {
			return err
		}

		session := &models.MatchSession{
			SessionID: s.uuider.NewUUID(),
			ArenaID:   input.ArenaID,
			AuthorID:  input.ActorID,
			Team1:     team1,
			Team2:     team2,
			Status:    models.MatchStatusPending,
		}
		slot.Match = session

		output = &ProposeTeamsOutput{
			SessionID: session.SessionID,
			Team1:     team1,
			Team2:     team2,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposed teams",
		zap.String("arena_id", input.ArenaID),
		zap.String("session_id", output.SessionID),
		zap.Float64("gap", output.Team1.AverageRating()-output.Team2.AverageRating()))

	return output, nil
}

func (s *service) SwapPlayers(ctx context.Context, input *SwapPlayersInput) (*SwapPlayersOutput, error) {
	var output *SwapPlayersOutput

	err := s.registry.Update(input.ArenaID, func(slot *Slot) error {
		if slot.Match == nil || slot.Match.Status != models.MatchStatusPending {
			return ErrNoPendingMatch
		}

		session := slot.Match
		if input.ActorID != session.AuthorID {
			return ErrNotYourSession
		}

		// The pair must straddle the teams, in either order.
		first, second := input.PlayerID1, input.PlayerID2
		i1 := session.Team1.IndexOf(first)
		i2 := session.Team2.IndexOf(second)
		if i1 < 0 || i2 < 0 {
			i1 = session.Team1.IndexOf(second)
			i2 = session.Team2.IndexOf(first)
		}
		if i1 < 0 || i2 < 0 {
			return ErrInvalidSwap
		}

		session.Team1[i1], session.Team2[i2] = session.Team2[i2], session.Team1[i1]

		output = &SwapPlayersOutput{
			SessionID: session.SessionID,
			Team1:     session.Team1,
			Team2:     session.Team2,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("swapped players",
		zap.String("arena_id", input.ArenaID),
		zap.String("player1", input.PlayerID1),
		zap.String("player2", input.PlayerID2))

	return output, nil
}

func (s *service) ConfirmMatch(ctx context.Context, input *ConfirmMatchInput) (*ConfirmMatchOutput, error) {
	var output *ConfirmMatchOutput

	err := s.registry.Update(input.ArenaID, func(slot *Slot) error {
		if slot.Match == nil || slot.Match.Status != models.MatchStatusPending {
			return ErrNoPendingMatch
		}

		session := slot.Match
		if input.ActorID != session.AuthorID {
			return ErrNotYourSession
		}

		session.MatchID = s.clock.Now().Unix()
		session.Status = models.MatchStatusActive

		output = &ConfirmMatchOutput{
			MatchID:     session.MatchID,
			Team1:       session.Team1,
			Team2:       session.Team2,
			UseMentions: s.useMentions(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("confirmed match",
		zap.String("arena_id", input.ArenaID),
		zap.Int64("match_id", output.MatchID))

	return output, nil
}

func (s *service) CancelMatch(ctx context.Context, input *CancelMatchInput) (*CancelMatchOutput, error) {
	var output *CancelMatchOutput

	err := s.registry.Update(input.ArenaID, func(slot *Slot) error {
		switch {
		case slot.Draft != nil:
			draft := slot.Draft
			if !input.Force &&
				input.ActorID != draft.AuthorID &&
				input.ActorID != draft.Captains[0].PlayerID &&
				input.ActorID != draft.Captains[1].PlayerID {
				return ErrNotYourSession
			}
			slot.Draft = nil
			output = &CancelMatchOutput{}

		case slot.Match != nil && slot.Match.Status == models.MatchStatusPending:
			if !input.Force && input.ActorID != slot.Match.AuthorID {
				return ErrNotYourSession
			}
			slot.Match = nil
			output = &CancelMatchOutput{}

		case slot.Match != nil && slot.Match.Status == models.MatchStatusActive:
			// Active matches are only discarded by moderators; everyone
			// else abandons via a reported result.
			if !input.Force {
				return ErrNotYourSession
			}
			slot.Match = nil
			output = &CancelMatchOutput{WasActive: true}

		default:
			return ErrNoActiveMatch
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cancelled session",
		zap.String("arena_id", input.ArenaID),
		zap.String("actor_id", input.ActorID),
		zap.Bool("was_active", output.WasActive))

	return output, nil
}

func (s *service) StartDraft(ctx context.Context, input *StartDraftInput) (*StartDraftOutput, error) {
	switch len(input.Captains) {
	case 0:
	case 2:
		if input.Captains[0].ID == input.Captains[1].ID {
			return nil, ErrInvalidCaptains
		}
	default:
		return nil, ErrInvalidCaptains
	}

	var output *StartDraftOutput

	err := s.registry.Update(input.ArenaID, func(slot *Slot) error {
		if !slot.Empty() {
			return ErrMatchInProgress
		}

		// Resolve only once the arena is known to be free, so a
		// rejected draft leaves the player store untouched.
		members, err := s.resolveMembers(ctx, input.Players)
		if err != nil {
			return err
		}

		captains, pool, err := s.chooseCaptains(members, input.Captains)
		if err != nil {
			return err
		}

		draft := newDraft(s.uuider.NewUUID(), input.ArenaID, input.ActorID, captains, pool)
		slot.Draft = draft

		output = &StartDraftOutput{
			SessionID:      draft.SessionID,
			Captains:       draft.Captains,
			Team1:          draft.Team1,
			Team2:          draft.Team2,
			Pool:           append([]models.TeamMember(nil), draft.Pool...),
			CurrentCaptain: draft.CurrentCaptainMember(),
			PicksRequired:  draft.PicksRequired(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("started draft",
		zap.String("arena_id", input.ArenaID),
		zap.String("session_id", output.SessionID),
		zap.String("captain1", output.Captains[0].PlayerID),
		zap.String("captain2", output.Captains[1].PlayerID))

	return output, nil
}

func (s *service) SubmitPick(ctx context.Context, input *SubmitPickInput) (*SubmitPickOutput, error) {
	var output *SubmitPickOutput

	err := s.registry.Update(input.ArenaID, func(slot *Slot) error {
		if slot.Draft == nil {
			return ErrNoDraftInProgress
		}

		draft := slot.Draft
		if err := draft.SubmitPick(input.ActorID, input.PlayerIDs); err != nil {
			return err
		}

		if draft.Complete {
			// The finished draft becomes the arena's active match.
			session := &models.MatchSession{
				SessionID: draft.SessionID,
				ArenaID:   draft.ArenaID,
				AuthorID:  draft.AuthorID,
				MatchID:   s.clock.Now().Unix(),
				Team1:     draft.Team1,
				Team2:     draft.Team2,
				Status:    models.MatchStatusActive,
			}
			slot.Draft = nil
			slot.Match = session

			output = &SubmitPickOutput{
				SessionID:   session.SessionID,
				Complete:    true,
				MatchID:     session.MatchID,
				Team1:       session.Team1,
				Team2:       session.Team2,
				UseMentions: s.useMentions(),
			}
			return nil
		}

		output = &SubmitPickOutput{
			SessionID:      draft.SessionID,
			Team1:          draft.Team1,
			Team2:          draft.Team2,
			Pool:           append([]models.TeamMember(nil), draft.Pool...),
			CurrentCaptain: draft.CurrentCaptainMember(),
			PicksRequired:  draft.PicksRequired(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("submitted pick",
		zap.String("arena_id", input.ArenaID),
		zap.String("actor_id", input.ActorID),
		zap.Bool("complete", output.Complete))

	return output, nil
}

func (s *service) ReportResult(ctx context.Context, input *ReportResultInput) (*ReportResultOutput, error) {
	switch input.Winner {
	case models.WinnerTeam1, models.WinnerTeam2, models.WinnerAbandoned:
	default:
		return nil, ErrInvalidWinner
	}

	var output *ReportResultOutput

	err := s.registry.Update(input.ArenaID, func(slot *Slot) error {
		if slot.Match == nil || slot.Match.Status != models.MatchStatusActive {
			return ErrNoActiveMatch
		}

		session := slot.Match
		record := &models.MatchRecord{
			MatchID:   session.MatchID,
			Winner:    input.Winner,
			Team1IDs:  session.Team1.PlayerIDs(),
			Team2IDs:  session.Team2.PlayerIDs(),
			Timestamp: s.clock.Now(),
		}

		if input.Winner == models.WinnerAbandoned {
			if err := s.matchRepo.AppendMatch(ctx, &matchRepo.AppendMatchInput{Record: record}); err != nil {
				return fmt.Errorf("failed to record abandoned match: %w", err)
			}
			slot.Match = nil

			output = &ReportResultOutput{
				MatchID:     session.MatchID,
				Winner:      input.Winner,
				UseMentions: s.useMentions(),
			}
			return nil
		}

		score := 0.0
		if input.Winner == models.WinnerTeam1 {
			score = 1.0
		}

		new1, new2, deltas1, deltas2 := glicko.NewTeamRatings(
			teamRatings(session.Team1), teamRatings(session.Team2), score)

		deltas := make([]playerRepo.RatingDelta, 0, models.MatchPlayerCount)
		for i, member := range session.Team1 {
			deltas = append(deltas, playerRepo.RatingDelta{
				PlayerID:       member.PlayerID,
				RatingDelta:    deltas1[i],
				DeviationDelta: new1[i].Deviation - member.Deviation,
			})
		}
		for i, member := range session.Team2 {
			deltas = append(deltas, playerRepo.RatingDelta{
				PlayerID:       member.PlayerID,
				RatingDelta:    deltas2[i],
				DeviationDelta: new2[i].Deviation - member.Deviation,
			})
		}

		applied, err := s.playerRepo.ApplyRatingDeltas(ctx, &playerRepo.ApplyRatingDeltasInput{
			UpdateID: session.SessionID,
			Deltas:   deltas,
		})
		if err != nil {
			return fmt.Errorf("failed to apply rating changes: %w", err)
		}

		if err := s.matchRepo.AppendMatch(ctx, &matchRepo.AppendMatchInput{Record: record}); err != nil {
			return fmt.Errorf("failed to record match: %w", err)
		}

		slot.Match = nil

		output = &ReportResultOutput{
			MatchID:      session.MatchID,
			Winner:       input.Winner,
			Team1Results: playerResults(session.Team1, applied.Players[:len(session.Team1)], deltas1),
			Team2Results: playerResults(session.Team2, applied.Players[len(session.Team1):], deltas2),
			UseMentions:  s.useMentions(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reported result",
		zap.String("arena_id", input.ArenaID),
		zap.Int64("match_id", output.MatchID),
		zap.String("winner", string(output.Winner)))

	return output, nil
}

func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	listOutput, err := s.playerRepo.ListPlayers(ctx, &playerRepo.ListPlayersInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	players := listOutput.Players
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Rating != players[j].Rating {
			return players[i].Rating > players[j].Rating
		}
		return players[i].ID < players[j].ID
	})

	entries := make([]LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Rating:      p.Rating,
		})
	}

	return &GetLeaderboardOutput{Entries: entries}, nil
}

func (s *service) GetMatchHistory(ctx context.Context, input *GetMatchHistoryInput) (*GetMatchHistoryOutput, error) {
	matchesOutput, err := s.matchRepo.GetPlayerMatches(ctx, &matchRepo.GetPlayerMatchesInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, fmt.Errorf("failed to get match history: %w", err)
	}

	if len(matchesOutput.Records) == 0 {
		return nil, ErrNoMatchHistory
	}

	entries := make([]HistoryEntry, 0, len(matchesOutput.Records))
	for _, record := range matchesOutput.Records {
		entries = append(entries, HistoryEntry{
			MatchID:   record.MatchID,
			Outcome:   outcomeFor(record, input.PlayerID),
			Timestamp: record.Timestamp,
		})
	}

	return &GetMatchHistoryOutput{Entries: entries}, nil
}

func (s *service) GetPlayerRating(ctx context.Context, input *GetPlayerRatingInput) (*GetPlayerRatingOutput, error) {
	player, err := s.playerRepo.GetOrCreatePlayer(ctx, &playerRepo.GetOrCreatePlayerInput{
		PlayerID:    input.PlayerID,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	matchesOutput, err := s.matchRepo.GetPlayerMatches(ctx, &matchRepo.GetPlayerMatchesInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	return &GetPlayerRatingOutput{
		Player:        player,
		MatchesPlayed: len(matchesOutput.Records),
	}, nil
}

func (s *service) EditRating(ctx context.Context, input *EditRatingInput) (*EditRatingOutput, error) {
	// Ensure the player exists before overriding.
	if _, err := s.playerRepo.GetOrCreatePlayer(ctx, &playerRepo.GetOrCreatePlayerInput{
		PlayerID:    input.PlayerID,
		DisplayName: input.DisplayName,
	}); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	player, err := s.playerRepo.SetRating(ctx, &playerRepo.SetRatingInput{
		PlayerID: input.PlayerID,
		Rating:   input.Rating,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set rating: %w", err)
	}

	s.logger.Info("edited rating",
		zap.String("actor_id", input.ActorID),
		zap.String("player_id", input.PlayerID),
		zap.Float64("rating", input.Rating))

	return &EditRatingOutput{Player: player}, nil
}

func (s *service) ToggleMentions(ctx context.Context, input *ToggleMentionsInput) (*ToggleMentionsOutput, error) {
	s.mentionMu.Lock()
	s.silenced = !s.silenced
	silenced := s.silenced
	s.mentionMu.Unlock()

	s.logger.Info("toggled mentions",
		zap.String("actor_id", input.ActorID),
		zap.Bool("silenced", silenced))

	return &ToggleMentionsOutput{Silenced: silenced}, nil
}

func (s *service) useMentions() bool {
	s.mentionMu.Lock()
	defer s.mentionMu.Unlock()
	return !s.silenced
}

// resolveMembers loads current ratings for the referenced players,
// creating anyone seen for the first time at the defaults, and returns
// frozen snapshots for session use.
func (s *service) resolveMembers(ctx context.Context, refs []PlayerRef) ([]models.TeamMember, error) {
	if len(refs) != models.MatchPlayerCount {
		return nil, ErrInvalidPlayerCount
	}

	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref.ID]; dup {
			return nil, ErrDuplicatePlayers
		}
		seen[ref.ID] = struct{}{}
	}

	members := make([]models.TeamMember, 0, len(refs))
	for _, ref := range refs {
		player, err := s.playerRepo.GetOrCreatePlayer(ctx, &playerRepo.GetOrCreatePlayerInput{
			PlayerID:    ref.ID,
			DisplayName: ref.DisplayName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get player %s: %w", ref.ID, err)
		}

		members = append(members, models.TeamMember{
			PlayerID:    player.ID,
			DisplayName: player.DisplayName,
			Rating:      player.Rating,
			Deviation:   player.Deviation,
		})
	}

	return members, nil
}

// chooseCaptains splits the resolved members into two captains and the
// remaining pool. Explicit captains must both come from the match;
// otherwise two are drawn at random.
func (s *service) chooseCaptains(members []models.TeamMember, refs []PlayerRef) ([2]models.TeamMember, []models.TeamMember, error) {
	var captains [2]models.TeamMember

	switch len(refs) {
	case 0:
		picks := s.shuffler.Pick(len(members), 2)
		captains[0] = members[picks[0]]
		captains[1] = members[picks[1]]

	case 2:
		if refs[0].ID == refs[1].ID {
			return captains, nil, ErrInvalidCaptains
		}
		for i, ref := range refs {
			found := false
			for _, member := range members {
				if member.PlayerID == ref.ID {
					captains[i] = member
					found = true
					break
				}
			}
			if !found {
				return captains, nil, ErrInvalidCaptains
			}
		}

	default:
		return captains, nil, ErrInvalidCaptains
	}

	pool := make([]models.TeamMember, 0, len(members)-2)
	for _, member := range members {
		if member.PlayerID == captains[0].PlayerID || member.PlayerID == captains[1].PlayerID {
			continue
		}
		pool = append(pool, member)
	}

	return captains, pool, nil
}

func teamRatings(team models.Team) []glicko.Rating {
	ratings := make([]glicko.Rating, 0, len(team))
	for _, member := range team {
		ratings = append(ratings, glicko.Rating{
			Rating:    member.Rating,
			Deviation: member.Deviation,
		})
	}
	return ratings
}

func playerResults(team models.Team, updated []*models.Player, deltas []float64) []PlayerResult {
	results := make([]PlayerResult, 0, len(team))
	for i, member := range team {
		results = append(results, PlayerResult{
			PlayerID:    member.PlayerID,
			DisplayName: member.DisplayName,
			Rating:      updated[i].Rating,
			Delta:       deltas[i],
		})
	}
	return results
}

func outcomeFor(record *models.MatchRecord, playerID string) MatchOutcome {
	if record.Winner == models.WinnerAbandoned {
		return OutcomeAbandoned
	}

	onTeam1 := false
	for _, id := range record.Team1IDs {
		if id == playerID {
			onTeam1 = true
			break
		}
	}

	if (record.Winner == models.WinnerTeam1) == onTeam1 {
		return OutcomeWin
	}
	return OutcomeLoss
}
