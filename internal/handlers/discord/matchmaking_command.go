package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/matchbot/internal/models"
	"github.com/KirkDiggler/matchbot/internal/services/matchmaking"
)

// MatchmakingCommand handles the /match command
type MatchmakingCommand struct {
	BaseCommand
	matchService matchmaking.Service
	logger       *zap.Logger
}

// playerOptions builds the ten required user options shared by the
// teams and draft subcommands.
func playerOptions() []*discordgo.ApplicationCommandOption {
	options := make([]*discordgo.ApplicationCommandOption, 0, models.MatchPlayerCount)
	for i := 1; i <= models.MatchPlayerCount; i++ {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        fmt.Sprintf("player%d", i),
			Description: fmt.Sprintf("Player %d", i),
			Required:    true,
		})
	}
	return options
}

// NewMatchmakingCommand creates a new match command handler
func NewMatchmakingCommand(matchService matchmaking.Service, logger *zap.Logger) *MatchmakingCommand {
	if logger == nil {
		logger = zap.NewNop()
	}

	draftOptions := playerOptions()
	draftOptions = append(draftOptions,
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "captain1",
			Description: "Captain of team 1 (random when omitted)",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "captain2",
			Description: "Captain of team 2 (random when omitted)",
		},
	)

	return &MatchmakingCommand{
		BaseCommand: BaseCommand{
			Name:        "match",
			Description: "Skill-balanced 5v5 matchmaking commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "teams",
					Description: "Propose the fairest split of ten players",
					Options:     playerOptions(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "draft",
					Description: "Start a captain's draft with ten players",
					Options:     draftOptions,
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "swap",
					Description: "Swap two players across the proposed teams",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player1",
							Description: "First player to swap",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player2",
							Description: "Second player to swap",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "report",
					Description: "Report the result of the active match",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "winner",
							Description: "Who won",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Team 1", Value: string(models.WinnerTeam1)},
								{Name: "Team 2", Value: string(models.WinnerTeam2)},
								{Name: "Abandoned", Value: string(models.WinnerAbandoned)},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel the channel's proposal, draft or active match",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show every player ranked by rating",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rating",
					Description: "Show a player's rating",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player",
							Description: "Player to look up (defaults to you)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "Show a player's recent matches",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player",
							Description: "Player to look up (defaults to you)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "editrating",
					Description: "Override a player's rating (moderators only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player",
							Description: "Player to adjust",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "rating",
							Description: "New rating value",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "mentions",
					Description: "Toggle pings in match announcements (moderators only)",
				},
			},
		},
		matchService: matchService,
		logger:       logger,
	}
}

// Handle processes a Discord interaction for the match command
func (c *MatchmakingCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	channelID := i.ChannelID
	userID := i.Member.User.ID

	c.logger.Debug("handling subcommand",
		zap.String("subcommand", data.Options[0].Name),
		zap.String("channel_id", channelID),
		zap.String("user_id", userID))

	var err error
	switch data.Options[0].Name {
	case "teams":
		err = c.handleTeams(s, i, channelID, userID)
	case "draft":
		err = c.handleDraft(s, i, channelID, userID)
	case "swap":
		err = c.handleSwap(s, i, channelID, userID)
	case "report":
		err = c.handleReport(s, i, channelID, userID)
	case "cancel":
		err = c.handleCancel(s, i, channelID, userID)
	case "leaderboard":
		err = c.handleLeaderboard(s, i)
	case "rating":
		err = c.handleRating(s, i)
	case "history":
		err = c.handleHistory(s, i)
	case "editrating":
		err = c.handleEditRating(s, i, userID)
	case "mentions":
		err = c.handleMentions(s, i, userID)
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// collectPlayers reads the playerN user options into refs
func collectPlayers(s *discordgo.Session, options []*discordgo.ApplicationCommandInteractionDataOption) []matchmaking.PlayerRef {
	refs := make([]matchmaking.PlayerRef, 0, models.MatchPlayerCount)
	for i := 1; i <= models.MatchPlayerCount; i++ {
		name := fmt.Sprintf("player%d", i)
		for _, opt := range options {
			if opt.Name == name {
				user := opt.UserValue(s)
				refs = append(refs, matchmaking.PlayerRef{
					ID:          user.ID,
					DisplayName: user.Username,
				})
				break
			}
		}
	}
	return refs
}

// optionByName finds a subcommand option, or nil
func optionByName(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

// handleTeams handles the teams subcommand
func (c *MatchmakingCommand) handleTeams(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()
	options := i.ApplicationCommandData().Options[0].Options

	output, err := c.matchService.ProposeTeams(ctx, &matchmaking.ProposeTeamsInput{
		ArenaID: channelID,
		ActorID: userID,
		Players: collectPlayers(s, options),
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	embed := renderProposalEmbed(output.Team1, output.Team2)
	return RespondWithEmbedAndComponents(s, i, embed, proposalButtons())
}

// handleDraft handles the draft subcommand
func (c *MatchmakingCommand) handleDraft(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()
	options := i.ApplicationCommandData().Options[0].Options

	var captains []matchmaking.PlayerRef
	c1 := optionByName(options, "captain1")
	c2 := optionByName(options, "captain2")
	if c1 != nil && c2 != nil {
		captains = []matchmaking.PlayerRef{
			{ID: c1.UserValue(s).ID, DisplayName: c1.UserValue(s).Username},
			{ID: c2.UserValue(s).ID, DisplayName: c2.UserValue(s).Username},
		}
	} else if c1 != nil || c2 != nil {
		return RespondWithError(s, i, "Name both captains or neither.")
	}

	output, err := c.matchService.StartDraft(ctx, &matchmaking.StartDraftInput{
		ArenaID:  channelID,
		ActorID:  userID,
		Players:  collectPlayers(s, options),
		Captains: captains,
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	embed := renderDraftEmbed(output.Team1, output.Team2, output.CurrentCaptain, output.PicksRequired)
	return RespondWithEmbedAndComponents(s, i, embed, draftPickComponents(output.Pool, output.PicksRequired))
}

// handleSwap handles the swap subcommand
func (c *MatchmakingCommand) handleSwap(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()
	options := i.ApplicationCommandData().Options[0].Options

	p1 := optionByName(options, "player1")
	p2 := optionByName(options, "player2")
	if p1 == nil || p2 == nil {
		return RespondWithError(s, i, "Both players are required.")
	}

	output, err := c.matchService.SwapPlayers(ctx, &matchmaking.SwapPlayersInput{
		ArenaID:   channelID,
		ActorID:   userID,
		PlayerID1: p1.UserValue(s).ID,
		PlayerID2: p2.UserValue(s).ID,
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	embed := renderProposalEmbed(output.Team1, output.Team2)
	embed.Title = "Teams Adjusted"
	return RespondWithEmbedAndComponents(s, i, embed, proposalButtons())
}

// handleReport handles the report subcommand
func (c *MatchmakingCommand) handleReport(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()
	options := i.ApplicationCommandData().Options[0].Options

	winnerOpt := optionByName(options, "winner")
	if winnerOpt == nil {
		return RespondWithError(s, i, "A winner is required.")
	}

	output, err := c.matchService.ReportResult(ctx, &matchmaking.ReportResultInput{
		ArenaID: channelID,
		ActorID: userID,
		Winner:  models.Winner(winnerOpt.StringValue()),
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	return RespondWithEmbed(s, i, renderResultEmbed(output))
}

// handleCancel handles the cancel subcommand
func (c *MatchmakingCommand) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	_, err := c.matchService.CancelMatch(ctx, &matchmaking.CancelMatchInput{
		ArenaID: channelID,
		ActorID: userID,
		Force:   isModerator(i),
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	return RespondWithMessage(s, i, "Session cancelled. The channel is free for a new match.")
}

// handleLeaderboard handles the leaderboard subcommand
func (c *MatchmakingCommand) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	output, err := c.matchService.GetLeaderboard(ctx, &matchmaking.GetLeaderboardInput{})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	if len(output.Entries) == 0 {
		return RespondWithEphemeralMessage(s, i, "Nobody has a rating yet. Play a match first!")
	}

	embed := renderLeaderboardEmbed(output.Entries, 0)
	if pageCount(len(output.Entries), leaderboardPageSize) == 1 {
		return RespondWithEmbed(s, i, embed)
	}

	expires := time.Now().Add(pagerTTL)
	return RespondWithEmbedAndComponents(s, i, embed, leaderboardPager(len(output.Entries), 0, expires))
}

// targetUser resolves the optional player option, defaulting to the
// invoking member.
func targetUser(s *discordgo.Session, i *discordgo.InteractionCreate) (id, name string) {
	options := i.ApplicationCommandData().Options[0].Options
	if opt := optionByName(options, "player"); opt != nil {
		user := opt.UserValue(s)
		return user.ID, user.Username
	}
	return i.Member.User.ID, displayName(i.Member)
}

// handleRating handles the rating subcommand
func (c *MatchmakingCommand) handleRating(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	playerID, playerName := targetUser(s, i)

	output, err := c.matchService.GetPlayerRating(ctx, &matchmaking.GetPlayerRatingInput{
		PlayerID:    playerID,
		DisplayName: playerName,
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	return RespondWithEmbed(s, i, renderRatingEmbed(output.Player, output.MatchesPlayed))
}

// handleHistory handles the history subcommand
func (c *MatchmakingCommand) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	playerID, playerName := targetUser(s, i)

	output, err := c.matchService.GetMatchHistory(ctx, &matchmaking.GetMatchHistoryInput{
		PlayerID: playerID,
	})
	if err != nil {
		if errors.Is(err, matchmaking.ErrNoMatchHistory) {
			return RespondWithEphemeralMessage(s, i, fmt.Sprintf("%s has no recorded matches yet.", playerName))
		}
		return RespondWithError(s, i, friendlyError(err))
	}

	embed := renderHistoryEmbed(playerName, output.Entries, 0)
	if pageCount(len(output.Entries), historyPageSize) == 1 {
		return RespondWithEphemeralEmbed(s, i, embed)
	}

	expires := time.Now().Add(pagerTTL)
	return RespondWithEphemeralEmbedAndComponents(s, i, embed,
		historyPager(playerID, len(output.Entries), 0, expires))
}

// handleEditRating handles the editrating subcommand
func (c *MatchmakingCommand) handleEditRating(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	if !isModerator(i) {
		return RespondWithError(s, i, "Only moderators can edit ratings.")
	}

	ctx := context.Background()
	options := i.ApplicationCommandData().Options[0].Options

	playerOpt := optionByName(options, "player")
	ratingOpt := optionByName(options, "rating")
	if playerOpt == nil || ratingOpt == nil {
		return RespondWithError(s, i, "A player and a rating are required.")
	}

	target := playerOpt.UserValue(s)
	output, err := c.matchService.EditRating(ctx, &matchmaking.EditRatingInput{
		ActorID:     userID,
		PlayerID:    target.ID,
		DisplayName: target.Username,
		Rating:      ratingOpt.FloatValue(),
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	return RespondWithMessage(s, i, fmt.Sprintf("Set %s's rating to %.0f.", target.Username, output.Player.Rating))
}

// handleMentions handles the mentions subcommand
func (c *MatchmakingCommand) handleMentions(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	if !isModerator(i) {
		return RespondWithError(s, i, "Only moderators can toggle mentions.")
	}

	ctx := context.Background()

	output, err := c.matchService.ToggleMentions(ctx, &matchmaking.ToggleMentionsInput{ActorID: userID})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	if output.Silenced {
		return RespondWithMessage(s, i, "Match announcements will no longer ping players.")
	}
	return RespondWithMessage(s, i, "Match announcements will ping players again.")
}
