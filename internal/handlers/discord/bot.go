package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/matchbot/internal/models"
	"github.com/KirkDiggler/matchbot/internal/services/matchmaking"
)

// Bot represents the Discord bot instance
type Bot struct {
	session      *discordgo.Session
	commands     map[string]CommandHandler
	commandIDs   map[string]string // Maps command name to command ID
	matchService matchmaking.Service
	logger       *zap.Logger
	config       *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Matchmaking service
	MatchService matchmaking.Service

	// Logger for handler events
	Logger *zap.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.MatchService == nil {
		return nil, errors.New("matchmaking service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:      session,
		commands:     make(map[string]CommandHandler),
		commandIDs:   make(map[string]string),
		matchService: cfg.MatchService,
		logger:       logger,
		config:       cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	matchCmd := NewMatchmakingCommand(b.matchService, b.logger)
	if err := b.RegisterCommand(matchCmd); err != nil {
		return fmt.Errorf("failed to register match command: %w", err)
	}

	b.logger.Info("bot is now running")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command",
				zap.String("command", cmdName),
				zap.Error(err))
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command",
		zap.String("command", cmd.GetName()),
		zap.String("command_id", createdCmd.ID),
		zap.String("guild_id", guildID))

	return nil
}

// Component custom IDs
const (
	ButtonConfirmMatch  = "confirm_match"
	ButtonCancelMatch   = "cancel_match"
	ButtonReportTeam1   = "report_team1"
	ButtonReportTeam2   = "report_team2"
	ButtonReportAbandon = "report_abandon"

	// Select menu custom IDs
	SelectDraftPick = "draft_pick"

	// Page flip custom ID prefixes; the full IDs carry the page and
	// the view's expiry
	PagerLeaderboard = "leaderboard_page"
	PagerHistory     = "history_page"
)

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// Handle slash commands
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.logger.Error("error handling command",
					zap.String("command", i.ApplicationCommandData().Name),
					zap.Error(err))
			}
		}
	case discordgo.InteractionMessageComponent:
		// Handle buttons and select menus
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.logger.Error("error handling component interaction",
				zap.String("custom_id", i.MessageComponentData().CustomID),
				zap.Error(err))
		}
	}
}

// handleComponentInteraction handles button clicks and select menus
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	channelID := i.ChannelID
	userID := i.Member.User.ID

	switch {
	case customID == ButtonConfirmMatch:
		return b.handleConfirmButton(s, i, channelID, userID)
	case customID == ButtonCancelMatch:
		return b.handleCancelButton(s, i, channelID, userID)
	case customID == ButtonReportTeam1:
		return b.handleReportButton(s, i, channelID, userID, models.WinnerTeam1)
	case customID == ButtonReportTeam2:
		return b.handleReportButton(s, i, channelID, userID, models.WinnerTeam2)
	case customID == ButtonReportAbandon:
		return b.handleReportButton(s, i, channelID, userID, models.WinnerAbandoned)
	case customID == SelectDraftPick:
		return b.handleDraftPickSelect(s, i, channelID, userID)
	case strings.HasPrefix(customID, PagerLeaderboard+":"):
		return b.handleLeaderboardPage(s, i, customID)
	case strings.HasPrefix(customID, PagerHistory+":"):
		return b.handleHistoryPage(s, i, customID)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown component: %s", customID))
	}
}

// handleLeaderboardPage flips a leaderboard view to another page
func (b *Bot) handleLeaderboardPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	page, expires, err := parseLeaderboardPageID(customID)
	if err != nil {
		return RespondWithError(s, i, "That button is no longer valid.")
	}

	if time.Now().After(expires) {
		return RespondWithEphemeralMessage(s, i, "This leaderboard view expired. Run `/match leaderboard` again.")
	}

	output, err := b.matchService.GetLeaderboard(context.Background(), &matchmaking.GetLeaderboardInput{})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	page, _, _ = pageBounds(len(output.Entries), leaderboardPageSize, page)
	embed := renderLeaderboardEmbed(output.Entries, page)
	return UpdateWithEmbedAndComponents(s, i, embed, leaderboardPager(len(output.Entries), page, expires))
}

// handleHistoryPage flips a history view to another page
func (b *Bot) handleHistoryPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	playerID, page, expires, err := parseHistoryPageID(customID)
	if err != nil {
		return RespondWithError(s, i, "That button is no longer valid.")
	}

	if time.Now().After(expires) {
		return RespondWithEphemeralMessage(s, i, "This history view expired. Run `/match history` again.")
	}

	output, err := b.matchService.GetMatchHistory(context.Background(), &matchmaking.GetMatchHistoryInput{
		PlayerID: playerID,
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	playerName := "Player"
	if user, err := s.User(playerID); err == nil {
		playerName = user.Username
	}

	page, _, _ = pageBounds(len(output.Entries), historyPageSize, page)
	embed := renderHistoryEmbed(playerName, output.Entries, page)
	return UpdateWithEmbedAndComponents(s, i, embed, historyPager(playerID, len(output.Entries), page, expires))
}

// handleConfirmButton locks a proposed match in
func (b *Bot) handleConfirmButton(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := b.matchService.ConfirmMatch(ctx, &matchmaking.ConfirmMatchInput{
		ArenaID: channelID,
		ActorID: userID,
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	embed := renderMatchStartedEmbed(output.MatchID, output.Team1, output.Team2, output.UseMentions)
	return RespondWithEmbedAndComponents(s, i, embed, reportButtons())
}

// handleCancelButton discards whatever session is live in the channel
func (b *Bot) handleCancelButton(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	_, err := b.matchService.CancelMatch(ctx, &matchmaking.CancelMatchInput{
		ArenaID: channelID,
		ActorID: userID,
		Force:   isModerator(i),
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	return RespondWithMessage(s, i, "Session cancelled. The channel is free for a new match.")
}

// handleReportButton records a match result
func (b *Bot) handleReportButton(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, winner models.Winner) error {
	ctx := context.Background()

	output, err := b.matchService.ReportResult(ctx, &matchmaking.ReportResultInput{
		ArenaID: channelID,
		ActorID: userID,
		Winner:  winner,
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	return RespondWithEmbed(s, i, renderResultEmbed(output))
}

// handleDraftPickSelect applies the current captain's picks
func (b *Bot) handleDraftPickSelect(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	playerIDs := i.MessageComponentData().Values
	if len(playerIDs) == 0 {
		return RespondWithEphemeralMessage(s, i, "No players selected")
	}

	output, err := b.matchService.SubmitPick(ctx, &matchmaking.SubmitPickInput{
		ArenaID:   channelID,
		ActorID:   userID,
		PlayerIDs: playerIDs,
	})
	if err != nil {
		return RespondWithError(s, i, friendlyError(err))
	}

	if output.Complete {
		embed := renderMatchStartedEmbed(output.MatchID, output.Team1, output.Team2, output.UseMentions)
		return RespondWithEmbedAndComponents(s, i, embed, reportButtons())
	}

	embed := renderDraftEmbed(output.Team1, output.Team2, output.CurrentCaptain, output.PicksRequired)
	return RespondWithEmbedAndComponents(s, i, embed, draftPickComponents(output.Pool, output.PicksRequired))
}

// isModerator reports whether the interacting member can manage the
// server, which gates forced cancels and rating overrides.
func isModerator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageServer != 0
}

// displayName prefers the member's nickname over their account name
func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}

// friendlyError keeps expected rejections readable and hides internals
// behind a generic message.
func friendlyError(err error) string {
	var matchErr matchmaking.MatchmakingError
	if errors.As(err, &matchErr) {
		return matchErr.Error()
	}
	return "Something went wrong, please try again."
}
