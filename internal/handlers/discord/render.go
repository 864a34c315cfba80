package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/matchbot/internal/models"
	"github.com/KirkDiggler/matchbot/internal/services/matchmaking"
)

// Page sizes keep each embed safely under Discord's description
// limit, whatever the roster grows to.
const (
	leaderboardPageSize = 10
	historyPageSize     = 10
)

// formatTeam renders a roster, one member per line. With mentions on,
// members are pinged instead of named.
func formatTeam(team models.Team, mention bool) string {
	var b strings.Builder
	for _, m := range team {
		if mention {
			fmt.Fprintf(&b, "<@%s> (%.0f)\n", m.PlayerID, m.Rating)
		} else {
			fmt.Fprintf(&b, "**%s** (%.0f)\n", m.DisplayName, m.Rating)
		}
	}
	return b.String()
}

func teamFields(team1, team2 models.Team, mention bool) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{
			Name:   fmt.Sprintf("Team 1 (avg %.0f)", team1.AverageRating()),
			Value:  formatTeam(team1, mention),
			Inline: true,
		},
		{
			Name:   fmt.Sprintf("Team 2 (avg %.0f)", team2.AverageRating()),
			Value:  formatTeam(team2, mention),
			Inline: true,
		},
	}
}

// renderProposalEmbed shows a proposed split awaiting confirmation
func renderProposalEmbed(team1, team2 models.Team) *discordgo.MessageEmbed {
	gap := team1.AverageRating() - team2.AverageRating()
	if gap < 0 {
		gap = -gap
	}

	return &discordgo.MessageEmbed{
		Title:       "Proposed Teams",
		Description: fmt.Sprintf("Average rating gap: %.1f. Confirm to start the match, or swap players first.", gap),
		Color:       0x00ff00, // Green color
		Fields:      teamFields(team1, team2, false),
	}
}

// proposalButtons are the confirm and cancel actions under a proposal
func proposalButtons() []discordgo.MessageComponent {
	confirmButton := discordgo.Button{
		Label:    "Confirm Match",
		Style:    discordgo.SuccessButton,
		CustomID: ButtonConfirmMatch,
	}

	cancelButton := discordgo.Button{
		Label:    "Cancel",
		Style:    discordgo.DangerButton,
		CustomID: ButtonCancelMatch,
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{confirmButton, cancelButton},
		},
	}
}

// reportButtons are the result actions under an active match
func reportButtons() []discordgo.MessageComponent {
	team1Button := discordgo.Button{
		Label:    "Team 1 Won",
		Style:    discordgo.PrimaryButton,
		CustomID: ButtonReportTeam1,
	}

	team2Button := discordgo.Button{
		Label:    "Team 2 Won",
		Style:    discordgo.PrimaryButton,
		CustomID: ButtonReportTeam2,
	}

	abandonButton := discordgo.Button{
		Label:    "Abandon",
		Style:    discordgo.SecondaryButton,
		CustomID: ButtonReportAbandon,
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{team1Button, team2Button, abandonButton},
		},
	}
}

// renderMatchStartedEmbed announces a confirmed or drafted match
func renderMatchStartedEmbed(matchID int64, team1, team2 models.Team, useMentions bool) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Match Started",
		Description: fmt.Sprintf("Match `%d` is live. Report the result below when it ends.", matchID),
		Color:       0x00ff00, // Green color
		Fields:      teamFields(team1, team2, useMentions),
	}
}

// renderDraftEmbed shows the running draft and whose turn it is
func renderDraftEmbed(team1, team2 models.Team, currentCaptain models.TeamMember, picksRequired int) *discordgo.MessageEmbed {
	noun := "players"
	if picksRequired == 1 {
		noun = "player"
	}

	return &discordgo.MessageEmbed{
		Title: "Captain's Draft",
		Description: fmt.Sprintf("**%s**, pick %d %s from the menu below.",
			currentCaptain.DisplayName, picksRequired, noun),
		Color:  0x00ff00, // Green color
		Fields: teamFields(team1, team2, false),
	}
}

// draftPickComponents builds the pool select menu sized to the turn
func draftPickComponents(pool []models.TeamMember, picksRequired int) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(pool))
	for _, m := range pool {
		options = append(options, discordgo.SelectMenuOption{
			Label:       m.DisplayName,
			Value:       m.PlayerID,
			Description: fmt.Sprintf("Rating %.0f", m.Rating),
		})
	}

	minValues := picksRequired
	pickSelect := discordgo.SelectMenu{
		CustomID:    SelectDraftPick,
		Placeholder: "Select your picks",
		MinValues:   &minValues,
		MaxValues:   picksRequired,
		Options:     options,
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{pickSelect},
		},
	}
}

// formatResults renders each player's new rating with its signed change
func formatResults(results []matchmaking.PlayerResult, mention bool) string {
	var b strings.Builder
	for _, r := range results {
		name := fmt.Sprintf("**%s**", r.DisplayName)
		if mention {
			name = fmt.Sprintf("<@%s>", r.PlayerID)
		}
		fmt.Fprintf(&b, "%s: %.0f (%+.0f)\n", name, r.Rating, r.Delta)
	}
	return b.String()
}

// renderResultEmbed announces a reported result
func renderResultEmbed(output *matchmaking.ReportResultOutput) *discordgo.MessageEmbed {
	if output.Winner == models.WinnerAbandoned {
		return &discordgo.MessageEmbed{
			Title:       "Match Abandoned",
			Description: fmt.Sprintf("Match `%d` was abandoned. No ratings changed.", output.MatchID),
			Color:       0xffcc00, // Yellow color
		}
	}

	winner := "Team 1"
	if output.Winner == models.WinnerTeam2 {
		winner = "Team 2"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Wins!", winner),
		Description: fmt.Sprintf("Match `%d` is in the books.", output.MatchID),
		Color:       0x00ff00, // Green color
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Team 1",
				Value:  formatResults(output.Team1Results, output.UseMentions),
				Inline: true,
			},
			{
				Name:   "Team 2",
				Value:  formatResults(output.Team2Results, output.UseMentions),
				Inline: true,
			},
		},
	}
}

// renderLeaderboardEmbed shows one page of players ranked by rating
func renderLeaderboardEmbed(entries []matchmaking.LeaderboardEntry, page int) *discordgo.MessageEmbed {
	page, start, end := pageBounds(len(entries), leaderboardPageSize, page)

	var b strings.Builder
	for _, e := range entries[start:end] {
		fmt.Fprintf(&b, "`%2d.` **%s** — %.0f\n", e.Rank, e.DisplayName, e.Rating)
	}

	return &discordgo.MessageEmbed{
		Title:       "Leaderboard",
		Description: b.String(),
		Color:       0x00ff00, // Green color
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d — %d players",
				page+1, pageCount(len(entries), leaderboardPageSize), len(entries)),
		},
	}
}

// renderHistoryEmbed shows one page of a player's matches, newest first
func renderHistoryEmbed(playerName string, entries []matchmaking.HistoryEntry, page int) *discordgo.MessageEmbed {
	page, start, end := pageBounds(len(entries), historyPageSize, page)

	var b strings.Builder
	for _, e := range entries[start:end] {
		icon := "🏆"
		switch e.Outcome {
		case matchmaking.OutcomeLoss:
			icon = "💀"
		case matchmaking.OutcomeAbandoned:
			icon = "🚫"
		}
		fmt.Fprintf(&b, "%s %s — match `%d` (%s)\n", icon, e.Outcome, e.MatchID, e.Timestamp.Format("Jan 2"))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Match History", playerName),
		Description: b.String(),
		Color:       0x00ff00, // Green color
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d — %d recorded matches",
				page+1, pageCount(len(entries), historyPageSize), len(entries)),
		},
	}
}

// renderRatingEmbed shows one player's standing
func renderRatingEmbed(player *models.Player, matchesPlayed int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's Rating", player.DisplayName),
		Color: 0x00ff00, // Green color
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Rating",
				Value:  fmt.Sprintf("%.0f", player.Rating),
				Inline: true,
			},
			{
				Name:   "Deviation",
				Value:  fmt.Sprintf("%.0f", player.Deviation),
				Inline: true,
			},
			{
				Name:   "Matches",
				Value:  fmt.Sprintf("%d", matchesPlayed),
				Inline: true,
			},
		},
	}
}
