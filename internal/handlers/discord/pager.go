package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// pagerTTL is how long leaderboard and history pages stay browsable.
// Clicks after the deadline ask the member to rerun the command.
const pagerTTL = 5 * time.Minute

// pageCount returns how many pages of the given size cover total
// entries, at least one.
func pageCount(total, size int) int {
	if total <= size {
		return 1
	}
	return (total + size - 1) / size
}

// pageBounds clamps page into range and returns the slice bounds of
// that page.
func pageBounds(total, size, page int) (clamped, start, end int) {
	pages := pageCount(total, size)
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}

	start = page * size
	end = start + size
	if end > total {
		end = total
	}
	return page, start, end
}

// leaderboardPageID encodes a leaderboard page flip into a component
// custom ID, carrying the page and the view's expiry.
func leaderboardPageID(page int, expires time.Time) string {
	return fmt.Sprintf("%s:%d:%d", PagerLeaderboard, page, expires.Unix())
}

// parseLeaderboardPageID reverses leaderboardPageID
func parseLeaderboardPageID(customID string) (page int, expires time.Time, err error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != PagerLeaderboard {
		return 0, time.Time{}, fmt.Errorf("malformed leaderboard page ID: %s", customID)
	}

	page, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("malformed leaderboard page ID: %s", customID)
	}

	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("malformed leaderboard page ID: %s", customID)
	}

	return page, time.Unix(unix, 0), nil
}

// historyPageID encodes a history page flip into a component custom ID.
// Player IDs are Discord snowflakes, so the colon separator is safe.
func historyPageID(playerID string, page int, expires time.Time) string {
	return fmt.Sprintf("%s:%s:%d:%d", PagerHistory, playerID, page, expires.Unix())
}

// parseHistoryPageID reverses historyPageID
func parseHistoryPageID(customID string) (playerID string, page int, expires time.Time, err error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 4 || parts[0] != PagerHistory {
		return "", 0, time.Time{}, fmt.Errorf("malformed history page ID: %s", customID)
	}

	page, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, time.Time{}, fmt.Errorf("malformed history page ID: %s", customID)
	}

	unix, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return "", 0, time.Time{}, fmt.Errorf("malformed history page ID: %s", customID)
	}

	return parts[1], page, time.Unix(unix, 0), nil
}

// pagerButtons builds a previous/next row, disabling whichever ends of
// the range the current page sits on.
func pagerButtons(prevID, nextID string, page, pages int) []discordgo.MessageComponent {
	prevButton := discordgo.Button{
		Label:    "Previous",
		Style:    discordgo.SecondaryButton,
		CustomID: prevID,
		Disabled: page <= 0,
	}

	nextButton := discordgo.Button{
		Label:    "Next",
		Style:    discordgo.SecondaryButton,
		CustomID: nextID,
		Disabled: page >= pages-1,
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{prevButton, nextButton},
		},
	}
}

// leaderboardPager is the page flip row under a leaderboard view
func leaderboardPager(total, page int, expires time.Time) []discordgo.MessageComponent {
	return pagerButtons(
		leaderboardPageID(page-1, expires),
		leaderboardPageID(page+1, expires),
		page,
		pageCount(total, leaderboardPageSize),
	)
}

// historyPager is the page flip row under a history view
func historyPager(playerID string, total, page int, expires time.Time) []discordgo.MessageComponent {
	return pagerButtons(
		historyPageID(playerID, page-1, expires),
		historyPageID(playerID, page+1, expires),
		page,
		pageCount(total, historyPageSize),
	)
}
