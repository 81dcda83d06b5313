package bot

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/karmahq/repbot/internal/bot/constants"
	"github.com/karmahq/repbot/internal/database/types"
)

const embedColor = 0xF1C40F

// buildProfileEmbed renders a member's total and their most active channels.
func buildProfileEmbed(
	user discord.User, profile *types.UserReputation, topChannels []types.ChannelStanding,
) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitlef("Reputation for %s", user.Username).
		SetDescriptionf("**%d** reputation %s", profile.Count, pointWord(profile.Count)).
		SetColor(embedColor)

	if len(topChannels) > 0 {
		var sb strings.Builder
		for i, standing := range topChannels {
			fmt.Fprintf(&sb, "%d. <#%d> - %d %s\n",
				i+1, standing.ChannelID, standing.Count, pointWord(standing.Count))
		}

		builder.AddField("Top Channels", sb.String(), false)
	}

	return builder.Build()
}

// buildLeaderboardEmbed renders one page of a user ranking. Ranks continue
// across pages.
func buildLeaderboardEmbed(
	entries []types.LeaderboardEntry, page, pageSize int, channelID uint64,
) discord.Embed {
	title := "Reputation Leaderboard"
	if channelID != 0 {
		title = fmt.Sprintf("Reputation Leaderboard for <#%d>", channelID)
	}

	var sb strings.Builder

	rank := (page-1)*pageSize + 1
	for i, entry := range entries {
		fmt.Fprintf(&sb, "%d. <@%d> - %d %s\n",
			rank+i, entry.UserID, entry.Count, pointWord(entry.Count))
	}

	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(sb.String()).
		SetColor(embedColor).
		SetFooterTextf("Page %d", page).
		Build()
}

// buildChannelLeaderboardEmbed renders the channels ranked by total received
// points.
func buildChannelLeaderboardEmbed(records []*types.ChannelActivity) discord.Embed {
	var sb strings.Builder

	for i, record := range records {
		fmt.Fprintf(&sb, "%d. <#%d> - %d %s\n",
			i+1, record.ChannelID, record.TotalReps, pointWord(record.TotalReps))
	}

	return discord.NewEmbedBuilder().
		SetTitle("Most Active Channels").
		SetDescription(sb.String()).
		SetColor(embedColor).
		Build()
}

// leaderboardButtons builds the pagination row. The custom IDs carry the
// current page and channel scope so the click handler is stateless.
func leaderboardButtons(page int, channelID uint64) discord.ContainerComponent {
	return discord.NewActionRow(
		discord.NewSecondaryButton("◀",
			fmt.Sprintf("%s:%d:%d", constants.LeaderboardPrevButtonID, page, channelID)),
		discord.NewSecondaryButton("▶",
			fmt.Sprintf("%s:%d:%d", constants.LeaderboardNextButtonID, page, channelID)),
	)
}

func pointWord(n int64) string {
	if n == 1 {
		return "point"
	}

	return "points"
}
