package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/karmahq/repbot/internal/bot/constants"
	"github.com/karmahq/repbot/internal/reputation"
	"go.uber.org/zap"
)

// handleApplicationCommandInteraction dispatches slash commands. Handlers
// run in a goroutine so ledger calls never block the gateway read loop.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	if event.GuildID() == nil {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("Reputation commands only work in a server.").
			SetEphemeral(true).
			Build())

		return
	}

	go func() {
		commandName := event.SlashCommandInteractionData().CommandName()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in command handler",
					zap.String("command", commandName),
					zap.Any("panic", r))
			}

			b.logger.Debug("Command handled",
				zap.String("command", commandName),
				zap.Duration("duration", time.Since(start)))
		}()

		switch commandName {
		case constants.GiveRepCommandName:
			b.handleGiveRep(event)
		case constants.ProfileCommandName:
			b.handleProfile(event)
		case constants.LeaderboardCommandName:
			b.handleLeaderboard(event)
		case constants.RemoveRepCommandName:
			b.handleRemoveRep(event)
		default:
			_ = event.CreateMessage(discord.NewMessageCreateBuilder().
				SetContent("This command is not available.").
				SetEphemeral(true).
				Build())
		}
	}()
}

// handleGiveRep grants one point via the orchestrator and reports the
// outcome. Validation rejections are ephemeral; successful grants are
// announced in the channel.
func (b *Bot) handleGiveRep(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")

	result := b.service.Grant(context.Background(), reputation.GrantRequest{
		GuildID:        uint64(*event.GuildID()),
		RecipientID:    uint64(target.ID),
		RecipientIsBot: target.Bot,
		ChannelID:      uint64(event.Channel().ID()),
		ChannelName:    event.Channel().Name(),
		GiverID:        uint64(event.User().ID),
	})

	switch result.Status {
	case reputation.GrantStatusGranted:
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContentf("🌟 %s has given a reputation point to %s!",
				event.User().Mention(), target.Mention()).
			Build())
	case reputation.GrantStatusSelfTarget:
		b.respondEphemeral(event, "⚠️ You cannot give reputation points to yourself.")
	case reputation.GrantStatusBotTarget:
		b.respondEphemeral(event, "⚠️ You cannot give reputation points to bots.")
	case reputation.GrantStatusOnCooldown:
		b.respondEphemeral(event, fmt.Sprintf(
			"⏱️ You must wait %s before giving more reputation points.",
			reputation.FormatDuration(result.Remaining)))
	case reputation.GrantStatusStoreFailed:
		b.respondEphemeral(event, "⚠️ Failed to give reputation. Please try again later.")
	}
}

// handleProfile shows a member's total and their most active channels.
func (b *Bot) handleProfile(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()

	target := event.User()
	if user, ok := data.OptUser("user"); ok {
		target = user
	}

	ctx := context.Background()
	guildID := uint64(*event.GuildID())

	profile, err := b.leaderboard.Profile(ctx, guildID, uint64(target.ID))
	if err != nil {
		b.respondEphemeral(event, "⚠️ Failed to load the profile. Please try again later.")
		return
	}

	topChannels, err := b.leaderboard.TopChannelsForUser(
		ctx, guildID, uint64(target.ID), b.config.Reputation.TopChannelsLimit)
	if err != nil {
		b.respondEphemeral(event, "⚠️ Failed to load the profile. Please try again later.")
		return
	}

	_ = event.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(buildProfileEmbed(target, profile, topChannels)).
		Build())
}

// handleLeaderboard shows the requested ranking with pagination buttons for
// the user rankings.
func (b *Bot) handleLeaderboard(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	ctx := context.Background()
	guildID := uint64(*event.GuildID())

	scope, _ := data.OptString("scope")

	if scope == constants.ScopeChannels {
		records, err := b.leaderboard.ChannelLeaderboard(
			ctx, guildID, b.config.Reputation.ChannelLeaderboardLimit)
		if err != nil {
			b.respondEphemeral(event, "⚠️ Failed to load the leaderboard. Please try again later.")
			return
		}

		if len(records) == 0 {
			b.respondEphemeral(event, "No channel data available yet.")
			return
		}

		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetEmbeds(buildChannelLeaderboardEmbed(records)).
			Build())

		return
	}

	var channelID uint64
	if channel, ok := data.OptChannel("channel"); ok && scope == constants.ScopeChannel {
		channelID = uint64(channel.ID)
	}

	b.showLeaderboardPage(event, guildID, channelID, 1)
}

// handleRemoveRep revokes points, admin only. The applied count can be lower
// than requested when the member runs out of points.
func (b *Bot) handleRemoveRep(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	target := data.User("user")

	var channelID uint64
	if channel, ok := data.OptChannel("channel"); ok {
		channelID = uint64(channel.ID)
	}

	amount, _ := data.OptInt("amount")

	isAdministrator := false
	if member := event.Member(); member != nil {
		isAdministrator = member.Permissions.Has(discord.PermissionAdministrator)
	}

	result := b.service.Revoke(context.Background(), reputation.RevokeRequest{
		GuildID:               uint64(*event.GuildID()),
		RecipientID:           uint64(target.ID),
		ChannelID:             channelID,
		CallerID:              uint64(event.User().ID),
		CallerIsAdministrator: isAdministrator,
		Amount:                amount,
	})

	switch result.Status {
	case reputation.RevokeStatusRevoked:
		scope := ""
		if channelID != 0 {
			scope = fmt.Sprintf(" from <#%d>", channelID)
		}

		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContentf("⚖️ %s has removed %s from %s%s.",
				event.User().Mention(), pluralPoints(result.Applied), target.Mention(), scope).
			Build())
	case reputation.RevokeStatusDenied:
		b.respondEphemeral(event, "⚠️ You do not have permission to remove reputation points.")
	case reputation.RevokeStatusInvalidAmount:
		b.respondEphemeral(event, "⚠️ Amount must be at least 1.")
	case reputation.RevokeStatusNothingToRevoke:
		b.respondEphemeral(event, fmt.Sprintf(
			"⚠️ %s has no reputation points to remove.", target.Mention()))
	case reputation.RevokeStatusStoreFailed:
		b.respondEphemeral(event, "⚠️ Failed to remove reputation. Please try again later.")
	}
}

// handleComponentInteraction routes the leaderboard pagination buttons.
// Button custom IDs carry the full page state, so no session storage is
// needed between clicks.
func (b *Bot) handleComponentInteraction(event *events.ComponentInteractionCreate) {
	customID := event.Data.CustomID()
	if !strings.HasPrefix(customID, constants.LeaderboardPrevButtonID) &&
		!strings.HasPrefix(customID, constants.LeaderboardNextButtonID) {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in component handler",
					zap.String("customID", customID),
					zap.Any("panic", r))
			}
		}()

		b.handleLeaderboardButton(event, customID)
	}()
}

// handleLeaderboardButton parses "<prefix>:<page>:<channelID>" and moves to
// the adjacent page. An empty target page means end of list; the message is
// left on the current page per the pagination contract.
func (b *Bot) handleLeaderboardButton(event *events.ComponentInteractionCreate, customID string) {
	parts := strings.Split(customID, ":")
	if len(parts) != 4 || event.GuildID() == nil {
		return
	}

	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return
	}

	channelID, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return
	}

	switch parts[1] {
	case "prev":
		if page <= 1 {
			_ = event.CreateMessage(discord.NewMessageCreateBuilder().
				SetContent("You are already on the first page.").
				SetEphemeral(true).
				Build())

			return
		}

		page--
	case "next":
		page++
	default:
		return
	}

	guildID := uint64(*event.GuildID())
	pageSize := b.config.Reputation.LeaderboardPageSize

	entries, ok, err := b.leaderboard.Page(context.Background(), guildID, channelID, page, pageSize)
	if err != nil {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("⚠️ Failed to load the leaderboard. Please try again later.").
			SetEphemeral(true).
			Build())

		return
	}

	if !ok {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("You have reached the end of the leaderboard.").
			SetEphemeral(true).
			Build())

		return
	}

	_ = event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetEmbeds(buildLeaderboardEmbed(entries, page, pageSize, channelID)).
		SetContainerComponents(leaderboardButtons(page, channelID)).
		Build())
}

// showLeaderboardPage renders a user-ranking page as the initial command
// response.
func (b *Bot) showLeaderboardPage(
	event *events.ApplicationCommandInteractionCreate, guildID, channelID uint64, page int,
) {
	pageSize := b.config.Reputation.LeaderboardPageSize

	entries, ok, err := b.leaderboard.Page(context.Background(), guildID, channelID, page, pageSize)
	if err != nil {
		b.respondEphemeral(event, "⚠️ Failed to load the leaderboard. Please try again later.")
		return
	}

	if !ok {
		b.respondEphemeral(event, "No reputation points have been given yet.")
		return
	}

	_ = event.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(buildLeaderboardEmbed(entries, page, pageSize, channelID)).
		SetContainerComponents(leaderboardButtons(page, channelID)).
		Build())
}

func (b *Bot) respondEphemeral(event *events.ApplicationCommandInteractionCreate, content string) {
	_ = event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
}

func pluralPoints(n int) string {
	if n == 1 {
		return "1 reputation point"
	}

	return fmt.Sprintf("%d reputation points", n)
}
