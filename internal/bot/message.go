package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/karmahq/repbot/internal/reputation"
	"go.uber.org/zap"
)

// handleGuildMessageCreate feeds guild messages to the orchestrator's
// mention-plus-trigger path. Messages that are not grants fall through
// silently; grants and cooldown rejections get a reply in the channel.
func (b *Bot) handleGuildMessageCreate(event *events.GuildMessageCreate) {
	if event.Message.Author.Bot || len(event.Message.Mentions) == 0 {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in message handler",
					zap.Uint64("messageID", uint64(event.MessageID)),
					zap.Any("panic", r))
			}
		}()

		mentions := make([]reputation.MessageMention, 0, len(event.Message.Mentions))
		for _, user := range event.Message.Mentions {
			mentions = append(mentions, reputation.MessageMention{
				UserID: uint64(user.ID),
				IsBot:  user.Bot,
			})
		}

		outcome := b.service.GrantFromMessage(context.Background(), reputation.MessageGrant{
			GuildID:     uint64(event.GuildID),
			ChannelID:   uint64(event.ChannelID),
			ChannelName: b.channelName(event.ChannelID),
			AuthorID:    uint64(event.Message.Author.ID),
			AuthorIsBot: event.Message.Author.Bot,
			Content:     event.Message.Content,
			Mentions:    mentions,
		})

		if !outcome.Matched {
			return
		}

		if outcome.OnCooldown {
			b.reply(event, fmt.Sprintf(
				"⏱️ %s, you must wait %s before giving more reputation points.",
				event.Message.Author.Mention(),
				reputation.FormatDuration(outcome.Remaining)))

			return
		}

		if len(outcome.GrantedTo) == 0 {
			return
		}

		granted := make([]string, len(outcome.GrantedTo))
		for i, userID := range outcome.GrantedTo {
			granted[i] = fmt.Sprintf("<@%d>", userID)
		}

		b.reply(event, fmt.Sprintf("🌟 %s has given a reputation point to %s!",
			event.Message.Author.Mention(), strings.Join(granted, ", ")))
	}()
}

// channelName resolves a channel's name from the gateway cache, falling back
// to the ID when the channel is not cached yet.
func (b *Bot) channelName(channelID snowflake.ID) string {
	if channel, ok := b.client.Caches().Channel(channelID); ok {
		return channel.Name()
	}

	return channelID.String()
}

func (b *Bot) reply(event *events.GuildMessageCreate, content string) {
	_, err := b.client.Rest().CreateMessage(event.ChannelID,
		discord.NewMessageCreateBuilder().
			SetContent(content).
			SetMessageReferenceByID(event.MessageID).
			Build())
	if err != nil {
		b.logger.Error("Failed to send reply",
			zap.Uint64("channelID", uint64(event.ChannelID)),
			zap.Error(err))
	}
}
