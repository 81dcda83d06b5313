package bot

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/karmahq/repbot/internal/bot/constants"
)

// commands returns the application command definitions registered at startup.
func commands() []discord.ApplicationCommandCreate {
	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        constants.GiveRepCommandName,
			Description: "Give a reputation point to a member",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The member to give reputation to",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.ProfileCommandName,
			Description: "View a member's reputation profile",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The member to view (default: yourself)",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.LeaderboardCommandName,
			Description: "View the reputation leaderboard",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "scope",
					Description: "Which ranking to show",
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "Global", Value: constants.ScopeGlobal},
						{Name: "Channel", Value: constants.ScopeChannel},
						{Name: "All Channels", Value: constants.ScopeChannels},
					},
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Channel for the channel-scoped ranking",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.RemoveRepCommandName,
			Description: "Remove reputation points from a member (admin only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The member to remove reputation from",
					Required:    true,
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Remove from a specific channel only",
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Points to remove (default: 1)",
					MinValue:    intPtr(1),
				},
			},
		},
	}
}

// registerCommands syncs the command set, guild-scoped when a command guild
// is configured so changes show up immediately during development.
func (b *Bot) registerCommands(ctx context.Context) error {
	appID := b.client.ApplicationID()

	if guildID := b.config.Bot.CommandGuildID; guildID != 0 {
		_, err := b.client.Rest().SetGuildCommands(appID, snowflake.ID(guildID), commands(), rest.WithCtx(ctx))
		return err
	}

	_, err := b.client.Rest().SetGlobalCommands(appID, commands(), rest.WithCtx(ctx))

	return err
}

func intPtr(v int) *int {
	return &v
}
