// Package bot adapts Discord gateway events and slash commands to the
// reputation services.
package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/karmahq/repbot/internal/reputation"
	"github.com/karmahq/repbot/internal/setup/config"
	"go.uber.org/zap"
)

// Bot wires the Discord client to the reputation orchestrator and the
// leaderboard query engine. It owns no ledger state of its own; every
// mutation goes through the service and every read through the query engine.
type Bot struct {
	client      bot.Client
	service     *reputation.Service
	leaderboard *reputation.LeaderboardService
	config      *config.Config
	logger      *zap.Logger
}

// New initializes a Bot instance and configures the Discord client with the
// gateway intents and event listeners it needs. Message content and guild
// message intents feed the mention-plus-trigger grant path; the channel
// cache supplies channel names for ledger writes.
func New(
	cfg *config.Config,
	service *reputation.Service,
	leaderboard *reputation.LeaderboardService,
	logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		service:     service,
		leaderboard: leaderboard,
		config:      cfg,
		logger:      logger.Named("bot"),
	}

	client, err := disgo.New(cfg.Bot.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagChannels),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnComponentInteraction:          b.handleComponentInteraction,
			OnGuildMessageCreate:            b.handleGuildMessageCreate,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord client: %w", err)
	}

	b.client = client

	return b, nil
}

// Start registers the slash commands and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	if err := b.registerCommands(ctx); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(ctx)
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}
