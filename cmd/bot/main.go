package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karmahq/repbot/internal/bot"
	"github.com/karmahq/repbot/internal/redis"
	"github.com/karmahq/repbot/internal/reputation"
	"github.com/karmahq/repbot/internal/setup"
)

func main() {
	ctx := context.Background()

	app, err := setup.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup()

	cfg := app.Config

	// The cache is optional; a zero TTL turns it off entirely.
	var cache *reputation.Cache

	if ttl := cfg.Reputation.CacheTTLSeconds; ttl > 0 {
		cacheClient, err := app.RedisManager.GetClient(redis.CacheDBIndex)
		if err != nil {
			log.Printf("Failed to create cache client: %v", err)
			return
		}

		cache = reputation.NewCache(cacheClient, time.Duration(ttl)*time.Second, app.Logger)
	}

	store := app.DB.Model().Reputation()
	cooldown := reputation.NewCooldownTracker(
		time.Duration(cfg.Reputation.CooldownSeconds)*time.Second, nil)
	triggers := reputation.NewTriggerDetector(cfg.Reputation.TriggerWords)

	service := reputation.NewService(store, cooldown, triggers, cfg.Bot.AdminUserIDs, app.Logger)
	leaderboard := reputation.NewLeaderboard(store, cache, app.Logger)

	discordBot, err := bot.New(cfg, service, leaderboard, app.Logger)
	if err != nil {
		log.Printf("Failed to create bot: %v", err)
		return
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Printf("Failed to start bot: %v", err)
		return
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	discordBot.Close(ctx)
}
