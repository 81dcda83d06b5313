package reputation

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/karmahq/repbot/internal/database/types"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Cache keeps recent global leaderboard results in Redis so bursts of
// leaderboard views do not hammer the database. Entries expire after a short
// TTL; there is no invalidation on grant, slightly stale standings are fine.
// Every cache failure degrades to a direct store read.
type Cache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates a leaderboard cache with the given TTL.
func NewCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("leaderboard_cache"),
	}
}

// GetLeaderboard returns the cached entries for a key and whether the key
// was present.
func (c *Cache) GetLeaderboard(ctx context.Context, key string) ([]types.LeaderboardEntry, bool) {
	data, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("Failed to read leaderboard cache", zap.String("key", key), zap.Error(err))
		}

		return nil, false
	}

	var entries []types.LeaderboardEntry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("Failed to decode cached leaderboard", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return entries, true
}

// SetLeaderboard stores entries under a key with the cache TTL.
func (c *Cache) SetLeaderboard(ctx context.Context, key string, entries []types.LeaderboardEntry) {
	data, err := sonic.Marshal(entries)
	if err != nil {
		c.logger.Warn("Failed to encode leaderboard for cache", zap.String("key", key), zap.Error(err))
		return
	}

	err = c.client.Do(ctx,
		c.client.B().Set().Key(key).Value(rueidis.BinaryString(data)).Ex(c.ttl).Build(),
	).Error()
	if err != nil {
		c.logger.Warn("Failed to write leaderboard cache", zap.String("key", key), zap.Error(err))
	}
}
