package reputation

import (
	"context"
	"fmt"

	"github.com/karmahq/repbot/internal/database/types"
	"go.uber.org/zap"
)

// LeaderboardService serves the ranked read queries over the ledger. It
// bypasses the orchestrator entirely; reads have no business rules beyond
// ordering and limits.
type LeaderboardService struct {
	store  Store
	cache  *Cache // nil disables caching
	logger *zap.Logger
}

// NewLeaderboard creates the query engine. cache may be nil.
func NewLeaderboard(store Store, cache *Cache, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		store:  store,
		cache:  cache,
		logger: logger.Named("leaderboard"),
	}
}

// Leaderboard returns the guild's top recipients. A non-zero channelID
// scopes the ranking to that channel's recorded counts; a channel that never
// saw a grant yields an empty list. Global results pass through the Redis
// cache when one is configured.
func (s *LeaderboardService) Leaderboard(
	ctx context.Context, guildID uint64, limit int, channelID uint64,
) ([]types.LeaderboardEntry, error) {
	if channelID != 0 {
		record, err := s.store.GetChannelActivity(ctx, guildID, channelID)
		if err != nil {
			return nil, err
		}

		if record == nil {
			return nil, nil
		}

		return record.TopUsers(limit), nil
	}

	key := fmt.Sprintf("leaderboard:%d:%d", guildID, limit)

	if s.cache != nil {
		if entries, ok := s.cache.GetLeaderboard(ctx, key); ok {
			return entries, nil
		}
	}

	entries, err := s.store.GetGlobalLeaderboard(ctx, guildID, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetLeaderboard(ctx, key, entries)
	}

	return entries, nil
}

// Page serves the 1-based pagination contract: page p with size s fetches
// s*p entries and slices out the p'th window. The second return value is
// false when the page is empty, signaling end of list so callers keep their
// cursor where it is.
func (s *LeaderboardService) Page(
	ctx context.Context, guildID, channelID uint64, page, pageSize int,
) ([]types.LeaderboardEntry, bool, error) {
	if page < 1 || pageSize < 1 {
		return nil, false, nil
	}

	entries, err := s.Leaderboard(ctx, guildID, pageSize*page, channelID)
	if err != nil {
		return nil, false, err
	}

	offset := (page - 1) * pageSize
	if offset >= len(entries) {
		return nil, false, nil
	}

	end := min(offset+pageSize, len(entries))

	return entries[offset:end], true, nil
}

// ChannelLeaderboard returns the guild's channels ranked by total received
// points.
func (s *LeaderboardService) ChannelLeaderboard(
	ctx context.Context, guildID uint64, limit int,
) ([]*types.ChannelActivity, error) {
	return s.store.GetChannelLeaderboard(ctx, guildID, limit)
}

// TopChannelsForUser returns the channels where a user received the most
// points, ties kept in first-grant order.
func (s *LeaderboardService) TopChannelsForUser(
	ctx context.Context, guildID, userID uint64, limit int,
) ([]types.ChannelStanding, error) {
	profile, err := s.store.GetProfile(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	return profile.TopChannels(limit), nil
}

// Profile returns a user's reputation record, zero-valued when absent.
func (s *LeaderboardService) Profile(
	ctx context.Context, guildID, userID uint64,
) (*types.UserReputation, error) {
	return s.store.GetProfile(ctx, guildID, userID)
}
