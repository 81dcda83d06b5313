package reputation_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/karmahq/repbot/internal/reputation"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupLeaderboard(t *testing.T) (*reputation.LeaderboardService, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	service := reputation.NewLeaderboard(store, nil, zap.NewNop())

	return service, store
}

// seedGrants gives userID count points in the channel.
func seedGrants(t *testing.T, store *fakeStore, guildID, userID, channelID uint64, count int) {
	t.Helper()

	for range count {
		require.NoError(t, store.Grant(t.Context(), guildID, userID, channelID, "general", 999))
	}
}

func TestLeaderboardGlobal(t *testing.T) {
	t.Parallel()

	service, store := setupLeaderboard(t)

	seedGrants(t, store, 1, 10, 100, 5)
	seedGrants(t, store, 1, 11, 100, 3)
	seedGrants(t, store, 1, 12, 100, 3)
	seedGrants(t, store, 1, 13, 100, 1)

	entries, err := service.Leaderboard(t.Context(), 1, 3, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, uint64(10), entries[0].UserID)
	// Equal counts rank by ascending user ID.
	assert.Equal(t, uint64(11), entries[1].UserID)
	assert.Equal(t, uint64(12), entries[2].UserID)
}

func TestLeaderboardChannelScoped(t *testing.T) {
	t.Parallel()

	service, store := setupLeaderboard(t)

	seedGrants(t, store, 1, 10, 100, 2)
	seedGrants(t, store, 1, 11, 200, 4)

	entries, err := service.Leaderboard(t.Context(), 1, 10, 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(10), entries[0].UserID)

	// A channel that never saw a grant yields an empty list, not an error.
	entries, err = service.Leaderboard(t.Context(), 1, 10, 300)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboardPage(t *testing.T) {
	t.Parallel()

	service, store := setupLeaderboard(t)

	for userID := uint64(1); userID <= 5; userID++ {
		seedGrants(t, store, 1, userID, 100, int(6-userID))
	}

	page, ok, err := service.Page(t.Context(), 1, 0, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(1), page[0].UserID)
	assert.Equal(t, uint64(2), page[1].UserID)

	page, ok, err = service.Page(t.Context(), 1, 0, 2, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(3), page[0].UserID)

	// The last partial page is served as-is.
	page, ok, err = service.Page(t.Context(), 1, 0, 3, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, page, 1)

	// Past the end the page is empty and flagged as such.
	_, ok, err = service.Page(t.Context(), 1, 0, 4, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// Page numbers below one never succeed.
	_, ok, err = service.Page(t.Context(), 1, 0, 0, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChannelLeaderboard(t *testing.T) {
	t.Parallel()

	service, store := setupLeaderboard(t)

	seedGrants(t, store, 1, 10, 100, 2)
	seedGrants(t, store, 1, 10, 200, 5)

	records, err := service.ChannelLeaderboard(t.Context(), 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, uint64(200), records[0].ChannelID)
	assert.Equal(t, int64(5), records[0].TotalReps)
	assert.Equal(t, uint64(100), records[1].ChannelID)
}

func TestTopChannelsForUser(t *testing.T) {
	t.Parallel()

	service, store := setupLeaderboard(t)

	seedGrants(t, store, 1, 10, 100, 2)
	seedGrants(t, store, 1, 10, 200, 5)
	seedGrants(t, store, 1, 10, 300, 5)

	standings, err := service.TopChannelsForUser(t.Context(), 1, 10, 2)
	require.NoError(t, err)
	require.Len(t, standings, 2)

	// Ties keep first-grant order: 200 saw points before 300.
	assert.Equal(t, uint64(200), standings[0].ChannelID)
	assert.Equal(t, uint64(300), standings[1].ChannelID)
}

func TestProfileAbsentUser(t *testing.T) {
	t.Parallel()

	service, _ := setupLeaderboard(t)

	profile, err := service.Profile(t.Context(), 1, 42)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, int64(0), profile.Count)
}

func TestLeaderboardCache(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	defer client.Close()

	store := newFakeStore()
	cache := reputation.NewCache(client, 30*time.Second, zap.NewNop())
	service := reputation.NewLeaderboard(store, cache, zap.NewNop())

	seedGrants(t, store, 1, 10, 100, 3)

	entries, err := service.Leaderboard(t.Context(), 1, 5, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Later grants are invisible until the cached entry expires.
	seedGrants(t, store, 1, 11, 100, 5)

	entries, err = service.Leaderboard(t.Context(), 1, 5, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(10), entries[0].UserID)

	mr.FastForward(31 * time.Second)

	entries, err = service.Leaderboard(t.Context(), 1, 5, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(11), entries[0].UserID)
}
