package types_test

import (
	"testing"

	"github.com/karmahq/repbot/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserReputationApplyGrant(t *testing.T) {
	t.Parallel()

	rep := &types.UserReputation{GuildID: 1, UserID: 2}

	rep.ApplyGrant(10, "general", 3)
	rep.ApplyGrant(10, "general", 4)
	rep.ApplyGrant(20, "help", 3)

	assert.Equal(t, int64(3), rep.Count)

	entry, ok := rep.Channels.Get(10)
	require.True(t, ok)
	assert.Equal(t, int64(2), entry.Count)

	assert.Equal(t, int64(2), rep.GivenBy.Get(3))
	assert.Equal(t, int64(1), rep.GivenBy.Get(4))
}

func TestUserReputationApplyRevoke(t *testing.T) {
	t.Parallel()

	rep := &types.UserReputation{GuildID: 1, UserID: 2}
	rep.ApplyGrant(10, "general", 3)

	// Channel-scoped revoke undoes the grant on both counters.
	assert.True(t, rep.ApplyRevoke(10))
	assert.Equal(t, int64(0), rep.Count)

	entry, _ := rep.Channels.Get(10)
	assert.Equal(t, int64(0), entry.Count)

	// Nothing left to revoke.
	assert.False(t, rep.ApplyRevoke(10))
	assert.False(t, rep.ApplyRevoke(0))
}

func TestUserReputationRevokeGlobalOnly(t *testing.T) {
	t.Parallel()

	rep := &types.UserReputation{GuildID: 1, UserID: 2}
	rep.ApplyGrant(10, "general", 3)

	// A revoke without a channel drops the total but leaves the channel
	// breakdown untouched.
	assert.True(t, rep.ApplyRevoke(0))
	assert.Equal(t, int64(0), rep.Count)

	entry, ok := rep.Channels.Get(10)
	require.True(t, ok)
	assert.Equal(t, int64(1), entry.Count)
}

func TestUserReputationRevokeUnknownChannel(t *testing.T) {
	t.Parallel()

	rep := &types.UserReputation{GuildID: 1, UserID: 2}
	rep.ApplyGrant(10, "general", 3)

	assert.False(t, rep.ApplyRevoke(99))
	assert.Equal(t, int64(1), rep.Count)
}

func TestUserReputationTopChannels(t *testing.T) {
	t.Parallel()

	rep := &types.UserReputation{GuildID: 1, UserID: 2}

	grant := func(channelID uint64, name string, times int) {
		for range times {
			rep.ApplyGrant(channelID, name, 3)
		}
	}

	grant(1, "alpha", 2)
	grant(2, "beta", 5)
	grant(3, "gamma", 5)

	top := rep.TopChannels(2)
	require.Len(t, top, 2)

	// Ties keep first-grant order: beta saw points before gamma.
	assert.Equal(t, uint64(2), top[0].ChannelID)
	assert.Equal(t, uint64(3), top[1].ChannelID)

	all := rep.TopChannels(0)
	assert.Len(t, all, 3)
}

func TestChannelActivityGrantRevoke(t *testing.T) {
	t.Parallel()

	activity := &types.ChannelActivity{GuildID: 1, ChannelID: 10}

	activity.ApplyGrant(2, "general")
	activity.ApplyGrant(2, "general")
	activity.ApplyGrant(3, "renamed")

	assert.Equal(t, int64(3), activity.TotalReps)
	assert.Equal(t, "renamed", activity.ChannelName)
	assert.Equal(t, int64(2), activity.Users.Get(2))

	assert.True(t, activity.ApplyRevoke(2))
	assert.Equal(t, int64(2), activity.TotalReps)
	assert.Equal(t, int64(1), activity.Users.Get(2))

	// Users without recorded points cannot be revoked.
	assert.False(t, activity.ApplyRevoke(99))
	assert.Equal(t, int64(2), activity.TotalReps)
}

func TestChannelActivityTopUsers(t *testing.T) {
	t.Parallel()

	activity := &types.ChannelActivity{GuildID: 1, ChannelID: 10}

	grant := func(userID uint64, times int) {
		for range times {
			activity.ApplyGrant(userID, "general")
		}
	}

	grant(1, 5)
	grant(2, 3)
	grant(3, 3)
	grant(4, 1)

	top := activity.TopUsers(3)
	require.Len(t, top, 3)

	assert.Equal(t, types.LeaderboardEntry{UserID: 1, Count: 5}, top[0])
	// Equal counts rank in first-grant order.
	assert.Equal(t, types.LeaderboardEntry{UserID: 2, Count: 3}, top[1])
	assert.Equal(t, types.LeaderboardEntry{UserID: 3, Count: 3}, top[2])
}
