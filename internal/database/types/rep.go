package types

import (
	"sort"

	"github.com/uptrace/bun"
)

// UserReputation tracks reputation points a member has received in one guild,
// with per-channel and per-giver breakdowns. Records are created on first
// grant and never deleted.
type UserReputation struct {
	bun.BaseModel `bun:"table:user_reputations"`

	GuildID  uint64           `bun:"guild_id,pk"        json:"guildId"`
	UserID   uint64           `bun:"user_id,pk"         json:"userId"`
	Count    int64            `bun:"count,notnull"      json:"count"`
	Channels ChannelBreakdown `bun:"channels,type:json" json:"channels"`
	GivenBy  CountSet         `bun:"given_by,type:json" json:"givenBy"`
}

// ApplyGrant records one point received in the given channel from the given
// giver, creating nested entries as needed.
func (r *UserReputation) ApplyGrant(channelID uint64, channelName string, giverID uint64) {
	r.Count++
	r.Channels.Add(channelID, channelName)
	r.GivenBy.Increment(giverID)
}

// ApplyRevoke removes one point, floored at zero. When channelID is non-zero
// the matching channel entry is decremented too, and the revoke fails if that
// channel has no recorded points. When channelID is zero only the global
// count drops; channel breakdowns are deliberately left untouched.
// It reports whether a point was actually removed.
func (r *UserReputation) ApplyRevoke(channelID uint64) bool {
	if r.Count <= 0 {
		return false
	}

	if channelID != 0 {
		entry, ok := r.Channels.Get(channelID)
		if !ok || entry.Count <= 0 {
			return false
		}

		r.Channels.Decrement(channelID)
	}

	r.Count--

	return true
}

// ChannelStanding is one row of a user's top-channels view.
type ChannelStanding struct {
	ChannelID uint64 `json:"channelId"`
	Name      string `json:"name"`
	Count     int64  `json:"count"`
}

// TopChannels returns the user's channels ordered by received count
// descending, truncated to limit. The sort is stable, so ties keep the order
// channels first received points in.
func (r *UserReputation) TopChannels(limit int) []ChannelStanding {
	standings := make([]ChannelStanding, 0, r.Channels.Len())

	for _, id := range r.Channels.IDs() {
		entry, _ := r.Channels.Get(id)
		standings = append(standings, ChannelStanding{
			ChannelID: id,
			Name:      entry.Name,
			Count:     entry.Count,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Count > standings[j].Count
	})

	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}

	return standings
}

// ChannelActivity mirrors reputation activity from the channel's point of
// view: which members received points there and the channel's running total.
type ChannelActivity struct {
	bun.BaseModel `bun:"table:channel_activities"`

	GuildID     uint64   `bun:"guild_id,pk"          json:"guildId"`
	ChannelID   uint64   `bun:"channel_id,pk"        json:"channelId"`
	ChannelName string   `bun:"channel_name,notnull" json:"channelName"`
	Users       CountSet `bun:"users,type:json"      json:"users"`
	TotalReps   int64    `bun:"total_reps,notnull"   json:"totalReps"`
}

// ApplyGrant records one point received by userID in this channel and
// refreshes the stored channel name, which is last-write-wins.
func (c *ChannelActivity) ApplyGrant(userID uint64, channelName string) {
	c.ChannelName = channelName
	c.TotalReps++
	c.Users.Increment(userID)
}

// ApplyRevoke removes one of userID's points from this channel when there is
// one to remove, keeping the total floored at zero. It reports whether the
// record changed.
func (c *ChannelActivity) ApplyRevoke(userID uint64) bool {
	if !c.Users.Decrement(userID) {
		return false
	}

	if c.TotalReps > 0 {
		c.TotalReps--
	}

	return true
}

// LeaderboardEntry is one row of a user leaderboard, global or
// channel-scoped.
type LeaderboardEntry struct {
	UserID uint64 `json:"userId"`
	Count  int64  `json:"count"`
}

// TopUsers returns the channel's recipients ordered by received count
// descending, truncated to limit. The sort is stable on first-grant order.
func (c *ChannelActivity) TopUsers(limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, c.Users.Len())

	for _, id := range c.Users.IDs() {
		entries = append(entries, LeaderboardEntry{
			UserID: id,
			Count:  c.Users.Get(id),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries
}
