// Package constants holds the identifiers shared across the bot's commands
// and components.
package constants

const (
	// GiveRepCommandName grants a point to a member.
	GiveRepCommandName = "giverep"
	// ProfileCommandName shows a member's reputation profile.
	ProfileCommandName = "profile"
	// LeaderboardCommandName shows ranked standings.
	LeaderboardCommandName = "leaderboard"
	// RemoveRepCommandName removes points from a member (admin only).
	RemoveRepCommandName = "removerep"

	// LeaderboardPrevButtonID prefixes the previous-page button custom ID.
	LeaderboardPrevButtonID = "leaderboard:prev"
	// LeaderboardNextButtonID prefixes the next-page button custom ID.
	LeaderboardNextButtonID = "leaderboard:next"

	// ScopeGlobal ranks users across the whole guild.
	ScopeGlobal = "global"
	// ScopeChannel ranks users within one channel.
	ScopeChannel = "channel"
	// ScopeChannels ranks the channels themselves.
	ScopeChannels = "channels"
)
