// Package config loads the application configuration from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound   = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing = errors.New("config file is missing version field")
	ErrConfigVersionInvalid = errors.New("config file version mismatch")
)

// CurrentVersion is the expected config file version.
const CurrentVersion = 1

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Bot        Bot        `koanf:"bot"`
	Reputation Reputation `koanf:"reputation"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Bot contains Discord gateway configuration.
type Bot struct {
	// Discord bot token.
	Token string `koanf:"token"`
	// Guild to register commands against; 0 registers globally.
	CommandGuildID uint64 `koanf:"command_guild_id"`
	// Users allowed to revoke reputation regardless of permissions.
	AdminUserIDs []uint64 `koanf:"admin_user_ids"`
}

// Reputation contains the tunable parts of the reputation engine.
type Reputation struct {
	// Minimum seconds a giver must wait between successful grants.
	CooldownSeconds int `koanf:"cooldown_seconds"`
	// Case-insensitive phrases that turn a mention into a grant.
	TriggerWords []string `koanf:"trigger_words"`
	// Entries per leaderboard page.
	LeaderboardPageSize int `koanf:"leaderboard_page_size"`
	// Channels shown on a profile.
	TopChannelsLimit int `koanf:"top_channels_limit"`
	// Channels shown on the channel leaderboard.
	ChannelLeaderboardLimit int `koanf:"channel_leaderboard_limit"`
	// Leaderboard cache TTL in seconds; 0 disables caching.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`
}

// defaults returns a config populated with every tunable's default value.
// File values override these on load.
func defaults() Config {
	return Config{
		Debug: Debug{
			LogLevel: "info",
		},
		PostgreSQL: PostgreSQL{
			Host:         "localhost",
			Port:         5432,
			MaxOpenConns: 8,
			MaxIdleConns: 8,
			MaxLifetime:  10,
			MaxIdleTime:  10,
		},
		Redis: Redis{
			Host: "localhost",
			Port: 6379,
		},
		Reputation: Reputation{
			CooldownSeconds:         60,
			TriggerWords:            []string{"thanks", "ty", "tysm", "thank you", "appreciated", "thx"},
			LeaderboardPageSize:     10,
			TopChannelsLimit:        3,
			ChannelLeaderboardLimit: 10,
			CacheTTLSeconds:         30,
		},
	}
}

// LoadConfig loads the config file from the search paths and returns the
// parsed configuration along with the directory it was found in.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".repbot",
		homeDir + "/.repbot/config",
		"/etc/repbot/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/config.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: config.toml", ErrConfigFileNotFound)
	}

	config := defaults()
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Version == 0 {
		return nil, "", fmt.Errorf("%w: config.toml", ErrConfigVersionMissing)
	}

	if config.Version != CurrentVersion {
		return nil, "", fmt.Errorf("%w: config.toml (got: %d, expected: %d)",
			ErrConfigVersionInvalid, config.Version, CurrentVersion)
	}

	return &config, usedConfigPath, nil
}
