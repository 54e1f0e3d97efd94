package guildxp

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log         LogConfig         `toml:"log"`
	Bot         BotConfig         `toml:"bot"`
	DB          DBConfig          `toml:"db"`
	Progression ProgressionConfig `toml:"progression"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

// ProgressionConfig holds the tunables of the reward pipeline. Zero
// values fall back to the defaults below so a partial [progression]
// table in config.toml is fine.
type ProgressionConfig struct {
	XPCooldownSeconds int   `toml:"xp_cooldown_seconds"`
	MinXPPerMessage   int64 `toml:"min_xp_per_message"`
	MaxXPPerMessage   int64 `toml:"max_xp_per_message"`
	MinCoinsPerMsg    int64 `toml:"min_coins_per_message"`
	MaxCoinsPerMsg    int64 `toml:"max_coins_per_message"`
}

func (c ProgressionConfig) Cooldown() time.Duration {
	if c.XPCooldownSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.XPCooldownSeconds) * time.Second
}
