// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ConfigError is a typed config validation error
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrInvalidThinkDelay = ConfigError("AI_MIN_THINK must not exceed AI_MAX_THINK")
	ErrNoTransport       = ConfigError("HTTP_ENABLED is false and DISCORD_TOKEN is empty, nothing to serve")
)

// Config is the full process configuration
type Config struct {
	HTTP    HTTPConfig
	Redis   RedisConfig
	Discord DiscordConfig
	Log     LogConfig
	Game    GameConfig
}

// HTTPConfig configures the HTTP transport
type HTTPConfig struct {
	// Enabled switches the transport off when false, Addr keeps its default either way
	Enabled bool   `env:"HTTP_ENABLED" envDefault:"true"`
	Addr    string `env:"HTTP_ADDR" envDefault:":8080"`
}

// RedisConfig configures the ledger and archive store
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// DiscordConfig configures the Discord transport, an empty token disables it
type DiscordConfig struct {
	Token         string `env:"DISCORD_TOKEN"`
	ApplicationID string `env:"APPLICATION_ID"`
	GuildID       string `env:"GUILD_ID"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`

	// File also writes logs to a rotated file when set
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

// GameConfig holds the table rules and timings
type GameConfig struct {
	MaxPlayers    int           `env:"GAME_MAX_PLAYERS" envDefault:"6"`
	StartingDice  int           `env:"GAME_STARTING_DICE" envDefault:"5"`
	WinningTokens int           `env:"GAME_WINNING_TOKENS" envDefault:"7"`
	CoolDown      time.Duration `env:"GAME_COOL_DOWN" envDefault:"5s"`
	AutoContinue  time.Duration `env:"GAME_AUTO_CONTINUE" envDefault:"15s"`
	MinThink      time.Duration `env:"AI_MIN_THINK" envDefault:"1s"`
	MaxThink      time.Duration `env:"AI_MAX_THINK" envDefault:"3s"`

	// EndedRetention keeps finished games readable before eviction, IdleTimeout
	// evicts games nobody touched, 0 disables either
	EndedRetention time.Duration `env:"GAME_ENDED_RETENTION" envDefault:"10m"`
	IdleTimeout    time.Duration `env:"GAME_IDLE_TIMEOUT" envDefault:"1h"`

	// AuditTimeout bounds each ledger and archive write
	AuditTimeout time.Duration `env:"GAME_AUDIT_TIMEOUT" envDefault:"5s"`

	// DiceSeed fixes the dice for reproducible tables, 0 seeds from the clock
	DiceSeed int64 `env:"DICE_SEED"`
}

// Load reads an optional .env file and parses the environment into a Config
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// a missing file is fine, the environment may be set directly
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks combinations the struct tags cannot express
func (c *Config) Validate() error {
	if c.Game.MinThink > c.Game.MaxThink {
		return ErrInvalidThinkDelay
	}
	if !c.HTTP.Enabled && c.Discord.Token == "" {
		return ErrNoTransport
	}
	return nil
}
