// Package config loads application configuration from environment variables
// and an optional config file, with validated defaults.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
}

// ServerConfig contains all server-related settings.
type ServerConfig struct {
	// Addr is the host:port to listen on. Empty means an auto-assigned
	// port on localhost, handy for tests.
	Addr     string `mapstructure:"addr"`
	LogLevel int    `mapstructure:"log_level" validate:"gte=0,lte=5"`
}

// GameConfig contains the tunables of the game itself.
type GameConfig struct {
	// PairCount is the default number of pairs for a new session. It is
	// clamped to the symbol pool size at deck build time, but config
	// rejects nonsensical values early.
	PairCount int `mapstructure:"pair_count" validate:"required,gte=1"`

	MatchDelay    time.Duration `mapstructure:"match_delay" validate:"required,gt=0"`
	MismatchDelay time.Duration `mapstructure:"mismatch_delay" validate:"required,gt=0"`
}
