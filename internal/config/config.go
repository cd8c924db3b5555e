// Package config loads and validates application configuration from
// environment variables and an optional config file.
package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Session  SessionConfig  `mapstructure:"session"  validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SessionConfig contains study-session settings.
type SessionConfig struct {
	// DueLimit caps how many cards a single session queue may hold.
	DueLimit int `mapstructure:"due_limit" validate:"required,gt=0"`
}
