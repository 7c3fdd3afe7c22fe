package config

import (
	"strings"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`

	// Room lifecycle knobs.
	ReconnectWindow time.Duration `mapstructure:"reconnect_window" yaml:"reconnect_window"`
	EmptyRoomTTL    time.Duration `mapstructure:"empty_room_ttl" yaml:"empty_room_ttl"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`

	// Per-address throttle for room create/join actions.
	RateLimitMax    int           `mapstructure:"rate_limit_max" yaml:"rate_limit_max"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window" yaml:"rate_limit_window"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":5000",
		AllowedOrigins:    "http://localhost:8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		MaxMessageBytes:   1 << 16,
		ReconnectWindow:   60 * time.Second,
		EmptyRoomTTL:      time.Hour,
		SweepInterval:     60 * time.Second,
		RateLimitMax:      60,
		RateLimitWindow:   time.Minute,
	}
}

// Origins splits the comma-separated allowed origins list.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.AllowedOrigins != "" {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.ReconnectWindow != 0 {
		c.ReconnectWindow = other.ReconnectWindow
	}
	if other.EmptyRoomTTL != 0 {
		c.EmptyRoomTTL = other.EmptyRoomTTL
	}
	if other.SweepInterval != 0 {
		c.SweepInterval = other.SweepInterval
	}
	if other.RateLimitMax != 0 {
		c.RateLimitMax = other.RateLimitMax
	}
	if other.RateLimitWindow != 0 {
		c.RateLimitWindow = other.RateLimitWindow
	}
}
