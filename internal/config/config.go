// Package config loads scorebook configuration from a YAML file and
// SCOREBOOK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrMissingDatabase = errors.New("database path is required")
	ErrInvalidAddr     = errors.New("invalid server address")
	ErrInvalidTimeout  = errors.New("server timeouts must be positive")
	ErrMissingRedisURL = errors.New("publish.redis_url is required when publishing is enabled")
	ErrInvalidMaxLen   = errors.New("publish.max_len must not be negative")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidFormat   = errors.New("invalid log format")
)

// Default configuration values.
const (
	DefaultDatabasePath = "scorebook.db"
	DefaultServerAddr   = ":8080"
	DefaultStreamPrefix = "scorebook.matches"
	DefaultStreamMaxLen = 10000
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"

	envPrefix = "SCOREBOOK"
)

// Config holds all configuration for scorebook.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Publish  PublishConfig  `mapstructure:"publish"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// PublishConfig controls publishing committed match state to Redis streams.
type PublishConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	RedisURL     string `mapstructure:"redis_url"`
	StreamPrefix string `mapstructure:"stream_prefix"`
	MaxLen       int64  `mapstructure:"max_len"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from configPath, or when empty from
// scorebook.yaml in ".", "./config" or "/etc/scorebook" if one exists.
// Environment variables override the file: SCOREBOOK_DATABASE_PATH sets
// database.path.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("scorebook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scorebook")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("publish.enabled", false)
	v.SetDefault("publish.redis_url", "")
	v.SetDefault("publish.stream_prefix", DefaultStreamPrefix)
	v.SetDefault("publish.max_len", DefaultStreamMaxLen)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return ErrMissingDatabase
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddr, c.Server.Addr)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("%w: read=%s write=%s", ErrInvalidTimeout, c.Server.ReadTimeout, c.Server.WriteTimeout)
	}
	if c.Publish.Enabled && c.Publish.RedisURL == "" {
		return ErrMissingRedisURL
	}
	if c.Publish.MaxLen < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxLen, c.Publish.MaxLen)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Logging.Format)
	}
	return nil
}

// SlogLevel parses the configured level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
	return level, nil
}
