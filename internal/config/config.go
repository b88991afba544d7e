// Package config loads server configuration from an optional YAML file and
// environment variables.
//
// Recognised keys (env var in parentheses):
//   - port (PORT): listen port, default 3000
//   - host (LISTEN_HOST): listen host, default all interfaces
//   - read_header_timeout (READ_HEADER_TIMEOUT): default 5s
//   - shutdown_timeout (SHUTDOWN_TIMEOUT): default 5s
//   - log.level (LOG_LEVEL): default info
//   - log.pretty (LOG_PRETTY): console output instead of JSON
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/dreamware/snapfeed/internal/logging"
)

// ServiceName identifies this process in logs
const ServiceName = "snapfeed"

// envBindings maps config keys to the environment variables that override
// them. Keys not listed here can only be set from config.yaml. The generic
// HOST variable is never consulted.
var envBindings = map[string]string{
	"host":                "LISTEN_HOST",
	"port":                "PORT",
	"read_header_timeout": "READ_HEADER_TIMEOUT",
	"shutdown_timeout":    "SHUTDOWN_TIMEOUT",
	"log.level":           "LOG_LEVEL",
	"log.pretty":          "LOG_PRETTY",
}

// Config is the fully resolved server configuration
type Config struct {
	Host              string         `mapstructure:"host"`
	Port              int            `mapstructure:"port"`
	ReadHeaderTimeout time.Duration  `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration  `mapstructure:"shutdown_timeout"`
	Log               logging.Config `mapstructure:"log"`
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the values are usable
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ReadHeaderTimeout <= 0 {
		return errors.New("read_header_timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

// Load reads configuration. configPath is a directory searched for
// config.yaml; a missing file is not an error and env vars still apply.
func Load(configPath string) (Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", 3000)
	v.SetDefault("read_header_timeout", 5*time.Second)
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", ServiceName)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
