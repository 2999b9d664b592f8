// Package config provides configuration management for the storefront server.
//
// Values are layered, later layers winning: built-in defaults, an optional
// YAML file named by APP_CONFIG_FILE, an optional .env file, and finally the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort          = 8080
	DefaultLogLevel            = "info"
	DefaultShutdownTimeout     = 30 * time.Second
	DefaultMetricsEnabled      = true
	DefaultAuthMode            = "none"
	DefaultPersistBackend      = "memory"
	DefaultDataDir             = "data"
	DefaultBreakerFailures     = 5
	DefaultBreakerErrorRate    = 50
	DefaultBreakerTimeout      = 30 * time.Second
	DefaultChatStrategy        = "fuzzy"
	DefaultFAQThreshold        = 0.3
	DefaultSessionIdleTimeout  = 30 * time.Minute
	DefaultDotEnvFile          = ".env"
	defaultMaxFAQThreshold     = 1.0
	defaultMaxBreakerErrorRate = 100
)

// Environment variable names.
const (
	EnvConfigFile         = "APP_CONFIG_FILE"
	EnvServerPort         = "APP_SERVER_PORT"
	EnvLogLevel           = "APP_LOG_LEVEL"
	EnvShutdownTimeout    = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled     = "APP_METRICS_ENABLED"
	EnvAuthMode           = "APP_AUTH_MODE"
	EnvBasicAuthUsers     = "APP_BASIC_AUTH_USERS"
	EnvAPIKeys            = "APP_API_KEYS" //nolint:gosec // env var name, not a credential
	EnvPersistBackend     = "APP_PERSIST_BACKEND"
	EnvDataDir            = "APP_DATA_DIR"
	EnvBreakerFailures    = "APP_BREAKER_FAILURES"
	EnvBreakerErrorRate   = "APP_BREAKER_ERROR_RATE"
	EnvBreakerTimeout     = "APP_BREAKER_TIMEOUT"
	EnvChatStrategy       = "APP_CHAT_STRATEGY"
	EnvFAQThreshold       = "APP_FAQ_THRESHOLD"
	EnvSessionIdleTimeout = "APP_SESSION_IDLE_TIMEOUT"
)

// envKeys maps environment variables to configuration keys. Variables not
// listed here are ignored.
var envKeys = map[string]string{
	EnvServerPort:         "server.port",
	EnvLogLevel:           "log.level",
	EnvShutdownTimeout:    "server.shutdownTimeout",
	EnvMetricsEnabled:     "metrics.enabled",
	EnvAuthMode:           "auth.mode",
	EnvBasicAuthUsers:     "auth.basicUsers",
	EnvAPIKeys:            "auth.apiKeys",
	EnvPersistBackend:     "persistence.backend",
	EnvDataDir:            "persistence.dataDir",
	EnvBreakerFailures:    "persistence.breaker.failures",
	EnvBreakerErrorRate:   "persistence.breaker.errorRate",
	EnvBreakerTimeout:     "persistence.breaker.timeout",
	EnvChatStrategy:       "chat.strategy",
	EnvFAQThreshold:       "chat.threshold",
	EnvSessionIdleTimeout: "session.idleTimeout",
}

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerPort      int           `koanf:"server.port"`
	LogLevel        string        `koanf:"log.level"`
	ShutdownTimeout time.Duration `koanf:"server.shutdownTimeout"`
	MetricsEnabled  bool          `koanf:"metrics.enabled"`

	// Authentication mode: none, basic, apikey, multi.
	AuthMode string `koanf:"auth.mode"`

	// Basic auth settings (format: "user1:bcrypt_hash,user2:bcrypt_hash").
	BasicAuthUsers string `koanf:"auth.basicUsers"`

	// API key settings (format: "key1:name1,key2:name2").
	APIKeys string `koanf:"auth.apiKeys"`

	// Persistence settings. Backend is memory or file.
	PersistBackend   string        `koanf:"persistence.backend"`
	DataDir          string        `koanf:"persistence.dataDir"`
	BreakerFailures  uint32        `koanf:"persistence.breaker.failures"`
	BreakerErrorRate uint32        `koanf:"persistence.breaker.errorRate"`
	BreakerTimeout   time.Duration `koanf:"persistence.breaker.timeout"`

	// Assistant settings. Strategy is fuzzy or keyword.
	ChatStrategy string  `koanf:"chat.strategy"`
	FAQThreshold float64 `koanf:"chat.threshold"`

	// Session settings.
	SessionIdleTimeout time.Duration `koanf:"session.idleTimeout"`
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidAuthMode        = errors.New(
		"auth mode must be one of: none, basic, apikey, multi",
	)
	ErrInvalidBasicAuthConfig = errors.New(
		"basic auth users must be set when auth mode is basic",
	)
	ErrInvalidAPIKeyConfig = errors.New(
		"API keys must be set when auth mode is apikey",
	)
	ErrInvalidMultiAuthConfig = errors.New(
		"at least one auth config must be provided when auth mode is multi",
	)
	ErrInvalidPersistBackend = errors.New(
		"persistence backend must be one of: memory, file",
	)
	ErrInvalidDataDir = errors.New(
		"data directory must be set when persistence backend is file",
	)
	ErrInvalidBreakerErrorRate = errors.New(
		"breaker error rate must be between 0 and 100",
	)
	ErrInvalidBreakerTimeout = errors.New("breaker timeout must be positive")
	ErrInvalidChatStrategy   = errors.New("chat strategy must be one of: fuzzy, keyword")
	ErrInvalidFAQThreshold   = errors.New("FAQ threshold must be between 0 and 1")
	ErrInvalidIdleTimeout    = errors.New("session idle timeout must be positive")
)

// defaults returns the built-in configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"server.port":                   DefaultServerPort,
		"log.level":                     DefaultLogLevel,
		"server.shutdownTimeout":        DefaultShutdownTimeout.String(),
		"metrics.enabled":               DefaultMetricsEnabled,
		"auth.mode":                     DefaultAuthMode,
		"auth.basicUsers":               "",
		"auth.apiKeys":                  "",
		"persistence.backend":           DefaultPersistBackend,
		"persistence.dataDir":           DefaultDataDir,
		"persistence.breaker.failures":  DefaultBreakerFailures,
		"persistence.breaker.errorRate": DefaultBreakerErrorRate,
		"persistence.breaker.timeout":   DefaultBreakerTimeout.String(),
		"chat.strategy":                 DefaultChatStrategy,
		"chat.threshold":                DefaultFAQThreshold,
		"session.idleTimeout":           DefaultSessionIdleTimeout.String(),
	}
}

// Load reads configuration from the YAML file named by APP_CONFIG_FILE, the
// .env file in the working directory and the environment, over defaults.
func Load() (*Config, error) {
	return LoadFiles(os.Getenv(EnvConfigFile), DefaultDotEnvFile)
}

// LoadFiles is Load with explicit file paths. Empty or missing paths are
// skipped.
func LoadFiles(configFile, dotEnvFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	if err := loadDotEnv(k, dotEnvFile); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("APP_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads the variables of a .env file, if it exists.
func loadDotEnv(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}

	vars, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	values := make(map[string]any, len(vars))
	for name, value := range vars {
		if key := envKey(name); key != "" {
			values[key] = value
		}
	}

	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// envKey returns the configuration key of an environment variable, or ""
// for variables that are not configuration.
func envKey(name string) string {
	return envKeys[name]
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	if err := c.validatePersistence(); err != nil {
		return err
	}

	return c.validateStorefront()
}

// validateServer validates server-related configuration.
func (c *Config) validateServer() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// validateAuth validates authentication configuration.
func (c *Config) validateAuth() error {
	authMode := c.authModeOrDefault()

	validAuthModes := map[string]bool{
		"none":   true,
		"basic":  true,
		"apikey": true,
		"multi":  true,
	}
	if !validAuthModes[authMode] {
		return ErrInvalidAuthMode
	}

	switch authMode {
	case "basic":
		if c.BasicAuthUsers == "" {
			return ErrInvalidBasicAuthConfig
		}
	case "apikey":
		if c.APIKeys == "" {
			return ErrInvalidAPIKeyConfig
		}
	case "multi":
		if !c.hasAnyAuthConfig() {
			return ErrInvalidMultiAuthConfig
		}
	}

	return nil
}

// validatePersistence validates the persistence backend settings.
func (c *Config) validatePersistence() error {
	switch c.PersistBackend {
	case "memory":
	case "file":
		if c.DataDir == "" {
			return ErrInvalidDataDir
		}
	default:
		return ErrInvalidPersistBackend
	}

	if c.BreakerErrorRate > defaultMaxBreakerErrorRate {
		return ErrInvalidBreakerErrorRate
	}

	if c.BreakerTimeout <= 0 {
		return ErrInvalidBreakerTimeout
	}

	return nil
}

// validateStorefront validates assistant and session settings.
func (c *Config) validateStorefront() error {
	if c.ChatStrategy != "fuzzy" && c.ChatStrategy != "keyword" {
		return ErrInvalidChatStrategy
	}

	if c.FAQThreshold < 0 || c.FAQThreshold > defaultMaxFAQThreshold {
		return ErrInvalidFAQThreshold
	}

	if c.SessionIdleTimeout <= 0 {
		return ErrInvalidIdleTimeout
	}

	return nil
}

// authModeOrDefault returns the auth mode, defaulting to "none" if empty.
func (c *Config) authModeOrDefault() string {
	if c.AuthMode == "" {
		return DefaultAuthMode
	}
	return c.AuthMode
}

// hasAnyAuthConfig checks if at least one auth-related configuration is provided.
func (c *Config) hasAnyAuthConfig() bool {
	return c.BasicAuthUsers != "" || c.APIKeys != ""
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
