// Package config provides configuration management for the SP-API client.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/s-aga-r/amazon-sp-api/marketplaces"
)

// Config represents the complete client configuration.
type Config struct {
	LWA         LWAConfig        `mapstructure:"lwa"`
	AWS         AWSConfig        `mapstructure:"aws"`
	Marketplace Marketplace      `mapstructure:"marketplace"`
	HTTP        HTTPConfig       `mapstructure:"http"`
	TokenCache  TokenCacheConfig `mapstructure:"token_cache"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Metrics     MetricsConfig    `mapstructure:"metrics"`
}

// LWAConfig holds Login with Amazon application settings.
type LWAConfig struct {
	// ClientID and ClientSecret identify the LWA application.
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	// RefreshToken is the long-lived seller authorization token.
	RefreshToken string `mapstructure:"refresh_token"`

	// Endpoint overrides the token endpoint (tests only).
	Endpoint string `mapstructure:"endpoint"`
}

// AWSConfig holds AWS credential settings for request signing.
type AWSConfig struct {
	// AccessKey and SecretKey are the IAM user keys.
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`

	// RoleARN, when set, is assumed via STS to obtain temporary
	// credentials per request. When empty the static keys sign directly.
	RoleARN string `mapstructure:"role_arn"`

	// SessionName names assumed-role sessions.
	SessionName string `mapstructure:"session_name"`
}

// Marketplace selects the target marketplace.
type Marketplace struct {
	// Country is the ISO 3166-1 alpha-2 country code (e.g. "US").
	Country string `mapstructure:"country"`

	// Endpoint overrides the regional endpoint (tests only).
	Endpoint string `mapstructure:"endpoint"`
}

// HTTPConfig holds request transport settings.
type HTTPConfig struct {
	// Timeout bounds a single HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxRetries is the number of attempts for retryable failures.
	MaxRetries int `mapstructure:"max_retries"`

	// RetryInterval is the fixed delay between attempts.
	RetryInterval time.Duration `mapstructure:"retry_interval"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `mapstructure:"user_agent"`
}

// TokenCacheConfig selects how LWA access tokens are cached.
type TokenCacheConfig struct {
	// Backend is "memory", "redis" or "none".
	Backend string `mapstructure:"backend"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings for the token cache.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled determines if request metrics are collected.
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from the specified file and environment variables.
// Environment variables take precedence over file values.
// Environment variables are prefixed with SPAPI_ and use _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Environment variable configuration
	v.SetEnvPrefix("SPAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file configuration
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/spapi")
	}

	// Read config file (optional - environment variables can be used instead)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is acceptable - use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Marketplace defaults
	v.SetDefault("marketplace.country", "US")

	// AWS defaults
	v.SetDefault("aws.session_name", "amazon-sp-api")

	// HTTP defaults
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.retry_interval", 1*time.Second)

	// Token cache defaults
	v.SetDefault("token_cache.backend", "memory")
	v.SetDefault("token_cache.redis.host", "localhost")
	v.SetDefault("token_cache.redis.port", 6379)
	v.SetDefault("token_cache.redis.password", "")
	v.SetDefault("token_cache.redis.db", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	// Validate LWA configuration
	if c.LWA.ClientID == "" {
		return fmt.Errorf("lwa.client_id is required")
	}
	if c.LWA.ClientSecret == "" {
		return fmt.Errorf("lwa.client_secret is required")
	}
	if c.LWA.RefreshToken == "" {
		return fmt.Errorf("lwa.refresh_token is required")
	}

	// Validate marketplace configuration
	if _, err := marketplaces.ByCountry(c.Marketplace.Country); err != nil {
		return fmt.Errorf("marketplace.country: %w", err)
	}

	// Validate HTTP configuration
	if c.HTTP.MaxRetries < 1 {
		return fmt.Errorf("http.max_retries must be at least 1")
	}
	if c.HTTP.RetryInterval < 0 {
		return fmt.Errorf("http.retry_interval must not be negative")
	}

	// Validate token cache configuration
	validBackends := map[string]bool{"memory": true, "redis": true, "none": true}
	if !validBackends[c.TokenCache.Backend] {
		return fmt.Errorf("token_cache.backend must be 'memory', 'redis' or 'none'")
	}

	// Validate logging configuration
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
