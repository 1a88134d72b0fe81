// Package config provides configuration management for the trade log tracker.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Source    SourceConfig    `mapstructure:"source" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Watches   []WatchConfig   `mapstructure:"watches" validate:"omitempty,dive"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port                int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int     `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int     `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	MaxUploadBytes      int64   `mapstructure:"max_upload_bytes" validate:"required,gt=0"`
	UploadRatePerSecond float64 `mapstructure:"upload_rate_per_second" validate:"gte=0"`
	UploadBurst         int     `mapstructure:"upload_burst" validate:"gte=0"`
}

// AnalyticsConfig represents aggregation parameters
type AnalyticsConfig struct {
	StartingFund    float64  `mapstructure:"starting_fund" validate:"required,gt=0"`
	MinStartingFund float64  `mapstructure:"min_starting_fund" validate:"gt=0"`
	DateLayouts     []string `mapstructure:"date_layouts" validate:"omitempty,datelayouts"`
	PLBins          int      `mapstructure:"pl_bins" validate:"required,gt=0"`
	CountBins       int      `mapstructure:"count_bins" validate:"required,gt=0"`
}

// CacheConfig represents series cache and session store configuration
type CacheConfig struct {
	TTLSeconds        int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize           int `mapstructure:"max_size" validate:"required,gt=0"`
	SessionTTLSeconds int `mapstructure:"session_ttl_seconds" validate:"required,gt=0"`
}

// SourceConfig represents the remote ledger source configuration
type SourceConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	MaxBytes          int64   `mapstructure:"max_bytes" validate:"required,gt=0"`
}

// WatchConfig names a trade log reloaded on a schedule while serving
type WatchConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Source   string `mapstructure:"source" validate:"required"`
	Schedule string `mapstructure:"schedule" validate:"required,cronspec"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddress returns the HTTP listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// CacheTTL returns the series cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// SessionTTL returns how long an idle ledger stays loaded
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Cache.SessionTTLSeconds) * time.Second
}

// SourceTimeout returns the remote ledger fetch timeout
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}
