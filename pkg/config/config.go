package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the toolkit.
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Project identifies the Google Cloud project and location
	Project ProjectConfig `mapstructure:"project"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Summary configuration for the generative text summarizer
	Summary SummaryConfig `mapstructure:"summary"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// ProjectConfig identifies the cloud project all service clients bind to.
type ProjectConfig struct {
	ID       string `mapstructure:"id"`
	Location string `mapstructure:"location"`
}

// EmbeddingConfig holds embedding client configuration.
type EmbeddingConfig struct {
	Provider      string  `mapstructure:"provider"` // vertex, openai
	Model         string  `mapstructure:"model"`
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	RequestLimit  int     `mapstructure:"request_limit"`
	RetryLimit    int     `mapstructure:"retry_limit"`
	RetryDelay    int     `mapstructure:"retry_delay"` // in seconds
	BackoffFactor float64 `mapstructure:"backoff_factor"`
	CachePath     string  `mapstructure:"cache_path"` // empty disables the cache
	Verbose       bool    `mapstructure:"verbose"`
}

// SummaryConfig holds configuration for the text summarizer.
type SummaryConfig struct {
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float32 `mapstructure:"top_p"`
}

// TelemetryConfig holds telemetry configuration.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// AlertConfig holds configuration for alerting.
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking.
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Project defaults
	viper.SetDefault("project.location", "us-central1")

	// Embedding defaults
	viper.SetDefault("embedding.provider", "vertex")
	viper.SetDefault("embedding.model", "text-embedding-004")
	viper.SetDefault("embedding.request_limit", 5)
	viper.SetDefault("embedding.retry_limit", 5)
	viper.SetDefault("embedding.retry_delay", 5)
	viper.SetDefault("embedding.backoff_factor", 2.0)

	// Summary defaults
	viper.SetDefault("summary.model", "gpt-4o-mini")
	viper.SetDefault("summary.temperature", 0.85)
	viper.SetDefault("summary.max_tokens", 256)
	viper.SetDefault("summary.top_p", 0.95)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.gcpkit/telemetry", home))
	}

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 60)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables.
func overrideWithEnv(config *Config) {
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		config.Project.ID = project
	}
	if location := os.Getenv("GOOGLE_CLOUD_LOCATION"); location != "" {
		config.Project.Location = location
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
		if config.Summary.APIKey == "" {
			config.Summary.APIKey = apiKey
		}
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
