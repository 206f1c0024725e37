package embedding

import "time"

// Config holds the fixed configuration for a Client. It is read-only after
// construction; callers wanting different limits build a new client.
type Config struct {
	// Model is the provider-side model identifier the client is bound to.
	Model string
	// RequestLimit is the maximum number of texts per provider call (default: 5)
	RequestLimit int
	// RetryLimit is the maximum number of attempts per provider call (default: 5)
	RetryLimit int
	// RetryDelay is the base delay before the first retry (default: 5 seconds)
	RetryDelay time.Duration
	// BackoffFactor is the exponential multiplier between retries (default: 2.0)
	BackoffFactor float64
	// Verbose enables per-retry diagnostics through the client's logger.
	Verbose bool
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		RequestLimit:  5,
		RetryLimit:    5,
		RetryDelay:    5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// normalize fills zero or nonsensical values with defaults.
func (c *Config) normalize() {
	if c.RequestLimit <= 0 {
		c.RequestLimit = 5
	}
	if c.RetryLimit <= 0 {
		c.RetryLimit = 5
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2.0
	}
}
