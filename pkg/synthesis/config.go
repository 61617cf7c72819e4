package synthesis

import (
	"log/slog"
	"time"
)

// Config holds synthesis client configuration.
type Config struct {
	// Connection
	BaseURL string // backend base URL, e.g. "http://localhost:7860"
	APIKey  string // bearer token (optional for local backends)

	// Model selection (backend-side checkpoint name; optional)
	Checkpoint string

	// Timeouts. Synthesis calls are long-running; the default is generous.
	Timeout time.Duration

	// Retry configuration
	MaxRetries int
	RetryDelay time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the backend base URL.
// Examples: "http://localhost:7860", "https://sd.example.com"
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithCheckpoint sets the backend checkpoint name to request.
func WithCheckpoint(name string) Option {
	return func(c *Config) { c.Checkpoint = name }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRetry configures retry behavior.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults for a local SD-WebUI backend.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:7860",
		Timeout:    5 * time.Minute,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
		Logger:     slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
