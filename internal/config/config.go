package config

import (
	"errors"
	"time"
)

var (
	ErrInvalidChunkSize      = errors.New("chunk size must be greater than 0")
	ErrInvalidWorkers        = errors.New("worker count must be greater than 0")
	ErrInvalidRetryDelay     = errors.New("retry delay must be greater than 0")
	ErrInvalidMaxRetryDelay  = errors.New("max retry delay must not be less than the initial retry delay")
	ErrInvalidResolverURL    = errors.New("resolver base URL must be set")
	ErrInvalidAttemptTimeout = errors.New("attempt timeout must not be negative")
)

// Config holds all application configuration
type Config struct {
	Resolver ResolverConfig `json:"resolver"`
	Transfer TransferConfig `json:"transfer"`
}

// ResolverConfig holds metadata resolver configuration
type ResolverConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// TransferConfig holds the transfer engine configuration
type TransferConfig struct {
	// OutputDir is the root directory record folders are created under.
	OutputDir string `json:"output_dir"`

	// ChunkSize is the copy buffer size used when streaming response
	// bodies to disk.
	ChunkSize int `json:"chunk_size"`

	// Workers is the number of files downloaded in parallel.
	Workers int `json:"workers"`

	// RetryDelay is the initial delay between retry attempts.
	RetryDelay time.Duration `json:"retry_delay"`

	// MaxRetryDelay caps the exponential retry backoff.
	MaxRetryDelay time.Duration `json:"max_retry_delay"`

	// AttemptTimeout aborts a single attempt when no data arrives for
	// this long. Zero disables the watchdog.
	AttemptTimeout time.Duration `json:"attempt_timeout"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			BaseURL: "https://zenodo.org/api",
			Timeout: 15 * time.Second,
		},
		Transfer: TransferConfig{
			OutputDir:      ".",
			ChunkSize:      32 * 1024, // 32 KB copy buffer
			Workers:        1,
			RetryDelay:     3 * time.Second,
			MaxRetryDelay:  30 * time.Second,
			AttemptTimeout: 60 * time.Second,
		},
	}
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if c.Resolver.BaseURL == "" {
		return ErrInvalidResolverURL
	}
	if c.Transfer.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	if c.Transfer.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Transfer.RetryDelay <= 0 {
		return ErrInvalidRetryDelay
	}
	if c.Transfer.MaxRetryDelay < c.Transfer.RetryDelay {
		return ErrInvalidMaxRetryDelay
	}
	if c.Transfer.AttemptTimeout < 0 {
		return ErrInvalidAttemptTimeout
	}
	return nil
}
