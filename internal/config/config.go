// Package config provides configuration management for the SmartClip server.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// Default values
	DefaultPort        = 8787
	DefaultLogLevel    = "info"
	DefaultDataDir     = ".smartclip"
	DefaultCORSOrigins = "http://localhost:3000"
	DefaultSimStepMS   = 400
	DefaultMaxActive   = 2

	// Environment variable names
	EnvPort        = "SMARTCLIP_PORT"
	EnvLogLevel    = "SMARTCLIP_LOG_LEVEL"
	EnvDataDir     = "SMARTCLIP_DATA_DIR"
	EnvHeadless    = "SMARTCLIP_HEADLESS"
	EnvCORSOrigins = "SMARTCLIP_CORS_ORIGINS"
	EnvSimStepMS   = "SMARTCLIP_SIM_STEP_MS"
	EnvMaxActive   = "SMARTCLIP_MAX_ACTIVE"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	OutputDir() string
	UploadsDir() string
	Headless() bool
	CORSOrigins() []string
	SimStepDelay() time.Duration
	MaxActive() int
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port      int
	logLevel  string
	dataDir   string
	headless  bool
	origins   []string
	stepDelay time.Duration
	maxActive int
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		dataDir:   defaultDataDir(),
		origins:   splitOrigins(DefaultCORSOrigins),
		stepDelay: DefaultSimStepMS * time.Millisecond,
		maxActive: DefaultMaxActive,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	if co := os.Getenv(EnvCORSOrigins); co != "" {
		cfg.origins = splitOrigins(co)
	}

	if ms := os.Getenv(EnvSimStepMS); ms != "" {
		step, err := strconv.Atoi(ms)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvSimStepMS, err)
		}
		if step < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", EnvSimStepMS)
		}
		cfg.stepDelay = time.Duration(step) * time.Millisecond
	}

	if ma := os.Getenv(EnvMaxActive); ma != "" {
		maxActive, err := strconv.Atoi(ma)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvMaxActive, err)
		}
		if maxActive < 1 {
			return nil, fmt.Errorf("invalid %s: must be at least 1", EnvMaxActive)
		}
		cfg.maxActive = maxActive
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// OutputDir returns the directory holding per-job artifacts
func (c *EnvConfig) OutputDir() string {
	return filepath.Join(c.dataDir, "output")
}

// UploadsDir returns the directory holding stored upload sources
func (c *EnvConfig) UploadsDir() string {
	return filepath.Join(c.dataDir, "uploads")
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// CORSOrigins returns the browser origins allowed to call the API
func (c *EnvConfig) CORSOrigins() []string {
	return c.origins
}

// SimStepDelay returns the pause between simulated processing stages
func (c *EnvConfig) SimStepDelay() time.Duration {
	return c.stepDelay
}

// MaxActive returns how many jobs may process concurrently
func (c *EnvConfig) MaxActive() int {
	return c.maxActive
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return filepath.Join(DefaultDataDir, "server")
	}
	return filepath.Join(home, DefaultDataDir, "server")
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
