// ABOUTME: Layered configuration for transcript cleaning runs
// ABOUTME: Built-in defaults, then the TOML config file, then environment variables
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Built-in defaults
const (
	DefaultProvider       = "anthropic"
	DefaultChunkSize      = 9000
	DefaultOverlap        = 500
	DefaultContextRunes   = 500
	DefaultDelaySeconds   = 1.0
	DefaultMaxTokens      = 16000
	DefaultRequestTimeout = 300
)

// Config holds all settings for a cleaning run. Precedence is flags over
// environment variables over the config file over built-in defaults; the
// flag layer is applied by the commands.
type Config struct {
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	ChunkSize      int     `toml:"chunk_size"`
	Overlap        int     `toml:"overlap"`
	ContextRunes   int     `toml:"context_runes"`
	DelaySeconds   float64 `toml:"delay_seconds"`
	MaxTokens      int     `toml:"max_tokens"`
	RequestTimeout int     `toml:"request_timeout"`
	Glossary       string  `toml:"glossary"`

	// APIKey comes from the --api-key flag or the provider's environment
	// variable, never from the config file.
	APIKey string `toml:"-"`
}

// Default returns the built-in configuration. Model is left empty and
// resolved per provider once the provider is final.
func Default() *Config {
	return &Config{
		Provider:       DefaultProvider,
		ChunkSize:      DefaultChunkSize,
		Overlap:        DefaultOverlap,
		ContextRunes:   DefaultContextRunes,
		DelaySeconds:   DefaultDelaySeconds,
		MaxTokens:      DefaultMaxTokens,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Path returns the config file location. TRANSCRIPT_TIDY_CONFIG overrides
// it; otherwise it lives under the user config directory.
func Path() string {
	if p := os.Getenv("TRANSCRIPT_TIDY_CONFIG"); p != "" {
		return p
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "transcript-tidy", "config.toml")
}

// Load builds the effective configuration from defaults, the config file
// when one exists, and environment variables. Values are not validated
// here; commands validate after applying flag overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.Provider = getEnv("TRANSCRIPT_TIDY_PROVIDER", cfg.Provider)
	cfg.Model = getEnv("TRANSCRIPT_TIDY_MODEL", cfg.Model)
	cfg.ChunkSize = getEnvInt("TRANSCRIPT_TIDY_CHUNK_SIZE", cfg.ChunkSize)
	cfg.Overlap = getEnvInt("TRANSCRIPT_TIDY_OVERLAP", cfg.Overlap)
	cfg.DelaySeconds = getEnvFloat("TRANSCRIPT_TIDY_DELAY", cfg.DelaySeconds)
	cfg.Glossary = getEnv("TRANSCRIPT_TIDY_GLOSSARY", cfg.Glossary)
	cfg.APIKey = APIKeyFromEnv(cfg.Provider)

	return cfg, nil
}

// KeyEnvVar names the environment variable holding the API key for a provider
func KeyEnvVar(provider string) string {
	if provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

// APIKeyFromEnv returns the API key from the provider's environment variable
func APIKeyFromEnv(provider string) string {
	return os.Getenv(KeyEnvVar(provider))
}

// Delay returns the pause between service calls as a Duration
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySeconds * float64(time.Second))
}

// Timeout returns the per-request timeout as a Duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate checks the effective configuration
func (c *Config) Validate() error {
	if c.Provider != "anthropic" && c.Provider != "openai" {
		return fmt.Errorf("provider must be anthropic or openai, got %q", c.Provider)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap cannot be negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap %d must be smaller than chunk size %d", c.Overlap, c.ChunkSize)
	}
	if c.ContextRunes < 0 {
		return fmt.Errorf("context runes cannot be negative, got %d", c.ContextRunes)
	}
	if c.DelaySeconds < 0 {
		return fmt.Errorf("delay cannot be negative, got %g", c.DelaySeconds)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", c.RequestTimeout)
	}
	return nil
}

// WriteSample writes the annotated sample config to path, creating parent
// directories as needed. An existing file is never overwritten.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
