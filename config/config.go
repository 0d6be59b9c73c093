// Package config handles reading and writing ~/.reel/config.yaml and the
// token file next to it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/reel"
	"gopkg.in/yaml.v3"
)

// Generation providers.
const (
	ProviderBackend = "backend"
	ProviderGemini  = "gemini"
)

const (
	dirName    = ".reel"
	configFile = "config.yaml"
	tokensFile = "tokens.yaml"
	archiveDB  = "archive.db"
	logFile    = "reel.log"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	APIURL      string `yaml:"api_url"`
	Provider    string `yaml:"provider"` // "backend" | "gemini"
	GeminiModel string `yaml:"gemini_model"`
	ArchivePath string `yaml:"archive_path"`
	LogPath     string `yaml:"log_path"`
	RegionCode  string `yaml:"region_code"`
	MaxResults  int    `yaml:"max_results"`

	// GeminiAPIKey is only ever read from the environment.
	GeminiAPIKey string `yaml:"-"`
}

// Dir returns the per-user configuration directory, ~/.reel.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: locate home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Path returns the config file inside dir.
func Path(dir string) string { return filepath.Join(dir, configFile) }

// TokensPath returns the token file inside dir.
func TokensPath(dir string) string { return filepath.Join(dir, tokensFile) }

// Default returns a Config whose files live under dir.
func Default(dir string) *Config {
	return &Config{
		APIURL:      "http://localhost:8080",
		Provider:    ProviderBackend,
		GeminiModel: "gemini-2.5-flash",
		ArchivePath: filepath.Join(dir, archiveDB),
		LogPath:     filepath.Join(dir, logFile),
		RegionCode:  reel.DefaultRegionCode,
		MaxResults:  reel.DefaultMaxResults,
	}
}

// Read loads path over the defaults for dir. A missing file yields the
// defaults; malformed YAML is an error.
func Read(path, dir string) (*Config, error) {
	cfg := Default(dir)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Write saves cfg to path, creating the parent directory.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshalling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables looked up with
// getenv. Unset variables leave the field alone.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, "REEL_API_URL")
	set(&c.Provider, "REEL_PROVIDER")
	set(&c.GeminiModel, "REEL_GEMINI_MODEL")
	set(&c.ArchivePath, "REEL_ARCHIVE")
	set(&c.LogPath, "REEL_LOG")
	set(&c.RegionCode, "REEL_REGION")
	set(&c.GeminiAPIKey, "GEMINI_API_KEY")
	if v := getenv("REEL_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxResults = n
		}
	}
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderBackend:
		if c.APIURL == "" {
			return fmt.Errorf("config: api_url is required for the backend provider: %w", reel.ErrValidation)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config: GEMINI_API_KEY is required for the gemini provider: %w", reel.ErrValidation)
		}
	default:
		return fmt.Errorf("config: unknown provider %q: %w", c.Provider, reel.ErrValidation)
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("config: max_results must be non-negative: %w", reel.ErrValidation)
	}
	return nil
}
