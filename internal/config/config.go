// Package config assembles runtime settings for the draftkit CLI from
// defaults, an optional JSON file and command-line flags. Later sources
// take precedence over earlier ones.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the draftkit CLI.
//
// StoragePath and HistoryPath point at the local databases (bbolt and
// sqlite). The base URL overrides exist for proxies and tests; empty means
// the provider default. PassphraseFile, when set, names a file whose first
// line unlocks the key store.
type Config struct {
	StoragePath    string
	HistoryPath    string
	OpenAIBaseURL  string
	GeminiBaseURL  string
	RequestTimeout time.Duration
	PassphraseFile string
	LogLevel       string
	HistoryKeep    int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir := defaultDataDir()
	c.StoragePath = filepath.Join(dir, "vault.db")
	c.HistoryPath = filepath.Join(dir, "history.db")
	c.RequestTimeout = 120 * time.Second
	c.LogLevel = "info"
	c.HistoryKeep = 50
}

// defaultDataDir resolves the per-user data directory, falling back to the
// current directory when the home directory is unknown.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".draftkit")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
