package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration.
const (
	DefaultConversationGap = 60 * time.Minute
	DefaultTopWords        = 100
	DefaultWebhookTimeout  = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultSQLiteFile      = "chatstat.db"
)

// Environment variable names.
const (
	EnvLogLevel     = "CHATSTAT_LOG_LEVEL"
	EnvStoreBackend = "CHATSTAT_STORE_BACKEND"
	EnvStoreDir     = "CHATSTAT_STORE_DIR"
	EnvStorePath    = "CHATSTAT_STORE_PATH"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dir := filepath.Join(os.TempDir(), "chatstat")
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Analysis: AnalysisConfig{
			ConversationGap: DefaultConversationGap,
			TopWords:        DefaultTopWords,
		},
		Store: StoreConfig{
			Backend: StoreBackendFile,
			Dir:     dir,
			Path:    filepath.Join(dir, DefaultSQLiteFile),
		},
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvironmentOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if backend := os.Getenv(EnvStoreBackend); backend != "" {
		c.Store.Backend = StoreBackend(backend)
	}
	if dir := os.Getenv(EnvStoreDir); dir != "" {
		c.Store.Dir = dir
	}
	if path := os.Getenv(EnvStorePath); path != "" {
		c.Store.Path = path
	}
}
