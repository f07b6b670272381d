// Package config provides configuration loading and validation for chatstat.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Log      LogConfig       `yaml:"log"`
	Analysis AnalysisConfig  `yaml:"analysis"`
	Store    StoreConfig     `yaml:"store"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" validate:"dive"`
}

// LogConfig controls operational logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is text (console) or json.
	Format string `yaml:"format" validate:"oneof=text json"`
}

// AnalysisConfig tunes the analytics views.
type AnalysisConfig struct {
	// ConversationGap is the silence that separates conversations in the
	// conversation flow view.
	ConversationGap time.Duration `yaml:"conversation_gap" validate:"gte=0"`

	// TopWords limits the word usage view.
	TopWords int `yaml:"top_words" validate:"gte=0,lte=10000"`

	// StopWordsFile replaces the built-in stop-word list when set.
	StopWordsFile string `yaml:"stop_words_file,omitempty"`

	// ExtraStopWords are added to the active stop-word list.
	ExtraStopWords []string `yaml:"extra_stop_words,omitempty"`

	// Views limits which views are computed. Empty means all.
	Views []string `yaml:"views,omitempty"`
}

// StoreBackend selects where parsed records are persisted.
type StoreBackend string

const (
	StoreBackendFile   StoreBackend = "file"
	StoreBackendSQLite StoreBackend = "sqlite"
)

// StoreConfig configures persistence of parsed records.
type StoreConfig struct {
	// Backend is file or sqlite.
	Backend StoreBackend `yaml:"backend" validate:"oneof=file sqlite"`

	// Dir is the directory used by the file backend.
	Dir string `yaml:"dir,omitempty" validate:"required_if=Backend file"`

	// Path is the database file used by the sqlite backend.
	Path string `yaml:"path,omitempty" validate:"required_if=Backend sqlite"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnData fires only when at least one message was analysed (default).
	WebhookTriggerOnData WebhookTrigger = "on_data"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" validate:"required,url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_data" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" validate:"omitempty,oneof=on_data always never"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}
