package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when set, and otherwise returns validated
// defaults with environment overrides applied.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	cfg := DefaultConfig()
	cfg.ApplyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and fills webhook defaults.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return describeValidationError(err)
	}

	for _, name := range cfg.Analysis.Views {
		if _, ok := analyzer.ParseView(name); !ok {
			return fmt.Errorf("analysis.views: unknown view %q", name)
		}
	}

	if f := cfg.Analysis.StopWordsFile; f != "" {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("analysis.stop_words_file: %w", err)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

// describeValidationError turns the first validator failure into a message
// naming the offending YAML path.
func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() != "" {
		return fmt.Errorf("%s: failed %q (%s), got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s: failed %q, got %v", field, fe.Tag(), fe.Value())
}

func validateWebhook(wh *WebhookConfig) error {
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger == "" {
		wh.Trigger = WebhookTriggerOnData
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}

	return s
}

// ParseViews converts configured view names, failing on unknown names.
func (a AnalysisConfig) ParseViews() ([]analyzer.View, error) {
	views := make([]analyzer.View, 0, len(a.Views))
	for _, name := range a.Views {
		v, ok := analyzer.ParseView(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", analyzer.ErrUnknownView, name)
		}
		views = append(views, v)
	}
	return views, nil
}

// StopWords builds the active stop-word set.
func (a AnalysisConfig) StopWords() (analyzer.StopWords, error) {
	sw := analyzer.DefaultStopWords()
	if a.StopWordsFile != "" {
		f, err := os.Open(a.StopWordsFile) // #nosec G304 -- user-provided path is expected
		if err != nil {
			return nil, fmt.Errorf("opening stop words: %w", err)
		}
		defer f.Close()
		if sw, err = analyzer.LoadStopWords(f); err != nil {
			return nil, err
		}
	}
	return sw.Merge(a.ExtraStopWords...), nil
}
