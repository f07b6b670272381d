package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatstat/internal/logging"
	"github.com/ccollicutt/chatstat/pkg/config"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// Global is bound to the root command's persistent flags.
var Global = &GlobalOptions{}

// BindGlobalFlags registers the shared flags on the root command.
func BindGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&Global.ConfigPath, "config", "c", "", "Path to configuration file (optional)")
	cmd.PersistentFlags().StringVar(&Global.LogLevel, "log-level", "", "Override log level (debug|info|warn|error)")
}

// environment is the loaded configuration and logger for one command run.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadOrDefault(ctx, Global.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if Global.LogLevel != "" {
		cfg.Log.Level = Global.LogLevel
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid --log-level %q: %w", Global.LogLevel, err)
		}
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, logger: logger}, nil
}

func (e *environment) close() {
	_ = e.logger.Sync()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
