package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chatstat configuration file without running analysis.

Checks:
  - YAML syntax
  - Log level and format
  - Analysis views and stop-word file
  - Store backend settings
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	views := cfg.Analysis.Views
	if len(views) == 0 {
		for _, v := range analyzer.AllViews() {
			views = append(views, string(v))
		}
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Log:              %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
	fmt.Fprintf(w, "  Conversation gap: %s\n", cfg.Analysis.ConversationGap)
	fmt.Fprintf(w, "  Top words:        %d\n", cfg.Analysis.TopWords)
	fmt.Fprintf(w, "  Views:            %s\n", strings.Join(views, ", "))
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite:
		fmt.Fprintf(w, "  Store:            sqlite %s\n", cfg.Store.Path)
	default:
		fmt.Fprintf(w, "  Store:            file %s\n", cfg.Store.Dir)
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wh.Trigger, name)
		}
	}

	return nil
}
