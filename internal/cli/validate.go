package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riverflow-io/riverflow/internal/config"
)

// newValidateCommand loads and validates the application configuration,
// reporting the schema error verbatim on failure.
func newValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "validate the application configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s@%s: %d component(s), %d role(s) — valid\n", cfg.Name, cfg.Version, len(cfg.Components), len(cfg.Roles))
			return nil
		},
	}
	return cmd
}

func loadConfig(path string) (config.AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return config.Parse(raw)
}
