package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newBuildCommand validates the configuration, then stops: compiling
// worker handlers into deployable artifacts is the build pipeline, which
// is explicitly out of scope (spec §6 expansion).
func newBuildCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "build",
		Short:         "validate configuration for a build (provisioning is external to this core)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(rootOpts.ConfigPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration valid — not implemented: provisioning is external to this core")
			return nil
		},
	}
	return cmd
}
