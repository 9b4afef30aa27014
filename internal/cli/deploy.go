package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeployCommand validates the configuration, then stops: publishing
// the resource map and running the switchover sequence against a real
// cloud account is the deploy driver, which is explicitly out of scope
// (spec §6 expansion). internal/switchover implements the sequence a
// real deploy driver would call into.
func newDeployCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deploy",
		Short:         "validate configuration for a deploy (provisioning is external to this core)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			if cfg.Deployment.SkipDeploy {
				fmt.Fprintln(cmd.OutOrStdout(), "configuration valid — deployment.skipDeploy is set, nothing to do")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration valid — not implemented: provisioning is external to this core")
			return nil
		},
	}
	return cmd
}
