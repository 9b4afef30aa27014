// Package cli implements the rivulet-ctl command skeleton (spec §6
// expansion): it validates an AppConfig document and stops, since the
// build pipeline, IaC generator, and deploy driver that would follow are
// explicitly out of scope for this core.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand builds the rivulet-ctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rivulet-ctl",
		Short: "rivulet-ctl validates and (eventually) deploys a riverflow application",
		Long: `rivulet-ctl is the operator-facing entry point for an application's
build/deploy lifecycle. This skeleton validates the application
configuration against its schema; the provisioning steps that would turn
a validated config into a running deployment are out of this core's
scope.`,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config-path", "rivulet.yaml", "path to the application configuration document")

	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newBuildCommand(opts))
	cmd.AddCommand(newDeployCommand(opts))

	return cmd
}
