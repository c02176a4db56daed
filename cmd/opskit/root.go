package main

import (
	"github.com/spf13/cobra"

	"github.com/0rca-network/opskit/config"
	"github.com/0rca-network/opskit/internal/logger"
)

type rootOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "opskit",
		Short:         "Maintenance tasks for the cronos workspace",
		Long:          `Address migrations, .env updates, agent packaging and relayer handshake checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lggr, err := logger.NewConsole(opts.verbose)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithLogger(cmd.Context(), lggr))

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to opskit.toml (defaults to ./opskit.toml when present)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Path to the .env file holding secrets")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newMigrateAddressCmd(opts))
	cmd.AddCommand(newStandardizeCmd(opts))
	cmd.AddCommand(newSetEnvCmd(opts))
	cmd.AddCommand(newZipAgentCmd(opts))
	cmd.AddCommand(buildRelayCmd(opts))

	return cmd
}
