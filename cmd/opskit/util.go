package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0rca-network/opskit/config"
)

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error loading config: %s\n", err)
		return nil, err
	}

	return cfg, nil
}

func validateSection(cmd *cobra.Command, name string, section any) error {
	if err := config.Validate(section); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Invalid [%s] config: %s\n", name, err)
		return err
	}

	return nil
}
