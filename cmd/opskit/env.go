package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0rca-network/opskit/rewrite"
)

func newSetEnvCmd(root *rootOptions) *cobra.Command {
	var file, key, value string

	cmd := &cobra.Command{
		Use:   "set-env",
		Short: "Rewrite the KEY=value line of a .env file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			e := cfg.Env
			if cmd.Flags().Changed("file") {
				e.File = file
			}
			if cmd.Flags().Changed("key") {
				e.Key = key
			}
			if cmd.Flags().Changed("value") {
				e.Value = value
			}
			if err = validateSection(cmd, "env", e); err != nil {
				return err
			}

			n, err := rewrite.SetEnvValue(cmd.Context(), e.File, e.Key, e.Value)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error updating %s: %s\n", e.File, err)
				return err
			}

			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s not present in %s, nothing to update\n", e.Key, e.File)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", e.Key, e.File)

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Env file to update (overrides [env] file)")
	cmd.Flags().StringVar(&key, "key", "", "Key to set (overrides [env] key)")
	cmd.Flags().StringVar(&value, "value", "", "New value (overrides [env] value)")

	return cmd
}
