package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0rca-network/opskit/rewrite"
)

func newStandardizeCmd(root *rootOptions) *cobra.Command {
	var (
		files    []string
		oldValue string
		newValue string
	)

	cmd := &cobra.Command{
		Use:   "standardize",
		Short: "Replace a literal in a fixed list of files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			s := cfg.Standardize
			if cmd.Flags().Changed("file") {
				s.Files = files
			}
			if cmd.Flags().Changed("old") {
				s.OldValue = oldValue
			}
			if cmd.Flags().Changed("new") {
				s.NewValue = newValue
			}
			if err = validateSection(cmd, "standardize", s); err != nil {
				return err
			}

			outcomes, err := rewrite.ReplaceInFiles(cmd.Context(), s.Files, s.OldValue, s.NewValue)
			for _, o := range outcomes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", o.Path, o.Outcome)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error standardizing files: %s\n", err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&files, "file", nil, "File to update, repeatable (overrides [standardize] files)")
	cmd.Flags().StringVar(&oldValue, "old", "", "Literal to replace (overrides [standardize] old)")
	cmd.Flags().StringVar(&newValue, "new", "", "Replacement literal (overrides [standardize] new)")

	return cmd
}
