package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0rca-network/opskit/rewrite"
)

func newMigrateAddressCmd(root *rootOptions) *cobra.Command {
	var (
		dir      string
		oldValue string
		newValue string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "migrate-address",
		Short: "Replace a literal in every matching file under a directory",
		Long: `Walks the [migrate] root, skipping dependency and VCS directories, and replaces the old
literal with the new one in source, config and .env files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			m := cfg.Migrate
			if cmd.Flags().Changed("root") {
				m.Root = dir
			}
			if cmd.Flags().Changed("old") {
				m.OldValue = oldValue
			}
			if cmd.Flags().Changed("new") {
				m.NewValue = newValue
			}
			if err = validateSection(cmd, "migrate", m); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report, err := rewrite.ReplaceTree(cmd.Context(), rewrite.TreeOptions{
				Root:     m.Root,
				OldValue: m.OldValue,
				NewValue: m.NewValue,
				Filter:   m.Filter(),
				DryRun:   dryRun,
				DiffOut:  out,
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error migrating %s: %s\n", m.Root, err)
				return err
			}

			verb := "updated"
			if dryRun {
				verb = "would update"
			}
			fmt.Fprintf(out, "\nSuccessfully %s %d files (%d replacements).\n", verb, report.FilesUpdated(), report.Replacements)
			if failures := report.Failures(); len(failures) > 0 {
				fmt.Fprintf(out, "%d files could not be processed:\n", len(failures))
				for _, f := range failures {
					fmt.Fprintf(out, "  %s\n", f)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "root", "", "Directory to walk (overrides [migrate] root)")
	cmd.Flags().StringVar(&oldValue, "old", "", "Literal to replace (overrides [migrate] old)")
	cmd.Flags().StringVar(&newValue, "new", "", "Replacement literal (overrides [migrate] new)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print a diff instead of writing files")

	return cmd
}
