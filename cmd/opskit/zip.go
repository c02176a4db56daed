package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0rca-network/opskit/archive"
)

func newZipAgentCmd(root *rootOptions) *cobra.Command {
	var source, output string

	cmd := &cobra.Command{
		Use:   "zip-agent",
		Short: "Package the agent starter folder into a zip archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			a := cfg.Archive
			if cmd.Flags().Changed("source") {
				a.Source = source
			}
			if cmd.Flags().Changed("output") {
				a.Output = output
			}
			if err = validateSection(cmd, "archive", a); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zipping %s...\n", a.Source)

			report, err := archive.ZipDir(cmd.Context(), a.Options())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error creating archive: %s\n", err)
				return err
			}

			fmt.Fprintf(out, "ZIP created at %s\n", report.Path)
			fmt.Fprintf(out, "Entries: %d\n", len(report.Entries))
			fmt.Fprintf(out, "Size: %d bytes\n", report.Size)

			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Folder to package (overrides [archive] source)")
	cmd.Flags().StringVar(&output, "output", "", "Archive path (overrides [archive] output)")

	return cmd
}
