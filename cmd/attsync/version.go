package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/update"
)

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), update.VersionDisplay(version))
			if !check {
				return nil
			}

			latest, err := update.CheckForUpdate(cmd.Context(), github.ExecRunner, version, update.Repository)
			if err != nil {
				return err
			}
			if latest == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "up to date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is available\n", update.VersionDisplay(latest.TagName))
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub releases for a newer version")

	return cmd
}
