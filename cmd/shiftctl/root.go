package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "shiftctl",
		Short:        "Overtime shift upload tools",
		SilenceUsage: true,
	}
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newCreateUserCmd())
	return cmd
}
