package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evidencectl",
		Short:         "Operator tooling for the evidence organizer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newClassifyCmd(), newChecklistCmd(), newExportCmd())
	return root
}
