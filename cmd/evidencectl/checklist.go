package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirillkom/evidence-organizer/internal/infrastructure/checklist/yamlfile"
)

func newChecklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Inspect route checklist definitions",
	}
	cmd.AddCommand(newChecklistValidateCmd())
	return cmd
}

func newChecklistValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a checklist YAML file, or the embedded default when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			src, err := yamlfile.Load(file)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROUTE\tEVIDENCE\tMANDATORY\tCOMBINED")
			for _, route := range src.Routes() {
				cl, err := src.Checklist(cmd.Context(), route)
				if err != nil {
					return err
				}
				mandatory := 0
				for _, ev := range cl.Evidence {
					if ev.IsMandatory {
						mandatory++
					}
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", route, len(cl.Evidence), mandatory, len(cl.Combined))
			}
			return tw.Flush()
		},
	}
}
