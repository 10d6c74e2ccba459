package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/core/organizer"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/export/xlsx"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <snapshot.json>",
		Short: "Render a saved workspace snapshot as an evidence index workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			var ws domain.Workspace
			if err := json.Unmarshal(raw, &ws); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			if ws.CaseID == "" {
				return fmt.Errorf("snapshot %s has no case_id", args[0])
			}
			if out == "" {
				out = ws.CaseID + "-evidence-index.xlsx"
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create workbook: %w", err)
			}
			if err := xlsx.WriteEvidenceIndex(f, organizer.BuildOverview(ws)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <case_id>-evidence-index.xlsx)")
	return cmd
}
