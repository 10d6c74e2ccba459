package main

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirillkom/evidence-organizer/internal/core/classifier"
	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

type classifiedPath struct {
	Input string `json:"input"`
	domain.PathClassification
}

func newClassifyCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "classify <path>...",
		Short: "Classify upload paths the way ingestion does",
		Example: `  evidencectl classify "Sponsor/Bank/March 2024/statement.pdf"
  evidencectl classify --json applicant/passport.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := classifier.New()
			results := make([]classifiedPath, 0, len(args))
			for _, raw := range args {
				dir, file := splitUploadPath(raw)
				results = append(results, classifiedPath{Input: raw, PathClassification: c.Classify(dir, file)})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INPUT\tWHO\tTYPE\tDATE\tNAME")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Input, r.Who, r.DocumentType, r.Date, r.GeneratedName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// splitUploadPath separates the folder part from the file name. Backslashes from
// Windows uploads count as separators.
func splitUploadPath(raw string) (string, string) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/")
	dir, file := path.Split(cleaned)
	return strings.TrimSuffix(dir, "/"), file
}
