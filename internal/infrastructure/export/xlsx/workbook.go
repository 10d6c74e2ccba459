// Package xlsx renders the case overview as a spreadsheet for caseworkers who file
// bundles outside the organizer.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/evidence-organizer/internal/core/organizer"
)

const (
	GroupsSheet   = "Groups"
	EvidenceSheet = "Evidence"
	CombinedSheet = "Combined"
)

var (
	groupsHeader   = []any{"Group", "Tag", "Status", "Files", "Pages", "Needs confirmation", "File names"}
	evidenceHeader = []any{"Evidence", "Mandatory", "Uploaded", "Linked group", "Group status"}
	combinedHeader = []any{"Combined group", "Relationship", "Members", "Complete", "Pending review"}
)

// WriteEvidenceIndex writes the overview as an .xlsx workbook with one sheet each
// for groups, evidence slots and combined groups. Removed files are left out.
func WriteEvidenceIndex(w io.Writer, ov organizer.Overview) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", GroupsSheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{EvidenceSheet, CombinedSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	groupRows := make([][]any, 0, len(ov.Groups))
	for _, g := range ov.Groups {
		names := make([]string, 0, len(g.Files))
		for _, file := range g.ActiveFiles() {
			names = append(names, file.Name)
		}
		groupRows = append(groupRows, []any{
			g.DisplayName, g.Tag, string(g.Status), g.FileCount, g.PageCount, yesNo(g.RequiresConfirmation), strings.Join(names, "\n"),
		})
	}
	if err := writeSheet(f, GroupsSheet, headerStyle, groupsHeader, groupRows); err != nil {
		return err
	}

	evidenceRows := make([][]any, 0, len(ov.Evidence))
	for _, ev := range ov.Evidence {
		evidenceRows = append(evidenceRows, []any{
			ev.Name, yesNo(ev.IsMandatory), yesNo(ev.IsUploaded), ev.LinkedGroupTitle, string(ev.LinkedGroupStatus),
		})
	}
	if err := writeSheet(f, EvidenceSheet, headerStyle, evidenceHeader, evidenceRows); err != nil {
		return err
	}

	combinedRows := make([][]any, 0, len(ov.Combined))
	for _, cv := range ov.Combined {
		combinedRows = append(combinedRows, []any{
			cv.Name, string(cv.Relationship), strings.Join(cv.EvidenceIDs, ", "), yesNo(cv.Complete), yesNo(cv.PendingReview),
		})
	}
	if err := writeSheet(f, CombinedSheet, headerStyle, combinedHeader, combinedRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolve %s cell: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("resolve %s width: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 24); err != nil {
		return fmt.Errorf("size %s columns: %w", sheet, err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
