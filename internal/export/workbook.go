package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

// Workbook builds the two-sheet spreadsheet for sessions. The caller owns the
// returned file and must Close it.
func Workbook(sessions []count.CountSession, opts Options) (*excelize.File, error) {
	rep, err := build(sessions, opts)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := fillWorkbook(f, rep); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WriteWorkbook writes the spreadsheet for sessions to w.
func WriteWorkbook(w io.Writer, sessions []count.CountSession, opts Options) error {
	f, err := Workbook(sessions, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func fillWorkbook(f *excelize.File, rep *report.Report) error {
	if err := f.SetSheetName(f.GetSheetName(0), CountsSheet); err != nil {
		return fmt.Errorf("naming counts sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("adding summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	counts := [][]any{toAny(CountHeaders)}
	for _, row := range rep.Rows() {
		counts = append(counts, []any{
			row.Date, row.Counter, row.Environment, row.SessionOrdinal, row.EventNumber,
			row.Minor, row.Major, row.Total, row.StartTime, row.EndTime, row.Duration,
		})
	}
	if err := writeSheet(f, CountsSheet, counts, countWidths, headerStyle); err != nil {
		return err
	}

	summary := [][]any{toAny(SummaryHeaders)}
	for _, g := range rep.Groups {
		summary = append(summary, []any{
			strings.ToUpper(g.Group.Environment),
			g.Totals.TotalMinor, g.Totals.TotalMajor, g.Totals.TotalGeral,
			g.Totals.Counters, g.Totals.Rows,
		})
	}
	grand := rep.GrandTotal
	summary = append(summary, []any{
		GrandTotalLabel,
		grand.TotalMinor, grand.TotalMajor, grand.TotalGeral,
		grand.Counters, grand.Rows,
	})
	if err := writeSheet(f, SummarySheet, summary, summaryWidths, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, widths []float64, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
