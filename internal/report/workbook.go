package report

import (
	"os"
	"path/filepath"
	"time"

	"github.com/paveg/salesreport/internal/errors"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// WriteWorkbook saves the run summary and every table to an Excel workbook,
// one sheet per table after the Summary sheet.
func WriteWorkbook(path string, summary *Summary, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeWorkbook(f, summary, tables); err != nil {
		return errors.NewRenderError("WriteWorkbook", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewRenderError("WriteWorkbook", path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewRenderError("WriteWorkbook", path, err)
	}
	log.Infof("wrote workbook %s with %d sheets", path, len(tables)+1)
	return nil
}

func writeWorkbook(f *excelize.File, summary *Summary, tables []Table) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeSummary(f, bold, summary); err != nil {
		return err
	}

	for _, t := range tables {
		if _, err := f.NewSheet(t.Sheet); err != nil {
			return err
		}
		if err := writeTable(f, bold, percent, t); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, bold int, s *Summary) error {
	rows := [][]any{
		{"Run ID", s.RunID},
		{"Version", s.Version},
		{"Input", s.Input},
		{"Rows", s.Rows},
		{"Columns", s.Columns},
		{"AdSource values filled", s.FilledAdSource},
		{"Started", s.Started.Format(time.RFC3339)},
		{"Duration", s.Duration.String()},
		{"Chart directory", s.ChartDir},
	}
	for i, chart := range s.Charts {
		label := ""
		if i == 0 {
			label = "Charts"
		}
		rows = append(rows, []any{label, chart})
	}
	for _, step := range s.Steps {
		rows = append(rows, []any{"Step " + step.Step, step.Duration.String()})
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(1, len(rows))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 60)
}

func writeTable(f *excelize.File, bold, percent int, t Table) error {
	for c, h := range t.Header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.Sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(t.Sheet, cell, cell, bold); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if p, ok := v.(Percent); ok {
				if err := f.SetCellValue(t.Sheet, cell, float64(p)); err != nil {
					return err
				}
				if err := f.SetCellStyle(t.Sheet, cell, cell, percent); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellValue(t.Sheet, cell, v); err != nil {
				return err
			}
		}
	}

	last, err := excelize.ColumnNumberToName(max(len(t.Header), 1))
	if err != nil {
		return err
	}
	return f.SetColWidth(t.Sheet, "A", last, 22)
}
