package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// sheetNameLimit is the hard cap Excel places on sheet names.
const sheetNameLimit = 31

// RenderXLSX writes one workbook: a findings sheet followed by one sheet
// per non-empty row set, with the identity key column stripped. Styling is
// deliberately absent; downstream consumers own presentation.
func (r *Renderer) RenderXLSX(rep *model.Report, sets []RowSet, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const findingsSheet = "Findings"
	if err := f.SetSheetName("Sheet1", findingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []interface{}{"Category", "Dataset", "Count", "Reference total", "Percentage", "Severity", "Observation"}
	if err := f.SetSheetRow(findingsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write findings header: %w", err)
	}
	for i, fd := range rep.Findings {
		row := []interface{}{string(fd.Category), fd.Dataset, fd.Count, fd.ReferenceTotal,
			fmt.Sprintf("%.2f%%", fd.Percentage), string(fd.Severity), fd.Observation}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("findings row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(findingsSheet, cell, &row); err != nil {
			return fmt.Errorf("write findings row: %w", err)
		}
	}

	used := map[string]struct{}{findingsSheet: {}}
	for _, set := range sets {
		if len(set.Rows) == 0 {
			continue
		}
		if err := r.writeRowSet(f, set, sheetName(set.Title, used)); err != nil {
			return fmt.Errorf("sheet %q: %w", set.Title, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) writeRowSet(f *excelize.File, set RowSet, name string) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	cols := exportColumns(set.Columns)
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for i, row := range set.Rows {
		values := make([]interface{}, len(cols))
		for j, c := range cols {
			values[j] = r.cell(set, c, row[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// sheetName fits a title into Excel's sheet name limit without splitting
// multi-byte runes, and disambiguates titles whose truncated forms collide.
// The used set carries names already claimed in the workbook.
func sheetName(title string, used map[string]struct{}) string {
	base := []rune(title)
	if len(base) > sheetNameLimit {
		base = base[:sheetNameLimit]
	}
	name := string(base)
	for n := 2; ; n++ {
		if _, taken := used[name]; !taken {
			break
		}
		suffix := fmt.Sprintf("_%d", n)
		keep := base
		if len(keep)+len(suffix) > sheetNameLimit {
			keep = keep[:sheetNameLimit-len(suffix)]
		}
		name = string(keep) + suffix
	}
	used[name] = struct{}{}
	return name
}
