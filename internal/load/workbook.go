package load

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// Sheets lists the sheet names of a workbook.
func (l *Loader) Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// loadWorkbook reads one sheet, or every sheet concatenated when opts.Sheet
// is SheetAll. All cells come back as formatted text, so leading zeros and
// checksum letters survive.
func (l *Loader) loadWorkbook(path string, opts Options) (*model.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	if opts.Sheet == SheetAll {
		parts := make([]*model.Dataset, 0, len(sheets))
		for _, sheet := range sheets {
			part, err := l.loadSheet(f, path, sheet, opts.HeaderRow)
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet, err)
			}
			if part.Len() == 0 && len(part.Columns) == 0 {
				continue // skip empty sheets, matching single-sheet behavior elsewhere
			}
			if l.verbose {
				fmt.Fprintf(os.Stderr, "  loaded sheet %q: %d rows\n", sheet, part.Len())
			}
			parts = append(parts, part)
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("every sheet is empty")
		}
		merged := mergeDatasets(parts)
		merged.Name = datasetName(path)
		merged.Path = path
		merged.Sheet = SheetAll
		return merged, nil
	}

	sheet := opts.Sheet
	if sheet == "" {
		sheet = sheets[0]
	}
	found := false
	for _, s := range sheets {
		if s == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("sheet %q not found (available: %v)", sheet, sheets)
	}
	return l.loadSheet(f, path, sheet, opts.HeaderRow)
}

func (l *Loader) loadSheet(f *excelize.File, path, sheet string, headerRow int) (*model.Dataset, error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	ds := &model.Dataset{Name: datasetName(path), Path: path, Sheet: sheet}
	if len(raw) == 0 {
		return ds, nil
	}

	headerIdx := headerRow
	if headerIdx < 0 {
		scan := l.cfg.HeaderScanRows
		if scan <= 0 {
			scan = 20
		}
		headerIdx = detectHeader(raw, l.keywords, scan, l.cfg.DensityScanRows)
	}
	if headerIdx >= len(raw) {
		return nil, fmt.Errorf("declared header row %d beyond sheet", headerIdx)
	}

	cols := headerColumns(raw[headerIdx])
	ds.HeaderRow = headerIdx
	ds.Columns = cols
	for _, rec := range raw[headerIdx+1:] {
		ds.Rows = append(ds.Rows, recordToRow(cols, rec))
	}
	return ds, nil
}

// mergeDatasets concatenates sheet datasets in order, taking the union of
// their columns in first-seen order. Cells a sheet lacks become empty.
func mergeDatasets(parts []*model.Dataset) *model.Dataset {
	out := &model.Dataset{HeaderRow: parts[0].HeaderRow}
	seen := make(map[string]struct{})
	for _, p := range parts {
		for _, c := range p.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, p := range parts {
		for _, r := range p.Rows {
			row := make(model.Row, len(out.Columns))
			for _, c := range out.Columns {
				row[c] = r[c]
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
