package load

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("Expected sheet rename to succeed, got %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("Expected sheet creation to succeed, got %v", err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("Expected cell name, got %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("Expected row write to succeed, got %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Expected workbook save to succeed, got %v", err)
	}
	return path
}

func TestLoader_WorkbookFirstSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Pacientes": {
			{"rut", "nombres"},
			{"12.345.678-9", "Ana"},
			{"9.876.543-2", "Ben"},
		},
	})

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", ds.Len())
	}
	if ds.Sheet != "Pacientes" {
		t.Errorf("Expected sheet Pacientes, got %q", ds.Sheet)
	}
	if ds.Rows[0]["nombres"] != "Ana" {
		t.Errorf("Expected Ana, got %q", ds.Rows[0]["nombres"])
	}
}

func TestLoader_WorkbookNamedSheetMissing(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Pacientes": {{"rut"}, {"1-9"}},
	})

	_, err := newTestLoader(nil).Load(path, Options{Sheet: "Inexistente", HeaderRow: -1})
	if err == nil {
		t.Fatal("Expected error for missing sheet, got nil")
	}
	if !strings.Contains(err.Error(), "available") {
		t.Errorf("Expected the error to list available sheets, got %v", err)
	}
}

func TestLoader_WorkbookAllSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Enero": {
			{"rut", "nombres"},
			{"1-9", "Ana"},
		},
		"Febrero": {
			{"rut", "comuna"},
			{"2-7", "Macul"},
		},
	})

	ds, err := newTestLoader(nil).Load(path, Options{Sheet: SheetAll, HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ds.Len() != 2 {
		t.Errorf("Expected rows from both sheets, got %d", ds.Len())
	}
	// Union of columns in first-seen order, absent cells empty.
	for _, col := range []string{"rut", "nombres", "comuna"} {
		if !ds.HasColumn(col) {
			t.Errorf("Expected merged column %q, got %v", col, ds.Columns)
		}
	}
	if ds.Sheet != SheetAll {
		t.Errorf("Expected sheet %q, got %q", SheetAll, ds.Sheet)
	}
}

func TestLoader_Sheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Unica": {{"rut"}, {"1-9"}},
	})

	sheets, err := newTestLoader(nil).Sheets(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(sheets) != 1 || sheets[0] != "Unica" {
		t.Errorf("Expected [Unica], got %v", sheets)
	}
}
