package load

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Stromjold/Sistem-Cesfam/internal/cache"
	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Expected temp file write to succeed, got %v", err)
	}
	return path
}

func newTestLoader(c cache.Cache) *Loader {
	return NewLoader(model.DefaultConfig().Load, c, false)
}

func TestLoader_CSV(t *testing.T) {
	path := writeTemp(t, "a.csv", []byte("rut,nombres\n12.345.678-9,Ana\n9.876.543-2,Ben\n"))

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ds.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", ds.Len())
	}
	if len(ds.Columns) != 2 || ds.Columns[0] != "rut" {
		t.Errorf("Expected columns [rut nombres], got %v", ds.Columns)
	}
	if ds.Rows[0]["nombres"] != "Ana" {
		t.Errorf("Expected Ana, got %q", ds.Rows[0]["nombres"])
	}
	if ds.Name != "a" {
		t.Errorf("Expected dataset name a, got %q", ds.Name)
	}
}

func TestLoader_SemicolonDelimiter(t *testing.T) {
	path := writeTemp(t, "b.csv", []byte("rut;nombres;comuna\n1-9;Ana;Ñuñoa\n"))

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(ds.Columns) != 3 {
		t.Errorf("Expected 3 columns from semicolon sniffing, got %v", ds.Columns)
	}
	if ds.Rows[0]["comuna"] != "Ñuñoa" {
		t.Errorf("Expected Ñuñoa, got %q", ds.Rows[0]["comuna"])
	}
}

func TestLoader_TSV(t *testing.T) {
	path := writeTemp(t, "c.tsv", []byte("rut\tnombres\n1-9\tAna\n"))

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ds.Columns) != 2 || ds.Rows[0]["nombres"] != "Ana" {
		t.Errorf("Expected tab-separated parse, got columns %v rows %v", ds.Columns, ds.Rows)
	}
}

func TestLoader_HeaderBelowTitleRows(t *testing.T) {
	content := "Listado general,,\n,,\n,,\nrut,nombres,comuna\n1-9,Ana,Macul\n"
	path := writeTemp(t, "d.csv", []byte(content))

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ds.HeaderRow != 3 {
		t.Errorf("Expected header detected at row 3, got %d", ds.HeaderRow)
	}
	if ds.Len() != 1 {
		t.Errorf("Expected the title rows excluded, got %d rows", ds.Len())
	}
	if ds.Rows[0]["rut"] != "1-9" {
		t.Errorf("Expected rut cell 1-9, got %q", ds.Rows[0]["rut"])
	}
}

func TestLoader_DeclaredHeaderRow(t *testing.T) {
	content := "ignored,line\nrut,nombres\n1-9,Ana\n"
	path := writeTemp(t, "e.csv", []byte(content))

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: 1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ds.HeaderRow != 1 || ds.Len() != 1 {
		t.Errorf("Expected declared header row honored, got row %d with %d rows", ds.HeaderRow, ds.Len())
	}
}

func TestLoader_DeclaredHeaderBeyondScanWindow(t *testing.T) {
	// A declared header row deeper than the auto-detection window must
	// still be reachable; the window only bounds detection.
	var sb strings.Builder
	for i := 0; i < 25; i++ {
		sb.WriteString("nota administrativa\n")
	}
	sb.WriteString("rut,nombres\n")
	sb.WriteString("1-9,Ana\n")
	path := writeTemp(t, "deep.csv", []byte(sb.String()))

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: 25})
	if err != nil {
		t.Fatalf("Expected deep declared header to load, got %v", err)
	}
	if ds.HeaderRow != 25 {
		t.Errorf("Expected header row 25, got %d", ds.HeaderRow)
	}
	if len(ds.Columns) != 2 || ds.Columns[0] != "rut" {
		t.Errorf("Expected columns [rut nombres], got %v", ds.Columns)
	}
	if ds.Len() != 1 || ds.Rows[0]["nombres"] != "Ana" {
		t.Errorf("Expected single data row, got %v", ds.Rows)
	}
}

func TestLoader_DeclaredHeaderBeyondEOF(t *testing.T) {
	path := writeTemp(t, "short.csv", []byte("rut\n1-9\n"))

	_, err := newTestLoader(nil).Load(path, Options{HeaderRow: 40})
	if err == nil {
		t.Fatal("Expected error for declared header past end of file, got nil")
	}
	if !strings.Contains(err.Error(), "beyond input") {
		t.Errorf("Expected beyond-input error, got %v", err)
	}
}

func TestLoader_RaggedRows(t *testing.T) {
	content := "rut,nombres,comuna\n1-9,Ana\n2-7,Ben,Macul,extra\n"
	path := writeTemp(t, "f.csv", []byte(content))

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected ragged rows to parse, got %v", err)
	}

	if ds.Rows[0]["comuna"] != "" {
		t.Errorf("Expected missing cell padded empty, got %q", ds.Rows[0]["comuna"])
	}
	if ds.Rows[1]["comuna"] != "Macul" {
		t.Errorf("Expected surplus cell dropped but named cells kept, got %q", ds.Rows[1]["comuna"])
	}
}

func TestLoader_Windows1252Fallback(t *testing.T) {
	// "Muñoz" in Windows-1252: ñ is byte 0xF1, invalid as UTF-8.
	content := []byte("rut,apellido paterno\n1-9,Mu\xf1oz\n")
	path := writeTemp(t, "g.csv", content)

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := ds.Rows[0]["apellido paterno"]; got != "Muñoz" {
		t.Errorf("Expected Windows-1252 decode to Muñoz, got %q", got)
	}
}

func TestLoader_UTF8BOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("rut,nombres\n1-9,José\n")...)
	path := writeTemp(t, "h.csv", content)

	ds, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ds.Columns[0] != "rut" {
		t.Errorf("Expected BOM stripped from first header, got %q", ds.Columns[0])
	}
	if ds.Rows[0]["nombres"] != "José" {
		t.Errorf("Expected José, got %q", ds.Rows[0]["nombres"])
	}
}

func TestLoader_EmptyFile(t *testing.T) {
	path := writeTemp(t, "i.csv", nil)

	_, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err == nil {
		t.Fatal("Expected error for empty input, got nil")
	}
	if !strings.Contains(err.Error(), "empty input") {
		t.Errorf("Expected empty-input error, got %v", err)
	}
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "j.pdf", []byte("%PDF"))

	_, err := newTestLoader(nil).Load(path, Options{HeaderRow: -1})
	if err == nil {
		t.Fatal("Expected error for unsupported type, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("Expected unsupported-type error, got %v", err)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := newTestLoader(nil).Load(filepath.Join(t.TempDir(), "nope.csv"), Options{HeaderRow: -1})
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestLoader_CacheHitSurvivesKeyAssignment(t *testing.T) {
	path := writeTemp(t, "k.csv", []byte("rut,nombres\n1-9,Ana\n"))
	c := cache.NewMemoryCache(0, 0)
	l := newTestLoader(c)

	first, err := l.Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Mutate the first parse the way the key builder does.
	if err := first.AssignKeys([]string{"19"}); err != nil {
		t.Fatalf("Expected key assignment to succeed, got %v", err)
	}

	second, err := l.Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error on cached load, got %v", err)
	}
	if second.Keyed() {
		t.Error("Expected cached parse to come back without keys")
	}
	if second.Len() != 1 || second.Rows[0]["nombres"] != "Ana" {
		t.Errorf("Expected pristine cached rows, got %v", second.Rows)
	}
}

func TestLoader_BlockReadingMatchesWholeRead(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("rut,nombres\n")
	for i := 0; i < 250; i++ {
		sb.WriteString("1-9,Ana\n")
	}
	path := writeTemp(t, "l.csv", []byte(sb.String()))

	cfg := model.DefaultConfig().Load
	cfg.BlockRows = 100 // force several block flushes
	ds, err := NewLoader(cfg, nil, false).Load(path, Options{HeaderRow: -1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ds.Len() != 250 {
		t.Errorf("Expected 250 rows across blocks, got %d", ds.Len())
	}
}
