package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

func testReport() *model.Report {
	return &model.Report{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		DatasetA: model.DatasetSummary{Name: "padron", Rows: 3, Columns: 2, HeaderRow: 0,
			Quality: model.NewKeyQuality(3, 3)},
		DatasetB: model.DatasetSummary{Name: "sistema", Rows: 2, Columns: 2, HeaderRow: 0,
			Quality: model.NewKeyQuality(2, 2)},
		StrategyA: model.KeyStrategy{Kind: model.StrategyIdentifier, Description: "identifier column \"rut\"", Columns: []string{"rut"}},
		StrategyB: model.KeyStrategy{Kind: model.StrategyIdentifier, Description: "identifier column \"rut\"", Columns: []string{"rut"}},
		Match:     model.MatchSummary{CommonKeys: 1, OnlyInA: 2, OnlyInB: 1},
		DuplicatesA: model.DuplicateSummary{Rows: 2, Keys: 1, MaxGroupSize: 2,
			TopKeys: []model.KeyCount{{Key: "123456789", Count: 2}}},
		IncompleteB: model.CompletenessSummary{Rows: 1,
			ColumnGaps: []model.ColumnGap{{Column: "comuna", Empty: 1, Percentage: 50}}},
		Findings: []model.Finding{
			{Category: model.CategoryMissingInOther, Dataset: "sistema", Count: 2,
				ReferenceTotal: 3, Percentage: 66.7, Severity: model.SeverityNormal,
				Observation: "records present in padron but absent from sistema"},
		},
		Warnings: []string{"low-confidence key for \"sistema\""},
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewRenderer(true).RenderJSON(testReport(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected report file, got %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded.DatasetA.Name != "padron" || decoded.Match.OnlyInA != 2 {
		t.Errorf("Expected report fields to survive, got %+v", decoded)
	}
	if len(decoded.Findings) != 1 || decoded.Findings[0].Category != model.CategoryMissingInOther {
		t.Errorf("Expected findings preserved, got %+v", decoded.Findings)
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(true).RenderMarkdown(testReport(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected report file, got %v", err)
	}
	md := string(data)

	for _, fragment := range []string{
		"# Registry Comparison Report",
		"| padron | 3 | 2 |",
		"- Common records: **1**",
		"| missing_in_other | sistema | 2 | 3 | 66.7% | normal |",
		"### Duplicates in padron",
		"| 123456789 | 2 |",
		"### Empty cells in sistema",
		"| comuna | 1 | 50.00% |",
		"low-confidence key",
	} {
		if !strings.Contains(md, fragment) {
			t.Errorf("Expected markdown to contain %q", fragment)
		}
	}
}

func TestRenderMarkdown_KeySeparatorEscaped(t *testing.T) {
	rep := testReport()
	rep.DuplicatesA.TopKeys = []model.KeyCount{{Key: "ANA|PÉREZ|SOTO", Count: 2}}
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(true).RenderMarkdown(rep, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	data, _ := os.ReadFile(path)

	if strings.Contains(string(data), "ANA|PÉREZ") {
		t.Error("Expected pipe separators replaced inside markdown table cells")
	}
	if !strings.Contains(string(data), "ANA PÉREZ SOTO") {
		t.Error("Expected readable key with separators spaced out")
	}
}

func TestRenderXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	sets := []RowSet{
		{
			Title:    "Missing in sistema",
			Columns:  []string{"rut", "nombres", model.KeyColumn},
			IDColumn: "rut",
			Rows: []model.Row{
				{"rut": "123456789", "nombres": "Ana", model.KeyColumn: "123456789"},
			},
		},
		{Title: "Duplicates in padron", Columns: []string{"rut"}, Rows: nil}, // empty, no sheet
	}

	if err := NewRenderer(true).RenderXLSX(testReport(), sets, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Expected readable workbook, got %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("Expected findings sheet plus one row set, got %v", sheets)
	}
	if sheets[0] != "Findings" {
		t.Errorf("Expected Findings first, got %q", sheets[0])
	}

	rows, err := f.GetRows("Missing in sistema")
	if err != nil {
		t.Fatalf("Expected row set sheet, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus one row, got %d", len(rows))
	}
	for _, h := range rows[0] {
		if h == model.KeyColumn {
			t.Error("Expected synthetic key column stripped from export")
		}
	}
	// Identifier column rendered in display format.
	if rows[1][0] != "12.345.678-9" {
		t.Errorf("Expected formatted identifier, got %q", rows[1][0])
	}
}

func TestRenderXLSX_RawIdentifiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	sets := []RowSet{{
		Title:    "Missing in sistema",
		Columns:  []string{"rut"},
		IDColumn: "rut",
		Rows:     []model.Row{{"rut": "123456789"}},
	}}

	if err := NewRenderer(false).RenderXLSX(testReport(), sets, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Expected readable workbook, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Missing in sistema")
	if err != nil {
		t.Fatalf("Expected sheet, got %v", err)
	}
	if rows[1][0] != "123456789" {
		t.Errorf("Expected raw identifier when formatting is off, got %q", rows[1][0])
	}
}

func TestSheetName_Truncation(t *testing.T) {
	used := map[string]struct{}{}
	long := strings.Repeat("x", 40)
	if got := sheetName(long, used); len([]rune(got)) != 31 {
		t.Errorf("Expected 31-character sheet name, got %d", len([]rune(got)))
	}
	if got := sheetName("short", used); got != "short" {
		t.Errorf("Expected short titles untouched, got %q", got)
	}

	accented := strings.Repeat("ñ", 40)
	got := sheetName(accented, used)
	if !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8 after truncation, got %q", got)
	}
	if len([]rune(got)) != 31 {
		t.Errorf("Expected 31 runes, got %d", len([]rune(got)))
	}
}

func TestSheetName_Collisions(t *testing.T) {
	used := map[string]struct{}{"Findings": {}}
	a := sheetName("Duplicados en padrón municipal extendido", used)
	b := sheetName("Duplicados en padrón municipal recortado", used)
	if a == b {
		t.Errorf("Expected distinct sheet names for colliding prefixes, got %q twice", a)
	}
	if len([]rune(b)) > 31 {
		t.Errorf("Expected disambiguated name within the limit, got %d runes", len([]rune(b)))
	}
	if got := sheetName("Findings", used); got == "Findings" {
		t.Error("Expected the findings sheet name to stay reserved")
	}
}

func TestExportColumns(t *testing.T) {
	cols := exportColumns([]string{"rut", model.KeyColumn, "nombres"})
	if len(cols) != 2 || cols[0] != "rut" || cols[1] != "nombres" {
		t.Errorf("Expected key column filtered, got %v", cols)
	}
}
