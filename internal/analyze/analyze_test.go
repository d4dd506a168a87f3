package analyze

import (
	"testing"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

func keyedDataset(t *testing.T, name string, cols []string, keys []string, rows ...[]string) *model.Dataset {
	t.Helper()
	ds := &model.Dataset{Name: name, Columns: append([]string(nil), cols...)}
	for _, rec := range rows {
		row := make(model.Row, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = rec[i]
			} else {
				row[c] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := ds.AssignKeys(keys); err != nil {
		t.Fatalf("Expected key assignment to succeed, got %v", err)
	}
	return ds
}

func TestDiff_Partition(t *testing.T) {
	a := keyedDataset(t, "a", []string{"nombres"},
		[]string{"1", "2", "3"},
		[]string{"Ana"}, []string{"Ben"}, []string{"Cid"})
	b := keyedDataset(t, "b", []string{"nombres"},
		[]string{"2", "3", "4"},
		[]string{"Ben"}, []string{"Cid"}, []string{"Dua"})

	res := Diff(a, b)

	if len(res.OnlyInA) != 1 || res.OnlyInA[0]["nombres"] != "Ana" {
		t.Errorf("Expected only Ana on side A, got %v", res.OnlyInA)
	}
	if len(res.OnlyInB) != 1 || res.OnlyInB[0]["nombres"] != "Dua" {
		t.Errorf("Expected only Dua on side B, got %v", res.OnlyInB)
	}
	if res.CommonKeys != 2 {
		t.Errorf("Expected 2 common keys, got %d", res.CommonKeys)
	}

	// Distinct keys of A partition into only-in-A plus common.
	distinctA := len(a.KeySet())
	onlyAKeys := make(map[string]struct{})
	for i := range a.Rows {
		if _, ok := b.KeySet()[a.Key(i)]; !ok {
			onlyAKeys[a.Key(i)] = struct{}{}
		}
	}
	if len(onlyAKeys)+res.CommonKeys != distinctA {
		t.Errorf("Expected partition to cover A's key space: %d + %d != %d",
			len(onlyAKeys), res.CommonKeys, distinctA)
	}
}

func TestDiff_DuplicateKeysCountOnceAsCommon(t *testing.T) {
	a := keyedDataset(t, "a", []string{"n"},
		[]string{"1", "1"},
		[]string{"x"}, []string{"y"})
	b := keyedDataset(t, "b", []string{"n"},
		[]string{"1"},
		[]string{"z"})

	res := Diff(a, b)

	if res.CommonKeys != 1 {
		t.Errorf("Expected repeated key counted once, got %d", res.CommonKeys)
	}
	if len(res.OnlyInA) != 0 || len(res.OnlyInB) != 0 {
		t.Errorf("Expected no one-sided rows, got %d and %d", len(res.OnlyInA), len(res.OnlyInB))
	}
}

func TestDiff_EmptySide(t *testing.T) {
	a := keyedDataset(t, "a", []string{"n"}, []string{"1", "2"},
		[]string{"x"}, []string{"y"})
	b := keyedDataset(t, "b", []string{"n"}, nil)

	res := Diff(a, b)

	if len(res.OnlyInA) != 2 {
		t.Errorf("Expected every row of A unmatched, got %d", len(res.OnlyInA))
	}
	if len(res.OnlyInB) != 0 || res.CommonKeys != 0 {
		t.Errorf("Expected empty B to contribute nothing, got %d only-in-B, %d common",
			len(res.OnlyInB), res.CommonKeys)
	}
}

func TestDiff_Idempotent(t *testing.T) {
	a := keyedDataset(t, "a", []string{"n"}, []string{"1", "2"},
		[]string{"x"}, []string{"y"})
	b := keyedDataset(t, "b", []string{"n"}, []string{"2"},
		[]string{"y"})

	first := Diff(a, b)
	second := Diff(a, b)

	if len(first.OnlyInA) != len(second.OnlyInA) || first.CommonKeys != second.CommonKeys {
		t.Error("Expected identical results on repeated diff of unchanged datasets")
	}
}

func TestFindDuplicates_Groups(t *testing.T) {
	ds := keyedDataset(t, "a", []string{"n"},
		[]string{"1", "1", "2", "2", "2", "3"},
		[]string{"a"}, []string{"b"}, []string{"c"}, []string{"d"}, []string{"e"}, []string{"f"})

	rep := FindDuplicates(ds)

	if len(rep.Groups) != 2 {
		t.Fatalf("Expected 2 duplicate groups, got %d", len(rep.Groups))
	}
	if rep.TotalRows != 5 {
		t.Errorf("Expected 5 duplicated rows, got %d", rep.TotalRows)
	}
	if rep.MaxGroupSize != 3 {
		t.Errorf("Expected max group size 3, got %d", rep.MaxGroupSize)
	}
	// Groups sorted by key.
	if rep.Groups[0].Key != "1" || rep.Groups[1].Key != "2" {
		t.Errorf("Expected groups ordered by key, got %q then %q", rep.Groups[0].Key, rep.Groups[1].Key)
	}
	if len(rep.Rows()) != 5 {
		t.Errorf("Expected 5 flattened rows, got %d", len(rep.Rows()))
	}
}

func TestFindDuplicates_None(t *testing.T) {
	ds := keyedDataset(t, "a", []string{"n"}, []string{"1", "2"},
		[]string{"x"}, []string{"y"})

	rep := FindDuplicates(ds)
	if len(rep.Groups) != 0 || rep.TotalRows != 0 || rep.MaxGroupSize != 0 {
		t.Errorf("Expected no duplicates, got %+v", rep)
	}
}

func TestDuplicateReport_SummaryTopKeys(t *testing.T) {
	ds := keyedDataset(t, "a", []string{"n"},
		[]string{"1", "1", "2", "2", "2"},
		[]string{"a"}, []string{"b"}, []string{"c"}, []string{"d"}, []string{"e"})

	s := FindDuplicates(ds).Summary(1)

	if s.Keys != 2 || s.Rows != 5 {
		t.Errorf("Expected 2 keys over 5 rows, got %d keys over %d rows", s.Keys, s.Rows)
	}
	if len(s.TopKeys) != 1 {
		t.Fatalf("Expected top list capped at 1, got %d", len(s.TopKeys))
	}
	if s.TopKeys[0].Key != "2" || s.TopKeys[0].Count != 3 {
		t.Errorf("Expected key 2 with count 3 on top, got %+v", s.TopKeys[0])
	}
}

func TestFindIncomplete(t *testing.T) {
	ds := keyedDataset(t, "a", []string{"rut", "nombres", "comuna"},
		[]string{"1", "2", "3"},
		[]string{"1-9", "Ana", "Macul"},
		[]string{"2-7", "", ""},
		[]string{"3-5", "Cid", ""})

	rep := FindIncomplete(ds, []string{"rut"})

	if len(rep.Rows) != 2 {
		t.Errorf("Expected 2 incomplete rows, got %d", len(rep.Rows))
	}
	if len(rep.ColumnGaps) != 2 {
		t.Fatalf("Expected gaps for 2 columns, got %v", rep.ColumnGaps)
	}
	// Worst column first.
	if rep.ColumnGaps[0].Column != "comuna" || rep.ColumnGaps[0].Empty != 2 {
		t.Errorf("Expected comuna with 2 empties first, got %+v", rep.ColumnGaps[0])
	}
	if pct := rep.ColumnGaps[0].Percentage; pct < 66 || pct > 67 {
		t.Errorf("Expected ~66.7%% for comuna, got %.1f", pct)
	}
}

func TestFindIncomplete_ExcludesKeySourceColumns(t *testing.T) {
	ds := keyedDataset(t, "a", []string{"rut", "nombres"},
		[]string{"1"},
		[]string{"", "Ana"})

	rep := FindIncomplete(ds, []string{"rut"})

	if len(rep.Rows) != 0 {
		t.Errorf("Expected empty key-source cell ignored, got %d incomplete rows", len(rep.Rows))
	}
}

func TestFindIncomplete_AllComplete(t *testing.T) {
	ds := keyedDataset(t, "a", []string{"rut", "nombres"},
		[]string{"1"},
		[]string{"1-9", "Ana"})

	rep := FindIncomplete(ds, nil)
	if len(rep.Rows) != 0 || len(rep.ColumnGaps) != 0 {
		t.Errorf("Expected clean dataset, got %+v", rep)
	}
}
