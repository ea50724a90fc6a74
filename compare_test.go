package snapdiff

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

// table is a test helper building a table from untyped rows.
func table(t *testing.T, name string, columns []string, rows ...[]any) *Table {
	t.Helper()
	tbl, err := NewTable(name, columns...)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	for _, row := range rows {
		values := make([]Value, len(row))
		for i, v := range row {
			values[i] = FromAny(v)
		}
		if err := tbl.Append(values...); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return tbl
}

// quiet returns a comparator that logs into a buffer.
func quiet() (*Comparator, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewComparator(l), &buf
}

func mustCompare(t *testing.T, before, after *Table, opts Options) *Result {
	t.Helper()
	c, _ := quiet()
	res, err := c.Compare(before, after, opts)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	return res
}

func TestCompare_SingleChange(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "val"}, []any{1, 10})
	t2 := table(t, "t2", []string{"id", "val"}, []any{1, 20})

	res := mustCompare(t, t1, t2, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"val"}})

	col, ok := res.Column("val")
	if !ok {
		t.Fatalf("Column(val) not found in %+v", res)
	}
	if len(col.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(col.Records))
	}
	rec := col.Records[0]
	if rec.Key != "1" {
		t.Errorf("Key = %q, want %q", rec.Key, "1")
	}
	if !rec.Before.Equal(N(10)) || !rec.After.Equal(N(20)) {
		t.Errorf("Before, After = %v, %v, want 10, 20", rec.Before, rec.After)
	}
	if rec.Delta == nil {
		t.Fatal("Delta = nil, want change metrics")
	}
	if !rec.Delta.Absolute.Equal(N(10)) {
		t.Errorf("Absolute = %v, want 10", rec.Delta.Absolute)
	}
	if rec.Delta.Pct.Status != PctDefined || !rec.Delta.Pct.Value.Equal(100) {
		t.Errorf("Pct = %+v, want 100%%", rec.Delta.Pct)
	}
	if col.TopN != DefaultTopN || res.TopN != DefaultTopN {
		t.Errorf("TopN = %d, %d, want %d", col.TopN, res.TopN, DefaultTopN)
	}
}

func TestCompare_MissingKeyColumn(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "isin", "val"}, []any{1, "FR0000", 10})
	t2 := table(t, "t2", []string{"id", "val"}, []any{1, 20})

	c, logs := quiet()
	res, err := c.Compare(t1, t2, Options{KeyColumns: []string{"id", "isin"}, CompareColumns: []string{"val"}})
	if res != nil {
		t.Errorf("Compare() result = %+v, want nil", res)
	}
	if !errors.Is(err, ErrMissingKeyColumn) {
		t.Fatalf("Compare() error = %v, want ErrMissingKeyColumn", err)
	}
	var mkc *MissingKeyColumnError
	if !errors.As(err, &mkc) || mkc.Column != "isin" || mkc.Table != "t2" {
		t.Errorf("Compare() error = %#v, want isin missing in t2", err)
	}
	if !strings.Contains(logs.String(), "level=ERROR") {
		t.Errorf("missing error log in %q", logs.String())
	}
}

func TestCompare_NoKeyColumns(t *testing.T) {
	t1 := table(t, "t1", []string{"id"}, []any{1})
	c, _ := quiet()
	if _, err := c.Compare(t1, t1, Options{CompareColumns: []string{"id"}}); !errors.Is(err, ErrNoKeyColumns) {
		t.Errorf("Compare() error = %v, want ErrNoKeyColumns", err)
	}
}

func TestCompare_MissingCompareColumnSkipped(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "qty", "price"}, []any{"A", 1, 10}, []any{"B", 2, 20})
	t2 := table(t, "t2", []string{"id", "qty"}, []any{"A", 1}, []any{"B", 3})

	c, logs := quiet()
	res, err := c.Compare(t1, t2, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"price", "qty"}})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if _, ok := res.Column("price"); ok {
		t.Error("Column(price) present, want it skipped")
	}
	if !slices.Equal(res.SkippedColumns, []string{"price"}) {
		t.Errorf("SkippedColumns = %v, want [price]", res.SkippedColumns)
	}
	qty, ok := res.Column("qty")
	if !ok || len(qty.Records) != 1 || qty.Records[0].Key != "B" {
		t.Errorf("Column(qty) = %+v, want a single change on B", qty)
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Errorf("missing warning log in %q", logs.String())
	}
}

func TestCompare_SelfIsEmpty(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "name", "val"},
		[]any{1, "Apple", 10.5},
		[]any{2, "Google", nil},
		[]any{3, "Amazon", 0},
	)
	c, logs := quiet()
	res, err := c.Compare(t1, t1, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"name", "val"}})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !res.Empty() {
		t.Errorf("Compare(t, t) = %+v, want empty", res.Columns)
	}
	if res.CommonKeys != 3 {
		t.Errorf("CommonKeys = %d, want 3", res.CommonKeys)
	}
	if !strings.Contains(logs.String(), "no differences found") {
		t.Errorf("missing info log in %q", logs.String())
	}
}

func TestCompare_DuplicateKeysPairedByPosition(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "val"}, []any{1, 5}, []any{1, 7})
	t2 := table(t, "t2", []string{"id", "val"}, []any{1, 7})

	tests := []struct {
		name    string
		showAll bool
		want    []ChangeRecord
	}{
		{
			name: "changes only",
			want: []ChangeRecord{
				{Key: "1", Occurrence: 0, Before: N(5), After: N(7)},
				{Key: "1", Occurrence: 1, Before: N(7), After: Missing()},
			},
		},
		{
			name:    "show all",
			showAll: true,
			want: []ChangeRecord{
				{Key: "1", Occurrence: 0, Before: N(5), After: N(7)},
				{Key: "1", Occurrence: 1, Before: N(7), After: Missing()},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := mustCompare(t, t1, t2, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"val"}, ShowAll: tc.showAll})
			col, _ := res.Column("val")
			if len(col.Records) != len(tc.want) {
				t.Fatalf("len(Records) = %d, want %d", len(col.Records), len(tc.want))
			}
			for i, want := range tc.want {
				got := col.Records[i]
				if got.Key != want.Key || got.Occurrence != want.Occurrence || !got.Before.Equal(want.Before) || !got.After.Equal(want.After) {
					t.Errorf("Records[%d] = %+v, want %+v", i, got, want)
				}
			}
			if !slices.Equal(res.DuplicatesLeft, []string{"1"}) || len(res.DuplicatesRight) != 0 {
				t.Errorf("Duplicates = %v, %v, want [1], []", res.DuplicatesLeft, res.DuplicatesRight)
			}
			missing := col.Records[1]
			if missing.Delta == nil || !missing.Delta.Absolute.IsMissing() || missing.Delta.Pct.Status != PctMissing {
				t.Errorf("Delta = %+v, want missing metrics", missing.Delta)
			}
		})
	}
}

func TestCompare_BothMissingOnlyWithShowAll(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "val"}, []any{1, nil}, []any{2, 3})
	t2 := table(t, "t2", []string{"id", "val"}, []any{1, nil}, []any{2, 3})

	res := mustCompare(t, t1, t2, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"val"}})
	if !res.Empty() {
		t.Errorf("Compare() = %+v, want empty", res.Columns)
	}

	res = mustCompare(t, t1, t2, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"val"}, ShowAll: true})
	col, _ := res.Column("val")
	if len(col.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(col.Records))
	}
	if !col.Records[0].Before.IsMissing() || !col.Records[0].After.IsMissing() {
		t.Errorf("Records[0] = %+v, want both missing", col.Records[0])
	}
	if col.Records[0].Delta != nil {
		t.Errorf("Records[0].Delta = %+v, want nil for a both-missing pair", col.Records[0].Delta)
	}
	if d := col.Records[1].Delta; d == nil || !d.Absolute.Equal(N(0)) {
		t.Errorf("Records[1].Delta = %+v, want zero change", d)
	}
}

func TestCompare_OnlyCommonKeys(t *testing.T) {
	t1 := table(t, "t1", []string{"isin", "mic", "qty"},
		[]any{"US0378331005", "XNAS", 10},
		[]any{"US38259P5089", "XNAS", 5},
		[]any{"FR0000120271", "XPAR", 7},
	)
	t2 := table(t, "t2", []string{"isin", "mic", "qty"},
		[]any{"US0378331005", "XNAS", 12},
		[]any{"FR0000120271", "XETR", 9},
		[]any{"DE0007164600", "XETR", 1},
	)

	res := mustCompare(t, t1, t2, Options{KeyColumns: []string{"isin", "mic"}, CompareColumns: []string{"qty"}})
	col, _ := res.Column("qty")
	if len(col.Records) != 1 || col.Records[0].Key != "US0378331005|XNAS" {
		t.Fatalf("Records = %+v, want only US0378331005|XNAS", col.Records)
	}
	if want := []string{"US38259P5089|XNAS", "FR0000120271|XPAR"}; !slices.Equal(res.OnlyBefore, want) {
		t.Errorf("OnlyBefore = %v, want %v", res.OnlyBefore, want)
	}
	if want := []string{"FR0000120271|XETR", "DE0007164600|XETR"}; !slices.Equal(res.OnlyAfter, want) {
		t.Errorf("OnlyAfter = %v, want %v", res.OnlyAfter, want)
	}
}

func TestCompare_ColumnTypes(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "mixed", "name", "code"},
		[]any{1, 10, "Apple", 100},
		[]any{2, "n/a", "Google", 200},
	)
	t2 := table(t, "t2", []string{"id", "mixed", "name", "code"},
		[]any{1, 12, "Apple Inc.", 101},
		[]any{2, 3, "Google", 200},
	)

	t.Run("inferred", func(t *testing.T) {
		res := mustCompare(t, t1, t2, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"mixed", "name", "code"}})
		for col, want := range map[string]ColumnType{"mixed": Categorical, "name": Categorical, "code": Numeric} {
			c, ok := res.Column(col)
			if !ok {
				t.Fatalf("Column(%s) not found", col)
			}
			if c.Type != want {
				t.Errorf("Column(%s).Type = %v, want %v", col, c.Type, want)
			}
			for _, rec := range c.Records {
				if (rec.Delta != nil) != (want == Numeric) {
					t.Errorf("Column(%s) record %q Delta = %+v", col, rec.Key, rec.Delta)
				}
			}
		}
	})

	t.Run("declared", func(t *testing.T) {
		res := mustCompare(t, t1, t2, Options{
			KeyColumns:     []string{"id"},
			CompareColumns: []string{"mixed", "code"},
			Types:          map[string]ColumnType{"mixed": Numeric, "code": Categorical},
		})
		mixed, _ := res.Column("mixed")
		if mixed.Type != Numeric || len(mixed.Records) != 2 {
			t.Fatalf("Column(mixed) = %+v, want 2 numeric records", mixed)
		}
		if mixed.Records[0].Delta == nil || !mixed.Records[0].Delta.Absolute.Equal(N(2)) {
			t.Errorf("mixed[0].Delta = %+v, want absolute 2", mixed.Records[0].Delta)
		}
		if mixed.Records[1].Delta != nil {
			t.Errorf("mixed[1].Delta = %+v, want nil for a text cell", mixed.Records[1].Delta)
		}
		code, _ := res.Column("code")
		if code.Type != Categorical || code.Records[0].Delta != nil {
			t.Errorf("Column(code) = %+v, want text records", code)
		}
	})
}

func TestCompare_DoesNotMutateInputs(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "val"}, []any{1, 10})
	t2 := table(t, "t2", []string{"id", "val"}, []any{1, 20})
	mustCompare(t, t1, t2, Options{KeyColumns: []string{"id"}, CompareColumns: []string{"val"}})

	if !slices.Equal(t1.Columns(), []string{"id", "val"}) || t1.Len() != 1 {
		t.Errorf("t1 changed: %v, %d rows", t1.Columns(), t1.Len())
	}
}

func TestCompare_ZeroComparatorLogsToDefault(t *testing.T) {
	t1 := table(t, "t1", []string{"id", "val"}, []any{1, 10})
	var c Comparator
	if _, err := c.Compare(t1, t1, Options{KeyColumns: []string{"id"}}); err != nil {
		t.Errorf("Compare() error = %v", err)
	}
}
