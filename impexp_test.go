package snapdiff

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportChanges(t *testing.T) {
	r := &Result{
		TopN: 10,
		Columns: []ColumnChanges{
			{
				Column: "quantity",
				Type:   Numeric,
				Records: []ChangeRecord{
					{Key: "AAPL", Before: N(10), After: N(15), Delta: &Delta{Absolute: N(5), Pct: PctChange{Status: PctDefined, Value: 50}}},
					{Key: "GOOG", Before: N(0), After: N(3), Delta: &Delta{Absolute: N(3), Pct: PctChange{Status: PctUndefined}}},
					{Key: "GOOG", Occurrence: 1, Before: N(3), After: Missing(), Delta: &Delta{Absolute: Missing(), Pct: PctChange{Status: PctMissing}}},
				},
			},
			{
				Column:  "name",
				Type:    Categorical,
				Records: []ChangeRecord{{Key: "AAPL", Before: Text("Apple"), After: Text("Apple Inc.")}},
			},
		},
	}

	var buf bytes.Buffer
	if err := ExportChanges(&buf, r); err != nil {
		t.Fatalf("ExportChanges() error = %v", err)
	}
	want := `{"column":"quantity","type":"numeric","key":"AAPL","before":10,"after":15,"absoluteChange":5,"pctChange":50}
{"column":"quantity","type":"numeric","key":"GOOG","before":0,"after":3,"absoluteChange":3,"pctChange":null}
{"column":"quantity","type":"numeric","key":"GOOG","occurrence":1,"before":3,"after":null,"absoluteChange":null}
{"column":"name","type":"text","key":"AAPL","before":"Apple","after":"Apple Inc."}
`
	if got := buf.String(); got != want {
		t.Errorf("ExportChanges() =\n%s\nwant:\n%s", got, want)
	}

	// and back
	got, err := ImportChanges(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ImportChanges() error = %v", err)
	}
	if len(got.Columns) != 2 || got.Columns[0].Column != "quantity" || got.Columns[1].Column != "name" {
		t.Fatalf("ImportChanges() columns = %+v", got.Columns)
	}
	for i, col := range r.Columns {
		gcol := got.Columns[i]
		if gcol.Type != col.Type || len(gcol.Records) != len(col.Records) {
			t.Fatalf("ImportChanges() column %q = %+v, want %+v", col.Column, gcol, col)
		}
		for j, rec := range col.Records {
			grec := gcol.Records[j]
			if grec.Key != rec.Key || grec.Occurrence != rec.Occurrence || !grec.Before.Equal(rec.Before) || !grec.After.Equal(rec.After) {
				t.Errorf("record %d = %+v, want %+v", j, grec, rec)
			}
			if (grec.Delta == nil) != (rec.Delta == nil) {
				t.Fatalf("record %d Delta = %+v, want %+v", j, grec.Delta, rec.Delta)
			}
			if rec.Delta == nil {
				continue
			}
			if !grec.Delta.Absolute.Equal(rec.Delta.Absolute) || grec.Delta.Pct.Status != rec.Delta.Pct.Status || !grec.Delta.Pct.Value.Equal(rec.Delta.Pct.Value) {
				t.Errorf("record %d Delta = %+v, want %+v", j, grec.Delta, rec.Delta)
			}
		}
	}
}

func TestImportChanges_Errors(t *testing.T) {
	tests := []struct {
		name, input string
	}{
		{"not json", "{"},
		{"no column", `{"key":"a"}`},
		{"bad type", `{"column":"a","type":"date"}`},
		{"bad occurrence", `{"column":"a","occurrence":"x"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportChanges(strings.NewReader(tc.input)); err == nil {
				t.Error("ImportChanges(): want error")
			}
		})
	}
}
