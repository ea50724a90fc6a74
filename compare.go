package snapdiff

import (
	"log/slog"
	"slices"
)

// DefaultTopN is the default number of records displayed per column.
const DefaultTopN = 100

// Options configures a comparison.
type Options struct {
	// KeyColumns build the composite key aligning rows, in order.
	KeyColumns []string
	// CompareColumns are the columns diffed between aligned rows.
	CompareColumns []string
	// ShowAll also reports unchanged pairs, and pairs missing on both sides.
	ShowAll bool
	// TopN is a display hint copied into the result. 0 means DefaultTopN.
	TopN int
	// Types declares column types. Undeclared columns are inferred.
	Types map[string]ColumnType
}

// DefaultOptions returns options with the default TopN.
func DefaultOptions() Options {
	return Options{TopN: DefaultTopN}
}

// Comparator aligns two tables on a composite key and reports changed values.
//
// It is stateless apart from its logger, the zero value is ready to use.
type Comparator struct {
	Logger *slog.Logger // nil means slog.Default()
}

// NewComparator returns a comparator logging to l.
func NewComparator(l *slog.Logger) *Comparator { return &Comparator{Logger: l} }

func (c *Comparator) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Compare compares before and after.
//
// Rows are aligned on the composite key built from opts.KeyColumns. Only keys
// present in both tables are compared, the others are reported in
// Result.OnlyBefore and Result.OnlyAfter. Rows sharing a key are paired by
// position.
//
// A key column absent from either table aborts the comparison with a
// *MissingKeyColumnError. Compare columns absent from either table are skipped.
// Finding no difference is not an error: the result is empty.
func (c *Comparator) Compare(before, after *Table, opts Options) (*Result, error) {
	log := c.logger()

	if len(opts.KeyColumns) == 0 {
		log.Error("no key columns to align rows")
		return nil, ErrNoKeyColumns
	}
	for _, col := range opts.KeyColumns {
		for _, t := range []*Table{before, after} {
			if !t.HasColumn(col) {
				log.Error("key column not found", "column", col, "table", t.Name())
				return nil, &MissingKeyColumnError{Column: col, Table: t.Name()}
			}
		}
	}

	topN := opts.TopN
	if topN == 0 {
		topN = DefaultTopN
	}
	res := &Result{TopN: topN}

	var columns []string
	for _, col := range opts.CompareColumns {
		if slices.Contains(columns, col) || slices.Contains(res.SkippedColumns, col) {
			continue
		}
		if !before.HasColumn(col) || !after.HasColumn(col) {
			log.Warn("compare column not found in both tables, skipped", "column", col)
			res.SkippedColumns = append(res.SkippedColumns, col)
			continue
		}
		columns = append(columns, col)
	}

	left := NewKeyIndex(before, opts.KeyColumns)
	right := NewKeyIndex(after, opts.KeyColumns)
	res.DuplicatesLeft = left.Duplicates()
	res.DuplicatesRight = right.Duplicates()
	if len(res.DuplicatesLeft) > 0 {
		log.Warn("duplicate keys found", "table", before.Name(), "keys", len(res.DuplicatesLeft))
	}
	if len(res.DuplicatesRight) > 0 {
		log.Warn("duplicate keys found", "table", after.Name(), "keys", len(res.DuplicatesRight))
	}

	common := left.Intersect(right)
	res.CommonKeys = len(common)
	res.OnlyBefore = left.Difference(right)
	res.OnlyAfter = right.Difference(left)
	log.Debug("common composite keys", "count", len(common), "only_before", len(res.OnlyBefore), "only_after", len(res.OnlyAfter))

	for _, col := range columns {
		typ := opts.Types[col]
		if typ == Auto {
			b, _ := before.Column(col)
			a, _ := after.Column(col)
			typ = InferColumnType(b, a)
		}
		records := compareColumn(before, after, left, right, common, col, typ, opts.ShowAll)
		if len(records) == 0 {
			continue
		}
		res.Columns = append(res.Columns, ColumnChanges{Column: col, Type: typ, Records: records, TopN: topN})
		log.Debug("column changes", "column", col, "type", typ, "changes", len(records))
	}

	if res.Empty() {
		log.Info("no differences found based on given parameters")
	}
	return res, nil
}

// compareColumn pairs the rows of every common key and returns the records of col.
func compareColumn(before, after *Table, left, right *KeyIndex, common []string, col string, typ ColumnType, showAll bool) []ChangeRecord {
	var records []ChangeRecord
	for _, k := range common {
		rows1, rows2 := left.Rows(k), right.Rows(k)
		for i := range max(len(rows1), len(rows2)) {
			v1, v2 := Missing(), Missing()
			if i < len(rows1) {
				v1 = before.Cell(rows1[i], col)
			}
			if i < len(rows2) {
				v2 = after.Cell(rows2[i], col)
			}

			if v1.IsMissing() && v2.IsMissing() {
				if showAll {
					records = append(records, ChangeRecord{Key: k, Occurrence: i, Before: v1, After: v2})
				}
				continue
			}
			if !showAll && v1.Equal(v2) {
				continue
			}

			rec := ChangeRecord{Key: k, Occurrence: i, Before: v1, After: v2}
			if typ == Numeric {
				// a text cell in a numeric column leaves the record without metrics.
				if abs, ok := v2.Sub(v1); ok {
					rec.Delta = &Delta{Absolute: abs, Pct: CalculatePctChange(v1, v2)}
				}
			}
			records = append(records, rec)
		}
	}
	return records
}
