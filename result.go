package snapdiff

import "slices"

// Delta holds the change metrics of a numeric record.
type Delta struct {
	Absolute Value // after - before, missing when a side is missing
	Pct      PctChange
}

// ChangeRecord is one difference for a column and a key.
type ChangeRecord struct {
	Key string
	// Occurrence is the position of the row among rows sharing the same key, 0 for unique keys.
	Occurrence int
	Before     Value
	After      Value
	// Delta is nil for text columns, or when the metrics could not be computed.
	Delta *Delta
}

// absolute returns |absolute change| and whether there is one.
func (r ChangeRecord) absolute() (Value, bool) {
	if r.Delta == nil || !r.Delta.Absolute.IsNumber() {
		return Missing(), false
	}
	return Num(r.Delta.Absolute.num.Abs()), true
}

// ColumnChanges is the change table of a single compare column.
type ColumnChanges struct {
	Column  string
	Type    ColumnType // resolved, never Auto
	Records []ChangeRecord
	TopN    int // display hint, not applied to Records
}

// HasDelta reports whether records carry change metrics.
func (c ColumnChanges) HasDelta() bool { return c.Type == Numeric }

// Top returns the records to display: sorted by decreasing absolute change
// when the column is numeric, and truncated to TopN.
//
// Records without a numeric absolute change come last, in their original order.
func (c ColumnChanges) Top() []ChangeRecord {
	records := slices.Clone(c.Records)
	if c.HasDelta() {
		slices.SortStableFunc(records, func(a, b ChangeRecord) int {
			va, oka := a.absolute()
			vb, okb := b.absolute()
			switch {
			case oka && okb:
				return vb.num.Cmp(va.num)
			case oka:
				return -1
			case okb:
				return 1
			default:
				return 0
			}
		})
	}
	if c.TopN > 0 && len(records) > c.TopN {
		records = records[:c.TopN]
	}
	return records
}

// Result is the outcome of a successful comparison.
type Result struct {
	// Columns lists the columns with at least one record, in compare order.
	Columns []ColumnChanges
	TopN    int

	// Diagnostics.

	CommonKeys      int
	SkippedColumns  []string // compare columns absent from a table
	DuplicatesLeft  []string // duplicated keys in the before table
	DuplicatesRight []string // duplicated keys in the after table
	OnlyBefore      []string // keys never compared, only in the before table
	OnlyAfter       []string // keys never compared, only in the after table
}

// Empty reports whether no difference was found.
func (r *Result) Empty() bool { return r == nil || len(r.Columns) == 0 }

// Column returns the changes of a column.
func (r *Result) Column(name string) (ColumnChanges, bool) {
	for _, c := range r.Columns {
		if c.Column == name {
			return c, true
		}
	}
	return ColumnChanges{}, false
}

// Count returns the total number of records.
func (r *Result) Count() int {
	n := 0
	for _, c := range r.Columns {
		n += len(c.Records)
	}
	return n
}

