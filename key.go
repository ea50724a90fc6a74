package snapdiff

import "strings"

// KeySeparator joins the key column values of a composite key.
const KeySeparator = "|"

// CompositeKey builds the key of row i from the key columns, in order.
func CompositeKey(t *Table, i int, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for j, col := range keyColumns {
		parts[j] = t.Cell(i, col).String()
	}
	return strings.Join(parts, KeySeparator)
}

// KeyIndex groups the rows of a table by composite key.
type KeyIndex struct {
	keys []string         // in order of first appearance
	rows map[string][]int // row positions, in table order
}

// NewKeyIndex indexes every row of t by its composite key.
func NewKeyIndex(t *Table, keyColumns []string) *KeyIndex {
	idx := &KeyIndex{rows: make(map[string][]int)}
	for i := 0; i < t.Len(); i++ {
		k := CompositeKey(t, i, keyColumns)
		if _, seen := idx.rows[k]; !seen {
			idx.keys = append(idx.keys, k)
		}
		idx.rows[k] = append(idx.rows[k], i)
	}
	return idx
}

// Keys returns the distinct keys in order of first appearance.
func (x *KeyIndex) Keys() []string { return x.keys }

// Rows returns the row positions sharing key k.
func (x *KeyIndex) Rows(k string) []int { return x.rows[k] }

// Has reports whether k is a key of the table.
func (x *KeyIndex) Has(k string) bool {
	_, ok := x.rows[k]
	return ok
}

// Duplicates returns the keys shared by more than one row.
func (x *KeyIndex) Duplicates() []string {
	var dups []string
	for _, k := range x.keys {
		if len(x.rows[k]) > 1 {
			dups = append(dups, k)
		}
	}
	return dups
}

// Intersect returns the keys of x also in y, in x order.
func (x *KeyIndex) Intersect(y *KeyIndex) []string {
	var common []string
	for _, k := range x.keys {
		if y.Has(k) {
			common = append(common, k)
		}
	}
	return common
}

// Difference returns the keys of x missing from y, in x order.
func (x *KeyIndex) Difference(y *KeyIndex) []string {
	var only []string
	for _, k := range x.keys {
		if !y.Has(k) {
			only = append(only, k)
		}
	}
	return only
}
