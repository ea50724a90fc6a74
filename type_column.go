package snapdiff

import (
	"fmt"
	"strings"
)

// ColumnType is the semantic type of a compare column.
//
// It decides, once per column, whether change metrics are computed.
type ColumnType int

const (
	Auto ColumnType = iota // inferred from the cells of both tables
	Numeric
	Categorical
)

// ParseColumnType parses a column type name.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "numeric", "number", "num":
		return Numeric, nil
	case "categorical", "category", "text", "string":
		return Categorical, nil
	default:
		return Auto, fmt.Errorf("unknown column type %q (auto, numeric, text)", s)
	}
}

func (c ColumnType) String() string {
	switch c {
	case Numeric:
		return "numeric"
	case Categorical:
		return "text"
	default:
		return "auto"
	}
}

// ParseColumnTypes parses a list of 'column=type' declarations.
func ParseColumnTypes(decls ...string) (map[string]ColumnType, error) {
	types := make(map[string]ColumnType)
	for _, d := range decls {
		if strings.TrimSpace(d) == "" {
			continue
		}
		col, typ, ok := strings.Cut(d, "=")
		if !ok {
			return nil, fmt.Errorf("invalid column type declaration %q, want column=type", d)
		}
		t, err := ParseColumnType(typ)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		types[strings.TrimSpace(col)] = t
	}
	return types, nil
}

// InferColumnType returns Numeric when every present cell is a number, and
// there is at least one, Categorical otherwise.
func InferColumnType(columns ...[]Value) ColumnType {
	numbers := 0
	for _, values := range columns {
		for _, v := range values {
			switch v.Kind() {
			case KindText:
				return Categorical
			case KindNumber:
				numbers++
			}
		}
	}
	if numbers == 0 {
		return Categorical
	}
	return Numeric
}
