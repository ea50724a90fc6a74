// Package source loads snapshot tables from files and databases.
//
// A table is designated by a reference 'location[#selector]':
//
//	holdings-2025-06.csv           comma separated values, first row is the header
//	holdings-2025-06.tsv           tab separated values
//	broker.xlsx#Positions          a spreadsheet sheet, the first one by default
//	export.json#$.positions[*]     objects selected by a JSONPath, $[*] by default
//	export.jsonl                   one object per line
//	portfolio.db#holdings          a SQLite table, or a query: portfolio.db#SELECT ...
//	postgres://host/db#SELECT ...  a PostgreSQL query, or a table name
//
// Files without header typing (CSV, XLSX) are read with snapdiff.ParseValue,
// typed sources keep their types: a JSON string stays text even if it looks
// like a number.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/etnz/snapdiff"
)

// ErrUnknownFormat is returned for locations whose format cannot be guessed.
var ErrUnknownFormat = errors.New("unknown table format")

// Format of a table source.
type Format string

const (
	CSV      Format = "csv"
	TSV      Format = "tsv"
	XLSX     Format = "xlsx"
	JSON     Format = "json"
	JSONL    Format = "jsonl"
	SQLite   Format = "sqlite"
	Postgres Format = "postgres"
)

// Ref is a parsed table reference.
type Ref struct {
	Location string
	Selector string
	Format   Format
}

func (r Ref) String() string {
	if r.Selector == "" {
		return r.Location
	}
	return r.Location + "#" + r.Selector
}

// Parse parses a table reference and guesses its format.
func Parse(ref string) (Ref, error) {
	loc, sel, _ := strings.Cut(ref, "#")
	r := Ref{Location: loc, Selector: strings.TrimSpace(sel)}
	if loc == "" {
		return r, fmt.Errorf("empty table location in %q", ref)
	}

	lower := strings.ToLower(loc)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		r.Format = Postgres
		return r, nil
	}
	switch filepath.Ext(lower) {
	case ".csv", ".txt":
		r.Format = CSV
	case ".tsv", ".tab":
		r.Format = TSV
	case ".xlsx", ".xlsm":
		r.Format = XLSX
	case ".json":
		r.Format = JSON
	case ".jsonl", ".ndjson":
		r.Format = JSONL
	case ".db", ".sqlite", ".sqlite3":
		r.Format = SQLite
	default:
		return r, fmt.Errorf("%q: %w", loc, ErrUnknownFormat)
	}
	return r, nil
}

// Open loads the table designated by ref.
func Open(ctx context.Context, ref string) (*snapdiff.Table, error) {
	r, err := Parse(ref)
	if err != nil {
		return nil, err
	}
	t, err := r.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", ref, err)
	}
	return t, nil
}

// Open loads the table.
func (r Ref) Open(ctx context.Context) (*snapdiff.Table, error) {
	switch r.Format {
	case CSV:
		return openCSV(r, ',')
	case TSV:
		return openCSV(r, '\t')
	case XLSX:
		return openXLSX(r)
	case JSON:
		return openJSON(r)
	case JSONL:
		return openJSONL(r)
	case SQLite:
		return openSQLite(ctx, r)
	case Postgres:
		return openPostgres(ctx, r)
	default:
		return nil, fmt.Errorf("%q: %w", r.Location, ErrUnknownFormat)
	}
}

// newTable builds a table from a header and untyped rows.
// Short rows are padded with missing cells.
func newTable(name string, header []string, rows [][]string) (*snapdiff.Table, error) {
	t, err := snapdiff.NewTable(name, header...)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d columns", i+2, len(row), len(header))
		}
		values := make([]snapdiff.Value, len(header))
		for j, cell := range row {
			values[j] = snapdiff.ParseValue(cell)
		}
		if err := t.Append(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}
