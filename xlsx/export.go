// Package xlsx exports comparison results to Excel workbooks.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/etnz/snapdiff"
	"github.com/xuri/excelize/v2"
)

// ErrNothingToExport is returned when the result has no change to export.
var ErrNothingToExport = errors.New("no comparison results to export")

// maxSheetName is the longest sheet name Excel accepts, in characters.
const maxSheetName = 31

// Options holds workbook metadata.
type Options struct {
	Title      string // document title, defaults to "snapdiff comparison"
	Identifier string // run identifier
}

// Export writes r to a new workbook at path, overwriting any existing file.
func Export(path string, r *snapdiff.Result, opts Options) error {
	f, err := build(r, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %q: %w", path, err)
	}
	return nil
}

// Write writes r as a workbook to w.
func Write(w io.Writer, r *snapdiff.Result, opts Options) error {
	f, err := build(r, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

// Sink returns a snapdiff.Sink exporting results to path.
func Sink(path string, opts Options) snapdiff.Sink {
	return snapdiff.SinkFunc(func(r *snapdiff.Result) error { return Export(path, r, opts) })
}

// build creates a workbook with one sheet per changed column.
//
// Every record is written, in result order.
func build(r *snapdiff.Result, opts Options) (*excelize.File, error) {
	if r.Empty() {
		return nil, ErrNothingToExport
	}
	f := excelize.NewFile()

	title := opts.Title
	if title == "" {
		title = "snapdiff comparison"
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      title,
		Identifier: opts.Identifier,
		Creator:    "snapdiff",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot set document properties: %w", err)
	}

	names := SheetNames(r)
	for i, col := range r.Columns {
		if err := writeSheet(f, names[i], col); err != nil {
			f.Close()
			return nil, fmt.Errorf("column %q: %w", col.Column, err)
		}
	}
	// Sheet1 is the default sheet, kept only when a column is named after it.
	if !containsFold(names, "Sheet1") {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			f.Close()
			return nil, fmt.Errorf("cannot remove default sheet: %w", err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, col snapdiff.ColumnChanges) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("cannot create sheet %q: %w", sheet, err)
	}
	header := []any{"key", col.Column + "_before", col.Column + "_after"}
	if col.HasDelta() {
		header = append(header, "absolute_change", "pct_change")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, rec := range col.Records {
		row := []any{rec.Key, cell(rec.Before), cell(rec.After)}
		if col.HasDelta() {
			var abs, pct any
			if d := rec.Delta; d != nil {
				abs = cell(d.Absolute)
				if d.Pct.Status == snapdiff.PctDefined {
					pct = float64(d.Pct.Value)
				}
			}
			row = append(row, abs, pct)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return err
		}
	}
	return nil
}

// cell converts a value to an excel cell: numbers as float64, missing as an empty cell.
func cell(v snapdiff.Value) any {
	switch {
	case v.IsMissing():
		return nil
	case v.IsNumber():
		return v.Decimal().InexactFloat64()
	default:
		return v.String()
	}
}

// SheetNames returns the sheet name of each column of r, in order.
//
// Names are valid excel sheet names: characters []:*?/\ are replaced by '_',
// names are at most 31 characters long and unique (case insensitive), a "~n"
// suffix is appended to duplicates.
func SheetNames(r *snapdiff.Result) []string {
	names := make([]string, 0, len(r.Columns))
	seen := make(map[string]bool)
	for _, col := range r.Columns {
		base := sanitize(col.Column)
		name := base
		for n := 1; seen[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf("~%d", n)
			name = truncate(base, maxSheetName-len(suffix)) + suffix
		}
		seen[strings.ToLower(name)] = true
		names = append(names, name)
	}
	return names
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, s)
	// Excel also rejects names starting or ending with an apostrophe.
	s = strings.Trim(s, "'")
	if s == "" {
		s = "column"
	}
	return truncate(s, maxSheetName)
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
