package renderer

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/etnz/snapdiff"
	"github.com/shopspring/decimal"
)

// Comparison is the rendering view of a snapdiff.Result.
// Cells are already formatted, templates only lay them out.
type Comparison struct {
	Title      string   `json:"title"`
	Empty      bool     `json:"empty"`
	CommonKeys int      `json:"commonKeys"`
	Skipped    []string `json:"skipped,omitempty"`
	Columns    []Column `json:"columns"`
	OnlyBefore []string `json:"onlyBefore,omitempty"`
	OnlyAfter  []string `json:"onlyAfter,omitempty"`
}

// Column is the change table of a single column.
type Column struct {
	Name    string `json:"name"`
	Numeric bool   `json:"numeric"`
	Total   int    `json:"total"` // number of records
	Shown   int    `json:"shown"` // number of rows, at most TopN
	Rows    []Row  `json:"rows"`
}

// Row is a formatted ChangeRecord.
type Row struct {
	Key      string `json:"key"`
	Before   string `json:"before"`
	After    string `json:"after"`
	Absolute string `json:"absolute,omitempty"`
	Pct      string `json:"pct,omitempty"`
}

// NewComparison creates the view of r.
func NewComparison(r *snapdiff.Result, opts Options) *Comparison {
	c := &Comparison{
		Title:   opts.Title,
		Empty:   r.Empty(),
		Columns: make([]Column, 0),
	}
	if c.Title == "" {
		c.Title = "Comparison"
	}
	if r == nil {
		return c
	}
	c.CommonKeys = r.CommonKeys
	c.Skipped = r.SkippedColumns
	c.OnlyBefore = r.OnlyBefore
	c.OnlyAfter = r.OnlyAfter

	for _, col := range r.Columns {
		top := col.Top()
		vc := Column{
			Name:    col.Column,
			Numeric: col.HasDelta(),
			Total:   len(col.Records),
			Shown:   len(top),
			Rows:    make([]Row, 0, len(top)),
		}
		for _, rec := range top {
			row := Row{
				Key:    rec.Key,
				Before: formatValue(rec.Before, opts.Currency),
				After:  formatValue(rec.After, opts.Currency),
			}
			if rec.Occurrence > 0 {
				row.Key = fmt.Sprintf("%s (#%d)", rec.Key, rec.Occurrence+1)
			}
			if rec.Delta != nil {
				row.Absolute = signedValue(rec.Delta.Absolute, opts.Currency)
				row.Pct = rec.Delta.Pct.String()
			}
			vc.Rows = append(vc.Rows, row)
		}
		c.Columns = append(c.Columns, vc)
	}
	return c
}

// formatValue formats a cell, numbers as money when a currency is set.
func formatValue(v snapdiff.Value, currency string) string {
	if !v.IsNumber() {
		return v.String()
	}
	return formatNumber(v.Decimal(), currency)
}

// signedValue formats a change with an explicit sign, "-" when zero.
func signedValue(v snapdiff.Value, currency string) string {
	if !v.IsNumber() {
		return ""
	}
	d := v.Decimal()
	if d.IsZero() {
		return "-"
	}
	s := formatNumber(d, currency)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func formatNumber(d decimal.Decimal, currency string) string {
	if currency == "" {
		return d.String()
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.String() + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		// go-money amounts are int64 minor units.
		return d.StringFixed(int32(cur.Fraction)) + " " + cur.Code
	}
	return cur.Formatter().Format(minor.IntPart())
}
