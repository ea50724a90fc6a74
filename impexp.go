package snapdiff

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// this file contains functions to handle the changes import/export format.
// It should remain human readable, one record per line, and easy to grep.

// ExportChanges writes every record of r to 'w' in the changes format.
//
// The format is a JSONL file, where each line is a JSON object representing a
// single ChangeRecord. Properties are written in a fixed order:
//
//   - 'column' and 'type' identify the compare column and its resolved type,
//   - 'key' is the composite key, 'occurrence' the pairing position (omitted when 0),
//   - 'before' and 'after' are the cells, null when missing,
//   - 'absoluteChange' and 'pctChange' are only present on records with metrics.
//     'absoluteChange' is null when a side is missing, 'pctChange' is null when
//     the old value is zero and omitted when a side is missing.
//
// Numbers are written with all their digits.
func ExportChanges(w io.Writer, r *Result) error {
	for _, col := range r.Columns {
		for _, rec := range col.Records {
			var o jsonObjectWriter
			o.Append("column", col.Column)
			o.Append("type", col.Type.String())
			o.Append("key", rec.Key)
			o.Optional("occurrence", rec.Occurrence)
			o.Append("before", rec.Before)
			o.Append("after", rec.After)
			if d := rec.Delta; d != nil {
				o.Append("absoluteChange", d.Absolute)
				switch d.Pct.Status {
				case PctDefined:
					o.Append("pctChange", float64(d.Pct.Value))
				case PctUndefined:
					o.Append("pctChange", nil)
				}
			}
			data, err := o.MarshalJSON()
			if err != nil {
				return fmt.Errorf("cannot marshal %q change for key %q: %w", col.Column, rec.Key, err)
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("cannot write changes format: %w", err)
			}
		}
	}
	return nil
}

// ImportChanges reads a result from 'r' in the changes format written by ExportChanges.
//
// Columns appear in the order of their first record. Diagnostics are not part of
// the format and TopN is set to DefaultTopN.
func ImportChanges(r io.Reader) (*Result, error) {
	res := &Result{TopN: DefaultTopN}
	positions := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var fields map[string]json.RawMessage
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("line %d: cannot parse changes format: %w", lineno, err)
		}

		var column, typ string
		var rec ChangeRecord
		if err := decodeFields(fields, map[string]any{
			"column":     &column,
			"type":       &typ,
			"key":        &rec.Key,
			"occurrence": &rec.Occurrence,
			"before":     &rec.Before,
			"after":      &rec.After,
		}); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if column == "" {
			return nil, fmt.Errorf("line %d: missing 'column' property", lineno)
		}
		ctype, err := ParseColumnType(typ)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}

		if raw, ok := fields["absoluteChange"]; ok {
			d := &Delta{}
			if err := json.Unmarshal(raw, &d.Absolute); err != nil {
				return nil, fmt.Errorf("line %d: invalid 'absoluteChange': %w", lineno, err)
			}
			if raw, ok := fields["pctChange"]; ok {
				var pct *float64
				if err := json.Unmarshal(raw, &pct); err != nil {
					return nil, fmt.Errorf("line %d: invalid 'pctChange': %w", lineno, err)
				}
				if pct == nil {
					d.Pct.Status = PctUndefined
				} else {
					d.Pct = PctChange{Status: PctDefined, Value: Percent(*pct)}
				}
			}
			rec.Delta = d
		}

		i, seen := positions[column]
		if !seen {
			if ctype == Auto {
				ctype = Categorical
			}
			i = len(res.Columns)
			positions[column] = i
			res.Columns = append(res.Columns, ColumnChanges{Column: column, Type: ctype, TopN: res.TopN})
		}
		res.Columns[i].Records = append(res.Columns[i].Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read changes format: %w", err)
	}
	return res, nil
}

// decodeFields unmarshals the present properties into their targets.
func decodeFields(fields map[string]json.RawMessage, targets map[string]any) error {
	for name, target := range targets {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("invalid %q property %s: %w", name, strings.TrimSpace(string(raw)), err)
		}
	}
	return nil
}
