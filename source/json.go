package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/snapdiff"
)

// DefaultJSONPath selects the elements of a top level array.
const DefaultJSONPath = "$[*]"

func openJSON(r Ref) (*snapdiff.Table, error) {
	f, err := os.Open(r.Location)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f, r.String(), r.Selector)
}

// ReadJSON reads the objects selected by path in a JSON document.
//
// Each object is a row, columns are the union of the object properties, sorted by name.
func ReadJSON(in io.Reader, name, path string) (*snapdiff.Table, error) {
	if path == "" {
		path = DefaultJSONPath
	}
	dec := json.NewDecoder(in)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse json: %w", err)
	}

	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	// jsonpath returns a list for wildcards and a single value otherwise.
	var items []any
	switch v := selected.(type) {
	case []any:
		items = v
	default:
		items = []any{v}
	}

	objects := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q: element %d is a %T, want an object", path, i, item)
		}
		objects = append(objects, obj)
	}
	return objectsTable(name, objects)
}

func openJSONL(r Ref) (*snapdiff.Table, error) {
	f, err := os.Open(r.Location)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSONL(f, r.String())
}

// ReadJSONL reads one object per line, blank lines are ignored.
func ReadJSONL(in io.Reader, name string) (*snapdiff.Table, error) {
	var objects []map[string]any
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: cannot parse object: %w", lineno, err)
		}
		objects = append(objects, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return objectsTable(name, objects)
}

// objectsTable turns decoded JSON objects into a table.
func objectsTable(name string, objects []map[string]any) (*snapdiff.Table, error) {
	seen := make(map[string]bool)
	var columns []string
	for _, obj := range objects {
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	slices.Sort(columns)

	t, err := snapdiff.NewTable(name, columns...)
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		values := make([]snapdiff.Value, len(columns))
		for j, col := range columns {
			values[j] = jsonValue(obj[col])
		}
		if err := t.Append(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// jsonValue converts a decoded JSON value, nested values are kept as compact JSON text.
func jsonValue(v any) snapdiff.Value {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return snapdiff.Text(fmt.Sprint(v))
		}
		return snapdiff.Text(string(data))
	default:
		return snapdiff.FromAny(v)
	}
}
