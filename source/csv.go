package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/snapdiff"
)

func openCSV(r Ref, comma rune) (*snapdiff.Table, error) {
	f, err := os.Open(r.Location)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, r.String(), comma)
}

// ReadCSV reads a delimited file whose first record is the header.
func ReadCSV(in io.Reader, name string, comma rune) (*snapdiff.Table, error) {
	cr := csv.NewReader(in)
	cr.Comma = comma
	cr.FieldsPerRecord = -1 // short rows are padded by newTable

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file, a header row is required")
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read records: %w", err)
	}
	return newTable(name, header, rows)
}
