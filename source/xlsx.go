package source

import (
	"fmt"
	"strings"

	"github.com/etnz/snapdiff"
	"github.com/xuri/excelize/v2"
)

// openXLSX reads the selected sheet, the first one by default.
func openXLSX(r Ref) (*snapdiff.Table, error) {
	f, err := excelize.OpenFile(r.Location)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := r.Selector
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheet")
		}
		sheet = sheets[0]
	}

	// raw values: formatted numbers like "1,234.50" would otherwise read as text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty, a header row is required", sheet)
	}
	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return newTable(r.String(), header, rows[1:])
}
