package dataset

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of an uploaded workbook and feeds it through
// the same header contract as CSV input. Trailing empty cells are normal in
// spreadsheet rows, so short rows are padded rather than rejected.
func ParseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("parse xlsx: workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse xlsx: sheet %q is empty", sheets[0])
	}

	width := len(records[0])
	for i, record := range records {
		for len(record) < width {
			record = append(record, "")
		}
		records[i] = record
	}

	return tableFromRecords(records)
}
