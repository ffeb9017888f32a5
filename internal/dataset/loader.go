package dataset

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the content-identity key for an uploaded file. Identical
// bytes always map to the same dataset ID, which is what makes the in-memory
// store a memoization cache rather than a database.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Parse dispatches on the uploaded filename: .xlsx workbooks go through the
// spreadsheet reader, everything else is treated as CSV.
func Parse(filename string, data []byte) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return ParseXLSX(data)
	}
	return ParseCSV(data)
}

// ParseCSV parses an uploaded CSV into a Table. The first record is the
// header and must name at least State and Year. Numeric cells are parsed as
// float64; empty or non-numeric cells leave the column absent for that row.
func ParseCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return tableFromRecords(records)
}

// tableFromRecords builds a Table from header+data records. Shared by the CSV
// and XLSX paths so both inputs honor the same column contract.
func tableFromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("parse table: empty input")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	stateIdx, yearIdx := -1, -1
	for i, h := range header {
		switch h {
		case ColState:
			stateIdx = i
		case ColYear:
			yearIdx = i
		}
	}
	if stateIdx < 0 || yearIdx < 0 {
		return nil, fmt.Errorf("parse table: header must contain %q and %q columns", ColState, ColYear)
	}

	rows := make([]Row, 0, len(records)-1)
	for n, record := range records[1:] {
		if len(record) <= stateIdx || len(record) <= yearIdx {
			return nil, fmt.Errorf("parse table: row %d has %d fields, need at least %d", n+2, len(record), max(stateIdx, yearIdx)+1)
		}

		year, err := parseYear(record[yearIdx])
		if err != nil {
			return nil, fmt.Errorf("parse table: row %d: %w", n+2, err)
		}

		row := Row{
			State:  strings.TrimSpace(record[stateIdx]),
			Year:   year,
			Values: make(map[string]float64),
		}
		for i, cell := range record {
			if i >= len(header) || i == stateIdx || i == yearIdx {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				row.Values[header[i]] = v
			}
		}
		rows = append(rows, row)
	}

	return NewTable(header, rows), nil
}

// parseYear accepts integer years and integral floats ("2020", "2020.0").
func parseYear(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if y, err := strconv.Atoi(cell); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid %s value %q", ColYear, cell)
	}
	return int(f), nil
}
