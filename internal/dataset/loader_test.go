package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `State,Year,Totals.Revenue,Totals.Expenditure,Details.Health.Health Total Expenditure,Details.Education.Education Total
CA,2020,100,80,30,40
CA,2021,120,90,35,45
TX,2020,95,70,,38
`

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV([]byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{
		ColState, ColYear, ColRevenue, ColExpenditure, ColHealth, ColEducation,
	}, table.Columns)

	first := table.Rows[0]
	assert.Equal(t, "CA", first.State)
	assert.Equal(t, 2020, first.Year)
	rev, ok := first.Value(ColRevenue)
	require.True(t, ok)
	assert.Equal(t, 100.0, rev)

	// Blank health cell on the TX row leaves the column absent for that row
	// without affecting the header.
	_, ok = table.Rows[2].Value(ColHealth)
	assert.False(t, ok)
	assert.True(t, table.HasColumn(ColHealth))
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: "empty input",
		},
		{
			name:    "missing State column",
			input:   "Region,Year\nWest,2020\n",
			wantErr: `header must contain "State"`,
		},
		{
			name:    "missing Year column",
			input:   "State,Period\nCA,2020\n",
			wantErr: `header must contain "State"`,
		},
		{
			name:    "non-numeric year",
			input:   "State,Year\nCA,twenty-twenty\n",
			wantErr: "invalid Year",
		},
		{
			name:    "row too short for key columns",
			input:   "State,Year,Totals.Revenue\nCA\n",
			wantErr: "fields",
		},
		{
			name:    "malformed quoting",
			input:   "State,Year\n\"CA,2020\n",
			wantErr: "parse csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseCSV_YearForms(t *testing.T) {
	table, err := ParseCSV([]byte("State,Year\nCA,2020\nTX,2021.0\n"))
	require.NoError(t, err)
	assert.Equal(t, 2020, table.Rows[0].Year)
	assert.Equal(t, 2021, table.Rows[1].Year)
}

func TestParseCSV_NonNumericCellsCarried(t *testing.T) {
	table, err := ParseCSV([]byte("State,Year,Totals.Revenue,Notes\nCA,2020,100,audited\n"))
	require.NoError(t, err)

	assert.True(t, table.HasColumn("Notes"))
	_, ok := table.Rows[0].Value("Notes")
	assert.False(t, ok)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"State", "Year", "Totals.Revenue", "Totals.Expenditure"},
		{"CA", 2020, 100, 80},
		{"TX", 2020, 95, 70},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Parse("finance.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "CA", table.Rows[0].State)
	rev, ok := table.Rows[0].Value(ColRevenue)
	require.True(t, ok)
	assert.Equal(t, 100.0, rev)
}

func TestParseXLSX_Garbage(t *testing.T) {
	_, err := ParseXLSX([]byte("this is not a workbook"))
	require.Error(t, err)
}

func TestParse_DispatchesOnExtension(t *testing.T) {
	// CSV bytes under a .csv name parse; the same bytes under .xlsx do not.
	_, err := Parse("finance.csv", []byte(sampleCSV))
	require.NoError(t, err)

	_, err = Parse("finance.xlsx", []byte(sampleCSV))
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte(sampleCSV))
	b := Fingerprint([]byte(sampleCSV))
	c := Fingerprint([]byte(sampleCSV + "extra"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestMissingColumns(t *testing.T) {
	table, err := ParseCSV([]byte("State,Year,Totals.Revenue\nCA,2020,100\n"))
	require.NoError(t, err)

	assert.Empty(t, table.MissingColumns(ColState, ColRevenue))
	assert.Equal(t, []string{ColHealth, ColEducation}, table.MissingColumns(ColHealth, ColEducation))
}
