package dataset

// Well-known column names. Exact names are part of the upload contract; the
// loader does not rename or remap columns.
const (
	ColState       = "State"
	ColYear        = "Year"
	ColRevenue     = "Totals.Revenue"
	ColExpenditure = "Totals.Expenditure"
	ColHealth      = "Details.Health.Health Total Expenditure"
	ColEducation   = "Details.Education.Education Total"
)

// Row is one state-year observation. Values holds the numeric columns that
// parsed for this row; a column can be present in the table header but absent
// from an individual row's Values when its cell was empty or non-numeric.
type Row struct {
	State  string
	Year   int
	Values map[string]float64
}

// Value returns a named numeric column for this row.
func (r Row) Value(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Table is the Financial Record Table: an immutable, ordered set of rows plus
// the full header as uploaded. (State, Year) pairs are expected to be unique
// per dataset but this is not enforced; aggregating consumers sum duplicates.
type Table struct {
	// Columns preserves the uploaded header order, including non-numeric
	// columns the loader carried but did not parse.
	Columns []string

	// Rows preserves upload order.
	Rows []Row

	colSet map[string]bool
}

// NewTable builds a table from a header and rows. Used by the loader and by
// tests that assemble tables directly.
func NewTable(columns []string, rows []Row) *Table {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return &Table{Columns: columns, Rows: rows, colSet: set}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the uploaded header named the column.
func (t *Table) HasColumn(col string) bool {
	return t.colSet[col]
}

// MissingColumns returns, in argument order, the given columns absent from the
// header. An empty result means the schema check passed.
func (t *Table) MissingColumns(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.colSet[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
