// Package filters derives the selectable filter values from a loaded table.
package filters

import (
	"sort"

	"github.com/olukfidel/state-finance-dashboard/internal/dataset"
)

// States returns the distinct State values in the table, sorted ascending.
func States(t *dataset.Table) []string {
	seen := make(map[string]bool)
	var states []string
	for _, row := range t.Rows {
		if row.State == "" || seen[row.State] {
			continue
		}
		seen[row.State] = true
		states = append(states, row.State)
	}
	sort.Strings(states)
	return states
}

// Years returns the distinct Year values in the table, sorted ascending.
func Years(t *dataset.Table) []int {
	seen := make(map[int]bool)
	var years []int
	for _, row := range t.Rows {
		if seen[row.Year] {
			continue
		}
		seen[row.Year] = true
		years = append(years, row.Year)
	}
	sort.Ints(years)
	return years
}

// DefaultYear returns the latest year in the table. The second return is
// false for an empty table.
func DefaultYear(t *dataset.Table) (int, bool) {
	years := Years(t)
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}
