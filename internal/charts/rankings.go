package charts

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/olukfidel/state-finance-dashboard/internal/dataset"
)

// StateRevenue is one state's summed revenue for the selected year.
type StateRevenue struct {
	State   string
	Revenue float64
}

// RevenueRankings filters the table to the selected year, sums Totals.Revenue
// per state (duplicate state-year rows aggregate by sum), and splits the
// descending ranking into the top 10 and the bottom 10. The bottom slice is
// re-sorted ascending for display, so its first element is the smallest.
// With fewer than 20 states the two slices overlap; callers get at most 10
// entries each either way.
func RevenueRankings(t *dataset.Table, year int) (top, bottom []StateRevenue, err error) {
	if missing := t.MissingColumns(dataset.ColRevenue); len(missing) > 0 {
		return nil, nil, &SchemaError{Missing: missing}
	}

	sums := make(map[string]float64)
	seen := make(map[string]bool)
	var order []string
	for _, row := range t.Rows {
		if row.Year != year {
			continue
		}
		if !seen[row.State] {
			seen[row.State] = true
			order = append(order, row.State)
		}
		if v, ok := row.Value(dataset.ColRevenue); ok {
			sums[row.State] += v
		}
	}
	if len(order) == 0 {
		return nil, nil, noData("No data available for the year: %d.", year)
	}

	ranked := make([]StateRevenue, 0, len(order))
	for _, state := range order {
		ranked = append(ranked, StateRevenue{State: state, Revenue: sums[state]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })

	n := len(ranked)
	top = append([]StateRevenue(nil), ranked[:min(10, n)]...)

	tail := ranked[n-min(10, n):]
	bottom = make([]StateRevenue, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		bottom = append(bottom, tail[i])
	}
	return top, bottom, nil
}

// RenderRevenueRankings renders the top-10 and bottom-10 horizontal bar
// panels stacked in a single PNG.
func RenderRevenueRankings(t *dataset.Table, year int) ([]byte, error) {
	top, bottom, err := RevenueRankings(t, year)
	if err != nil {
		return nil, err
	}

	topPanel, err := renderRankingPanel(
		fmt.Sprintf("State Revenue Rankings for %d: Top 10 States by Revenue Collection", year),
		top, color.RGBA{R: 0x35, G: 0x78, B: 0x8c, A: 0xff})
	if err != nil {
		return nil, err
	}
	bottomPanel, err := renderRankingPanel(
		fmt.Sprintf("State Revenue Rankings for %d: Bottom 10 States by Revenue Collection", year),
		bottom, color.RGBA{R: 0x8c, G: 0x4a, B: 0x7d, A: 0xff})
	if err != nil {
		return nil, err
	}

	return composeVertical(topPanel, bottomPanel)
}

func renderRankingPanel(title string, ranks []StateRevenue, barColor color.RGBA) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Total Revenue (in USD)"
	p.Y.Label.Text = "State"
	p.X.Tick.Marker = amountTicks{}

	// Nominal index 0 draws at the bottom of the panel; reverse so the
	// slice's first entry appears at the top.
	values := make(plotter.Values, len(ranks))
	names := make([]string, len(ranks))
	for i, r := range ranks {
		j := len(ranks) - 1 - i
		values[j] = r.Revenue
		names[j] = r.State
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("render ranking panel: %w", err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = 0
	bars.Color = barColor
	p.Add(bars)
	p.NominalY(names...)

	return pngBytes(p, 8*vg.Inch, 5*vg.Inch)
}
