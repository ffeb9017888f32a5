package charts

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/olukfidel/state-finance-dashboard/internal/dataset"
)

// MetricAmount is one melted (Metric, Amount) pair.
type MetricAmount struct {
	Metric string
	Amount float64
}

var revExpColumns = []string{dataset.ColRevenue, dataset.ColExpenditure}

// MeltRevenueExpenditure reshapes the two totals columns into long form for
// the selected state and year: the shared "Totals." prefix is stripped, so the
// output metrics are "Revenue" and "Expenditure" in that order. Duplicate
// (state, year) rows are summed per metric.
//
// Returns *SchemaError when either totals column is missing from the header,
// and an ErrNoData warning when no row matches the selection.
func MeltRevenueExpenditure(t *dataset.Table, state string, year int) ([]MetricAmount, error) {
	if missing := t.MissingColumns(revExpColumns...); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	melted := make([]MetricAmount, len(revExpColumns))
	matched := false
	for i, col := range revExpColumns {
		melted[i].Metric = strings.TrimPrefix(col, "Totals.")
	}
	for _, row := range t.Rows {
		if row.State != state || row.Year != year {
			continue
		}
		matched = true
		for i, col := range revExpColumns {
			if v, ok := row.Value(col); ok {
				melted[i].Amount += v
			}
		}
	}
	if !matched {
		return nil, noData("No data available for %s in %d. Please select another combination.", state, year)
	}
	return melted, nil
}

// RenderRevenueVsExpenditure renders the two-bar comparison chart.
func RenderRevenueVsExpenditure(t *dataset.Table, state string, year int) ([]byte, error) {
	melted, err := MeltRevenueExpenditure(t, state, year)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Revenue vs. Expenditure for %s in %d", state, year)
	p.X.Label.Text = "Metric"
	p.Y.Label.Text = "Amount (in USD)"
	p.Y.Tick.Marker = amountTicks{}

	// One single-bar chart per metric so each bar keeps its own color; the
	// zero placeholder in the other slot draws nothing.
	colors := []color.RGBA{
		{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}, // Revenue
		{R: 0xf4, G: 0x43, B: 0x36, A: 0xff}, // Expenditure
	}
	labels := make([]string, len(melted))
	for i, m := range melted {
		labels[i] = m.Metric

		values := make(plotter.Values, len(melted))
		values[i] = m.Amount
		bars, err := plotter.NewBarChart(values, vg.Points(60))
		if err != nil {
			return nil, fmt.Errorf("render revenue vs expenditure: %w", err)
		}
		bars.LineStyle.Width = 0
		bars.Color = colors[i%len(colors)]
		p.Add(bars)
	}
	p.NominalX(labels...)

	return pngBytes(p, 6*vg.Inch, 4.5*vg.Inch)
}
