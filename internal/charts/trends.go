package charts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/olukfidel/state-finance-dashboard/internal/dataset"
)

// TrendPoint is one year's health and education expenditure for a state.
// Cells that were absent in the upload contribute zero.
type TrendPoint struct {
	Year      int
	Health    float64
	Education float64
}

// ExpenditureTrend filters the table to the selected state and orders it by
// year ascending, ties kept in upload order. The health and education columns
// must both exist; that check runs before any row filtering so a schema
// mismatch is reported even for states with no rows.
func ExpenditureTrend(t *dataset.Table, state string) ([]TrendPoint, error) {
	if missing := t.MissingColumns(dataset.ColHealth, dataset.ColEducation); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var points []TrendPoint
	for _, row := range t.Rows {
		if row.State != state {
			continue
		}
		health, _ := row.Value(dataset.ColHealth)
		education, _ := row.Value(dataset.ColEducation)
		points = append(points, TrendPoint{Year: row.Year, Health: health, Education: education})
	}
	if len(points) == 0 {
		return nil, noData("No data available for the state: %s.", state)
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points, nil
}

// RenderExpenditureTrends renders the two trend line charts side by side in a
// single PNG.
func RenderExpenditureTrends(t *dataset.Table, state string) ([]byte, error) {
	points, err := ExpenditureTrend(t, state)
	if err != nil {
		return nil, err
	}

	years := make([]float64, len(points))
	health := make([]float64, len(points))
	education := make([]float64, len(points))
	for i, p := range points {
		years[i] = float64(p.Year)
		health[i] = p.Health
		education[i] = p.Education
	}

	dodgerBlue := drawing.Color{R: 30, G: 144, B: 255, A: 255}
	orange := drawing.Color{R: 255, G: 165, B: 0, A: 255}

	left, err := renderTrendPanel(
		fmt.Sprintf("Health Expenditure Trend for %s", state),
		"Total Health Expenditure (USD)", years, health, dodgerBlue)
	if err != nil {
		return nil, err
	}
	right, err := renderTrendPanel(
		fmt.Sprintf("Education Expenditure Trend for %s", state),
		"Total Education Expenditure (USD)", years, education, orange)
	if err != nil {
		return nil, err
	}

	return composeHorizontal(left, right)
}

func renderTrendPanel(title, yName string, xs, ys []float64, col drawing.Color) ([]byte, error) {
	// A single-point series gives the x axis no range; pad with a flat
	// neighbor so the lone observation still renders.
	if len(xs) == 1 {
		xs = []float64{xs[0], xs[0] + 1}
		ys = []float64{ys[0], ys[0]}
	}

	grid := chart.Style{
		StrokeColor:     chart.ColorAlternateGray,
		StrokeWidth:     0.5,
		StrokeDashArray: []float64{5.0, 5.0},
	}

	ch := chart.Chart{
		Title:  title,
		Width:  640,
		Height: 440,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 20, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           "Year",
			ValueFormatter: yearValueFormatter,
			TickStyle:      chart.Style{TextRotationDegrees: 45.0},
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           yName,
			ValueFormatter: amountValueFormatter,
			GridMajorStyle: grid,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    yName,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 2.5,
					StrokeColor: col,
					DotWidth:    4,
					DotColor:    col,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend panel: %w", err)
	}
	return buf.Bytes(), nil
}
