package charts

import (
	"bytes"
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// FormatAmount renders a dollar amount with thousands separators and no
// scientific notation, rounding to the nearest whole unit.
func FormatAmount(v float64) string {
	n := int64(v + 0.5)
	if v < 0 {
		n = int64(v - 0.5)
	}
	return formatGrouped(n)
}

func formatGrouped(n int64) string {
	if n < 0 {
		return "-" + formatGrouped(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s,%03d", formatGrouped(n/1000), n%1000)
}

// amountValueFormatter is a go-chart axis formatter for dollar amounts.
func amountValueFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return FormatAmount(f)
}

// yearValueFormatter renders year ticks as plain integers.
func yearValueFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.Itoa(int(f + 0.5))
}

// amountTicks relabels gonum's default ticks with grouped amounts so axes
// never fall back to scientific notation.
type amountTicks struct{}

func (amountTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = FormatAmount(ticks[i].Value)
	}
	return ticks
}

// pngBytes renders a gonum plot to in-memory PNG.
func pngBytes(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
