package render

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/salesdash/internal/chart"
)

func padding(m chart.Margin) gochart.Box {
	return gochart.Box{Top: m.Top, Left: m.Left, Right: m.Right, Bottom: m.Bottom}
}

func bars(w io.Writer, spec chart.Spec, size Size) error {
	top := 0
	values := make([]gochart.Value, len(spec.Bars))
	for i, b := range spec.Bars {
		values[i] = gochart.Value{Label: b.Label, Value: float64(b.Count)}
		top = max(top, b.Count)
	}
	bc := gochart.BarChart{
		Title:      spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   max(size.Width/(2*len(values)+1), 8),
		Background: gochart.Style{Padding: padding(spec.Layout.Margin)},
		// an explicit range keeps a single-valued chart from failing
		YAxis: gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: float64(top) * 1.1}},
		Bars:  values,
	}
	return bc.Render(gochart.SVG, w)
}

func pie(w io.Writer, spec chart.Spec, size Size) error {
	values := make([]gochart.Value, len(spec.Slices))
	for i, s := range spec.Slices {
		values[i] = gochart.Value{Label: s.Label, Value: float64(s.Value)}
	}
	pc := gochart.PieChart{
		Title:      spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: gochart.Style{Padding: padding(spec.Layout.Margin)},
		Values:     values,
	}
	return pc.Render(gochart.SVG, w)
}
