package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/KaramelBytes/salesdash/internal/chart"
)

var (
	barFill   = color.RGBA{R: 99, G: 110, B: 250, A: 255}
	pointFill = color.RGBA{R: 99, G: 110, B: 250, A: 200}
	trendLine = color.RGBA{R: 239, G: 85, B: 59, A: 255}
)

func newPlot(spec chart.Spec) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	return p
}

// write draws p honoring the spec margins. The top margin is left to the
// title, which gonum draws inside the canvas.
func write(w io.Writer, p *plot.Plot, spec chart.Spec, size Size) error {
	c := vgsvg.New(vg.Length(size.Width), vg.Length(size.Height))
	m := spec.Layout.Margin
	dc := draw.Crop(draw.New(c),
		vg.Length(m.Left), -vg.Length(m.Right),
		vg.Length(m.Bottom), 0)
	p.Draw(dc)
	_, err := c.WriteTo(w)
	return err
}

func noData(w io.Writer, spec chart.Spec, size Size) error {
	p := newPlot(spec)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	lbl, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.5, Y: 0.5}},
		Labels: []string{"no data"},
	})
	if err != nil {
		return err
	}
	p.Add(lbl)
	return write(w, p, spec, size)
}

func histogram(w io.Writer, spec chart.Spec, size Size) error {
	p := newPlot(spec)
	h := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(spec.Bins)),
		Width:     spec.Bins[0].Max - spec.Bins[0].Min,
		FillColor: barFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Color = color.White
	for i, b := range spec.Bins {
		h.Bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	p.Add(plotter.NewGrid(), h)
	return write(w, p, spec, size)
}

func scatter(w io.Writer, spec chart.Spec, size Size) error {
	p := newPlot(spec)
	xys := make(plotter.XYs, len(spec.Points))
	for i, pt := range spec.Points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = pointFill
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(plotter.NewGrid(), s)

	if t := spec.Trend; t != nil && len(t.Line) >= 2 {
		line := make(plotter.XYs, len(t.Line))
		for i, pt := range t.Line {
			line[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		l, err := plotter.NewLine(line)
		if err != nil {
			return err
		}
		l.LineStyle.Color = trendLine
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("OLS trend (R² = %.3f)", t.RSquared), l)
		p.Legend.Top = true
	}
	return write(w, p, spec, size)
}

// matrixGrid adapts a chart.Matrix to plotter.GridXYZ with unit cells.
type matrixGrid struct{ m *chart.Matrix }

func (g matrixGrid) Dims() (c, r int)   { return len(g.m.Values), len(g.m.Values) }
func (g matrixGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

func correlation(w io.Writer, spec chart.Spec, size Size) error {
	p := newPlot(spec)
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(matrixGrid{spec.Matrix}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	var lbl plotter.XYLabels
	for r, row := range spec.Matrix.Values {
		for c, v := range row {
			lbl.XYs = append(lbl.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			lbl.Labels = append(lbl.Labels, fmt.Sprintf("%.2f", v))
		}
	}
	labels, err := plotter.NewLabels(lbl)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)
	p.NominalX(spec.Matrix.Labels...)
	p.NominalY(spec.Matrix.Labels...)
	return write(w, p, spec, size)
}

// densityGrid exposes chart.Grid counts at bin centers.
type densityGrid struct{ g *chart.Grid }

func (d densityGrid) Dims() (c, r int) { return len(d.g.XEdges) - 1, len(d.g.YEdges) - 1 }
func (d densityGrid) Z(c, r int) float64 {
	return float64(d.g.Counts[r][c])
}
func (d densityGrid) X(c int) float64 { return (d.g.XEdges[c] + d.g.XEdges[c+1]) / 2 }
func (d densityGrid) Y(r int) float64 { return (d.g.YEdges[r] + d.g.YEdges[r+1]) / 2 }

// blues runs from white to dark blue.
type blues struct {
	n     int
	alpha float64
}

func (b blues) Colors() []color.Color {
	from := [3]float64{247, 251, 255}
	to := [3]float64{8, 48, 107}
	a := b.alpha
	if a <= 0 || a > 1 {
		a = 1
	}
	out := make([]color.Color, b.n)
	for i := range out {
		t := float64(i) / float64(max(b.n-1, 1))
		ch := func(k int) uint8 { return uint8(math.Round(from[k] + (to[k]-from[k])*t)) }
		out[i] = color.NRGBA{R: ch(0), G: ch(1), B: ch(2), A: uint8(math.Round(255 * a))}
	}
	return out
}

var _ palette.Palette = blues{}

func density(w io.Writer, spec chart.Spec, size Size) error {
	p := newPlot(spec)
	hm := plotter.NewHeatMap(densityGrid{spec.Grid}, blues{n: 64, alpha: spec.Layout.Opacity})
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)
	return write(w, p, spec, size)
}
