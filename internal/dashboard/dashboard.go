// Package dashboard turns a filtered dataset view into the seven chart panels.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/salesdash/internal/chart"
	"github.com/KaramelBytes/salesdash/internal/dataset"
)

// Panel is a display slot index.
type Panel int

const (
	PanelHistogram Panel = iota
	PanelScatter
	PanelCorrelation
	PanelSeasonBars
	PanelGenderPie
	PanelDensity
	PanelRegression

	NumPanels = 7
)

const (
	HistogramBins = 30
	DensityBins   = 30

	// UnspecifiedGender buckets reference-brand rows without a gender.
	UnspecifiedGender = "unspecified"
)

var panelNames = [NumPanels]string{
	"histogram", "scatter", "correlation", "season-bars", "gender-pie", "density", "regression",
}

func (p Panel) String() string {
	if p < 0 || int(p) >= NumPanels {
		return fmt.Sprintf("panel(%d)", int(p))
	}
	return panelNames[p]
}

// ParsePanel accepts either a 1-based slot number or a panel name.
func ParsePanel(s string) (Panel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range panelNames {
		if s == n || s == fmt.Sprint(i+1) {
			return Panel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown panel %q", s)
}

// Options tunes the pipeline.
type Options struct {
	// ReferenceBrand restricts the gender pie; compared case-insensitively.
	ReferenceBrand string
}

// DefaultOptions returns the pipeline defaults.
func DefaultOptions() Options {
	return Options{ReferenceBrand: "keeper"}
}

// Dashboard is the atomic result of one recomputation.
type Dashboard struct {
	Selection dataset.Selection     `json:"selection"`
	Rows      int                   `json:"rows"`
	Charts    [NumPanels]chart.Spec `json:"charts"`
}

// Chart returns the spec in slot p.
func (d *Dashboard) Chart(p Panel) chart.Spec { return d.Charts[p] }

// Build filters the store and computes every panel.
func Build(store *dataset.Store, sel dataset.Selection, opt Options) (*Dashboard, error) {
	v, err := store.Filter(sel)
	if err != nil {
		return nil, err
	}
	return Compute(v, opt), nil
}

// Compute derives all panels from v. It never fails: insufficient data
// produces placeholders or empty payloads.
func Compute(v *dataset.View, opt Options) *Dashboard {
	if strings.TrimSpace(opt.ReferenceBrand) == "" {
		opt.ReferenceBrand = DefaultOptions().ReferenceBrand
	}
	recs := v.Records()
	d := &Dashboard{Selection: v.Selection(), Rows: len(recs)}
	d.Charts[PanelHistogram] = priceHistogram(recs, d.Selection)
	d.Charts[PanelScatter] = priceVsSold(recs)
	d.Charts[PanelCorrelation] = correlation(recs)
	d.Charts[PanelSeasonBars] = seasonBars(recs)
	d.Charts[PanelGenderPie] = genderPie(recs, opt.ReferenceBrand)
	d.Charts[PanelDensity] = density(recs)
	d.Charts[PanelRegression] = regression(recs)
	return d
}

func priceHistogram(recs []dataset.Record, sel dataset.Selection) chart.Spec {
	s := chart.Spec{
		Kind:   chart.KindHistogram,
		Title:  "Product price distribution",
		XLabel: "Price",
		YLabel: "Count",
		Layout: chart.DefaultLayout(),
	}
	xs := make([]float64, 0, len(recs))
	for _, r := range recs {
		if !math.IsNaN(r.Price) {
			xs = append(xs, r.Price)
		}
	}
	var lo, hi float64
	if len(xs) == 0 {
		lo, hi = sel.Interval()
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			lo, hi = 0, 1
		}
	} else {
		sort.Float64s(xs)
		lo, hi = xs[0], xs[len(xs)-1]
	}
	edges := spanEdges(lo, hi, HistogramBins)
	counts := make([]float64, HistogramBins)
	if len(xs) > 0 {
		// stat.Histogram wants the top divider strictly above the largest value.
		div := append([]float64(nil), edges...)
		if top := xs[len(xs)-1]; div[HistogramBins] <= top {
			div[HistogramBins] = math.Nextafter(top, math.Inf(1))
		}
		counts = stat.Histogram(nil, div, xs, nil)
	}
	s.Bins = make([]chart.Bin, HistogramBins)
	for i := range s.Bins {
		s.Bins[i] = chart.Bin{Min: edges[i], Max: edges[i+1], Count: int(counts[i])}
	}
	return s
}

func priceVsSold(recs []dataset.Record) chart.Spec {
	return chart.Spec{
		Kind:   chart.KindScatter,
		Title:  "Price vs quantity sold",
		XLabel: "Price",
		YLabel: "Quantity sold (code)",
		Layout: chart.DefaultLayout(),
		Points: completePoints(recs),
	}
}

var corrLabels = []string{"price", "sold_qty", "reviews_norm"}

func correlation(recs []dataset.Record) chart.Spec {
	s := chart.Spec{
		Kind:   chart.KindHeatmap,
		Title:  "Correlation heatmap",
		Layout: chart.DefaultLayout(),
	}
	s.Layout.Palette = "RdBu"
	cols := make([][]float64, len(corrLabels))
	for _, r := range recs {
		if math.IsNaN(r.Price) || math.IsNaN(r.SoldQty) || math.IsNaN(r.ReviewsNorm) {
			continue
		}
		cols[0] = append(cols[0], r.Price)
		cols[1] = append(cols[1], r.SoldQty)
		cols[2] = append(cols[2], r.ReviewsNorm)
	}
	n := len(corrLabels)
	vals := make([][]float64, n)
	for i := range vals {
		vals[i] = make([]float64, n)
		vals[i][i] = 1
	}
	s.Matrix = &chart.Matrix{Labels: append([]string(nil), corrLabels...), Values: vals}
	if len(cols[0]) < 2 {
		s.Title = "Correlation heatmap (insufficient data)"
		s.Placeholder = true
		return s
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := stat.Correlation(cols[i], cols[j], nil)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				c = 0
			}
			vals[i][j], vals[j][i] = c, c
		}
	}
	return s
}

func seasonBars(recs []dataset.Record) chart.Spec {
	s := chart.Spec{
		Kind:   chart.KindBar,
		Title:  "Quantity per season",
		XLabel: "Season",
		YLabel: "Count",
		Layout: chart.DefaultLayout(),
	}
	counts := map[string]int{}
	for _, r := range recs {
		counts[r.Season]++
	}
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	dataset.SortCodes(codes)
	sort.SliceStable(codes, func(i, j int) bool { return counts[codes[i]] > counts[codes[j]] })
	for _, c := range codes {
		s.Bars = append(s.Bars, chart.Bar{Label: c, Count: counts[c]})
	}
	return s
}

func genderPie(recs []dataset.Record, brand string) chart.Spec {
	display := displayBrand(brand)
	s := chart.Spec{
		Kind:   chart.KindPie,
		Title:  display + " brand by gender",
		Layout: chart.DefaultLayout(),
	}
	counts := map[string]int{}
	for _, r := range recs {
		if !strings.EqualFold(strings.TrimSpace(r.Brand), strings.TrimSpace(brand)) {
			continue
		}
		g := strings.TrimSpace(r.Gender)
		if g == "" {
			g = UnspecifiedGender
		}
		counts[g]++
	}
	if len(counts) == 0 {
		s.Placeholder = true
		s.Slices = []chart.Slice{{Label: fmt.Sprintf("No data (%s)", display), Value: 1}}
		return s
	}
	for g, n := range counts {
		s.Slices = append(s.Slices, chart.Slice{Label: g, Value: n})
	}
	sort.Slice(s.Slices, func(i, j int) bool {
		if s.Slices[i].Value != s.Slices[j].Value {
			return s.Slices[i].Value > s.Slices[j].Value
		}
		return s.Slices[i].Label < s.Slices[j].Label
	})
	return s
}

func density(recs []dataset.Record) chart.Spec {
	s := chart.Spec{
		Kind:   chart.KindDensity,
		Title:  "Density: price vs quantity sold",
		XLabel: "Price",
		YLabel: "Quantity sold (code)",
		Layout: chart.DefaultLayout(),
	}
	s.Layout.Template = "plotly_white"
	s.Layout.Height = 450
	s.Layout.Palette = "Blues"
	s.Layout.Opacity = 0.85

	pts := completePoints(recs)
	if len(pts) == 0 {
		return s
	}
	xs, ys := split(pts)
	g := &chart.Grid{
		XEdges: spanEdges(floats.Min(xs), floats.Max(xs), DensityBins),
		YEdges: spanEdges(floats.Min(ys), floats.Max(ys), DensityBins),
		Counts: make([][]int, DensityBins),
	}
	for i := range g.Counts {
		g.Counts[i] = make([]int, DensityBins)
	}
	for _, p := range pts {
		g.Counts[binIndex(g.YEdges, p.Y)][binIndex(g.XEdges, p.X)]++
	}
	s.Grid = g
	return s
}

func regression(recs []dataset.Record) chart.Spec {
	s := chart.Spec{
		Kind:   chart.KindRegression,
		Title:  "Regression: price vs quantity sold",
		XLabel: "Price",
		YLabel: "Quantity sold (code)",
		Layout: chart.DefaultLayout(),
		Points: completePoints(recs),
	}
	if len(s.Points) < 2 {
		return s
	}
	xs, ys := split(s.Points)
	if stat.Variance(xs, nil) == 0 {
		return s
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	s.Trend = &chart.Trend{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  r2,
		Line:      []chart.Point{{X: lo, Y: alpha + beta*lo}, {X: hi, Y: alpha + beta*hi}},
	}
	return s
}

// completePoints returns (price, sold qty) for rows that have both.
func completePoints(recs []dataset.Record) []chart.Point {
	pts := make([]chart.Point, 0, len(recs))
	for _, r := range recs {
		if math.IsNaN(r.Price) || math.IsNaN(r.SoldQty) {
			continue
		}
		pts = append(pts, chart.Point{X: r.Price, Y: r.SoldQty})
	}
	return pts
}

func split(pts []chart.Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// spanEdges returns n+1 evenly spaced edges over [lo, hi], widening a
// zero-width range by 0.5 on each side. The outer edges are exactly lo and hi.
func spanEdges(lo, hi float64, n int) []float64 {
	if hi <= lo {
		lo, hi = lo-0.5, lo+0.5
	}
	e := floats.Span(make([]float64, n+1), lo, hi)
	e[n] = hi
	return e
}

// binIndex finds the bin of x; the last bin includes its upper edge.
func binIndex(edges []float64, x float64) int {
	n := len(edges) - 1
	i := sort.Search(n, func(i int) bool { return x < edges[i+1] })
	if i >= n {
		i = n - 1
	}
	return i
}

func displayBrand(b string) string {
	b = strings.TrimSpace(b)
	if b == "" {
		return b
	}
	return strings.ToUpper(b[:1]) + strings.ToLower(b[1:])
}
