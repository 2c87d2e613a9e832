package chart

import "testing"

func TestTotalAndEmpty(t *testing.T) {
	cases := []struct {
		name  string
		spec  Spec
		total int
		empty bool
	}{
		{"histogram", Spec{Kind: KindHistogram, Bins: []Bin{{Count: 2}, {Count: 3}}}, 5, false},
		{"zero bins", Spec{Kind: KindHistogram, Bins: []Bin{{}, {}}}, 0, true},
		{"bars", Spec{Kind: KindBar, Bars: []Bar{{Label: "1", Count: 4}}}, 4, false},
		{"no bars", Spec{Kind: KindBar}, 0, true},
		{"pie", Spec{Kind: KindPie, Slices: []Slice{{Label: "F", Value: 1}}}, 1, false},
		{"grid", Spec{Kind: KindDensity, Grid: &Grid{Counts: [][]int{{1, 0}, {0, 2}}}}, 3, false},
		{"scatter", Spec{Kind: KindScatter, Points: []Point{{1, 2}}}, 0, false},
		{"no points", Spec{Kind: KindRegression}, 0, true},
		{"matrix", Spec{Kind: KindHeatmap, Matrix: &Matrix{Values: [][]float64{{1}}}}, 0, false},
	}
	for _, c := range cases {
		if got := c.spec.Total(); got != c.total {
			t.Errorf("%s: Total()=%d, want %d", c.name, got, c.total)
		}
		if got := c.spec.Empty(); got != c.empty {
			t.Errorf("%s: Empty()=%v, want %v", c.name, got, c.empty)
		}
	}
}

func TestDefaultLayoutMargins(t *testing.T) {
	m := DefaultLayout().Margin
	if m != (Margin{Left: 20, Right: 20, Top: 50, Bottom: 20}) {
		t.Fatalf("unexpected margins: %+v", m)
	}
}
