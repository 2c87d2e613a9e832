// Package chart defines declarative chart specifications: data plus styling,
// independent of the library that eventually draws them.
package chart

// Kind identifies the chart type.
type Kind string

const (
	KindHistogram  Kind = "histogram"
	KindScatter    Kind = "scatter"
	KindHeatmap    Kind = "heatmap"
	KindBar        Kind = "bar"
	KindPie        Kind = "pie"
	KindDensity    Kind = "density"
	KindRegression Kind = "regression"
)

// Margin is the plot margin in pixels.
type Margin struct {
	Left   int `json:"l"`
	Right  int `json:"r"`
	Top    int `json:"t"`
	Bottom int `json:"b"`
}

// Layout carries the styling shared by every panel.
type Layout struct {
	Margin   Margin  `json:"margin"`
	Height   int     `json:"height,omitempty"`
	Template string  `json:"template,omitempty"`
	Palette  string  `json:"palette,omitempty"`
	Opacity  float64 `json:"opacity,omitempty"`
}

// DefaultLayout is applied to every chart.
func DefaultLayout() Layout {
	return Layout{Margin: Margin{Left: 20, Right: 20, Top: 50, Bottom: 20}}
}

// Bin is one histogram bucket covering [Min, Max).
type Bin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Point is an (x, y) pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Matrix is a labeled square matrix.
type Matrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// Bar is one category and its count.
type Bar struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Slice is one pie slice.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Grid is a 2-D histogram. Counts[row][col] counts points with
// YEdges[row] <= y < YEdges[row+1] and XEdges[col] <= x < XEdges[col+1];
// the last edge of each axis is inclusive.
type Grid struct {
	XEdges []float64 `json:"x_edges"`
	YEdges []float64 `json:"y_edges"`
	Counts [][]int   `json:"counts"`
}

// Trend is a fitted line y = Intercept + Slope*x.
type Trend struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	// Line holds the fitted values at the smallest and largest x.
	Line []Point `json:"line"`
}

// Spec is a complete, immutable chart description.
type Spec struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
	Layout Layout `json:"layout"`
	// Placeholder marks a fixed stand-in used when data is insufficient.
	Placeholder bool `json:"placeholder,omitempty"`

	Bins   []Bin   `json:"bins,omitempty"`
	Points []Point `json:"points,omitempty"`
	Matrix *Matrix `json:"matrix,omitempty"`
	Bars   []Bar   `json:"bars,omitempty"`
	Slices []Slice `json:"slices,omitempty"`
	Grid   *Grid   `json:"grid,omitempty"`
	Trend  *Trend  `json:"trend,omitempty"`
}

// Total sums the counts carried by bins, bars, slices or grid cells.
func (s Spec) Total() int {
	n := 0
	for _, b := range s.Bins {
		n += b.Count
	}
	for _, b := range s.Bars {
		n += b.Count
	}
	for _, sl := range s.Slices {
		n += sl.Value
	}
	if s.Grid != nil {
		for _, row := range s.Grid.Counts {
			for _, c := range row {
				n += c
			}
		}
	}
	return n
}

// Empty reports whether the spec has nothing to draw.
func (s Spec) Empty() bool {
	switch s.Kind {
	case KindScatter, KindRegression:
		return len(s.Points) == 0
	case KindHeatmap:
		return s.Matrix == nil || len(s.Matrix.Values) == 0
	case KindPie:
		return len(s.Slices) == 0
	default:
		return s.Total() == 0
	}
}
