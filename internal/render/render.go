// Package render draws chart specifications as SVG.
//
// Histogram, scatter, heatmap, density and regression panels go through
// gonum/plot; bar and pie panels go through go-chart.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/KaramelBytes/salesdash/internal/chart"
)

// ErrUnknownKind is returned for a spec kind with no renderer.
var ErrUnknownKind = errors.New("unknown chart kind")

// Size is the output size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize matches the dashboard panel size.
func DefaultSize() Size { return Size{Width: 800, Height: 450} }

func (s Size) orDefault(spec chart.Spec) Size {
	d := DefaultSize()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if spec.Layout.Height > 0 {
		s.Height = spec.Layout.Height
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	return s
}

// SVG writes spec to w. Empty specs render a titled "no data" plot.
func SVG(w io.Writer, spec chart.Spec, size Size) error {
	size = size.orDefault(spec)
	if spec.Empty() {
		return noData(w, spec, size)
	}
	var err error
	switch spec.Kind {
	case chart.KindHistogram:
		err = histogram(w, spec, size)
	case chart.KindScatter, chart.KindRegression:
		err = scatter(w, spec, size)
	case chart.KindHeatmap:
		err = correlation(w, spec, size)
	case chart.KindDensity:
		err = density(w, spec, size)
	case chart.KindBar:
		err = bars(w, spec, size)
	case chart.KindPie:
		err = pie(w, spec, size)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", spec.Kind, err)
	}
	return nil
}

// SVGBytes renders spec into memory.
func SVGBytes(spec chart.Spec, size Size) ([]byte, error) {
	var buf bytes.Buffer
	if err := SVG(&buf, spec, size); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
