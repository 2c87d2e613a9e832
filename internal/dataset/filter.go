package dataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrInvalidSelection is returned for a price interval that cannot match anything sensible.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is the current state of the brand, season and price controls.
// Empty Brands or Seasons mean "all"; a nil price bound means the observed extreme.
type Selection struct {
	Brands   []string `json:"brands"`
	Seasons  []string `json:"seasons"`
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
}

// Normalize resolves the "all" defaults against d. The receiver is not modified.
func (sel Selection) Normalize(d Domains) Selection {
	out := Selection{
		Brands:  append([]string(nil), sel.Brands...),
		Seasons: append([]string(nil), sel.Seasons...),
	}
	if len(out.Brands) == 0 {
		out.Brands = append([]string(nil), d.Brands...)
	}
	if len(out.Seasons) == 0 {
		out.Seasons = append([]string(nil), d.Seasons...)
	}
	lo, hi := d.PriceMin, d.PriceMax
	if sel.PriceMin != nil {
		lo = *sel.PriceMin
	}
	if sel.PriceMax != nil {
		hi = *sel.PriceMax
	}
	out.PriceMin, out.PriceMax = &lo, &hi
	return out
}

// Validate rejects NaN bounds and inverted intervals.
func (sel Selection) Validate() error {
	for _, p := range []*float64{sel.PriceMin, sel.PriceMax} {
		if p != nil && math.IsNaN(*p) {
			return fmt.Errorf("%w: price bound is NaN", ErrInvalidSelection)
		}
	}
	if sel.PriceMin != nil && sel.PriceMax != nil && *sel.PriceMin > *sel.PriceMax {
		return fmt.Errorf("%w: price_min %g > price_max %g", ErrInvalidSelection, *sel.PriceMin, *sel.PriceMax)
	}
	return nil
}

// Interval returns the resolved price bounds. Only meaningful after Normalize.
func (sel Selection) Interval() (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if sel.PriceMin != nil {
		lo = *sel.PriceMin
	}
	if sel.PriceMax != nil {
		hi = *sel.PriceMax
	}
	return lo, hi
}

// View is an immutable filtered slice of the dataset.
type View struct {
	records   []Record
	selection Selection
}

// Len returns the number of records in the view.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.records)
}

// Records returns the records of the view. Callers must not modify them.
func (v *View) Records() []Record {
	if v == nil {
		return nil
	}
	return v.records
}

// Selection returns the normalized selection that produced the view.
func (v *View) Selection() Selection {
	if v == nil {
		return Selection{}
	}
	return v.selection
}

// NewView wraps records in a View. It is meant for tests and tools that
// build data without a Store.
func NewView(recs []Record, sel Selection) *View {
	return &View{records: recs, selection: sel}
}

// Filter applies the selection: brand in B, season in S and
// PriceMin <= price <= PriceMax, both bounds inclusive.
func (s *Store) Filter(sel Selection) (*View, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	sel = sel.Normalize(s.domains)
	if len(sel.Brands) == 0 || len(sel.Seasons) == 0 || s.df.Nrow() == 0 {
		return &View{selection: sel}, nil
	}
	lo, hi := sel.Interval()
	fdf := s.df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: ColBrand, Comparator: series.In, Comparando: sel.Brands},
		dataframe.F{Colname: ColSeason, Comparator: series.In, Comparando: sel.Seasons},
		dataframe.F{Colname: ColPrice, Comparator: series.GreaterEq, Comparando: lo},
		dataframe.F{Colname: ColPrice, Comparator: series.LessEq, Comparando: hi},
	)
	if fdf.Err != nil {
		return nil, fmt.Errorf("filter dataset: %w", fdf.Err)
	}
	v := newView(fdf)
	v.selection = sel
	return v, nil
}

func newView(df dataframe.DataFrame) *View {
	n := df.Nrow()
	if n == 0 {
		return &View{}
	}
	price := df.Col(ColPrice)
	qty := df.Col(ColSoldQty)
	reviews := df.Col(ColReviews)
	brand := df.Col(ColBrand)
	season := df.Col(ColSeason)
	gender := df.Col(ColGender)
	recs := make([]Record, n)
	for i := 0; i < n; i++ {
		recs[i] = Record{
			Price:       floatAt(price, i),
			SoldQty:     floatAt(qty, i),
			ReviewsNorm: floatAt(reviews, i),
			Brand:       textAt(brand, i),
			Season:      textAt(season, i),
			Gender:      textAt(gender, i),
		}
	}
	return &View{records: recs}
}

func floatAt(s series.Series, i int) float64 {
	e := s.Elem(i)
	if e.IsNA() {
		return math.NaN()
	}
	return e.Float()
}

func textAt(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return e.String()
}
