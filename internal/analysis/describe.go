package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindUnknown     Kind = "unknown"
)

const (
	maxCategories    = 10000
	maxCategoryLen   = 64
	topCategories    = 8
	exampleTexts     = 3
	minOutlierSample = 8
	madScale         = 0.6745
)

// Options controls what Describe computes.
type Options struct {
	// SampleRows is the number of leading rows copied into the report.
	SampleRows   int
	Correlations bool
	Locale       Locale
	// Outliers counts values whose robust z-score exceeds OutlierThreshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns the options the describe command starts from.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Correlations:     true,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

func (o Options) threshold() float64 {
	if o.OutlierThreshold > 0 {
		return o.OutlierThreshold
	}
	return DefaultOptions().OutlierThreshold
}

// Report profiles a raw table before any column is mapped.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Corr     *CorrMatrix
	// Sections are rendered after the correlations.
	Sections []Section
}

// Section is a titled block of report lines.
type Section struct {
	Title string
	Lines []string
}

type ColumnSummary struct {
	Name    string
	Kind    Kind
	NonNull int
	Missing int
	Unique  int

	Min, Max, Mean, Std float64

	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64

	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// CorrMatrix is a symmetric Pearson matrix over the numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// Describe profiles header and rows. Short rows count as missing trailing cells.
func Describe(name string, header []string, rows [][]string, opt Options) *Report {
	rep := &Report{Name: name, Rows: len(rows)}
	if len(header) == 0 {
		return rep
	}
	cols := make([]*column, len(header))
	for i, h := range header {
		cols[i] = &column{name: strings.TrimSpace(h), cats: map[string]int{}}
	}
	samples := opt.SampleRows
	if samples <= 0 {
		samples = DefaultOptions().SampleRows
	}
	for _, rec := range rows {
		row := make([]string, len(header))
		copy(row, rec)
		if len(rep.Samples) < samples {
			rep.Samples = append(rep.Samples, row)
		}
		for j, c := range cols {
			c.add(row[j], opt.Locale)
		}
	}

	var numeric []*column
	for _, c := range cols {
		s := c.summary(opt)
		if s.Kind == KindNumeric {
			numeric = append(numeric, c)
		}
		rep.Cols = append(rep.Cols, s)
	}
	if opt.Correlations && len(numeric) >= 2 {
		rep.Corr = correlate(numeric)
	}
	return rep
}

// column collects one header column during the scan. nums stays aligned with
// the rows; NaN marks a cell that is missing or not numeric.
type column struct {
	name     string
	nonNull  int
	missing  int
	numeric  int
	dates    int
	texts    int
	nums     []float64
	cats     map[string]int
	examples []string
}

func (c *column) add(cell string, loc Locale) {
	v := strings.TrimSpace(cell)
	if v == "" {
		c.missing++
		c.nums = append(c.nums, math.NaN())
		return
	}
	c.nonNull++
	if x, ok := ParseNumeric(v, loc); ok {
		c.numeric++
		c.nums = append(c.nums, x)
		return
	}
	c.nums = append(c.nums, math.NaN())
	if looksLikeTime(v) {
		c.dates++
		return
	}
	c.texts++
	if len(c.cats) < maxCategories && len(v) <= maxCategoryLen {
		c.cats[v]++
	}
	if len(c.examples) < exampleTexts {
		c.examples = append(c.examples, v)
	}
}

// kind picks the predominant parsed type.
func (c *column) kind() Kind {
	switch {
	case c.numeric > 0 && c.numeric >= c.dates && c.numeric >= c.texts:
		return KindNumeric
	case c.dates > 0 && c.dates >= c.texts:
		return KindDatetime
	case len(c.cats) > 0:
		return KindCategorical
	case c.texts > 0:
		return KindText
	}
	return KindUnknown
}

func (c *column) summary(opt Options) ColumnSummary {
	s := ColumnSummary{Name: c.name, Kind: c.kind(), NonNull: c.nonNull, Missing: c.missing}
	switch s.Kind {
	case KindNumeric:
		vals := present(c.nums)
		s.Min, s.Max = floats.Min(vals), floats.Max(vals)
		if len(vals) > 1 {
			s.Mean, s.Std = stat.MeanStdDev(vals, nil)
		} else {
			s.Mean = vals[0]
		}
		if opt.Outliers && len(vals) >= minOutlierSample {
			s.OutlierThreshold = opt.threshold()
			s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(vals, s.OutlierThreshold)
		}
	case KindCategorical:
		s.TopValues = topValues(c.cats, topCategories)
		s.Unique = len(c.cats)
	case KindText:
		s.ExampleTexts = c.examples
	}
	return s
}

func present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

func topValues(cats map[string]int, n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(cats))
	for v, k := range cats {
		out = append(out, CategoryCount{Value: v, Count: k})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// robustOutliers counts values whose modified z-score 0.6745*(x-median)/MAD
// exceeds thr. A zero MAD flags nothing.
func robustOutliers(vals []float64, thr float64) (count int, maxAbsZ float64) {
	med, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range vals {
		z := math.Abs(madScale * (v - med) / mad)
		if z > thr {
			count++
		}
		maxAbsZ = math.Max(maxAbsZ, z)
	}
	return count, maxAbsZ
}

// medianMAD returns the median and the median absolute deviation of vals.
// Both are empirical quantiles, so an even-length input takes the lower middle value.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	median = stat.Quantile(0.5, stat.Empirical, s, nil)
	for i, v := range s {
		s[i] = math.Abs(v - median)
	}
	sort.Float64s(s)
	mad = stat.Quantile(0.5, stat.Empirical, s, nil)
	return median, mad
}

func correlate(cols []*column) *CorrMatrix {
	m := &CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.name
		m.Values[i] = make([]float64, len(cols))
		m.Values[i][i] = 1
	}
	for i := range cols {
		for j := 0; j < i; j++ {
			r := pearson(cols[i].nums, cols[j].nums)
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m
}

// pearson correlates the rows where both series are present. Fewer than two
// such rows or a constant series gives 0.
func pearson(a, b []float64) float64 {
	var xs, ys []float64
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		xs = append(xs, a[k])
		ys = append(ys, b[k])
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func looksLikeTime(s string) bool {
	for _, l := range timeLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}
