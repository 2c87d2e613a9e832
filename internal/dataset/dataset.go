// Package dataset holds the in-memory sales dataset and its filter domains.
//
// A Store is loaded once and never mutated afterwards, so it can be shared by
// concurrent readers without locking.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/salesdash/internal/analysis"
	"github.com/KaramelBytes/salesdash/internal/parser"
)

// Canonical column names inside the dataframe.
const (
	ColPrice   = "price"
	ColSoldQty = "sold_qty"
	ColReviews = "reviews_norm"
	ColBrand   = "brand"
	ColSeason  = "season"
	ColGender  = "gender"
)

var (
	// ErrMissingColumn is returned when a required source column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoPrices is returned when the dataset has no usable price value.
	ErrNoPrices = errors.New("dataset has no numeric price values")
)

// ColumnNames maps canonical fields to source header names.
type ColumnNames struct {
	Price   string
	SoldQty string
	Reviews string
	Brand   string
	Season  string
	Gender  string
}

// DefaultColumnNames returns the headers used by the e-commerce statistics export.
func DefaultColumnNames() ColumnNames {
	return ColumnNames{
		Price:   "Preço",
		SoldQty: "Qtd_Vendidos_Cod",
		Reviews: "N_Avaliações_MinMax",
		Brand:   "Marca",
		Season:  "Temporada_Cod",
		Gender:  "Gênero",
	}
}

// LoadOptions tunes how the source file is read.
type LoadOptions struct {
	Columns ColumnNames
	Parser  parser.Options
	Locale  analysis.Locale
}

// Record is one product row. Missing numbers are NaN, missing text is "".
type Record struct {
	Price       float64
	SoldQty     float64
	ReviewsNorm float64
	Brand       string
	Season      string
	Gender      string
}

// Domains are the static filter-control domains computed at load.
type Domains struct {
	Brands   []string `json:"brands"`
	Seasons  []string `json:"seasons"`
	PriceMin float64  `json:"price_min"`
	PriceMax float64  `json:"price_max"`
}

// Store is the read-only dataset held for the process lifetime.
type Store struct {
	source  string
	df      dataframe.DataFrame
	all     *View
	domains Domains
	table   *parser.Table
}

// Load reads the dataset at path. Any failure is meant to be fatal for the caller.
func Load(path string, opt LoadOptions) (*Store, error) {
	if opt.Columns == (ColumnNames{}) {
		opt.Columns = DefaultColumnNames()
	}
	tab, err := parser.ParseFile(path, opt.Parser)
	if err != nil {
		return nil, err
	}
	return FromTable(tab, opt)
}

// FromTable builds a Store from an already parsed table.
func FromTable(tab *parser.Table, opt LoadOptions) (*Store, error) {
	if opt.Columns == (ColumnNames{}) {
		opt.Columns = DefaultColumnNames()
	}
	idx := make(map[string]int, len(tab.Header))
	for i, h := range tab.Header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	wanted := []struct {
		canon, source string
		numeric       bool
	}{
		{ColPrice, opt.Columns.Price, true},
		{ColSoldQty, opt.Columns.SoldQty, true},
		{ColReviews, opt.Columns.Reviews, true},
		{ColBrand, opt.Columns.Brand, false},
		{ColSeason, opt.Columns.Season, false},
		{ColGender, opt.Columns.Gender, false},
	}
	src := make([]int, len(wanted))
	header := make([]string, len(wanted))
	for i, w := range wanted {
		j, ok := idx[strings.ToLower(strings.TrimSpace(w.source))]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, w.source, tab.Name)
		}
		src[i] = j
		header[i] = w.canon
	}

	records := make([][]string, 0, len(tab.Rows)+1)
	records = append(records, header)
	for _, row := range tab.Rows {
		out := make([]string, len(wanted))
		for i, w := range wanted {
			var cell string
			if src[i] < len(row) {
				cell = strings.TrimSpace(row[src[i]])
			}
			switch {
			case w.numeric:
				if x, ok := analysis.ParseNumeric(cell, opt.Locale); ok {
					cell = strconv.FormatFloat(x, 'g', -1, 64)
				} else {
					cell = ""
				}
			case w.canon == ColSeason:
				cell = canonicalCode(cell, opt.Locale)
			}
			out[i] = cell
		}
		records = append(records, out)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			ColPrice:   series.Float,
			ColSoldQty: series.Float,
			ColReviews: series.Float,
		}),
		dataframe.NaNValues([]string{"", "NA", "NaN", "nan", "<nil>"}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("build dataframe: %w", df.Err)
	}

	s := &Store{source: tab.Name, df: df, table: tab}
	s.all = newView(df)
	d, err := computeDomains(s.all.records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tab.Name, err)
	}
	s.domains = d
	return s, nil
}

// Source returns the base name of the loaded file.
func (s *Store) Source() string { return s.source }

// Len returns the number of rows in the dataset.
func (s *Store) Len() int { return s.all.Len() }

// All returns every record.
func (s *Store) All() *View { return s.all }

// Domains returns the filter-control domains.
func (s *Store) Domains() Domains {
	d := s.domains
	d.Brands = append([]string(nil), s.domains.Brands...)
	d.Seasons = append([]string(nil), s.domains.Seasons...)
	return d
}

// Table returns the raw source table the store was built from.
func (s *Store) Table() *parser.Table { return s.table }

func computeDomains(recs []Record) (Domains, error) {
	brands := map[string]struct{}{}
	seasons := map[string]struct{}{}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range recs {
		if r.Brand != "" {
			brands[r.Brand] = struct{}{}
		}
		if r.Season != "" {
			seasons[r.Season] = struct{}{}
		}
		if !math.IsNaN(r.Price) {
			lo = math.Min(lo, r.Price)
			hi = math.Max(hi, r.Price)
		}
	}
	if math.IsInf(lo, 1) {
		return Domains{}, ErrNoPrices
	}
	d := Domains{PriceMin: lo, PriceMax: hi}
	for b := range brands {
		d.Brands = append(d.Brands, b)
	}
	sort.Strings(d.Brands)
	for c := range seasons {
		d.Seasons = append(d.Seasons, c)
	}
	SortCodes(d.Seasons)
	return d, nil
}

// SortCodes orders season codes numerically when every code is a number,
// lexically otherwise.
func SortCodes(codes []string) {
	nums := make(map[string]float64, len(codes))
	for _, c := range codes {
		x, err := strconv.ParseFloat(c, 64)
		if err != nil {
			sort.Strings(codes)
			return
		}
		nums[c] = x
	}
	sort.Slice(codes, func(i, j int) bool {
		if nums[codes[i]] == nums[codes[j]] {
			return codes[i] < codes[j]
		}
		return nums[codes[i]] < nums[codes[j]]
	})
}

// canonicalCode rewrites numeric-looking codes so "1.0" and "1" are one category.
func canonicalCode(s string, loc analysis.Locale) string {
	if s == "" {
		return ""
	}
	if x, ok := analysis.ParseNumeric(s, loc); ok {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return s
}
