package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/salesdash/internal/parser"
)

var fixtureRows = []string{
	"Título,Preço,Qtd_Vendidos_Cod,N_Avaliações_MinMax,Marca,Temporada_Cod,Gênero",
	"Tênis A,77.9,3,0.10,Keeper,1,Masculino",
	"Tênis B,59.9,4,0.25,Olympikus,2,Feminino",
	"Tênis C,120,2,0.50,Nike,1.0,Masculino",
	"Tênis D,45,5,0.05,keeper,3,",
	"Tênis E,89.9,,0.40,Adidas,2,Feminino",
	"Tênis F,65.5,4,,KEEPER,2,Feminino",
	"Tênis G,70,3,0.30,,1,Masculino",
	"Tênis H,,3,0.30,Nike,3,Masculino",
	"Tênis I,99.9,1,0.90,Nike,,Masculino",
}

func writeFixture(t *testing.T, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ecommerce_estatistica.csv")
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func loadFixture(t *testing.T) *Store {
	t.Helper()
	s, err := Load(writeFixture(t, fixtureRows), LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestLoadDomains(t *testing.T) {
	s := loadFixture(t)
	if s.Len() != 9 {
		t.Fatalf("rows: got %d", s.Len())
	}
	if s.Source() != "ecommerce_estatistica.csv" {
		t.Fatalf("source: %q", s.Source())
	}
	d := s.Domains()
	wantBrands := []string{"Adidas", "KEEPER", "Keeper", "Nike", "Olympikus", "keeper"}
	if !reflect.DeepEqual(d.Brands, wantBrands) {
		t.Fatalf("brands: got %v, want %v", d.Brands, wantBrands)
	}
	if !reflect.DeepEqual(d.Seasons, []string{"1", "2", "3"}) {
		t.Fatalf("seasons: got %v", d.Seasons)
	}
	if d.PriceMin != 45 || d.PriceMax != 120 {
		t.Fatalf("price domain: got [%v,%v]", d.PriceMin, d.PriceMax)
	}
}

func TestDomainsAreCopies(t *testing.T) {
	s := loadFixture(t)
	d := s.Domains()
	d.Brands[0] = "mutated"
	if s.Domains().Brands[0] == "mutated" {
		t.Fatalf("Domains must not expose internal slices")
	}
}

func TestLoadMissingValues(t *testing.T) {
	s := loadFixture(t)
	recs := s.All().Records()
	if !math.IsNaN(recs[4].SoldQty) {
		t.Fatalf("missing sold qty should be NaN, got %v", recs[4].SoldQty)
	}
	if !math.IsNaN(recs[5].ReviewsNorm) {
		t.Fatalf("missing reviews should be NaN, got %v", recs[5].ReviewsNorm)
	}
	if recs[3].Gender != "" {
		t.Fatalf("missing gender should be empty, got %q", recs[3].Gender)
	}
	if recs[6].Brand != "" {
		t.Fatalf("missing brand should be empty, got %q", recs[6].Brand)
	}
	if !math.IsNaN(recs[7].Price) {
		t.Fatalf("missing price should be NaN, got %v", recs[7].Price)
	}
	if recs[2].Season != "1" {
		t.Fatalf("season 1.0 should canonicalize to 1, got %q", recs[2].Season)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	lines := []string{"Preço,Marca", "10,Keeper"}
	_, err := Load(writeFixture(t, lines), LoadOptions{})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadNoPrices(t *testing.T) {
	lines := []string{fixtureRows[0], "x,,1,0.1,Keeper,1,Masculino"}
	_, err := Load(writeFixture(t, lines), LoadOptions{})
	if !errors.Is(err, ErrNoPrices) {
		t.Fatalf("expected ErrNoPrices, got %v", err)
	}
}

func TestLoadCustomColumnsCaseInsensitive(t *testing.T) {
	lines := []string{
		"PRICE,qty,reviews,brand,season,gender",
		"10,1,0.5,Acme,summer,F",
		"20,2,0.7,Acme,winter,M",
	}
	s, err := Load(writeFixture(t, lines), LoadOptions{Columns: ColumnNames{
		Price: "price", SoldQty: "Qty", Reviews: "Reviews", Brand: "Brand", Season: "Season", Gender: "Gender",
	}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.Domains().Seasons; !reflect.DeepEqual(got, []string{"summer", "winter"}) {
		t.Fatalf("seasons: %v", got)
	}
}

func TestFromTableLocaleNumbers(t *testing.T) {
	tab := &parser.Table{
		Name:   "br.csv",
		Header: []string{"Preço", "Qtd_Vendidos_Cod", "N_Avaliações_MinMax", "Marca", "Temporada_Cod", "Gênero"},
		Rows: [][]string{
			{"1.299,90", "2", "0,5", "Keeper", "1", "F"},
			{"99,90", "3", "0,25", "Keeper", "2", "M"},
		},
	}
	s, err := FromTable(tab, LoadOptions{})
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	d := s.Domains()
	if d.PriceMin != 99.9 || d.PriceMax != 1299.9 {
		t.Fatalf("price domain: [%v,%v]", d.PriceMin, d.PriceMax)
	}
	if s.Table() != tab {
		t.Fatalf("Table should return the source table")
	}
}

func TestSortCodes(t *testing.T) {
	codes := []string{"10", "2", "1"}
	SortCodes(codes)
	if !reflect.DeepEqual(codes, []string{"1", "2", "10"}) {
		t.Fatalf("numeric order: %v", codes)
	}
	mixed := []string{"b", "10", "a"}
	SortCodes(mixed)
	if !reflect.DeepEqual(mixed, []string{"10", "a", "b"}) {
		t.Fatalf("lexical order: %v", mixed)
	}
}
