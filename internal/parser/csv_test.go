package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/salesdash/internal/parser"
)

func TestParseFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ecommerce.csv")
	content := "\ufeffPreço,Qtd_Vendidos_Cod,Marca,Temporada_Cod,Gênero\n" +
		"77.9,3,Keeper,1,Masculino\n" +
		"59.9,4,\"Olympikus, Inc\",2,\n" +
		"45,5,Keeper\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tab, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tab.Name != "ecommerce.csv" {
		t.Fatalf("name: %q", tab.Name)
	}
	if tab.Header[0] != "Preço" {
		t.Fatalf("BOM not stripped: %q", tab.Header[0])
	}
	if len(tab.Rows) != 3 {
		t.Fatalf("rows: got %d", len(tab.Rows))
	}
	if tab.Rows[1][2] != "Olympikus, Inc" {
		t.Fatalf("quoted field: %q", tab.Rows[1][2])
	}
	if len(tab.Rows[2]) != 3 {
		t.Fatalf("ragged row should be kept as-is: %v", tab.Rows[2])
	}
}

func TestParseFileSemicolonDelimiter(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "semi.csv")
	if err := os.WriteFile(p, []byte("a;b\n1,5;2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tab, err := parser.ParseFile(p, parser.Options{Delimiter: ';'})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tab.Header) != 2 || tab.Rows[0][0] != "1,5" {
		t.Fatalf("unexpected table: %+v", tab)
	}
}

func TestParseFileTSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.tsv")
	if err := os.WriteFile(p, []byte("a\tb\nx\ty\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tab, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tab.Rows[0][1] != "y" {
		t.Fatalf("unexpected table: %+v", tab)
	}
}

func TestParseFileEmptyCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := parser.ParseFile(p, parser.Options{}); err == nil {
		t.Fatalf("expected error for empty file")
	}
}
