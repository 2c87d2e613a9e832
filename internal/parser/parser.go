package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Table is a raw tabular source: a header row plus string cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Options tunes how a tabular source is read.
type Options struct {
	// Delimiter for CSV. If 0, it is chosen from the file extension.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
}

// Parser defines a tabular source reader.
type Parser interface {
	CanParse(filename string) bool
	Parse(path string, opt Options) (*Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on filename and reads the whole table.
func ParseFile(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	for _, p := range registry {
		if p.CanParse(path) {
			t, err := p.Parse(path, opt)
			if err != nil {
				return nil, err
			}
			t.Name = filepath.Base(path)
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func init() {
	// Register default parsers
	Register(csvParser{})
	Register(xlsxParser{})
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported dataset format")
