package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const maxCell = 80

// Markdown renders the report as bracketed plain-text blocks for a terminal
// or a standalone file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\nColumns: %d\n", r.Rows, len(r.Cols))

	schema := make([]string, len(r.Cols))
	for i, c := range r.Cols {
		schema[i] = c.line()
	}
	writeBlock(&b, "Schema", schema)
	writeBlock(&b, "Correlations", r.Corr.strongest(10))
	for _, sec := range r.Sections {
		writeBlock(&b, sec.Title, sec.Lines)
	}
	r.writeSamples(&b)
	writeBlock(&b, "Notes", r.Warnings)
	return b.String()
}

func writeBlock(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n[%s]\n", strings.ToUpper(title))
	for _, l := range lines {
		fmt.Fprintf(b, "- %s\n", l)
	}
}

func (c ColumnSummary) line() string {
	var missPct float64
	if total := c.NonNull + c.Missing; total > 0 {
		missPct = float64(c.Missing) * 100 / float64(total)
	}
	s := fmt.Sprintf("%s: %s (non-null %d, missing %.1f%%)", label(c.Name), c.Kind, c.NonNull, missPct)
	switch c.Kind {
	case KindNumeric:
		s += fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std)
		if c.OutlierThreshold > 0 {
			s += fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold)
			if c.OutliersMaxAbsZ > 0 {
				s += fmt.Sprintf(" (max |z| %.2f)", c.OutliersMaxAbsZ)
			}
		}
	case KindCategorical:
		if len(c.TopValues) > 0 {
			top := make([]string, len(c.TopValues))
			for i, kv := range c.TopValues {
				top[i] = fmt.Sprintf("%s(%d)", cell(kv.Value), kv.Count)
			}
			s += "; top: " + strings.Join(top, ", ")
			if c.Unique > len(c.TopValues) {
				s += fmt.Sprintf("; unique=%d", c.Unique)
			}
		}
	case KindText:
		if len(c.ExampleTexts) > 0 {
			ex := make([]string, len(c.ExampleTexts))
			for i, t := range c.ExampleTexts {
				ex[i] = cell(t)
			}
			s += "; e.g. " + strings.Join(ex, " | ")
		}
	}
	return s
}

// strongest lists up to n off-diagonal pairs by descending |r|.
func (m *CorrMatrix) strongest(n int) []string {
	if m == nil || len(m.Columns) < 2 {
		return nil
	}
	type pair struct {
		a, b string
		r    float64
	}
	var pairs []pair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, pair{m.Columns[i], m.Columns[j], m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].r), math.Abs(pairs[j].r)
		if ai != aj {
			return ai > aj
		}
		return pairs[i].a+pairs[i].b < pairs[j].a+pairs[j].b
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = fmt.Sprintf("%s ~ %s: r=%.3f", p.a, p.b, p.r)
	}
	return out
}

func (r *Report) writeSamples(b *strings.Builder) {
	if len(r.Samples) == 0 || len(r.Cols) == 0 {
		return
	}
	b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
	names := make([]string, len(r.Cols))
	rule := make([]string, len(r.Cols))
	for i, c := range r.Cols {
		names[i], rule[i] = label(c.Name), "---"
	}
	writeRow(b, names)
	writeRow(b, rule)
	for _, row := range r.Samples {
		cells := make([]string, len(r.Cols))
		for i := range cells {
			if i < len(row) {
				cells[i] = cell(truncate(row[i], maxCell))
			}
		}
		writeRow(b, cells)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
}

func label(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "(unnamed)"
	}
	return s
}

// cell keeps a value on one table line.
func cell(s string) string {
	return strings.NewReplacer("\n", " ", "|", "/").Replace(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
