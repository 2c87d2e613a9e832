package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/salesdash/internal/dataset"
)

// ParseSelection reads brand and season (repeatable, comma lists allowed)
// and the optional price_min and price_max bounds. It backs the JSON and
// SVG endpoints; an inverted interval is an error.
func ParseSelection(q url.Values) (dataset.Selection, error) {
	return parse(q, splitList)
}

// parseFormSelection reads what the dashboard form submits. Option values
// are taken whole, so a brand name may contain a comma, and the two range
// inputs may be dragged past each other, in which case the bounds are swapped.
func parseFormSelection(q url.Values) (dataset.Selection, error) {
	sel, err := bounds(q)
	if err != nil {
		return sel, err
	}
	if sel.PriceMin != nil && sel.PriceMax != nil && *sel.PriceMin > *sel.PriceMax {
		sel.PriceMin, sel.PriceMax = sel.PriceMax, sel.PriceMin
	}
	sel.Brands = whole(q["brand"])
	sel.Seasons = whole(q["season"])
	return sel, sel.Validate()
}

func parse(q url.Values, list func([]string) []string) (dataset.Selection, error) {
	sel, err := bounds(q)
	if err != nil {
		return sel, err
	}
	sel.Brands = list(q["brand"])
	sel.Seasons = list(q["season"])
	return sel, sel.Validate()
}

func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		out = append(out, whole(strings.Split(v, ","))...)
	}
	return out
}

func whole(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func bounds(q url.Values) (dataset.Selection, error) {
	var sel dataset.Selection
	var err error
	if sel.PriceMin, err = bound(q, "price_min"); err != nil {
		return sel, err
	}
	sel.PriceMax, err = bound(q, "price_max")
	return sel, err
}

func bound(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a number", dataset.ErrInvalidSelection, key, raw)
	}
	return &f, nil
}
