// Package category defines the closed set of resort asset categories.
// Revenue records, sharing configs and invoice line items are always keyed
// by one of these values; anything else is rejected at the boundary.
package category

import (
	"fmt"
	"strings"
)

type AssetCategory string

const (
	ATV        AssetCategory = "ATV"
	Villa      AssetCategory = "VILLA"
	Restaurant AssetCategory = "RESTAURANT"
	Watersport AssetCategory = "WATERSPORT"
	Spa        AssetCategory = "SPA"
)

// All lists every category in stable display order. Aggregation iterates
// this slice so invoice line items always come out in the same order.
var All = []AssetCategory{ATV, Villa, Restaurant, Watersport, Spa}

func (c AssetCategory) Valid() bool {
	switch c {
	case ATV, Villa, Restaurant, Watersport, Spa:
		return true
	default:
		return false
	}
}

func (c AssetCategory) String() string { return string(c) }

// Parse normalizes and validates a raw category string.
func Parse(raw string) (AssetCategory, error) {
	c := AssetCategory(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown asset category %q", raw)
	}
	return c, nil
}

// ParseAll validates a list of raw categories, rejecting duplicates.
func ParseAll(raw []string) ([]AssetCategory, error) {
	out := make([]AssetCategory, 0, len(raw))
	seen := make(map[AssetCategory]bool, len(raw))
	for _, r := range raw {
		c, err := Parse(r)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}
