package match

import (
	"strings"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
)

// Thresholds holds the per-attribute similarity cutoffs for fuzzy matching.
type Thresholds struct {
	Category float64
	Brand    float64
	Color    float64
}

// DefaultThresholds returns the standard similarity cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Category: 0.75, Brand: 0.75, Color: 0.75}
}

// Engine filters a product catalog against normalized criteria. It is pure:
// identical inputs always yield identical ordered output, and it never
// mutates the catalog.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates a match engine with the given thresholds.
func NewEngine(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// Match returns the products satisfying every configured attribute
// predicate (category AND brand AND color AND price), in catalog order.
// An empty result is valid and distinct from a catalog load failure: the
// returned slice is non-nil whenever the call succeeds.
func (e *Engine) Match(c Criteria, products []catalog.Product) []catalog.Product {
	matched := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if e.matches(c, p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (e *Engine) matches(c Criteria, p catalog.Product) bool {
	name := strings.ToLower(p.Name)

	return e.categoryMatches(c.Category, p.Category, name) &&
		e.attributeMatches(c.Brand, p.Brand, e.thresholds.Brand) &&
		e.attributeMatches(c.Color, p.Color, e.thresholds.Color) &&
		c.PriceMin <= p.Price && p.Price <= c.PriceMax
}

// categoryMatches checks the resolved category token against each of the
// product's comma-separated categories; any one passing is enough. The
// product name is also consulted, so a category like "sneakers" still hits
// a product filed under "footwear" but named "... Sneaker".
func (e *Engine) categoryMatches(want, have, productName string) bool {
	if want == "" || want == Wildcard {
		return true
	}

	for _, cat := range strings.Split(have, ",") {
		cat = strings.ToLower(strings.TrimSpace(cat))
		if cat == "" {
			continue
		}
		if containsEither(want, cat) || Ratio(want, cat) >= e.thresholds.Category {
			return true
		}
	}

	return strings.Contains(productName, want)
}

// attributeMatches implements the shared brand/color predicate: wildcard,
// case-insensitive equality, substring containment in either direction, or
// similarity at or above the attribute threshold.
func (e *Engine) attributeMatches(want, have string, threshold float64) bool {
	if want == "" || want == Wildcard {
		return true
	}

	have = strings.ToLower(have)
	if have == "" {
		return false
	}

	return containsEither(want, have) || Ratio(want, have) >= threshold
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
