package match

import (
	"math"
	"strconv"
	"strings"

	"github.com/ziadkadry99/shop-scout/internal/session"
)

// Wildcard is the sentinel preference value meaning "no constraint".
const Wildcard = "any"

// Criteria is a normalized set of match constraints. Build one with
// FromPreferences; the zero value matches nothing useful.
type Criteria struct {
	Category string
	Brand    string
	Color    string
	PriceMin float64
	PriceMax float64
}

// FromPreferences normalizes raw preferences and the detected product type
// into match criteria. Brand and color are lower-cased and default to the
// wildcard; the category preference takes priority over the product type;
// unparsable price input falls back to the widest possible range.
func FromPreferences(productType string, prefs map[string]string) Criteria {
	c := Criteria{
		Brand: Wildcard,
		Color: Wildcard,
	}

	if v := strings.TrimSpace(prefs[session.KeyBrand]); v != "" {
		c.Brand = strings.ToLower(v)
	}
	if v := strings.TrimSpace(prefs[session.KeyColor]); v != "" {
		c.Color = strings.ToLower(v)
	}

	c.Category = strings.ToLower(strings.TrimSpace(prefs[session.KeyCategory]))
	if c.Category == "" {
		c.Category = strings.ToLower(strings.TrimSpace(productType))
	}

	c.PriceMin, c.PriceMax = ParsePriceRange(prefs[session.KeyPriceRange])

	return c
}

// ParsePriceRange parses a price constraint. Accepted forms: "min-max",
// a single upper bound ("5000", implying min 0), or blank. Anything
// unparsable yields the widest possible range rather than an error.
func ParsePriceRange(raw string) (min, max float64) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if raw == "" {
		return 0, math.Inf(1)
	}

	if i := strings.Index(raw, "-"); i >= 0 {
		low, errLow := strconv.ParseFloat(raw[:i], 64)
		high, errHigh := strconv.ParseFloat(raw[i+1:], 64)
		if errLow != nil || errHigh != nil || low > high {
			return 0, math.Inf(1)
		}
		return low, high
	}

	high, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, math.Inf(1)
	}
	return 0, high
}
