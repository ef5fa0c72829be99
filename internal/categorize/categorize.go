// Package categorize maps raw vendor taxonomy values onto the small fixed
// category sets the facet UI is built from. Everything here is pure and
// deterministic; category membership is recomputed at query time, never stored.
package categorize

import (
	"strings"
	"unicode/utf16"
)

// Category is a normalized facet entry.
type Category struct {
	LogicalValue string `json:"logicalValue"`
	DisplayValue string `json:"displayValue"`
}

// anyContains reports whether any keyword occurs in the lowered logical or
// display value. Rule order in the categorizers is significant: earlier
// categories shadow later ones.
func anyContains(logical, display string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(logical, kw) || strings.Contains(display, kw) {
			return true
		}
	}
	return false
}

// FacetID derives a stable synthetic id for a category logical value, matching
// the 32-bit string hash the frontend already keys on.
func FacetID(s string) int {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	if h < 0 {
		return int(-int64(h))
	}
	return int(h)
}
