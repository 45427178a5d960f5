package geocoding

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeAddress produces the cache key for an address: NFC normalized,
// case folded, whitespace collapsed.
func NormalizeAddress(s string) string {
	s = norm.NFC.String(s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}
