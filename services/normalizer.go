package services

import (
	"regexp"
	"strings"
)

var (
	// sizeRegexp matches quantity tokens like "100oz", "2.5 lb" or "64 fl oz".
	// "fl oz" has to come before "oz" or the engine stops at the shorter unit.
	sizeRegexp = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:fl oz|oz|lb|ct|ml|l)\b`)
)

// Normalize canonicalizes a raw product name into the key used for
// coupon/sale matching: lower-cased, size tokens stripped, whitespace
// collapsed. Idempotent, so scraped names and already-normalized keys
// go through the same path.
func Normalize(name string) string {
	key := strings.ToLower(name)
	key = sizeRegexp.ReplaceAllString(key, "")
	return strings.Join(strings.Fields(key), " ")
}
