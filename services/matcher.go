package services

import (
	"sort"
	"strings"

	"grocery-deal-finder/models"
	"grocery-deal-finder/utils"
)

// Pair is one coupon/sale combination the matcher considers the same product.
type Pair struct {
	Coupon models.CouponRecord
	Sale   models.SaleRecord
}

// matchRule is a single predicate over two normalized keys. Rules are
// evaluated in order and the first hit wins.
type matchRule func(couponKey, saleKey string) bool

// Matcher pairs coupon records with sale records by normalized product key.
// A coupon may match several sales and vice versa; every satisfying pair is
// emitted and the signature-based dedup later in the pipeline sorts it out.
type Matcher struct {
	logger *utils.Logger
	rules  []matchRule
}

// NewMatcher creates a Matcher with the standard rule chain:
// exact key, substring containment, then two-shared-words.
func NewMatcher(logger *utils.Logger) *Matcher {
	return &Matcher{
		logger: logger,
		rules: []matchRule{
			exactKeyRule,
			containmentRule,
			sharedWordsRule,
		},
	}
}

// Match evaluates every (coupon, sale) pair. Quadratic, but both maps are
// bounded by one catalog page worth of items per cycle.
//
// Map keys are walked in sorted order so the emitted pair sequence is
// deterministic — the pipeline's stable sort depends on that.
func (m *Matcher) Match(coupons map[string]models.CouponRecord, sales map[string]models.SaleRecord) []Pair {
	couponKeys := sortedKeys(coupons)
	saleKeys := sortedKeys(sales)

	var pairs []Pair
	for _, ck := range couponKeys {
		for _, sk := range saleKeys {
			if m.keysMatch(ck, sk) {
				pairs = append(pairs, Pair{Coupon: coupons[ck], Sale: sales[sk]})
			}
		}
	}

	m.logger.Info("[matcher] %d coupons x %d sales -> %d candidate pairs",
		len(coupons), len(sales), len(pairs))
	return pairs
}

func (m *Matcher) keysMatch(couponKey, saleKey string) bool {
	// An empty key would contain-match everything; records without a
	// usable name never match.
	if couponKey == "" || saleKey == "" {
		return false
	}
	for _, rule := range m.rules {
		if rule(couponKey, saleKey) {
			return true
		}
	}
	return false
}

func exactKeyRule(couponKey, saleKey string) bool {
	return couponKey == saleKey
}

func containmentRule(couponKey, saleKey string) bool {
	return strings.Contains(saleKey, couponKey) || strings.Contains(couponKey, saleKey)
}

// sharedWordsRule matches when the two keys share at least two words.
// One common word ("free", a brand prefix) is too weak a signal.
func sharedWordsRule(couponKey, saleKey string) bool {
	couponWords := make(map[string]struct{})
	for _, w := range strings.Fields(couponKey) {
		couponWords[w] = struct{}{}
	}

	shared := 0
	for _, w := range strings.Fields(saleKey) {
		if _, ok := couponWords[w]; ok {
			delete(couponWords, w) // count distinct words, not occurrences
			shared++
			if shared >= 2 {
				return true
			}
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
