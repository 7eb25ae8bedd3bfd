package services

import (
	"fmt"
	"sort"
	"time"

	"grocery-deal-finder/models"
	"grocery-deal-finder/utils"
)

// Pipeline composes matching, deal building, filtering and dedup over one
// (coupons, sales) snapshot. It performs no I/O; scraping feeds it and
// storage/notification consume its result.
type Pipeline struct {
	logger   *utils.Logger
	matcher  *Matcher
	criteria Criteria
	window   time.Duration
}

// NewPipeline validates the criteria and returns a ready Pipeline.
// Invalid thresholds are a construction-time failure, not a per-run one.
func NewPipeline(logger *utils.Logger, criteria Criteria, dedupWindow time.Duration) (*Pipeline, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	if dedupWindow < 0 {
		return nil, fmt.Errorf("pipeline: dedup window %v is negative", dedupWindow)
	}
	return &Pipeline{
		logger:   logger,
		matcher:  NewMatcher(logger),
		criteria: criteria,
		window:   dedupWindow,
	}, nil
}

// Run executes one full matching cycle.
//
// AllDeals is every accepted deal sorted by savings descending — that is
// what gets persisted. NewDeals is the subset not seen in history within
// the dedup window — that is what gets notified.
//
// A pair that fails to build (malformed record) is logged and skipped;
// one bad scrape never kills the run.
func (p *Pipeline) Run(
	coupons map[string]models.CouponRecord,
	sales map[string]models.SaleRecord,
	history []models.HistoryEntry,
	now time.Time,
) models.RunResult {
	pairs := p.matcher.Match(coupons, sales)

	accepted := make([]*models.Deal, 0, len(pairs))
	for _, pair := range pairs {
		deal, err := BuildDeal(pair.Coupon, pair.Sale, now)
		if err != nil {
			p.logger.Warn("[pipeline] Skipping pair: %v", err)
			continue
		}
		if !p.criteria.Accepts(deal) {
			continue
		}
		p.logger.Info("[pipeline] Deal: %s — save $%.2f (%.1f%%)",
			deal.ProductName, deal.Savings, deal.SavingsPercent)
		accepted = append(accepted, deal)
	}

	// Stable: pairs with equal savings keep their match order.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Savings > accepted[j].Savings
	})

	fresh := Dedupe(accepted, history, now, p.window)

	p.logger.Info("[pipeline] %d accepted deals, %d new after dedup",
		len(accepted), len(fresh))

	return models.RunResult{AllDeals: accepted, NewDeals: fresh}
}
