package services

import (
	"fmt"

	"grocery-deal-finder/models"
)

// Criteria holds the acceptance thresholds for a deal. All three are
// checked independently; any single failure rejects the deal.
type Criteria struct {
	MinSavingsDollar  float64
	MinSavingsPercent float64
	MaxOriginalPrice  float64
}

// Validate rejects threshold combinations that can never make sense.
// Called once at pipeline construction so bad config fails fast instead
// of silently filtering everything out.
func (c Criteria) Validate() error {
	if c.MinSavingsDollar < 0 {
		return fmt.Errorf("criteria: minimum savings dollar %.2f is negative", c.MinSavingsDollar)
	}
	if c.MinSavingsPercent < 0 || c.MinSavingsPercent > 100 {
		return fmt.Errorf("criteria: minimum savings percent %.1f outside 0-100", c.MinSavingsPercent)
	}
	if c.MaxOriginalPrice < 0 {
		return fmt.Errorf("criteria: maximum original price %.2f is negative", c.MaxOriginalPrice)
	}
	return nil
}

// Accepts reports whether the deal clears every configured threshold.
// Thresholds are inclusive: savings exactly at the minimum pass.
func (c Criteria) Accepts(deal *models.Deal) bool {
	if deal.Savings < c.MinSavingsDollar {
		return false
	}
	if deal.SavingsPercent < c.MinSavingsPercent {
		return false
	}
	if deal.OriginalPrice > c.MaxOriginalPrice {
		return false
	}
	return true
}
