package models

import (
	"fmt"
	"time"
)

// CouponRecord is a digital coupon scraped from the coupons page.
// Immutable once handed to the matching pipeline.
type CouponRecord struct {
	ProductName    string
	DiscountAmount float64
	Description    string
	ExpiryDate     string // free-form site text, "Unknown" when absent
}

// SaleRecord is a weekly-ad sale item. If the page showed no separate
// "was" price, OriginalPrice equals SalePrice.
type SaleRecord struct {
	ProductName     string
	OriginalPrice   float64
	SalePrice       float64
	SaleDescription string
}

// Deal is a product that has both an active sale and an active coupon,
// with the combined savings computed. Never mutated after creation.
type Deal struct {
	ProductName       string
	OriginalPrice     float64
	SalePrice         float64
	CouponDiscount    float64
	FinalPrice        float64
	Savings           float64
	SavingsPercent    float64
	CouponDescription string
	SaleDescription   string
	ExpiryDate        string
	FoundDate         time.Time
}

// Signature identifies a recurring deal across runs. Two deals with the
// same name and final price are treated as the same deal.
func (d *Deal) Signature() string {
	return fmt.Sprintf("%s_%.2f", d.ProductName, d.FinalPrice)
}

// HistoryEntry is a previously accepted deal as loaded from storage.
// FoundDate stays a string here: old rows may carry timestamps we can no
// longer parse, and the deduplicator decides how to treat those.
type HistoryEntry struct {
	ProductName string
	FinalPrice  float64
	FoundDate   string
}

// Signature mirrors Deal.Signature for history rows.
func (h *HistoryEntry) Signature() string {
	return fmt.Sprintf("%s_%.2f", h.ProductName, h.FinalPrice)
}

// RunResult is what one pipeline run produces: every accepted deal for
// persistence, and the not-recently-seen subset for notification.
type RunResult struct {
	AllDeals []*Deal
	NewDeals []*Deal
}

// RunReport holds the summary stats printed after each check.
type RunReport struct {
	TotalDeals     int
	NewDeals       int
	TotalSavings   float64
	AveragePercent float64
	BestDeal       *Deal
}
