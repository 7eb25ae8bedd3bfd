package services

import (
	"testing"
	"time"

	"grocery-deal-finder/models"
	"grocery-deal-finder/utils"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(utils.NewLogger(), testCriteria(), 72*time.Hour)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

// The canonical scenario: a coupon keyed off "Tide 100oz" meets the
// "Tide Detergent" weekly-ad row through normalization + fuzzy matching.
func TestPipelineEndToEnd(t *testing.T) {
	p := testPipeline(t)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	coupons := map[string]models.CouponRecord{
		Normalize("Tide 100oz"): {
			ProductName:    "Tide 100oz",
			DiscountAmount: 2.00,
			Description:    "$2.00 off one Tide",
			ExpiryDate:     "03/15/2024",
		},
	}
	sales := map[string]models.SaleRecord{
		Normalize("Tide Detergent"): {
			ProductName:     "Tide Detergent",
			OriginalPrice:   12.99,
			SalePrice:       8.99,
			SaleDescription: "On sale for $8.99",
		},
	}

	result := p.Run(coupons, sales, nil, now)

	if len(result.AllDeals) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(result.AllDeals))
	}
	deal := result.AllDeals[0]

	if !almostEqual(deal.FinalPrice, 6.99) {
		t.Errorf("FinalPrice = %.2f; want 6.99", deal.FinalPrice)
	}
	if !almostEqual(deal.Savings, 6.00) {
		t.Errorf("Savings = %.2f; want 6.00", deal.Savings)
	}
	if deal.SavingsPercent < 46.1 || deal.SavingsPercent > 46.3 {
		t.Errorf("SavingsPercent = %.2f; want ~46.2", deal.SavingsPercent)
	}
	if len(result.NewDeals) != 1 {
		t.Errorf("no history, so the deal should also be new")
	}
}

func TestPipelineDropsBelowThreshold(t *testing.T) {
	p := testPipeline(t)

	coupons := map[string]models.CouponRecord{
		"gum": {ProductName: "Gum", DiscountAmount: 0.10},
	}
	sales := map[string]models.SaleRecord{
		"gum": {ProductName: "Gum", OriginalPrice: 1.29, SalePrice: 1.19},
	}

	result := p.Run(coupons, sales, nil, time.Now())
	if len(result.AllDeals) != 0 {
		t.Errorf("20-cent savings should not clear a $1.50 minimum, got %d deals", len(result.AllDeals))
	}
}

func TestPipelineSkipsMalformedPair(t *testing.T) {
	p := testPipeline(t)

	coupons := map[string]models.CouponRecord{
		"tide": {ProductName: "Tide", DiscountAmount: -2.00}, // bad scrape
		"dove": {ProductName: "Dove", DiscountAmount: 2.00},
	}
	sales := map[string]models.SaleRecord{
		"tide": {ProductName: "Tide", OriginalPrice: 12.99, SalePrice: 8.99},
		"dove": {ProductName: "Dove", OriginalPrice: 6.99, SalePrice: 4.99},
	}

	result := p.Run(coupons, sales, nil, time.Now())
	if len(result.AllDeals) != 1 {
		t.Fatalf("malformed pair should be skipped, good pair kept; got %d deals", len(result.AllDeals))
	}
	if result.AllDeals[0].ProductName != "Dove" {
		t.Errorf("surviving deal = %q; want Dove", result.AllDeals[0].ProductName)
	}
}

func TestPipelineSortsBySavingsDescending(t *testing.T) {
	p := testPipeline(t)

	coupons := map[string]models.CouponRecord{
		"tide":     {ProductName: "Tide", DiscountAmount: 2.00},
		"cheerios": {ProductName: "Cheerios", DiscountAmount: 1.00},
	}
	sales := map[string]models.SaleRecord{
		"tide":     {ProductName: "Tide", OriginalPrice: 12.99, SalePrice: 8.99},      // saves 6.00
		"cheerios": {ProductName: "Cheerios", OriginalPrice: 5.49, SalePrice: 3.99},   // saves 2.50
	}

	result := p.Run(coupons, sales, nil, time.Now())
	if len(result.AllDeals) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(result.AllDeals))
	}
	if result.AllDeals[0].ProductName != "Tide" {
		t.Errorf("biggest savings should come first, got %q", result.AllDeals[0].ProductName)
	}
}

func TestPipelineSortIsStable(t *testing.T) {
	p := testPipeline(t)

	// Identical prices -> identical savings. Keys sort "alpha" < "beta",
	// so the matcher emits alpha first and the stable sort must keep it.
	coupons := map[string]models.CouponRecord{
		"alpha snacks": {ProductName: "Alpha Snacks", DiscountAmount: 1.00},
		"beta snacks":  {ProductName: "Beta Snacks", DiscountAmount: 1.00},
	}
	sales := map[string]models.SaleRecord{
		"alpha snacks": {ProductName: "Alpha Snacks", OriginalPrice: 6.00, SalePrice: 4.00},
		"beta snacks":  {ProductName: "Beta Snacks", OriginalPrice: 6.00, SalePrice: 4.00},
	}

	for i := 0; i < 10; i++ {
		result := p.Run(coupons, sales, nil, time.Now())
		if len(result.AllDeals) != 2 {
			t.Fatalf("expected 2 deals, got %d", len(result.AllDeals))
		}
		if result.AllDeals[0].ProductName != "Alpha Snacks" {
			t.Fatal("equal-savings deals changed relative order")
		}
	}
}

func TestPipelineDedupesAgainstHistory(t *testing.T) {
	p := testPipeline(t)
	now := time.Now()

	coupons := map[string]models.CouponRecord{
		"tide": {ProductName: "Tide Detergent", DiscountAmount: 2.00},
	}
	sales := map[string]models.SaleRecord{
		"tide": {ProductName: "Tide Detergent", OriginalPrice: 12.99, SalePrice: 8.99},
	}
	history := []models.HistoryEntry{
		{ProductName: "Tide Detergent", FinalPrice: 6.99, FoundDate: now.Add(-24 * time.Hour).Format(time.RFC3339Nano)},
	}

	result := p.Run(coupons, sales, history, now)
	if len(result.AllDeals) != 1 {
		t.Fatalf("deal should still be accepted and persisted, got %d", len(result.AllDeals))
	}
	if len(result.NewDeals) != 0 {
		t.Errorf("deal seen yesterday should not be in NewDeals")
	}
}

func TestNewPipelineRejectsBadConfig(t *testing.T) {
	if _, err := NewPipeline(utils.NewLogger(), Criteria{MinSavingsDollar: -1}, time.Hour); err == nil {
		t.Error("negative threshold should fail pipeline construction")
	}
	if _, err := NewPipeline(utils.NewLogger(), testCriteria(), -time.Hour); err == nil {
		t.Error("negative dedup window should fail pipeline construction")
	}
}
