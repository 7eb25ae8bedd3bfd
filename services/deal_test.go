package services

import (
	"math"
	"testing"
	"time"

	"grocery-deal-finder/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildDealArithmetic(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	coupon := models.CouponRecord{ProductName: "Tide", DiscountAmount: 2.00}
	sale := models.SaleRecord{ProductName: "Tide", OriginalPrice: 10.00, SalePrice: 7.00}

	deal, err := BuildDeal(coupon, sale, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(deal.FinalPrice, 5.00) {
		t.Errorf("FinalPrice = %.2f; want 5.00", deal.FinalPrice)
	}
	if !almostEqual(deal.Savings, 5.00) {
		t.Errorf("Savings = %.2f; want 5.00", deal.Savings)
	}
	if !almostEqual(deal.SavingsPercent, 50.0) {
		t.Errorf("SavingsPercent = %.2f; want 50.0", deal.SavingsPercent)
	}
	if !deal.FoundDate.Equal(now) {
		t.Errorf("FoundDate = %v; want %v", deal.FoundDate, now)
	}
}

func TestBuildDealZeroFloor(t *testing.T) {
	coupon := models.CouponRecord{ProductName: "Soap", DiscountAmount: 9.00}
	sale := models.SaleRecord{ProductName: "Soap", OriginalPrice: 10.00, SalePrice: 5.00}

	deal, err := BuildDeal(coupon, sale, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deal.FinalPrice != 0 {
		t.Errorf("FinalPrice = %.2f; want 0 (never negative)", deal.FinalPrice)
	}
	if !almostEqual(deal.Savings, 10.00) {
		t.Errorf("Savings = %.2f; want 10.00", deal.Savings)
	}
	// Savings can exceed the original price; the percent follows.
	if !almostEqual(deal.SavingsPercent, 100.0) {
		t.Errorf("SavingsPercent = %.2f; want 100.0", deal.SavingsPercent)
	}
}

func TestBuildDealZeroOriginalPrice(t *testing.T) {
	coupon := models.CouponRecord{ProductName: "Freebie", DiscountAmount: 1.00}
	sale := models.SaleRecord{ProductName: "Freebie", OriginalPrice: 0, SalePrice: 0}

	deal, err := BuildDeal(coupon, sale, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deal.SavingsPercent != 0 {
		t.Errorf("SavingsPercent = %.2f; want 0 when original price is 0", deal.SavingsPercent)
	}
}

func TestBuildDealRejectsMalformed(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name   string
		coupon models.CouponRecord
		sale   models.SaleRecord
	}{
		{"negative discount",
			models.CouponRecord{ProductName: "X", DiscountAmount: -1},
			models.SaleRecord{ProductName: "X", OriginalPrice: 5, SalePrice: 4}},
		{"negative sale price",
			models.CouponRecord{ProductName: "X", DiscountAmount: 1},
			models.SaleRecord{ProductName: "X", OriginalPrice: 5, SalePrice: -4}},
		{"negative original price",
			models.CouponRecord{ProductName: "X", DiscountAmount: 1},
			models.SaleRecord{ProductName: "X", OriginalPrice: -5, SalePrice: 4}},
		{"missing product name",
			models.CouponRecord{ProductName: "X", DiscountAmount: 1},
			models.SaleRecord{ProductName: "", OriginalPrice: 5, SalePrice: 4}},
	}

	for _, tc := range cases {
		if _, err := BuildDeal(tc.coupon, tc.sale, now); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestDealSignature(t *testing.T) {
	d := &models.Deal{ProductName: "Tide Detergent", FinalPrice: 6.99}
	want := "Tide Detergent_6.99"
	if got := d.Signature(); got != want {
		t.Errorf("Signature() = %q; want %q", got, want)
	}

	h := &models.HistoryEntry{ProductName: "Tide Detergent", FinalPrice: 6.99}
	if h.Signature() != d.Signature() {
		t.Error("deal and history signatures must agree for the same product/price")
	}
}
