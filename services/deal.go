package services

import (
	"fmt"
	"time"

	"grocery-deal-finder/models"
)

// BuildDeal computes the combined-savings result for one matched
// coupon/sale pair. It is a pure function of its arguments; the caller
// supplies now so runs are reproducible in tests.
//
// Records with negative numeric fields or no product name are malformed
// scrapes — the pair is rejected and the pipeline moves on.
func BuildDeal(coupon models.CouponRecord, sale models.SaleRecord, now time.Time) (*models.Deal, error) {
	if sale.ProductName == "" {
		return nil, fmt.Errorf("deal: sale record has no product name")
	}
	if coupon.DiscountAmount < 0 {
		return nil, fmt.Errorf("deal: %q has negative coupon discount %.2f", sale.ProductName, coupon.DiscountAmount)
	}
	if sale.SalePrice < 0 || sale.OriginalPrice < 0 {
		return nil, fmt.Errorf("deal: %q has negative price", sale.ProductName)
	}

	finalPrice := sale.SalePrice - coupon.DiscountAmount
	if finalPrice < 0 {
		finalPrice = 0
	}

	savings := sale.OriginalPrice - finalPrice
	savingsPercent := 0.0
	if sale.OriginalPrice > 0 {
		// Can exceed 100% when the coupon is larger than an already
		// discounted sale price. That is real data, not an error.
		savingsPercent = savings / sale.OriginalPrice * 100
	}

	return &models.Deal{
		ProductName:       sale.ProductName,
		OriginalPrice:     sale.OriginalPrice,
		SalePrice:         sale.SalePrice,
		CouponDiscount:    coupon.DiscountAmount,
		FinalPrice:        finalPrice,
		Savings:           savings,
		SavingsPercent:    savingsPercent,
		CouponDescription: coupon.Description,
		SaleDescription:   sale.SaleDescription,
		ExpiryDate:        coupon.ExpiryDate,
		FoundDate:         now,
	}, nil
}
