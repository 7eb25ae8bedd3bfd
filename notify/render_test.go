package notify

import (
	"strings"
	"testing"

	"grocery-deal-finder/models"
)

func sampleDeals() []*models.Deal {
	return []*models.Deal{
		{
			ProductName:       "Tide Detergent",
			OriginalPrice:     12.99,
			SalePrice:         8.99,
			FinalPrice:        6.99,
			Savings:           6.00,
			SavingsPercent:    46.2,
			CouponDescription: "$2.00 off one Tide",
			SaleDescription:   "Weekly special",
			ExpiryDate:        "03/15/2024",
		},
		{
			ProductName:    "Ben & Jerry's <Limited>",
			OriginalPrice:  5.99,
			SalePrice:      3.99,
			FinalPrice:     2.99,
			Savings:        3.00,
			SavingsPercent: 50.1,
			ExpiryDate:     "Unknown",
		},
	}
}

func TestRenderTelegramHTMLEscapes(t *testing.T) {
	out := renderTelegramHTML(sampleDeals())

	if !strings.Contains(out, "Ben &amp; Jerry&#39;s") && !strings.Contains(out, "Ben &amp; Jerry's &lt;Limited&gt;") {
		t.Errorf("special characters must be escaped, got: %q", out)
	}
	if strings.Contains(out, "<Limited>") {
		t.Error("raw angle brackets leaked into HTML output")
	}
	if !strings.Contains(out, "2 Double-Savings Deals") {
		t.Error("header should carry the deal count")
	}
	// "Unknown" expiry dates are noise, not information.
	if strings.Contains(out, "Expires Unknown") {
		t.Error("unknown expiry should not be rendered")
	}
}

func TestRenderPlainTextListsEveryDeal(t *testing.T) {
	out := renderPlainText(sampleDeals())

	if !strings.Contains(out, "Tide Detergent") || !strings.Contains(out, "Ben & Jerry's") {
		t.Error("every deal should appear in the plain-text rendering")
	}
	if !strings.Contains(out, "total $9.00") {
		t.Errorf("total savings missing: %q", out)
	}
}

func TestEscapeHTML(t *testing.T) {
	got := escapeHTML(`A&W <Root> Beer`)
	want := "A&amp;W &lt;Root&gt; Beer"
	if got != want {
		t.Errorf("escapeHTML = %q; want %q", got, want)
	}
}
