package services

import (
	"testing"

	"grocery-deal-finder/models"
)

func testCriteria() Criteria {
	return Criteria{
		MinSavingsDollar:  1.50,
		MinSavingsPercent: 25,
		MaxOriginalPrice:  100.00,
	}
}

func TestCriteriaBoundaries(t *testing.T) {
	c := testCriteria()

	tests := []struct {
		name string
		deal models.Deal
		want bool
	}{
		{"all thresholds cleared",
			models.Deal{Savings: 6.00, SavingsPercent: 46.2, OriginalPrice: 12.99}, true},
		{"savings exactly at minimum is accepted",
			models.Deal{Savings: 1.50, SavingsPercent: 30, OriginalPrice: 5.00}, true},
		{"savings one cent below minimum is rejected",
			models.Deal{Savings: 1.49, SavingsPercent: 30, OriginalPrice: 5.00}, false},
		{"percent exactly at minimum is accepted",
			models.Deal{Savings: 2.00, SavingsPercent: 25, OriginalPrice: 8.00}, true},
		{"percent below minimum is rejected",
			models.Deal{Savings: 2.00, SavingsPercent: 24.9, OriginalPrice: 8.00}, false},
		{"original price exactly at maximum is accepted",
			models.Deal{Savings: 30.00, SavingsPercent: 30, OriginalPrice: 100.00}, true},
		{"original price above maximum is rejected",
			models.Deal{Savings: 30.00, SavingsPercent: 30, OriginalPrice: 100.01}, false},
	}

	for _, tt := range tests {
		if got := c.Accepts(&tt.deal); got != tt.want {
			t.Errorf("%s: Accepts = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestCriteriaValidate(t *testing.T) {
	if err := testCriteria().Validate(); err != nil {
		t.Errorf("valid criteria rejected: %v", err)
	}

	bad := []Criteria{
		{MinSavingsDollar: -1, MinSavingsPercent: 25, MaxOriginalPrice: 100},
		{MinSavingsDollar: 1, MinSavingsPercent: -5, MaxOriginalPrice: 100},
		{MinSavingsDollar: 1, MinSavingsPercent: 101, MaxOriginalPrice: 100},
		{MinSavingsDollar: 1, MinSavingsPercent: 25, MaxOriginalPrice: -1},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error, got nil", i)
		}
	}
}
