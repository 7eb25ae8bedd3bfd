package services

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Tide 100oz", "tide"},
		{"Tide Detergent", "tide detergent"},
		{"Cheerios Cereal 18 oz", "cheerios cereal"},
		{"Milk 1 l", "milk"},
		{"Juice 64 fl oz Bottle", "juice bottle"},
		{"Ground Beef 2.5 lb", "ground beef"},
		{"Eggs 12 ct Large", "eggs large"},
		{"  Spaced   Out  ", "spaced out"},
		{"", ""},
		// "oz" without a leading number is part of the name, not a size token
		{"Wizard of Oz Crackers", "wizard of oz crackers"},
		// a number alone is kept: only number+unit pairs are stripped
		{"7 Up", "7 up"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Tide 100oz", "Cheerios Cereal 18 oz", "plain name", ""}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
