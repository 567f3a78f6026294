package utils

import "testing"

func TestFeeFromDistanceTiers(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{0, TierNearAmount},
		{5, TierNearAmount},
		{20, TierNearAmount},  // boundary stays in the near tier
		{20.01, TierMidAmount}, // just past the boundary
		{35, TierMidAmount},
		{50, TierMidAmount}, // boundary stays in the mid tier
		{50.01, TierFarAmount},
		{120, TierFarAmount},
	}
	for _, tc := range cases {
		if got := FeeFromDistance(tc.distance); got != tc.want {
			t.Errorf("FeeFromDistance(%v) = %v, want %v", tc.distance, got, tc.want)
		}
	}
}

func TestSalaryMatchesFeeTiers(t *testing.T) {
	for _, d := range []float64{0, 15, 20, 20.5, 50, 51, 200} {
		if SalaryFromDistance(d) != FeeFromDistance(d) {
			t.Errorf("salary and fee tiers diverge at %v km", d)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(15000); got != "15000.00" {
		t.Fatalf("expected 15000.00, got %s", got)
	}
	if got := FormatAmount(1234.5); got != "1234.50" {
		t.Fatalf("expected 1234.50, got %s", got)
	}
}
