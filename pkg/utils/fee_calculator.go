package utils

import (
	"strconv"
)

// Monthly fee/salary tiers in INR. Fees and driver salaries deliberately
// share the same distance table.
const (
	TierNearAmount = 15000 // 0–20 km
	TierMidAmount  = 30000 // 20–50 km
	TierFarAmount  = 40000 // beyond 50 km

	TierNearMaxKM = 20.0
	TierMidMaxKM  = 50.0

	// DefaultDistanceKM is the fallback when a rider's distance is unknown
	// (manual seat assignment, bulk per-bus assignment).
	DefaultDistanceKM = 15.0
)

// FeeFromDistance maps the distance from a rider's home to the campus to a
// monthly fee. Tier boundaries are inclusive on the lower tier: exactly
// 20 km pays 15000, exactly 50 km pays 30000.
func FeeFromDistance(distanceKM float64) float64 {
	switch {
	case distanceKM <= TierNearMaxKM:
		return TierNearAmount
	case distanceKM <= TierMidMaxKM:
		return TierMidAmount
	default:
		return TierFarAmount
	}
}

// SalaryFromDistance maps a bus route distance to the driver's monthly
// salary using the same tier table as rider fees.
func SalaryFromDistance(distanceKM float64) float64 {
	return FeeFromDistance(distanceKM)
}

// FormatAmount renders a currency amount as a 2-decimal string.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
