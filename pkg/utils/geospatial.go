package utils

import (
	"math"
)

// HaversineDistance calculates the great-circle distance between two points
// on Earth using the Haversine formula. Returns distance in kilometers.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371 // Earth's radius in kilometers

	// Convert degrees to radians
	lat1Rad := lat1 * math.Pi / 180
	lng1Rad := lng1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lng2Rad := lng2 * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlng := lng2Rad - lng1Rad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dlng/2)*math.Sin(dlng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// DistanceBetween computes the distance between two nullable coordinate
// pairs. ok is false when any coordinate is missing; callers must exclude
// such candidates rather than compare against a zero distance.
func DistanceBetween(lat1, lng1, lat2, lng2 *float64) (km float64, ok bool) {
	if lat1 == nil || lng1 == nil || lat2 == nil || lng2 == nil {
		return 0, false
	}
	return HaversineDistance(*lat1, *lng1, *lat2, *lng2), true
}

// RoundKM rounds a distance to 2 decimal places for display.
func RoundKM(km float64) float64 {
	return math.Round(km*100) / 100
}

// ValidLatitude reports whether lat is a usable latitude in degrees.
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lng is a usable longitude in degrees.
func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
