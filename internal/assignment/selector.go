package assignment

import (
	"math"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

func distanceTo(lat, lng float64, toLat, toLng *float64) (float64, bool) {
	if toLat == nil || toLng == nil {
		return 0, false
	}
	return utils.HaversineDistance(lat, lng, *toLat, *toLng), true
}

// NearestBus picks the bus whose source is closest to the given point.
// Buses without source coordinates are skipped. The strict < comparison
// keeps the first bus seen on ties, so callers must pass buses in
// ascending id order. Eligibility (WORKING status, free seat) is the
// caller's responsibility.
func NearestBus(buses []models.Bus, lat, lng float64) (*models.Bus, float64, error) {
	var nearest *models.Bus
	minDistance := math.Inf(1)

	for i := range buses {
		bus := &buses[i]
		distance, ok := distanceTo(lat, lng, bus.SourceLatitude, bus.SourceLongitude)
		if !ok {
			continue
		}
		if distance < minDistance {
			minDistance = distance
			nearest = bus
		}
	}

	if nearest == nil {
		return nil, 0, ErrNoEligibleBus
	}
	return nearest, minDistance, nil
}

// NearestDriver picks the driver whose home is closest to the given point,
// with the same skip and tie-break rules as NearestBus. Candidates must
// already be AVAILABLE and unassigned; an empty or coordinate-less pool is
// the soft ErrNoEligibleDriver.
func NearestDriver(drivers []models.User, lat, lng float64) (*models.User, float64, error) {
	var nearest *models.User
	minDistance := math.Inf(1)

	for i := range drivers {
		driver := &drivers[i]
		distance, ok := distanceTo(lat, lng, driver.HomeLatitude, driver.HomeLongitude)
		if !ok {
			continue
		}
		if distance < minDistance {
			minDistance = distance
			nearest = driver
		}
	}

	if nearest == nil {
		return nil, 0, ErrNoEligibleDriver
	}
	return nearest, minDistance, nil
}
