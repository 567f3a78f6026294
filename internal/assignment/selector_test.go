package assignment

import (
	"errors"
	"testing"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

func f64(v float64) *float64 { return &v }

func TestNearestBusPicksClosest(t *testing.T) {
	// ~0.045° latitude is about 5 km, ~0.36° about 40 km
	buses := []models.Bus{
		{BusNumber: 1, SourceLatitude: f64(11.0 + 0.36), SourceLongitude: f64(77.0)},
		{BusNumber: 2, SourceLatitude: f64(11.0 + 0.045), SourceLongitude: f64(77.0)},
	}
	buses[0].ID = 1
	buses[1].ID = 2

	bus, distance, err := NearestBus(buses, 11.0, 77.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.BusNumber != 2 {
		t.Fatalf("expected bus 2, got bus %d", bus.BusNumber)
	}
	if distance < 4 || distance > 6 {
		t.Fatalf("expected ~5 km, got %f", distance)
	}
}

func TestNearestBusSkipsMissingCoordinates(t *testing.T) {
	buses := []models.Bus{
		{BusNumber: 1}, // no coordinates
		{BusNumber: 2, SourceLatitude: f64(12.0), SourceLongitude: f64(78.0)},
	}

	bus, _, err := NearestBus(buses, 11.0, 77.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.BusNumber != 2 {
		t.Fatalf("expected bus 2, got bus %d", bus.BusNumber)
	}
}

func TestNearestBusTieKeepsFirst(t *testing.T) {
	buses := []models.Bus{
		{BusNumber: 7, SourceLatitude: f64(11.5), SourceLongitude: f64(77.5)},
		{BusNumber: 8, SourceLatitude: f64(11.5), SourceLongitude: f64(77.5)},
	}

	bus, _, err := NearestBus(buses, 11.0, 77.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.BusNumber != 7 {
		t.Fatalf("expected first bus on tie, got bus %d", bus.BusNumber)
	}
}

func TestNearestBusEmptyPool(t *testing.T) {
	if _, _, err := NearestBus(nil, 11.0, 77.0); !errors.Is(err, ErrNoEligibleBus) {
		t.Fatalf("expected ErrNoEligibleBus, got %v", err)
	}
	// A pool with only coordinate-less buses is equally empty
	buses := []models.Bus{{BusNumber: 1}}
	if _, _, err := NearestBus(buses, 11.0, 77.0); !errors.Is(err, ErrNoEligibleBus) {
		t.Fatalf("expected ErrNoEligibleBus, got %v", err)
	}
}

func TestNearestDriverPicksClosest(t *testing.T) {
	drivers := []models.User{
		{Role: models.RoleDriver, HomeLatitude: f64(12.0), HomeLongitude: f64(77.0)},
		{Role: models.RoleDriver, HomeLatitude: f64(11.1), HomeLongitude: f64(77.0)},
	}
	drivers[0].ID = 1
	drivers[1].ID = 2

	driver, _, err := NearestDriver(drivers, 11.0, 77.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.ID != 2 {
		t.Fatalf("expected driver 2, got driver %d", driver.ID)
	}
}

func TestNearestDriverEmptyPool(t *testing.T) {
	drivers := []models.User{{Role: models.RoleDriver}} // no coordinates
	if _, _, err := NearestDriver(drivers, 11.0, 77.0); !errors.Is(err, ErrNoEligibleDriver) {
		t.Fatalf("expected ErrNoEligibleDriver, got %v", err)
	}
}
