package utils

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	if d := HaversineDistance(11.3833, 77.8833, 11.3833, 77.8833); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := HaversineDistance(11.3833, 77.8833, 13.0827, 80.2707)
	b := HaversineDistance(13.0827, 80.2707, 11.3833, 77.8833)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("expected symmetric distances, got %f and %f", a, b)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Tiruchengode to Chennai is roughly 310 km as the crow flies
	d := HaversineDistance(11.3833, 77.8833, 13.0827, 80.2707)
	if d < 290 || d > 330 {
		t.Fatalf("expected ~310 km, got %f", d)
	}
}

func TestDistanceBetweenNilCoordinates(t *testing.T) {
	lat := 11.0
	if _, ok := DistanceBetween(&lat, nil, &lat, &lat); ok {
		t.Fatal("expected ok=false with a nil coordinate")
	}
	if km, ok := DistanceBetween(&lat, &lat, &lat, &lat); !ok || km != 0 {
		t.Fatalf("expected 0 km ok=true, got %f %v", km, ok)
	}
}

func TestRoundKM(t *testing.T) {
	if got := RoundKM(12.34567); got != 12.35 {
		t.Fatalf("expected 12.35, got %f", got)
	}
	if got := RoundKM(12.344); got != 12.34 {
		t.Fatalf("expected 12.34, got %f", got)
	}
}

func TestValidCoordinates(t *testing.T) {
	if !ValidLatitude(90) || !ValidLatitude(-90) || ValidLatitude(90.01) {
		t.Fatal("latitude bounds check failed")
	}
	if !ValidLongitude(180) || !ValidLongitude(-180) || ValidLongitude(-180.01) {
		t.Fatal("longitude bounds check failed")
	}
}
