package assignment

import (
	"errors"
	"testing"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

func seedBusAndRiders(d *memDirectory, capacity int, riderCount int) (*models.Bus, []uint) {
	bus := d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: capacity, Status: models.BusWorking})
	var riders []uint
	for i := 0; i < riderCount; i++ {
		u := d.addUser(models.User{Username: "rider", Role: models.RoleStudent})
		riders = append(riders, u.ID)
	}
	return bus, riders
}

func TestReserveFirstFreeTakesLowestSeat(t *testing.T) {
	d := newMemDirectory()
	bus, riders := seedBusAndRiders(d, 4, 2)
	ledger := NewLedger(d)

	seat, err := ledger.ReserveFirstFree(bus.ID, riders[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seat.SeatNumber != 2 {
		t.Fatalf("expected seat 2 (seat 1 is the driver's), got %d", seat.SeatNumber)
	}

	seat, err = ledger.ReserveFirstFree(bus.ID, riders[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seat.SeatNumber != 3 {
		t.Fatalf("expected seat 3, got %d", seat.SeatNumber)
	}
}

func TestReserveOccupiedSeatConflicts(t *testing.T) {
	d := newMemDirectory()
	_, riders := seedBusAndRiders(d, 3, 2)
	ledger := NewLedger(d)

	// Seat id 2 is the first rider seat
	if _, err := ledger.Reserve(2, riders[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := ledger.Reserve(2, riders[1])
	var conflict *SeatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if conflict.SeatNumber != 2 {
		t.Fatalf("expected conflict on seat 2, got %d", conflict.SeatNumber)
	}
}

func TestReserveSecondSeatForSameRider(t *testing.T) {
	d := newMemDirectory()
	_, riders := seedBusAndRiders(d, 3, 1)
	ledger := NewLedger(d)

	if _, err := ledger.Reserve(2, riders[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := ledger.Reserve(3, riders[0])
	var already *AlreadyAssignedError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyAssignedError, got %v", err)
	}
	if already.SeatNumber != 2 || already.BusNumber != 1 {
		t.Fatalf("expected bus 1 seat 2 in error, got bus %d seat %d", already.BusNumber, already.SeatNumber)
	}
}

func TestReserveFirstFreeExhaustedBus(t *testing.T) {
	d := newMemDirectory()
	bus, riders := seedBusAndRiders(d, 2, 2) // one rider seat only
	ledger := NewLedger(d)

	if _, err := ledger.ReserveFirstFree(bus.ID, riders[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.ReserveFirstFree(bus.ID, riders[1]); !errors.Is(err, ErrNoSeatAvailable) {
		t.Fatalf("expected ErrNoSeatAvailable, got %v", err)
	}
}

func TestReserveFirstFreeLostRace(t *testing.T) {
	d := newMemDirectory()
	bus, riders := seedBusAndRiders(d, 3, 1)
	d.reserveDenied[2] = true
	ledger := NewLedger(d)

	if _, err := ledger.ReserveFirstFree(bus.ID, riders[0]); !errors.Is(err, ErrNoSeatAvailable) {
		t.Fatalf("expected ErrNoSeatAvailable on a lost race, got %v", err)
	}
}

func TestReleaseEmptySeat(t *testing.T) {
	d := newMemDirectory()
	seedBusAndRiders(d, 3, 0)
	ledger := NewLedger(d)

	if _, err := ledger.Release(2); !errors.Is(err, ErrSeatAlreadyEmpty) {
		t.Fatalf("expected ErrSeatAlreadyEmpty, got %v", err)
	}
}

func TestReleaseThenReassign(t *testing.T) {
	d := newMemDirectory()
	_, riders := seedBusAndRiders(d, 3, 2)
	ledger := NewLedger(d)

	if _, err := ledger.Reserve(2, riders[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.Release(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.Reserve(2, riders[1]); err != nil {
		t.Fatalf("expected released seat to be reservable, got %v", err)
	}
}

func TestSplitPool(t *testing.T) {
	seats := make([]models.Seat, 4)
	for i := range seats {
		seats[i].SeatNumber = i + 2
	}

	front, back := SplitPool(seats, 0.5)
	if len(front) != 2 || len(back) != 2 {
		t.Fatalf("expected 2/2 split, got %d/%d", len(front), len(back))
	}
	if front[0].SeatNumber != 2 || back[0].SeatNumber != 4 {
		t.Fatalf("expected front to start at seat 2 and back at seat 4")
	}

	// Out-of-range share falls back to the even split
	front, back = SplitPool(seats, 1.5)
	if len(front) != 2 || len(back) != 2 {
		t.Fatalf("expected fallback 2/2 split, got %d/%d", len(front), len(back))
	}

	front, back = SplitPool(seats, 0.25)
	if len(front) != 1 || len(back) != 3 {
		t.Fatalf("expected 1/3 split, got %d/%d", len(front), len(back))
	}
}
