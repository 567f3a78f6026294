package assignment

import (
	"errors"
	"testing"
	"time"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

func newTestService() (*Service, *memDirectory, *recordingNotifier) {
	d := newMemDirectory()
	n := &recordingNotifier{}
	return NewService(d, n), d, n
}

func addCampusRider(d *memDirectory) *models.User {
	return d.addUser(models.User{
		Username:      "asha",
		FirstName:     "Asha",
		Role:          models.RoleStudent,
		HomeLatitude:  f64(CampusLatitude),
		HomeLongitude: f64(CampusLongitude),
	})
}

func TestAssignNearestPicksClosestBus(t *testing.T) {
	svc, d, n := newTestService()
	rider := addCampusRider(d)

	// Bus 1 is ~40 km from the rider, bus 2 ~5 km
	d.addBus(models.Bus{BusNumber: 1, Source: "Salem", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude + 0.36), SourceLongitude: f64(CampusLongitude)})
	d.addBus(models.Bus{BusNumber: 2, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude + 0.045), SourceLongitude: f64(CampusLongitude)})

	result, err := svc.AssignNearest(rider.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Bus.BusNumber != 2 {
		t.Fatalf("expected bus 2, got bus %d", result.Bus.BusNumber)
	}
	if result.SeatNumber != 2 {
		t.Fatalf("expected seat 2, got %d", result.SeatNumber)
	}
	// Rider lives at the campus point, so the fee is the near tier
	if result.FeeAmount != "15000.00" {
		t.Fatalf("expected fee 15000.00, got %s", result.FeeAmount)
	}
	if result.DistanceToCampusKM != 0 {
		t.Fatalf("expected 0 km to campus, got %f", result.DistanceToCampusKM)
	}

	// Fee notice plus seat notice, both for the rider, after commit
	if len(n.notices) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(n.notices))
	}
	for _, notice := range n.notices {
		if notice.RecipientID != rider.ID {
			t.Fatalf("expected notices for rider %d, got %d", rider.ID, notice.RecipientID)
		}
	}
}

func TestAssignNearestBindsNearestDriver(t *testing.T) {
	svc, d, _ := newTestService()
	rider := addCampusRider(d)

	far := d.addUser(models.User{Username: "driver-far", Role: models.RoleDriver, DriverStatus: models.DriverAvailable,
		HomeLatitude: f64(CampusLatitude + 0.5), HomeLongitude: f64(CampusLongitude)})
	near := d.addUser(models.User{Username: "driver-near", Role: models.RoleDriver, DriverStatus: models.DriverAvailable,
		HomeLatitude: f64(CampusLatitude + 0.05), HomeLongitude: f64(CampusLongitude)})

	d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude),
		DistanceKM: f64(60)})

	result, err := svc.AssignNearest(rider.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.DriverAssigned || result.Driver == nil {
		t.Fatal("expected a driver to be bound")
	}
	if result.Driver.ID != near.ID {
		t.Fatalf("expected driver %d, got %d", near.ID, result.Driver.ID)
	}
	// Salary tiers on the 60 km route distance
	if result.Driver.Salary != "40000.00" {
		t.Fatalf("expected salary 40000.00, got %s", result.Driver.Salary)
	}

	bound := d.state.users[d.userIndex(near.ID)]
	if bound.DriverStatus != models.DriverUnavailable {
		t.Fatalf("expected bound driver UNAVAILABLE, got %s", bound.DriverStatus)
	}
	idle := d.state.users[d.userIndex(far.ID)]
	if idle.DriverStatus != models.DriverAvailable {
		t.Fatalf("expected far driver untouched, got %s", idle.DriverStatus)
	}
}

func TestAssignNearestWithoutDriverIsSoft(t *testing.T) {
	svc, d, _ := newTestService()
	rider := addCampusRider(d)
	d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude)})

	result, err := svc.AssignNearest(rider.ID, nil)
	if err != nil {
		t.Fatalf("expected assignment to succeed without a driver, got %v", err)
	}
	if result.DriverAssigned {
		t.Fatal("expected no driver bound")
	}
}

func TestAssignNearestDriverSalaryUnknownRoute(t *testing.T) {
	svc, d, _ := newTestService()
	rider := addCampusRider(d)
	d.addUser(models.User{Username: "driver", Role: models.RoleDriver, DriverStatus: models.DriverAvailable,
		HomeLatitude: f64(CampusLatitude), HomeLongitude: f64(CampusLongitude)})
	// Bus route distance unknown: driver binds without a salary
	d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude)})

	result, err := svc.AssignNearest(rider.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.DriverAssigned {
		t.Fatal("expected a driver to be bound")
	}
	if result.Driver.Salary != "" {
		t.Fatalf("expected empty salary with unknown route distance, got %s", result.Driver.Salary)
	}
}

func TestAssignNearestMissingCoordinates(t *testing.T) {
	svc, d, _ := newTestService()
	rider := d.addUser(models.User{Username: "nocoords", Role: models.RoleStudent})

	if _, err := svc.AssignNearest(rider.ID, nil); !errors.Is(err, ErrMissingCoordinates) {
		t.Fatalf("expected ErrMissingCoordinates, got %v", err)
	}
}

func TestAssignNearestUnknownRider(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.AssignNearest(99, nil); !errors.Is(err, ErrRiderNotFound) {
		t.Fatalf("expected ErrRiderNotFound, got %v", err)
	}
}

func TestAssignNearestAlreadyAssigned(t *testing.T) {
	svc, d, _ := newTestService()
	rider := addCampusRider(d)
	d.addBus(models.Bus{BusNumber: 9, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude)})

	if _, err := svc.AssignNearest(rider.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.AssignNearest(rider.ID, nil)
	var already *AlreadyAssignedError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyAssignedError, got %v", err)
	}
	if already.BusNumber != 9 || already.SeatNumber != 2 {
		t.Fatalf("expected bus 9 seat 2 in error, got bus %d seat %d", already.BusNumber, already.SeatNumber)
	}
}

func TestAssignNearestNoEligibleBus(t *testing.T) {
	svc, d, _ := newTestService()
	rider := addCampusRider(d)

	// Not WORKING and coordinate-less buses are both ineligible
	d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusBreakdown,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude)})
	d.addBus(models.Bus{BusNumber: 2, Source: "Salem", Destination: "Campus", Capacity: 4, Status: models.BusWorking})

	if _, err := svc.AssignNearest(rider.ID, nil); !errors.Is(err, ErrNoEligibleBus) {
		t.Fatalf("expected ErrNoEligibleBus, got %v", err)
	}
}

func TestAssignNearestFeeIdempotentPerMonth(t *testing.T) {
	svc, d, n := newTestService()
	rider := addCampusRider(d)
	d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude)})

	// A fee for the current month already exists at a different tier; an
	// assignment must reuse it untouched.
	now := time.Now()
	existing := models.Fee{
		UserID:  rider.ID,
		Amount:  30000,
		Month:   now.Format("January"),
		Year:    now.Year(),
		DueDate: now,
	}
	existing.ID = 1
	d.state.fees = append(d.state.fees, existing)

	result, err := svc.AssignNearest(rider.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FeeAmount != "30000.00" {
		t.Fatalf("expected existing fee 30000.00, got %s", result.FeeAmount)
	}
	if len(d.state.fees) != 1 {
		t.Fatalf("expected 1 fee record, got %d", len(d.state.fees))
	}
	// Only the seat notice: reusing a fee queues no fee notice
	if len(n.notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(n.notices))
	}
}

func TestAssignNearestRollsBackOnFeeFailure(t *testing.T) {
	svc, d, n := newTestService()
	rider := addCampusRider(d)
	bus := d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude)})
	d.feeErr = errors.New("fees table unavailable")

	if _, err := svc.AssignNearest(rider.ID, nil); err == nil {
		t.Fatal("expected an error")
	}

	// The reserved seat must be rolled back with the failed transaction
	free, _ := d.FreeSeats(bus.ID)
	if len(free) != 3 {
		t.Fatalf("expected all 3 rider seats free after rollback, got %d", len(free))
	}
	if len(n.notices) != 0 {
		t.Fatalf("expected no notices after a failed assignment, got %d", len(n.notices))
	}
}

func TestAssignAllUnassignedReportsPerRider(t *testing.T) {
	svc, d, _ := newTestService()

	// One bus with 2 rider seats, 3 candidate riders
	d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 3, Status: models.BusWorking,
		SourceLatitude: f64(CampusLatitude), SourceLongitude: f64(CampusLongitude)})
	for i := 0; i < 3; i++ {
		d.addUser(models.User{Username: "rider", Role: models.RoleStudent,
			HomeLatitude: f64(CampusLatitude), HomeLongitude: f64(CampusLongitude)})
	}
	// A rider without coordinates is not even attempted
	d.addUser(models.User{Username: "nocoords", Role: models.RoleStudent})

	report, err := svc.AssignAllUnassigned(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Assigned != 2 {
		t.Fatalf("expected 2 assigned, got %d", report.Assigned)
	}
	if report.Failed != 1 {
		t.Fatalf("expected 1 failure, got %d", report.Failed)
	}
	if len(report.Failures) != 1 || report.Failures[0].Reason == "" {
		t.Fatal("expected a per-rider failure reason")
	}
}

func TestAssignBusGenderPartition(t *testing.T) {
	svc, d, _ := newTestService()

	// 4 rider seats: front half is seats 2-3, back half seats 4-5
	bus := d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 5, Status: models.BusWorking})

	females := []*models.User{
		d.addUser(models.User{Username: "f1", Role: models.RoleStudent, Gender: models.GenderFemale}),
		d.addUser(models.User{Username: "f2", Role: models.RoleStudent, Gender: models.GenderFemale}),
		d.addUser(models.User{Username: "f3", Role: models.RoleStudent, Gender: models.GenderFemale}),
	}
	male := d.addUser(models.User{Username: "m1", Role: models.RoleStudent, Gender: models.GenderMale})

	report, err := svc.AssignBus(bus.ID, DefaultSeatingPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Assigned != 3 {
		t.Fatalf("expected 3 assigned, got %d", report.Assigned)
	}

	bySeat := map[int]BusPlacement{}
	for _, p := range report.Placements {
		bySeat[p.SeatNumber] = p
	}
	if p := bySeat[2]; p.RiderID != females[0].ID || p.Section != SectionFront {
		t.Fatalf("expected first female on front seat 2, got %+v", p)
	}
	if p := bySeat[3]; p.RiderID != females[1].ID || p.Section != SectionFront {
		t.Fatalf("expected second female on front seat 3, got %+v", p)
	}
	if p := bySeat[4]; p.RiderID != male.ID || p.Section != SectionBack {
		t.Fatalf("expected male on back seat 4, got %+v", p)
	}

	// Third female stays unassigned: the front category never spills into
	// the back half even when a back seat remains free
	if d.holdsSeat(females[2].ID) {
		t.Fatal("expected third female to remain unassigned")
	}
	free, _ := d.FreeSeats(bus.ID)
	if len(free) != 1 || free[0].SeatNumber != 5 {
		t.Fatalf("expected seat 5 to stay free, got %+v", free)
	}

	// Each placement created a fee at the default distance tier
	if len(d.state.fees) != 3 {
		t.Fatalf("expected 3 fee records, got %d", len(d.state.fees))
	}
	for _, fee := range d.state.fees {
		if fee.Amount != 15000 {
			t.Fatalf("expected default-distance fee 15000, got %v", fee.Amount)
		}
	}
}

func TestAssignBusPrefersRouteMatches(t *testing.T) {
	svc, d, _ := newTestService()
	bus := d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 3, Status: models.BusWorking})

	other := d.addUser(models.User{Username: "far", Role: models.RoleStudent, Gender: models.GenderFemale, HomeLocation: "Salem"})
	local := d.addUser(models.User{Username: "near", Role: models.RoleStudent, Gender: models.GenderFemale, HomeLocation: "Erode Main Road"})
	_ = other

	report, err := svc.AssignBus(bus.ID, DefaultSeatingPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Assigned != 1 {
		t.Fatalf("expected only the matching rider assigned, got %d", report.Assigned)
	}
	if report.Placements[0].RiderID != local.ID {
		t.Fatalf("expected rider %d, got %d", local.ID, report.Placements[0].RiderID)
	}
	if report.LocationMatched != 1 {
		t.Fatalf("expected 1 location match, got %d", report.LocationMatched)
	}
}

func TestAssignBusNoFreeSeats(t *testing.T) {
	svc, d, _ := newTestService()
	bus := d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 2, Status: models.BusWorking})
	rider := d.addUser(models.User{Username: "r", Role: models.RoleStudent, Gender: models.GenderFemale})
	if _, err := NewLedger(d).ReserveFirstFree(bus.ID, rider.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.AssignBus(bus.ID, DefaultSeatingPolicy(), nil); !errors.Is(err, ErrNoSeatAvailable) {
		t.Fatalf("expected ErrNoSeatAvailable, got %v", err)
	}
}

func TestPlaceRiderMigratesSeatAndCreatesDefaultFee(t *testing.T) {
	svc, d, n := newTestService()
	// Rider lives ~111 km out; a manual placement must still bill the
	// default distance tier, not the home distance.
	rider := d.addUser(models.User{Username: "asha", FirstName: "Asha", Role: models.RoleStudent,
		HomeLatitude: f64(CampusLatitude + 1.0), HomeLongitude: f64(CampusLongitude)})

	d.addBus(models.Bus{BusNumber: 1, Source: "Salem", Destination: "Campus", Capacity: 4, Status: models.BusWorking})
	d.addBus(models.Bus{BusNumber: 2, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking})

	// Seat ids 1-4 belong to bus 1, 5-8 to bus 2.
	first, err := svc.PlaceRider(2, rider.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.BusID != 1 || first.SeatNumber != 2 {
		t.Fatalf("expected bus 1 seat 2, got bus %d seat %d", first.BusID, first.SeatNumber)
	}

	moved, err := svc.PlaceRider(6, rider.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.BusID != 2 || moved.SeatNumber != 2 {
		t.Fatalf("expected bus 2 seat 2, got bus %d seat %d", moved.BusID, moved.SeatNumber)
	}

	// The old seat is freed by the move
	old := d.state.seats[1]
	if old.AssignedUserID != nil || !old.IsAvailable {
		t.Fatalf("expected seat 2 on bus 1 freed, got %+v", old)
	}
	if d.state.seats[5].AssignedUserID == nil || *d.state.seats[5].AssignedUserID != rider.ID {
		t.Fatalf("expected rider %d on seat 6, got %+v", rider.ID, d.state.seats[5])
	}

	// One fee for the month across both placements, at the default tier
	if len(d.state.fees) != 1 {
		t.Fatalf("expected 1 fee, got %d", len(d.state.fees))
	}
	fee := d.state.fees[0]
	if fee.Amount != 15000 {
		t.Fatalf("expected default-tier fee 15000, got %f", fee.Amount)
	}
	if fee.DistanceKM == nil || *fee.DistanceKM != 15 {
		t.Fatalf("expected fee distance 15, got %v", fee.DistanceKM)
	}

	// Fee notice plus seat notice on the first placement, seat notice only
	// on the move
	if len(n.notices) != 3 {
		t.Fatalf("expected 3 notices, got %d", len(n.notices))
	}
}

func TestPlaceRiderOccupiedSeatRollsBack(t *testing.T) {
	svc, d, n := newTestService()
	rider := d.addUser(models.User{Username: "asha", Role: models.RoleStudent})
	other := d.addUser(models.User{Username: "kavi", Role: models.RoleStudent})

	d.addBus(models.Bus{BusNumber: 1, Source: "Erode", Destination: "Campus", Capacity: 4, Status: models.BusWorking})
	if _, err := svc.PlaceRider(2, rider.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.PlaceRider(3, other.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n.notices = nil

	// Target seat occupied by someone else: hard conflict, and the
	// rider's released seat is restored by the rollback.
	var conflict *SeatConflictError
	_, err := svc.PlaceRider(3, rider.ID, nil)
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if d.state.seats[1].AssignedUserID == nil || *d.state.seats[1].AssignedUserID != rider.ID {
		t.Fatalf("expected rider %d still on seat 2, got %+v", rider.ID, d.state.seats[1])
	}
	if len(n.notices) != 0 {
		t.Fatalf("expected no notices on failure, got %d", len(n.notices))
	}
}
