package assignment

import (
	"errors"
	"fmt"
)

var (
	ErrRiderNotFound  = errors.New("rider not found")
	ErrBusNotFound    = errors.New("bus not found")
	ErrSeatNotFound   = errors.New("seat not found")
	ErrDriverNotFound = errors.New("driver not found")

	// ErrMissingCoordinates blocks auto-assignment until the rider's home
	// location is geocoded.
	ErrMissingCoordinates = errors.New("rider home coordinates not set")

	// ErrNoEligibleBus means no WORKING bus has both a free seat and known
	// source coordinates.
	ErrNoEligibleBus = errors.New("no working bus with a free seat and known coordinates")

	// ErrNoSeatAvailable is a hard failure: the chosen bus ran out of free
	// seats between selection and reservation.
	ErrNoSeatAvailable = errors.New("no seat available")

	// ErrNoEligibleDriver is a soft condition: assignment proceeds without
	// a driver when no AVAILABLE, unassigned driver has coordinates.
	ErrNoEligibleDriver = errors.New("no available driver with known coordinates")

	// ErrSeatAlreadyEmpty signals a release of a seat nobody holds.
	ErrSeatAlreadyEmpty = errors.New("seat is already empty")
)

// AlreadyAssignedError reports the seat a rider already holds.
type AlreadyAssignedError struct {
	BusNumber  int
	SeatNumber int
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("rider already assigned to bus %d, seat %d", e.BusNumber, e.SeatNumber)
}

// SeatConflictError reports a reservation attempt on an occupied seat.
type SeatConflictError struct {
	SeatID     uint
	SeatNumber int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %d is already occupied", e.SeatNumber)
}
