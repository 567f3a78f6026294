package assignment

import (
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// Directory is the narrow view of the user/bus/seat/fee store the
// assignment core needs. Implementations must return slices in ascending
// primary-key order so nearest-selector tie-breaks are reproducible, and
// must implement ReserveSeat as an exclusive read-then-write guard scoped
// to the individual seat.
type Directory interface {
	// RiderByID loads a STUDENT or TEACHER; ErrRiderNotFound otherwise.
	RiderByID(id uint) (*models.User, error)

	// UnassignedRiders lists riders holding no seat, ascending id.
	UnassignedRiders() ([]models.User, error)

	// UnassignedRidersWithCoordinates narrows UnassignedRiders to riders
	// whose home coordinates are set.
	UnassignedRidersWithCoordinates() ([]models.User, error)

	// AvailableDrivers lists drivers with status AVAILABLE and no bus,
	// ascending id.
	AvailableDrivers() ([]models.User, error)

	// WorkingBusesWithFreeSeats lists WORKING buses with at least one free
	// rider seat, ascending id.
	WorkingBusesWithFreeSeats() ([]models.Bus, error)

	// BusByID loads a bus; ErrBusNotFound when absent.
	BusByID(id uint) (*models.Bus, error)

	// SeatByID loads a seat with its bus; ErrSeatNotFound when absent.
	SeatByID(id uint) (*models.Seat, error)

	// SeatOf returns the seat a rider holds, with its bus populated, or
	// (nil, nil) when the rider holds none.
	SeatOf(riderID uint) (*models.Seat, error)

	// FreeSeats lists a bus's free seats excluding the driver seat,
	// ascending seat number.
	FreeSeats(busID uint) ([]models.Seat, error)

	// ReserveSeat binds a rider to a seat if and only if the seat is still
	// free. Returns false (without error) when another rider won the seat.
	ReserveSeat(seatID, riderID uint) (bool, error)

	// ReleaseSeat frees a seat unconditionally.
	ReleaseSeat(seatID uint) error

	// BindDriverToBus links a driver to a bus, marks the driver
	// UNAVAILABLE and, when salary is non-nil, records it.
	BindDriverToBus(busID, driverID uint, salary *float64) error

	// GetOrCreateFee inserts the candidate fee unless a record for the
	// same (user, month, year) exists; the stored record is returned
	// either way, with created=true only on insert. An existing fee is
	// never modified.
	GetOrCreateFee(fee *models.Fee) (*models.Fee, bool, error)

	// InTransaction runs fn as a single atomic unit of work against a
	// transactional view of the directory.
	InTransaction(fn func(Directory) error) error
}

// Notice is a pending notification command produced during the mutation
// phase and dispatched only after the transaction commits.
type Notice struct {
	RecipientID uint
	Message     string
	OriginID    *uint
}

// Notifier delivers notices fire-and-forget; delivery failure must never
// roll back an assignment.
type Notifier interface {
	Notify(n Notice)
}
