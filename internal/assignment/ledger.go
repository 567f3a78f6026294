package assignment

import (
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// Ledger enforces the seat reservation rules on top of a Directory:
// single occupancy per seat and at most one seat per rider system-wide.
type Ledger struct {
	dir Directory
}

func NewLedger(dir Directory) *Ledger {
	return &Ledger{dir: dir}
}

// Reserve binds a rider to a specific seat. It fails with SeatConflictError
// when the seat is occupied and with AlreadyAssignedError when the rider
// already holds a different seat; the ledger never migrates a rider, the
// caller must release the old seat first.
func (l *Ledger) Reserve(seatID, riderID uint) (*models.Seat, error) {
	seat, err := l.dir.SeatByID(seatID)
	if err != nil {
		return nil, err
	}
	if seat.AssignedUserID != nil {
		return nil, &SeatConflictError{SeatID: seat.ID, SeatNumber: seat.SeatNumber}
	}

	if held, err := l.dir.SeatOf(riderID); err != nil {
		return nil, err
	} else if held != nil && held.ID != seatID {
		e := &AlreadyAssignedError{SeatNumber: held.SeatNumber}
		if held.Bus != nil {
			e.BusNumber = held.Bus.BusNumber
		}
		return nil, e
	}

	won, err := l.dir.ReserveSeat(seat.ID, riderID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, &SeatConflictError{SeatID: seat.ID, SeatNumber: seat.SeatNumber}
	}
	seat.AssignedUserID = &riderID
	seat.IsAvailable = false
	return seat, nil
}

// ReserveFirstFree reserves the lowest-numbered free rider seat on a bus.
// Losing the race for the last seat is a hard ErrNoSeatAvailable, never a
// silent retry.
func (l *Ledger) ReserveFirstFree(busID, riderID uint) (*models.Seat, error) {
	free, err := l.dir.FreeSeats(busID)
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		return nil, ErrNoSeatAvailable
	}

	seat := &free[0]
	won, err := l.dir.ReserveSeat(seat.ID, riderID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrNoSeatAvailable
	}
	seat.AssignedUserID = &riderID
	seat.IsAvailable = false
	return seat, nil
}

// Release frees a seat. Releasing an already-free seat is reported as
// ErrSeatAlreadyEmpty, a validation error rather than a crash.
func (l *Ledger) Release(seatID uint) (*models.Seat, error) {
	seat, err := l.dir.SeatByID(seatID)
	if err != nil {
		return nil, err
	}
	if seat.AssignedUserID == nil {
		return nil, ErrSeatAlreadyEmpty
	}
	if err := l.dir.ReleaseSeat(seat.ID); err != nil {
		return nil, err
	}
	return seat, nil
}

// SplitPool partitions a free-seat pool, already ordered by seat number,
// into a front and a back range. frontShare is the fraction of seats in
// the front range; values outside (0,1) fall back to an even split.
func SplitPool(seats []models.Seat, frontShare float64) (front, back []models.Seat) {
	if frontShare <= 0 || frontShare >= 1 {
		frontShare = 0.5
	}
	cut := int(float64(len(seats)) * frontShare)
	return seats[:cut], seats[cut:]
}
