package assignment

import (
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// memDirectory is an in-memory Directory with snapshot transactions:
// InTransaction clones the state, runs fn against the clone and swaps it
// in only on success, so rollback behavior is observable in tests.
type memDirectory struct {
	state *memState

	// reserveDenied simulates a lost reservation race for given seat ids.
	reserveDenied map[uint]bool
	// feeErr makes GetOrCreateFee fail, to exercise rollback paths.
	feeErr error
}

type memState struct {
	users []models.User
	buses []models.Bus
	seats []models.Seat
	fees  []models.Fee
}

func newMemDirectory() *memDirectory {
	return &memDirectory{state: &memState{}, reserveDenied: map[uint]bool{}}
}

func (s *memState) clone() *memState {
	c := &memState{
		users: append([]models.User{}, s.users...),
		buses: append([]models.Bus{}, s.buses...),
		seats: append([]models.Seat{}, s.seats...),
		fees:  append([]models.Fee{}, s.fees...),
	}
	return c
}

func (d *memDirectory) addUser(u models.User) *models.User {
	u.ID = uint(len(d.state.users) + 1)
	d.state.users = append(d.state.users, u)
	return &d.state.users[len(d.state.users)-1]
}

// addBus appends a bus plus its seats, seat 1 held for the driver.
func (d *memDirectory) addBus(b models.Bus) *models.Bus {
	b.ID = uint(len(d.state.buses) + 1)
	d.state.buses = append(d.state.buses, b)
	for n := 1; n <= b.Capacity; n++ {
		seat := models.Seat{BusID: b.ID, SeatNumber: n, IsAvailable: true}
		seat.ID = uint(len(d.state.seats) + 1)
		d.state.seats = append(d.state.seats, seat)
	}
	return &d.state.buses[len(d.state.buses)-1]
}

func (d *memDirectory) userIndex(id uint) int {
	for i := range d.state.users {
		if d.state.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *memDirectory) busIndex(id uint) int {
	for i := range d.state.buses {
		if d.state.buses[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *memDirectory) seatIndex(id uint) int {
	for i := range d.state.seats {
		if d.state.seats[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *memDirectory) holdsSeat(userID uint) bool {
	for i := range d.state.seats {
		if d.state.seats[i].AssignedUserID != nil && *d.state.seats[i].AssignedUserID == userID {
			return true
		}
	}
	return false
}

func (d *memDirectory) RiderByID(id uint) (*models.User, error) {
	i := d.userIndex(id)
	if i < 0 || !d.state.users[i].IsRider() {
		return nil, ErrRiderNotFound
	}
	u := d.state.users[i]
	return &u, nil
}

func (d *memDirectory) UnassignedRiders() ([]models.User, error) {
	var out []models.User
	for _, u := range d.state.users {
		if u.IsRider() && !d.holdsSeat(u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *memDirectory) UnassignedRidersWithCoordinates() ([]models.User, error) {
	riders, _ := d.UnassignedRiders()
	var out []models.User
	for _, u := range riders {
		if u.HasHomeCoordinates() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *memDirectory) AvailableDrivers() ([]models.User, error) {
	assigned := map[uint]bool{}
	for _, b := range d.state.buses {
		if b.DriverID != nil {
			assigned[*b.DriverID] = true
		}
	}
	var out []models.User
	for _, u := range d.state.users {
		if u.Role == models.RoleDriver && u.DriverStatus == models.DriverAvailable && !assigned[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *memDirectory) WorkingBusesWithFreeSeats() ([]models.Bus, error) {
	var out []models.Bus
	for _, b := range d.state.buses {
		if b.Status != models.BusWorking {
			continue
		}
		free, _ := d.FreeSeats(b.ID)
		if len(free) > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (d *memDirectory) BusByID(id uint) (*models.Bus, error) {
	i := d.busIndex(id)
	if i < 0 {
		return nil, ErrBusNotFound
	}
	b := d.state.buses[i]
	return &b, nil
}

func (d *memDirectory) SeatByID(id uint) (*models.Seat, error) {
	i := d.seatIndex(id)
	if i < 0 {
		return nil, ErrSeatNotFound
	}
	s := d.state.seats[i]
	if bi := d.busIndex(s.BusID); bi >= 0 {
		b := d.state.buses[bi]
		s.Bus = &b
	}
	return &s, nil
}

func (d *memDirectory) SeatOf(riderID uint) (*models.Seat, error) {
	for i := range d.state.seats {
		if d.state.seats[i].AssignedUserID != nil && *d.state.seats[i].AssignedUserID == riderID {
			return d.SeatByID(d.state.seats[i].ID)
		}
	}
	return nil, nil
}

func (d *memDirectory) FreeSeats(busID uint) ([]models.Seat, error) {
	var out []models.Seat
	for _, s := range d.state.seats {
		if s.BusID == busID && s.SeatNumber != models.DriverSeatNumber && s.AssignedUserID == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (d *memDirectory) ReserveSeat(seatID, riderID uint) (bool, error) {
	if d.reserveDenied[seatID] {
		return false, nil
	}
	i := d.seatIndex(seatID)
	if i < 0 {
		return false, ErrSeatNotFound
	}
	if d.state.seats[i].AssignedUserID != nil {
		return false, nil
	}
	id := riderID
	d.state.seats[i].AssignedUserID = &id
	d.state.seats[i].IsAvailable = false
	return true, nil
}

func (d *memDirectory) ReleaseSeat(seatID uint) error {
	i := d.seatIndex(seatID)
	if i < 0 {
		return ErrSeatNotFound
	}
	d.state.seats[i].AssignedUserID = nil
	d.state.seats[i].IsAvailable = true
	return nil
}

func (d *memDirectory) BindDriverToBus(busID, driverID uint, salary *float64) error {
	bi := d.busIndex(busID)
	ui := d.userIndex(driverID)
	if bi < 0 {
		return ErrBusNotFound
	}
	if ui < 0 {
		return ErrDriverNotFound
	}
	id := driverID
	d.state.buses[bi].DriverID = &id
	d.state.users[ui].DriverStatus = models.DriverUnavailable
	if salary != nil {
		d.state.users[ui].Salary = salary
	}
	return nil
}

func (d *memDirectory) GetOrCreateFee(fee *models.Fee) (*models.Fee, bool, error) {
	if d.feeErr != nil {
		return nil, false, d.feeErr
	}
	for i := range d.state.fees {
		f := &d.state.fees[i]
		if f.UserID == fee.UserID && f.Month == fee.Month && f.Year == fee.Year {
			existing := *f
			return &existing, false, nil
		}
	}
	fee.ID = uint(len(d.state.fees) + 1)
	d.state.fees = append(d.state.fees, *fee)
	return fee, true, nil
}

func (d *memDirectory) InTransaction(fn func(Directory) error) error {
	work := &memDirectory{
		state:         d.state.clone(),
		reserveDenied: d.reserveDenied,
		feeErr:        d.feeErr,
	}
	if err := fn(work); err != nil {
		return err
	}
	d.state = work.state
	return nil
}

// recordingNotifier captures delivered notices in order.
type recordingNotifier struct {
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.notices = append(r.notices, n)
}
