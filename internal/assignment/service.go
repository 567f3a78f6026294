package assignment

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

// Campus reference point (KSR College, Tiruchengode). Rider fees are tiered
// on the home-to-campus distance.
const (
	CampusLatitude  = 11.3833
	CampusLongitude = 77.8833
)

// Service composes the selectors, the seat ledger and the fee rules into
// the auto-assignment flows. All state mutation for one assignment happens
// inside a single Directory transaction; notifications queue up during the
// mutation phase and dispatch only after commit.
type Service struct {
	dir      Directory
	notifier Notifier
}

func NewService(dir Directory, notifier Notifier) *Service {
	return &Service{dir: dir, notifier: notifier}
}

// BusSummary describes the winning bus of an assignment.
type BusSummary struct {
	BusNumber  int     `json:"busNumber"`
	Route      string  `json:"route"`
	DistanceKM float64 `json:"distanceToBus"`
}

// DriverSummary describes a driver newly bound during an assignment.
type DriverSummary struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	DistanceKM float64 `json:"distanceToBus"`
	Salary     string  `json:"salary"`
}

// Assignment is the caller-facing outcome of a single-rider assignment.
// Distances are rounded to 2 decimals and amounts rendered as 2-decimal
// strings.
type Assignment struct {
	RiderID            uint           `json:"riderId"`
	RiderName          string         `json:"riderName"`
	Bus                BusSummary     `json:"bus"`
	SeatNumber         int            `json:"seat"`
	DistanceToCampusKM float64        `json:"distanceToCampus"`
	FeeAmount          string         `json:"feeAmount"`
	DriverAssigned     bool           `json:"driverAssigned"`
	Driver             *DriverSummary `json:"assignedDriver,omitempty"`
}

// AssignNearest assigns one rider to the nearest eligible bus, creates or
// reuses the rider's fee for the current month and, when the bus has no
// driver, binds the nearest idle driver. actorID is the admin issuing the
// assignment, recorded as the notification origin.
func (s *Service) AssignNearest(riderID uint, actorID *uint) (*Assignment, error) {
	var result *Assignment
	var pending []Notice

	err := s.dir.InTransaction(func(tx Directory) error {
		rider, err := tx.RiderByID(riderID)
		if err != nil {
			return err
		}
		if !rider.HasHomeCoordinates() {
			return ErrMissingCoordinates
		}

		held, err := tx.SeatOf(rider.ID)
		if err != nil {
			return err
		}
		if held != nil {
			e := &AlreadyAssignedError{SeatNumber: held.SeatNumber}
			if held.Bus != nil {
				e.BusNumber = held.Bus.BusNumber
			}
			return e
		}

		buses, err := tx.WorkingBusesWithFreeSeats()
		if err != nil {
			return err
		}
		bus, busDistance, err := NearestBus(buses, *rider.HomeLatitude, *rider.HomeLongitude)
		if err != nil {
			return err
		}

		seat, err := NewLedger(tx).ReserveFirstFree(bus.ID, rider.ID)
		if err != nil {
			return err
		}

		campusDistance := utils.HaversineDistance(
			*rider.HomeLatitude, *rider.HomeLongitude,
			CampusLatitude, CampusLongitude,
		)
		fee, _, err := s.ensureMonthlyFee(tx, rider, campusDistance, actorID, &pending)
		if err != nil {
			return err
		}

		result = &Assignment{
			RiderID:   rider.ID,
			RiderName: rider.FullName(),
			Bus: BusSummary{
				BusNumber:  bus.BusNumber,
				Route:      bus.Route(),
				DistanceKM: utils.RoundKM(busDistance),
			},
			SeatNumber:         seat.SeatNumber,
			DistanceToCampusKM: utils.RoundKM(campusDistance),
			FeeAmount:          utils.FormatAmount(fee.Amount),
		}

		if bus.DriverID == nil {
			driver, driverDistance, derr := s.bindNearestDriver(tx, bus, actorID, &pending)
			switch {
			case derr == nil:
				salary := ""
				if driver.Salary != nil {
					salary = utils.FormatAmount(*driver.Salary)
				}
				result.DriverAssigned = true
				result.Driver = &DriverSummary{
					ID:         driver.ID,
					Name:       driver.FullName(),
					DistanceKM: utils.RoundKM(driverDistance),
					Salary:     salary,
				}
			case errors.Is(derr, ErrNoEligibleDriver):
				// Soft condition: the rider keeps the seat, the bus simply
				// stays driverless.
			default:
				return derr
			}
		}

		pending = append(pending, Notice{
			RecipientID: rider.ID,
			Message: fmt.Sprintf("You have been assigned to Bus %d, Seat %d. Route: %s. Fee: ₹%s",
				bus.BusNumber, seat.SeatNumber, bus.Route(), utils.FormatAmount(fee.Amount)),
			OriginID: actorID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(pending)
	return result, nil
}

// PlaceRider pins a rider onto a specific seat. Unlike AssignNearest this
// is a manual override: a seat the rider already holds is freed first, and
// since no route matching happens the fee falls back to the default
// distance tier. Target seat occupied is still a hard SeatConflictError.
func (s *Service) PlaceRider(seatID, riderID uint, actorID *uint) (*models.Seat, error) {
	var placed *models.Seat
	var pending []Notice

	err := s.dir.InTransaction(func(tx Directory) error {
		rider, err := tx.RiderByID(riderID)
		if err != nil {
			return err
		}

		ledger := NewLedger(tx)
		held, err := tx.SeatOf(rider.ID)
		if err != nil {
			return err
		}
		if held != nil && held.ID != seatID {
			if _, err := ledger.Release(held.ID); err != nil {
				return err
			}
		}

		seat, err := ledger.Reserve(seatID, rider.ID)
		if err != nil {
			return err
		}
		placed = seat

		if _, _, err := s.ensureMonthlyFee(tx, rider, utils.DefaultDistanceKM, actorID, &pending); err != nil {
			return err
		}

		if seat.Bus != nil {
			pending = append(pending, Notice{
				RecipientID: rider.ID,
				Message: fmt.Sprintf("You have been assigned Seat %d in Bus %d",
					seat.SeatNumber, seat.Bus.BusNumber),
				OriginID: actorID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(pending)
	return placed, nil
}

// bindNearestDriver finds the idle driver closest to the bus source and
// binds them, salary tiered on the bus route distance (not the driver's
// home distance; the asymmetry with rider fees is intentional). Buses
// without a recorded route distance get a driver but no salary.
func (s *Service) bindNearestDriver(tx Directory, bus *models.Bus, actorID *uint, pending *[]Notice) (*models.User, float64, error) {
	if !bus.HasSourceCoordinates() {
		return nil, 0, ErrNoEligibleDriver
	}

	drivers, err := tx.AvailableDrivers()
	if err != nil {
		return nil, 0, err
	}
	driver, distance, err := NearestDriver(drivers, *bus.SourceLatitude, *bus.SourceLongitude)
	if err != nil {
		return nil, 0, err
	}

	var salary *float64
	if bus.DistanceKM != nil {
		v := utils.SalaryFromDistance(*bus.DistanceKM)
		salary = &v
	}
	if err := tx.BindDriverToBus(bus.ID, driver.ID, salary); err != nil {
		return nil, 0, err
	}
	driver.Salary = salary

	*pending = append(*pending, Notice{
		RecipientID: driver.ID,
		Message:     fmt.Sprintf("You have been assigned to Bus %d (%s)", bus.BusNumber, bus.Route()),
		OriginID:    actorID,
	})
	return driver, distance, nil
}

// ensureMonthlyFee creates the rider's fee for the current month at the
// distance tier, or returns the existing record untouched. A creation
// queues a fee notice.
func (s *Service) ensureMonthlyFee(tx Directory, rider *models.User, distanceKM float64, actorID *uint, pending *[]Notice) (*models.Fee, bool, error) {
	now := time.Now()
	d := distanceKM
	candidate := &models.Fee{
		UserID:        rider.ID,
		Amount:        utils.FeeFromDistance(distanceKM),
		Month:         now.Format("January"),
		Year:          now.Year(),
		DueDate:       monthEnd(now),
		PaymentStatus: models.PaymentPending,
		DistanceKM:    &d,
	}

	fee, created, err := tx.GetOrCreateFee(candidate)
	if err != nil {
		return nil, false, err
	}
	if created {
		*pending = append(*pending, Notice{
			RecipientID: rider.ID,
			Message: fmt.Sprintf("Bus fee assigned: ₹%s for %s %d. Due date: %s. Distance from campus: %.1f km",
				utils.FormatAmount(fee.Amount), fee.Month, fee.Year,
				fee.DueDate.Format("2006-01-02"), distanceKM),
			OriginID: actorID,
		})
	}
	return fee, created, nil
}

// monthEnd returns the last day of t's month.
func monthEnd(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

func (s *Service) dispatch(pending []Notice) {
	for _, n := range pending {
		s.notifier.Notify(n)
	}
}
