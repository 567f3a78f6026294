package assignment

import (
	"fmt"
	"strings"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

// SeatingPolicy partitions a bus's free seats into a front and a back
// range and assigns one rider category to each. Riders outside both
// categories fill whatever seats remain. Categories are data, not
// hard-coded strings, so the policy stays testable and swappable.
type SeatingPolicy struct {
	Front      models.Gender
	Back       models.Gender
	FrontShare float64
}

// DefaultSeatingPolicy is the campus convention: girls in the front half,
// boys in the back half, even split.
func DefaultSeatingPolicy() SeatingPolicy {
	return SeatingPolicy{
		Front:      models.GenderFemale,
		Back:       models.GenderMale,
		FrontShare: 0.5,
	}
}

// Partition splits riders into the front category, the back category and
// the rest, preserving input order.
func (p SeatingPolicy) Partition(riders []models.User) (front, back, rest []models.User) {
	for _, r := range riders {
		switch r.Gender {
		case p.Front:
			front = append(front, r)
		case p.Back:
			back = append(back, r)
		default:
			rest = append(rest, r)
		}
	}
	return front, back, rest
}

// Placement sections in BusPlacement records.
const (
	SectionFront = "FRONT"
	SectionBack  = "BACK"
	SectionMixed = "MIXED"
)

// BusPlacement records one seat filled by the per-bus flow.
type BusPlacement struct {
	RiderID         uint   `json:"riderId"`
	RiderName       string `json:"riderName"`
	SeatNumber      int    `json:"seat"`
	Section         string `json:"section"`
	HomeLocation    string `json:"homeLocation,omitempty"`
	LocationMatched bool   `json:"locationMatched"`
}

// BusReport aggregates a per-bus assignment run.
type BusReport struct {
	BusNumber       int            `json:"busNumber"`
	Route           string         `json:"route"`
	Assigned        int            `json:"assigned"`
	LocationMatched int            `json:"locationMatched"`
	Placements      []BusPlacement `json:"placements"`
}

// matchesRoute reports whether a rider's free-text home location overlaps
// the bus's source or destination label (case-insensitive, either
// containment direction).
func matchesRoute(rider *models.User, bus *models.Bus) bool {
	home := strings.ToLower(strings.TrimSpace(rider.HomeLocation))
	if home == "" {
		return false
	}
	for _, label := range []string{strings.ToLower(bus.Source), strings.ToLower(bus.Destination)} {
		if label == "" {
			continue
		}
		if strings.Contains(home, label) || strings.Contains(label, home) {
			return true
		}
	}
	return false
}

// AssignBus fills one bus's free seats from the unassigned rider pool
// under a seating policy. Riders whose home-location text matches the
// route are preferred; when none match, the whole unassigned pool is
// used. Every placement creates the rider's fee for the current month at
// the default distance, since this path computes no per-rider distance.
func (s *Service) AssignBus(busID uint, policy SeatingPolicy, actorID *uint) (*BusReport, error) {
	var report *BusReport
	var pending []Notice

	err := s.dir.InTransaction(func(tx Directory) error {
		bus, err := tx.BusByID(busID)
		if err != nil {
			return err
		}

		free, err := tx.FreeSeats(bus.ID)
		if err != nil {
			return err
		}
		if len(free) == 0 {
			return ErrNoSeatAvailable
		}

		candidates, err := tx.UnassignedRiders()
		if err != nil {
			return err
		}

		matched := make([]models.User, 0, len(candidates))
		for i := range candidates {
			if matchesRoute(&candidates[i], bus) {
				matched = append(matched, candidates[i])
			}
		}
		if len(matched) == 0 {
			matched = candidates
		}

		frontRiders, backRiders, restRiders := policy.Partition(matched)
		frontSeats, backSeats := SplitPool(free, policy.FrontShare)

		report = &BusReport{BusNumber: bus.BusNumber, Route: bus.Route()}
		ledger := NewLedger(tx)

		place := func(rider *models.User, seat *models.Seat, section string) error {
			if _, err := ledger.Reserve(seat.ID, rider.ID); err != nil {
				return err
			}
			if _, _, err := s.ensureMonthlyFee(tx, rider, utils.DefaultDistanceKM, actorID, &pending); err != nil {
				return err
			}
			pending = append(pending, Notice{
				RecipientID: rider.ID,
				Message: fmt.Sprintf("You have been assigned Seat %d in Bus %d (%s)",
					seat.SeatNumber, bus.BusNumber, bus.Route()),
				OriginID: actorID,
			})
			report.Assigned++
			if matchesRoute(rider, bus) {
				report.LocationMatched++
			}
			report.Placements = append(report.Placements, BusPlacement{
				RiderID:         rider.ID,
				RiderName:       rider.FullName(),
				SeatNumber:      seat.SeatNumber,
				Section:         section,
				HomeLocation:    rider.HomeLocation,
				LocationMatched: matchesRoute(rider, bus),
			})
			return nil
		}

		frontUsed := 0
		for i := range frontRiders {
			if frontUsed >= len(frontSeats) {
				break
			}
			if err := place(&frontRiders[i], &frontSeats[frontUsed], SectionFront); err != nil {
				return err
			}
			frontUsed++
		}

		backUsed := 0
		for i := range backRiders {
			if backUsed >= len(backSeats) {
				break
			}
			if err := place(&backRiders[i], &backSeats[backUsed], SectionBack); err != nil {
				return err
			}
			backUsed++
		}

		// Remaining categories take whatever the first two passes left,
		// front range first.
		leftover := append(append([]models.Seat{}, frontSeats[frontUsed:]...), backSeats[backUsed:]...)
		for i := range restRiders {
			if i >= len(leftover) {
				break
			}
			if err := place(&restRiders[i], &leftover[i], SectionMixed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(pending)
	return report, nil
}
