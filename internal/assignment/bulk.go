package assignment

// BulkItem records one successful assignment in the bulk flow.
type BulkItem struct {
	RiderID    uint   `json:"riderId"`
	RiderName  string `json:"riderName"`
	BusNumber  int    `json:"busNumber"`
	SeatNumber int    `json:"seat"`
}

// BulkFailure records why one rider could not be assigned. Reasons are
// kept per item rather than swallowed into a bare count.
type BulkFailure struct {
	RiderID   uint   `json:"riderId"`
	RiderName string `json:"riderName"`
	Reason    string `json:"reason"`
}

// BulkReport aggregates a bulk assignment run.
type BulkReport struct {
	Assigned    int           `json:"assigned"`
	Failed      int           `json:"failed"`
	Assignments []BulkItem    `json:"assignments"`
	Failures    []BulkFailure `json:"failures,omitempty"`
}

// AssignAllUnassigned runs the single-rider flow for every rider with
// known coordinates and no seat, in ascending id order. Each rider is its
// own unit of work: one failure never aborts the rest.
func (s *Service) AssignAllUnassigned(actorID *uint) (*BulkReport, error) {
	riders, err := s.dir.UnassignedRidersWithCoordinates()
	if err != nil {
		return nil, err
	}

	report := &BulkReport{}
	for i := range riders {
		rider := &riders[i]
		a, err := s.AssignNearest(rider.ID, actorID)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, BulkFailure{
				RiderID:   rider.ID,
				RiderName: rider.FullName(),
				Reason:    err.Error(),
			})
			continue
		}
		report.Assigned++
		report.Assignments = append(report.Assignments, BulkItem{
			RiderID:    rider.ID,
			RiderName:  rider.FullName(),
			BusNumber:  a.Bus.BusNumber,
			SeatNumber: a.SeatNumber,
		})
	}
	return report, nil
}
