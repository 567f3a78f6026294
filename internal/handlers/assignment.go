package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// assignmentStatus maps the auto-assignment failure modes to HTTP codes
func assignmentStatus(err error) (int, string) {
	var already *assignment.AlreadyAssignedError
	switch {
	case errors.Is(err, assignment.ErrRiderNotFound):
		return 404, "Rider not found"
	case errors.Is(err, assignment.ErrBusNotFound):
		return 404, "Bus not found"
	case errors.Is(err, assignment.ErrMissingCoordinates):
		return 400, "Rider home coordinates are not set"
	case errors.Is(err, assignment.ErrNoEligibleBus):
		return 409, "No working bus with a free seat is available"
	case errors.Is(err, assignment.ErrNoSeatAvailable):
		return 409, "No seat available"
	case errors.As(err, &already):
		return 409, err.Error()
	default:
		return 500, "Assignment failed"
	}
}

// AutoAssignRider assigns one rider to the nearest eligible bus
func AutoAssignRider(svc *assignment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		riderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid rider ID"})
			return
		}

		result, err := svc.AssignNearest(uint(riderID), &actorID)
		if err != nil {
			code, msg := assignmentStatus(err)
			c.JSON(code, gin.H{"error": msg})
			return
		}

		c.JSON(200, gin.H{
			"message":    "Rider assigned successfully",
			"assignment": result,
		})
	}
}

// AutoAssignAll runs the nearest-bus flow for every unassigned rider with
// known coordinates
func AutoAssignAll(svc *assignment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		report, err := svc.AssignAllUnassigned(&actorID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Bulk assignment failed"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Bulk assignment completed",
			"report":  report,
		})
	}
}

type AssignBusInput struct {
	FrontGender string   `json:"frontGender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	BackGender  string   `json:"backGender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	FrontShare  *float64 `json:"frontShare"`
}

// AutoAssignBus fills one bus from the unassigned pool under a seating
// policy. Defaults to the campus convention when the body is empty.
func AutoAssignBus(svc *assignment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		policy := assignment.DefaultSeatingPolicy()
		var input AssignBusInput
		if err := c.ShouldBindJSON(&input); err == nil {
			if input.FrontGender != "" {
				policy.Front = models.Gender(input.FrontGender)
			}
			if input.BackGender != "" {
				policy.Back = models.Gender(input.BackGender)
			}
			if input.FrontShare != nil {
				policy.FrontShare = *input.FrontShare
			}
		}

		report, err := svc.AssignBus(uint(busID), policy, &actorID)
		if err != nil {
			code, msg := assignmentStatus(err)
			c.JSON(code, gin.H{"error": msg})
			return
		}

		c.JSON(200, gin.H{
			"message": "Bus assignment completed",
			"report":  report,
		})
	}
}
