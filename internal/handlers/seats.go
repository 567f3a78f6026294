package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/database"
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// GetMySeat returns the caller's seat and bus, if any
func GetMySeat(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var seat models.Seat
		result := db.Preload("Bus").Preload("Bus.Driver").
			Where("assigned_user_id = ?", userID).First(&seat)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				c.JSON(200, gin.H{"assigned": false})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch seat"})
			return
		}

		c.JSON(200, gin.H{"assigned": true, "seat": seat})
	}
}

// ListBusSeats returns the full seat map of one bus
func ListBusSeats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var seats []models.Seat
		result := db.Preload("AssignedUser").
			Where("bus_id = ?", busID).
			Order("seat_number ASC").
			Find(&seats)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch seats"})
			return
		}

		c.JSON(200, gin.H{"seats": seats, "count": len(seats)})
	}
}

type ManualAssignInput struct {
	UserID uint `json:"userId" binding:"required"`
}

// AssignSeat manually places a rider on a specific seat, admin only.
// A seat the rider already holds is freed, and a fee for the current
// month is created at the default distance tier.
func AssignSeat(svc *assignment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		seatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid seat ID"})
			return
		}

		var input ManualAssignInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		seat, err := svc.PlaceRider(uint(seatID), input.UserID, &actorID)
		if err != nil {
			var conflict *assignment.SeatConflictError
			switch {
			case errors.Is(err, assignment.ErrRiderNotFound):
				c.JSON(404, gin.H{"error": "Rider not found"})
			case errors.Is(err, assignment.ErrSeatNotFound):
				c.JSON(404, gin.H{"error": "Seat not found"})
			case errors.As(err, &conflict):
				c.JSON(409, gin.H{"error": err.Error()})
			default:
				c.JSON(500, gin.H{"error": "Failed to assign seat"})
			}
			return
		}

		c.JSON(200, gin.H{"message": "Seat assigned successfully", "seat": seat})
	}
}

// UnassignSeat frees a seat, admin only
func UnassignSeat(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		seatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid seat ID"})
			return
		}

		dir := database.NewDirectory(db)
		txErr := dir.InTransaction(func(tx assignment.Directory) error {
			_, err := assignment.NewLedger(tx).Release(uint(seatID))
			return err
		})
		if txErr != nil {
			switch {
			case errors.Is(txErr, assignment.ErrSeatNotFound):
				c.JSON(404, gin.H{"error": "Seat not found"})
			case errors.Is(txErr, assignment.ErrSeatAlreadyEmpty):
				c.JSON(409, gin.H{"error": "Seat is already empty"})
			default:
				c.JSON(500, gin.H{"error": "Failed to unassign seat"})
			}
			return
		}

		c.JSON(200, gin.H{"message": "Seat unassigned successfully"})
	}
}
