package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

type LeaveRequestInput struct {
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// RequestLeave files a driver leave request
func RequestLeave(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input LeaveRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		start, err := time.Parse("2006-01-02", input.StartDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
			return
		}
		end, err := time.Parse("2006-01-02", input.EndDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid end date, expected YYYY-MM-DD"})
			return
		}
		if end.Before(start) {
			c.JSON(400, gin.H{"error": "End date must not precede start date"})
			return
		}

		var overlapping int64
		db.Model(&models.DriverLeave{}).
			Where("driver_id = ? AND status != ? AND start_date <= ? AND end_date >= ?",
				driverID, models.LeaveRejected, end, start).
			Count(&overlapping)
		if overlapping > 0 {
			c.JSON(409, gin.H{"error": "An overlapping leave request already exists"})
			return
		}

		leave := models.DriverLeave{
			DriverID:  driverID,
			StartDate: start,
			EndDate:   end,
			Reason:    input.Reason,
		}
		if result := db.Create(&leave); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create leave request"})
			return
		}

		c.JSON(201, gin.H{"message": "Leave request submitted", "leave": leave})
	}
}

// GetMyLeaves returns the calling driver's leave requests
func GetMyLeaves(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var leaves []models.DriverLeave
		result := db.Where("driver_id = ?", driverID).Order("start_date DESC").Find(&leaves)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch leave requests"})
			return
		}

		c.JSON(200, gin.H{"leaves": leaves, "count": len(leaves)})
	}
}

// ListLeaves returns leave requests, admin only
func ListLeaves(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Driver").Preload("SubstituteDriver").Order("start_date DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var leaves []models.DriverLeave
		if result := query.Find(&leaves); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch leave requests"})
			return
		}

		c.JSON(200, gin.H{"leaves": leaves, "count": len(leaves)})
	}
}

type ReviewLeaveInput struct {
	Status             string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	SubstituteDriverID *uint  `json:"substituteDriverId"`
	AdminRemarks       string `json:"adminRemarks"`
}

// ReviewLeave approves or rejects a leave request, admin only. Approval
// marks the driver ON_LEAVE and can name a substitute.
func ReviewLeave(db *gorm.DB, notifier assignment.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		leaveID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid leave ID"})
			return
		}

		var input ReviewLeaveInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var leave models.DriverLeave
		if result := db.First(&leave, leaveID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Leave request not found"})
			return
		}
		if leave.Status != models.LeavePending {
			c.JSON(409, gin.H{"error": "Leave request has already been reviewed"})
			return
		}

		if input.SubstituteDriverID != nil {
			var substitute models.User
			if result := db.Where("id = ? AND role = ?", *input.SubstituteDriverID, models.RoleDriver).
				First(&substitute); result.Error != nil {
				c.JSON(404, gin.H{"error": "Substitute driver not found"})
				return
			}
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"status":         input.Status,
				"approved_by_id": actorID,
				"admin_remarks":  input.AdminRemarks,
			}
			if input.SubstituteDriverID != nil {
				updates["substitute_driver_id"] = *input.SubstituteDriverID
			}
			if err := tx.Model(&leave).Updates(updates).Error; err != nil {
				return err
			}

			if input.Status == string(models.LeaveApproved) {
				return tx.Model(&models.User{}).Where("id = ?", leave.DriverID).
					Update("driver_status", models.DriverOnLeave).Error
			}
			return nil
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to review leave request"})
			return
		}

		verb := "rejected"
		if input.Status == string(models.LeaveApproved) {
			verb = "approved"
		}
		notifier.Notify(assignment.Notice{
			RecipientID: leave.DriverID,
			Message: "Your leave request (" + leave.StartDate.Format("2006-01-02") + " to " +
				leave.EndDate.Format("2006-01-02") + ") has been " + verb,
			OriginID: &actorID,
		})

		c.JSON(200, gin.H{"message": "Leave request " + verb})
	}
}
