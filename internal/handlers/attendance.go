package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

type MarkAttendanceInput struct {
	Date    string `json:"date" binding:"required"` // YYYY-MM-DD
	Status  string `json:"status" binding:"required,oneof=PRESENT ABSENT LATE"`
	Remarks string `json:"remarks"`
}

// MarkAttendance records the caller's attendance for a day. One record
// per user per date; re-marking updates the existing record until an
// admin approves it.
func MarkAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input MarkAttendanceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		var existing models.Attendance
		result := db.Where("user_id = ? AND date = ?", userID, date).First(&existing)
		if result.Error == nil {
			if existing.IsApproved {
				c.JSON(409, gin.H{"error": "Attendance for this date is already approved"})
				return
			}
			existing.Status = models.AttendanceStatus(input.Status)
			existing.Remarks = input.Remarks
			if result := db.Save(&existing); result.Error != nil {
				c.JSON(500, gin.H{"error": "Failed to update attendance"})
				return
			}
			c.JSON(200, gin.H{"message": "Attendance updated", "attendance": existing})
			return
		}

		record := models.Attendance{
			UserID:  userID,
			Date:    date,
			Status:  models.AttendanceStatus(input.Status),
			Remarks: input.Remarks,
		}
		if result := db.Create(&record); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to mark attendance"})
			return
		}

		c.JSON(201, gin.H{"message": "Attendance marked", "attendance": record})
	}
}

// GetMyAttendance returns the caller's attendance history
func GetMyAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var records []models.Attendance
		result := db.Where("user_id = ?", userID).Order("date DESC").Find(&records)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch attendance"})
			return
		}

		c.JSON(200, gin.H{"attendance": records, "count": len(records)})
	}
}

// ListAttendance returns attendance records, admin only
func ListAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("User").Order("date DESC")
		if date := c.Query("date"); date != "" {
			parsed, err := time.Parse("2006-01-02", date)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
			query = query.Where("date = ?", parsed)
		}
		if userParam := c.Query("userId"); userParam != "" {
			query = query.Where("user_id = ?", userParam)
		}

		var records []models.Attendance
		if result := query.Find(&records); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch attendance"})
			return
		}

		c.JSON(200, gin.H{"attendance": records, "count": len(records)})
	}
}

// ApproveAttendance locks an attendance record, admin only
func ApproveAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		attendanceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid attendance ID"})
			return
		}

		result := db.Model(&models.Attendance{}).Where("id = ?", attendanceID).
			Updates(map[string]interface{}{
				"is_approved":    true,
				"approved_by_id": actorID,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to approve attendance"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "Attendance record not found"})
			return
		}

		c.JSON(200, gin.H{"message": "Attendance approved"})
	}
}

type DriverAttendanceInput struct {
	DriverID uint    `json:"driverId" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	Status   string  `json:"status" binding:"required,oneof=PRESENT ABSENT LEAVE HALF_DAY"`
	KMDriven float64 `json:"kmDriven"`
	Remarks  string  `json:"remarks"`
}

// MarkDriverAttendance records a driver's working day, admin only
func MarkDriverAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		var input DriverAttendanceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		var driver models.User
		if result := db.Where("id = ? AND role = ?", input.DriverID, models.RoleDriver).
			First(&driver); result.Error != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		record := models.DriverAttendance{
			DriverID:   input.DriverID,
			Date:       date,
			Status:     models.DriverAttendanceStatus(input.Status),
			KMDriven:   input.KMDriven,
			Remarks:    input.Remarks,
			MarkedByID: &actorID,
		}

		var existing models.DriverAttendance
		result := db.Where("driver_id = ? AND date = ?", input.DriverID, date).First(&existing)
		if result.Error == nil {
			existing.Status = record.Status
			existing.KMDriven = record.KMDriven
			existing.Remarks = record.Remarks
			existing.MarkedByID = &actorID
			if result := db.Save(&existing); result.Error != nil {
				c.JSON(500, gin.H{"error": "Failed to update driver attendance"})
				return
			}
			c.JSON(200, gin.H{"message": "Driver attendance updated", "attendance": existing})
			return
		}

		if result := db.Create(&record); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to mark driver attendance"})
			return
		}

		c.JSON(201, gin.H{"message": "Driver attendance marked", "attendance": record})
	}
}

// ListDriverAttendance returns driver attendance records, admin only
func ListDriverAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Driver").Order("date DESC")
		if driverParam := c.Query("driverId"); driverParam != "" {
			query = query.Where("driver_id = ?", driverParam)
		}

		var records []models.DriverAttendance
		if result := query.Find(&records); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch driver attendance"})
			return
		}

		c.JSON(200, gin.H{"attendance": records, "count": len(records)})
	}
}
