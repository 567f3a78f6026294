package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/internal/services"
)

type RaiseAlertInput struct {
	Message  string `json:"message" binding:"required"`
	Location string `json:"location"`
}

// RaiseAlert lets the assigned driver raise an emergency for their bus.
// The bus goes to BREAKDOWN, admins get WebSocket and push notifications,
// and the seated riders are notified in-app.
func RaiseAlert(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input RaiseAlertInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var bus models.Bus
		if result := db.Where("driver_id = ?", driverID).First(&bus); result.Error != nil {
			c.JSON(404, gin.H{"error": "No bus assigned to this driver"})
			return
		}

		alert := models.EmergencyAlert{
			DriverID: driverID,
			BusID:    bus.ID,
			Message:  input.Message,
			Location: input.Location,
			Status:   models.AlertActive,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&alert).Error; err != nil {
				return err
			}
			return tx.Model(&bus).Update("status", models.BusBreakdown).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to raise alert"})
			return
		}

		hub.SendEmergencyRaised(services.EmergencyRaised{
			AlertID:  alert.ID,
			BusID:    bus.ID,
			DriverID: driverID,
			Message:  input.Message,
		})

		var driver models.User
		db.First(&driver, driverID)

		// Push to admin devices
		var adminTokens []string
		db.Model(&models.User{}).
			Where("role = ? AND fcm_token != ''", models.RoleAdmin).
			Pluck("fcm_token", &adminTokens)
		if len(adminTokens) > 0 {
			if _, err := services.SendEmergencyPushNotification(
				context.Background(), adminTokens, bus.BusNumber, driver.FullName(), input.Message,
			); err != nil {
				log.Printf("Failed to push emergency alert: %v", err)
			}
		}

		// In-app notices for everyone seated on the bus
		var riderIDs []uint
		db.Model(&models.Seat{}).
			Where("bus_id = ? AND assigned_user_id IS NOT NULL AND seat_number <> ?",
				bus.ID, models.DriverSeatNumber).
			Pluck("assigned_user_id", &riderIDs)
		for _, riderID := range riderIDs {
			notice := models.Notification{
				UserID:      riderID,
				Message:     "Bus " + strconv.Itoa(bus.BusNumber) + " emergency: " + input.Message,
				CreatedByID: &driverID,
			}
			if err := db.Create(&notice).Error; err != nil {
				log.Printf("Failed to notify rider %d: %v", riderID, err)
			}
		}

		c.JSON(201, gin.H{"message": "Emergency alert raised", "alert": alert})
	}
}

// ListAlerts returns emergency alerts, admin only
func ListAlerts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Driver").Preload("Bus").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var alerts []models.EmergencyAlert
		if result := query.Find(&alerts); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch alerts"})
			return
		}

		c.JSON(200, gin.H{"alerts": alerts, "count": len(alerts)})
	}
}

// ResolveAlert closes an alert and puts the bus back in service, admin only
func ResolveAlert(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		alertID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid alert ID"})
			return
		}

		var alert models.EmergencyAlert
		if result := db.First(&alert, alertID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Alert not found"})
			return
		}
		if alert.Status == models.AlertResolved {
			c.JSON(409, gin.H{"error": "Alert is already resolved"})
			return
		}

		now := time.Now()
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&alert).Updates(map[string]interface{}{
				"status":         models.AlertResolved,
				"resolved_by_id": actorID,
				"resolved_at":    now,
			}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Bus{}).Where("id = ?", alert.BusID).
				Update("status", models.BusWorking).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to resolve alert"})
			return
		}

		c.JSON(200, gin.H{"message": "Alert resolved"})
	}
}
