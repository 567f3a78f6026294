package handlers

import (
	"context"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/internal/services"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

type DriverLocationInput struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// UpdateDriverLocation stores the driver's live position in Redis and the
// database and fans it out over WebSocket
func UpdateDriverLocation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input DriverLocationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !utils.ValidLatitude(input.Latitude) || !utils.ValidLongitude(input.Longitude) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		now := time.Now()
		result := db.Model(&models.User{}).
			Where("id = ? AND role = ?", driverID, models.RoleDriver).
			Updates(map[string]interface{}{
				"current_latitude":     input.Latitude,
				"current_longitude":    input.Longitude,
				"last_location_update": now,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update location"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		ctx := context.Background()
		if err := services.SetDriverLocation(ctx, driverID, input.Latitude, input.Longitude); err != nil {
			log.Printf("Failed to cache driver location: %v", err)
		}
		if err := services.PublishDriverLocation(ctx, driverID, input.Latitude, input.Longitude); err != nil {
			log.Printf("Failed to publish driver location: %v", err)
		}

		update := services.DriverLocationUpdate{DriverID: driverID}
		update.Location.Lat = input.Latitude
		update.Location.Lng = input.Longitude
		hub.SendDriverLocationUpdate(update)

		c.JSON(200, gin.H{"message": "Location updated successfully"})
	}
}

type DriverStatusInput struct {
	Status string `json:"status" binding:"required,oneof=AVAILABLE UNAVAILABLE ON_LEAVE"`
}

func UpdateDriverStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input DriverStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.User{}).
			Where("id = ? AND role = ?", driverID, models.RoleDriver).
			Update("driver_status", input.Status)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		c.JSON(200, gin.H{"message": "Status updated successfully", "status": input.Status})
	}
}

// ListAvailableDrivers returns idle drivers, optionally sorted by distance
// to a bus's boarding point when ?busId= is given
func ListAvailableDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.User
		result := db.Where("role = ? AND driver_status = ?", models.RoleDriver, models.DriverAvailable).
			Where("id NOT IN (SELECT driver_id FROM buses WHERE driver_id IS NOT NULL AND deleted_at IS NULL)").
			Order("id ASC").
			Find(&drivers)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}

		busParam := c.Query("busId")
		if busParam == "" {
			c.JSON(200, gin.H{"drivers": drivers, "count": len(drivers)})
			return
		}

		busID, err := strconv.ParseUint(busParam, 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var bus models.Bus
		if result := db.First(&bus, busID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bus not found"})
			return
		}
		if !bus.HasSourceCoordinates() {
			c.JSON(400, gin.H{"error": "Bus source coordinates are not set"})
			return
		}

		type driverWithDistance struct {
			Driver     models.User `json:"driver"`
			DistanceKM *float64    `json:"distanceKm,omitempty"`
		}
		out := make([]driverWithDistance, 0, len(drivers))
		for _, d := range drivers {
			entry := driverWithDistance{Driver: d}
			if km, ok := utils.DistanceBetween(d.HomeLatitude, d.HomeLongitude, bus.SourceLatitude, bus.SourceLongitude); ok {
				rounded := utils.RoundKM(km)
				entry.DistanceKM = &rounded
			}
			out = append(out, entry)
		}

		// Drivers without coordinates sort last
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DistanceKM, out[j].DistanceKM
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})

		c.JSON(200, gin.H{"drivers": out, "count": len(out), "busNumber": bus.BusNumber})
	}
}

type BindDriverInput struct {
	DriverID uint `json:"driverId" binding:"required"`
}

// BindDriver manually assigns a driver to a bus, admin only. Salary is
// tiered on the bus route distance when that distance is known.
func BindDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var input BindDriverInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var bus models.Bus
		if result := db.First(&bus, busID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bus not found"})
			return
		}
		if bus.DriverID != nil {
			c.JSON(409, gin.H{"error": "Bus already has a driver"})
			return
		}

		var driver models.User
		if result := db.Where("id = ? AND role = ?", input.DriverID, models.RoleDriver).
			First(&driver); result.Error != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&bus).Update("driver_id", driver.ID).Error; err != nil {
				return err
			}
			updates := map[string]interface{}{"driver_status": models.DriverUnavailable}
			if bus.DistanceKM != nil {
				updates["salary"] = utils.SalaryFromDistance(*bus.DistanceKM)
			}
			return tx.Model(&driver).Updates(updates).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to bind driver"})
			return
		}

		c.JSON(200, gin.H{"message": "Driver assigned to bus successfully"})
	}
}

// UnbindDriver removes a bus's driver and marks them available again
func UnbindDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var bus models.Bus
		if result := db.First(&bus, busID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bus not found"})
			return
		}
		if bus.DriverID == nil {
			c.JSON(409, gin.H{"error": "Bus has no driver"})
			return
		}

		driverID := *bus.DriverID
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&bus).Update("driver_id", nil).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", driverID).
				Update("driver_status", models.DriverAvailable).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to unbind driver"})
			return
		}

		c.JSON(200, gin.H{"message": "Driver removed from bus successfully"})
	}
}

// GetMyBus returns the bus the calling driver is assigned to
func GetMyBus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var bus models.Bus
		result := db.Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_number ASC")
		}).Preload("Seats.AssignedUser").
			Where("driver_id = ?", driverID).First(&bus)
		if result.Error != nil {
			c.JSON(404, gin.H{"error": "No bus assigned"})
			return
		}

		c.JSON(200, gin.H{"bus": bus})
	}
}
