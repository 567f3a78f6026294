package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/internal/services"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

type CreateBusInput struct {
	BusNumber            int      `json:"busNumber" binding:"required"`
	Source               string   `json:"source" binding:"required"`
	Destination          string   `json:"destination" binding:"required"`
	SourceLatitude       *float64 `json:"sourceLatitude"`
	SourceLongitude      *float64 `json:"sourceLongitude"`
	DestinationLatitude  *float64 `json:"destinationLatitude"`
	DestinationLongitude *float64 `json:"destinationLongitude"`
	DistanceKM           *float64 `json:"distanceKm"`
	Capacity             int      `json:"capacity" binding:"required,min=2"`
}

func CreateBus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateBusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Derive the route distance from coordinates when not supplied
		distance := input.DistanceKM
		if distance == nil {
			if km, ok := utils.DistanceBetween(
				input.SourceLatitude, input.SourceLongitude,
				input.DestinationLatitude, input.DestinationLongitude,
			); ok {
				rounded := utils.RoundKM(km)
				distance = &rounded
			}
		}

		bus := models.Bus{
			BusNumber:            input.BusNumber,
			Source:               input.Source,
			Destination:          input.Destination,
			SourceLatitude:       input.SourceLatitude,
			SourceLongitude:      input.SourceLongitude,
			DestinationLatitude:  input.DestinationLatitude,
			DestinationLongitude: input.DestinationLongitude,
			DistanceKM:           distance,
			Capacity:             input.Capacity,
			Status:               models.BusWorking,
		}

		if err := services.CreateBusWithSeats(db, &bus); err != nil {
			c.JSON(500, gin.H{"error": "Failed to create bus: " + err.Error()})
			return
		}

		c.JSON(201, gin.H{"message": "Bus created successfully", "bus": bus})
	}
}

func ListBuses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Driver").Order("bus_number ASC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var buses []models.Bus
		if result := query.Find(&buses); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch buses"})
			return
		}

		type busWithSeats struct {
			models.Bus
			FreeSeats int64 `json:"freeSeats"`
		}
		out := make([]busWithSeats, 0, len(buses))
		for _, bus := range buses {
			free, err := services.FreeSeatCount(db, bus.ID)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to count free seats"})
				return
			}
			out = append(out, busWithSeats{Bus: bus, FreeSeats: free})
		}

		c.JSON(200, gin.H{"buses": out, "count": len(out)})
	}
}

func GetBus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var bus models.Bus
		if result := db.Preload("Driver").Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_number ASC")
		}).Preload("Seats.AssignedUser").First(&bus, busID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bus not found"})
			return
		}

		c.JSON(200, gin.H{"bus": bus})
	}
}

type UpdateBusInput struct {
	Source               string   `json:"source"`
	Destination          string   `json:"destination"`
	SourceLatitude       *float64 `json:"sourceLatitude"`
	SourceLongitude      *float64 `json:"sourceLongitude"`
	DestinationLatitude  *float64 `json:"destinationLatitude"`
	DestinationLongitude *float64 `json:"destinationLongitude"`
	DistanceKM           *float64 `json:"distanceKm"`
	Capacity             *int     `json:"capacity"`
	Status               string   `json:"status" binding:"omitempty,oneof=WORKING BREAKDOWN NOT_RUNNING"`
}

func UpdateBus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var input UpdateBusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var bus models.Bus
		if result := db.First(&bus, busID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bus not found"})
			return
		}

		updates := map[string]interface{}{}
		if input.Source != "" {
			updates["source"] = input.Source
		}
		if input.Destination != "" {
			updates["destination"] = input.Destination
		}
		if input.SourceLatitude != nil {
			updates["source_latitude"] = *input.SourceLatitude
		}
		if input.SourceLongitude != nil {
			updates["source_longitude"] = *input.SourceLongitude
		}
		if input.DestinationLatitude != nil {
			updates["destination_latitude"] = *input.DestinationLatitude
		}
		if input.DestinationLongitude != nil {
			updates["destination_longitude"] = *input.DestinationLongitude
		}
		if input.DistanceKM != nil {
			updates["distance_km"] = *input.DistanceKM
		}
		if input.Status != "" {
			updates["status"] = input.Status
		}

		previousStatus := bus.Status

		if len(updates) > 0 {
			if result := db.Model(&bus).Updates(updates); result.Error != nil {
				c.JSON(500, gin.H{"error": "Failed to update bus"})
				return
			}
		}

		// A status transition to BREAKDOWN alerts everyone on the hub
		if input.Status != "" && models.BusStatus(input.Status) != previousStatus {
			hub.SendBusStatusChanged(services.BusStatusChanged{
				BusID:     bus.ID,
				BusNumber: bus.BusNumber,
				Status:    input.Status,
			})
		}

		if input.Capacity != nil && *input.Capacity != bus.Capacity {
			if err := services.ResizeBusSeats(db, &bus, *input.Capacity); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
		}

		c.JSON(200, gin.H{"message": "Bus updated successfully", "bus": bus})
	}
}

func DeleteBus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var occupied int64
		if result := db.Model(&models.Seat{}).
			Where("bus_id = ? AND assigned_user_id IS NOT NULL", busID).
			Count(&occupied); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to check bus occupancy"})
			return
		}
		if occupied > 0 {
			c.JSON(409, gin.H{"error": "Cannot delete a bus with assigned riders"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("bus_id = ?", busID).Delete(&models.Seat{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Bus{}, busID).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete bus"})
			return
		}

		c.JSON(200, gin.H{"message": "Bus deleted successfully"})
	}
}

type BusLocationInput struct {
	Location  string   `json:"location" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateBusLocation lets the bus's driver report the current position.
// The position goes to Redis and out to WebSocket clients; the database
// row only keeps the display label.
func UpdateBusLocation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		var input BusLocationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var bus models.Bus
		if result := db.First(&bus, busID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bus not found"})
			return
		}

		role := c.GetString("role")
		if role != string(models.RoleAdmin) && (bus.DriverID == nil || *bus.DriverID != userID) {
			c.JSON(403, gin.H{"error": "Only the assigned driver can update the bus location"})
			return
		}

		if result := db.Model(&bus).Update("current_location", input.Location); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update location"})
			return
		}

		var lat, lng float64
		if input.Latitude != nil && input.Longitude != nil {
			lat, lng = *input.Latitude, *input.Longitude
		}

		ctx := context.Background()
		if err := services.SetBusLocation(ctx, bus.ID, input.Location, lat, lng); err != nil {
			log.Printf("Failed to cache bus location: %v", err)
		}
		if err := services.PublishBusLocation(ctx, bus.ID, input.Location, lat, lng); err != nil {
			log.Printf("Failed to publish bus location: %v", err)
		}

		hub.SendBusLocationUpdate(services.BusLocationUpdate{
			BusID:    bus.ID,
			Location: input.Location,
			Lat:      lat,
			Lng:      lng,
		})

		c.JSON(200, gin.H{"message": "Location updated successfully"})
	}
}

// GetBusLocation returns the live cached position, falling back to the
// database label
func GetBusLocation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid bus ID"})
			return
		}

		location, lat, lng, err := services.GetBusLocation(context.Background(), uint(busID))
		if err == nil {
			c.JSON(200, gin.H{"busId": busID, "location": location, "lat": lat, "lng": lng, "live": true})
			return
		}

		var bus models.Bus
		if result := db.First(&bus, busID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bus not found"})
			return
		}

		c.JSON(200, gin.H{"busId": busID, "location": bus.CurrentLocation, "live": false})
	}
}
