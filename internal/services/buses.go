package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// CreateBusWithSeats creates a bus and its full set of seats in one
// transaction. Seat 1 is always held for the driver; riders take 2..capacity.
func CreateBusWithSeats(db *gorm.DB, bus *models.Bus) error {
	if bus.Capacity < models.DriverSeatNumber {
		return fmt.Errorf("bus capacity must be at least %d", models.DriverSeatNumber)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bus).Error; err != nil {
			return err
		}

		seats := make([]models.Seat, 0, bus.Capacity)
		for n := 1; n <= bus.Capacity; n++ {
			seats = append(seats, models.Seat{
				BusID:      bus.ID,
				SeatNumber: n,
			})
		}
		return tx.Create(&seats).Error
	})
}

// ResizeBusSeats grows or shrinks a bus's seat set after a capacity change.
// Occupied seats above the new capacity block the shrink.
func ResizeBusSeats(db *gorm.DB, bus *models.Bus, newCapacity int) error {
	if newCapacity < models.DriverSeatNumber {
		return fmt.Errorf("bus capacity must be at least %d", models.DriverSeatNumber)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if newCapacity > bus.Capacity {
			seats := make([]models.Seat, 0, newCapacity-bus.Capacity)
			for n := bus.Capacity + 1; n <= newCapacity; n++ {
				seats = append(seats, models.Seat{BusID: bus.ID, SeatNumber: n})
			}
			if err := tx.Create(&seats).Error; err != nil {
				return err
			}
		} else if newCapacity < bus.Capacity {
			var occupied int64
			if err := tx.Model(&models.Seat{}).
				Where("bus_id = ? AND seat_number > ? AND assigned_user_id IS NOT NULL", bus.ID, newCapacity).
				Count(&occupied).Error; err != nil {
				return err
			}
			if occupied > 0 {
				return fmt.Errorf("cannot shrink capacity: %d seats above %d are occupied", occupied, newCapacity)
			}
			if err := tx.Where("bus_id = ? AND seat_number > ?", bus.ID, newCapacity).
				Delete(&models.Seat{}).Error; err != nil {
				return err
			}
		}

		return tx.Model(bus).Update("capacity", newCapacity).Error
	})
}

// FreeSeatCount returns the number of unoccupied rider seats on a bus
func FreeSeatCount(db *gorm.DB, busID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Seat{}).
		Where("bus_id = ? AND seat_number <> ? AND assigned_user_id IS NULL", busID, models.DriverSeatNumber).
		Count(&count).Error
	return count, err
}
