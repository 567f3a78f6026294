package models

import (
	"fmt"

	"gorm.io/gorm"
)

type BusStatus string

const (
	BusWorking    BusStatus = "WORKING"
	BusBreakdown  BusStatus = "BREAKDOWN"
	BusNotRunning BusStatus = "NOT_RUNNING"
)

// DriverSeatNumber is seat 1 on every bus, reserved for the driver and
// excluded from rider assignment pools.
const DriverSeatNumber = 1

// Bus is a route with a fixed number of seats and at most one driver.
type Bus struct {
	gorm.Model
	BusNumber            int       `gorm:"column:bus_number;uniqueIndex;not null" json:"busNumber"`
	Source               string    `gorm:"column:source;not null" json:"source"`
	Destination          string    `gorm:"column:destination;not null" json:"destination"`
	SourceLatitude       *float64  `gorm:"column:source_latitude" json:"sourceLatitude,omitempty"`
	SourceLongitude      *float64  `gorm:"column:source_longitude" json:"sourceLongitude,omitempty"`
	DestinationLatitude  *float64  `gorm:"column:destination_latitude" json:"destinationLatitude,omitempty"`
	DestinationLongitude *float64  `gorm:"column:destination_longitude" json:"destinationLongitude,omitempty"`
	DistanceKM           *float64  `gorm:"column:distance_km" json:"distanceKm,omitempty"`
	Capacity             int       `gorm:"column:capacity;not null" json:"capacity"`
	Status               BusStatus `gorm:"column:status;not null;default:'WORKING'" json:"status"`
	DriverID             *uint     `gorm:"column:driver_id;uniqueIndex" json:"driverId,omitempty"`
	Driver               *User     `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	CurrentLocation      string    `gorm:"column:current_location" json:"currentLocation,omitempty"`
	Seats                []Seat    `gorm:"foreignKey:BusID" json:"seats,omitempty"`
}

// TableName specifies the table name
func (Bus) TableName() string {
	return "buses"
}

// Route returns the "Source → Destination" display label.
func (b *Bus) Route() string {
	return fmt.Sprintf("%s → %s", b.Source, b.Destination)
}

// HasSourceCoordinates reports whether the boarding point is geocoded.
func (b *Bus) HasSourceCoordinates() bool {
	return b.SourceLatitude != nil && b.SourceLongitude != nil
}

// Seat belongs to exactly one bus. (bus, seat_number) is unique, and a
// rider can hold at most one seat system-wide (unique assigned_user_id).
type Seat struct {
	gorm.Model
	BusID          uint  `gorm:"column:bus_id;not null;uniqueIndex:idx_bus_seat_number" json:"busId"`
	Bus            *Bus  `gorm:"foreignKey:BusID" json:"bus,omitempty"`
	SeatNumber     int   `gorm:"column:seat_number;not null;uniqueIndex:idx_bus_seat_number" json:"seatNumber"`
	AssignedUserID *uint `gorm:"column:assigned_user_id;uniqueIndex" json:"assignedUserId,omitempty"`
	AssignedUser   *User `gorm:"foreignKey:AssignedUserID" json:"assignedUser,omitempty"`
	IsAvailable    bool  `gorm:"column:is_available;not null;default:true" json:"isAvailable"`
}

// TableName specifies the table name
func (Seat) TableName() string {
	return "seats"
}
