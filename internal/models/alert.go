package models

import (
	"time"

	"gorm.io/gorm"
)

type AlertStatus string

const (
	AlertActive   AlertStatus = "ACTIVE"
	AlertResolved AlertStatus = "RESOLVED"
)

// EmergencyAlert is raised by a driver for a bus (breakdown, accident)
// and stays ACTIVE until an admin resolves it.
type EmergencyAlert struct {
	gorm.Model
	DriverID     uint        `gorm:"column:driver_id;not null;index" json:"driverId"`
	Driver       *User       `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	BusID        uint        `gorm:"column:bus_id;not null;index" json:"busId"`
	Bus          *Bus        `gorm:"foreignKey:BusID" json:"bus,omitempty"`
	Message      string      `gorm:"column:message;not null" json:"message"`
	Location     string      `gorm:"column:location" json:"location,omitempty"`
	Status       AlertStatus `gorm:"column:status;not null;default:'ACTIVE'" json:"status"`
	ResolvedByID *uint       `gorm:"column:resolved_by_id" json:"resolvedById,omitempty"`
	ResolvedAt   *time.Time  `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
}

// TableName specifies the table name
func (EmergencyAlert) TableName() string {
	return "emergency_alerts"
}
