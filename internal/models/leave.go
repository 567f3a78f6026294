package models

import (
	"time"

	"gorm.io/gorm"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// DriverLeave is a driver's leave request with an admin approval workflow.
// An approved leave can name a substitute driver for the period.
type DriverLeave struct {
	gorm.Model
	DriverID           uint        `gorm:"column:driver_id;not null;index" json:"driverId"`
	Driver             *User       `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	StartDate          time.Time   `gorm:"column:start_date;not null" json:"startDate"`
	EndDate            time.Time   `gorm:"column:end_date;not null" json:"endDate"`
	Reason             string      `gorm:"column:reason;not null" json:"reason"`
	Status             LeaveStatus `gorm:"column:status;not null;default:'PENDING'" json:"status"`
	ApprovedByID       *uint       `gorm:"column:approved_by_id" json:"approvedById,omitempty"`
	SubstituteDriverID *uint       `gorm:"column:substitute_driver_id" json:"substituteDriverId,omitempty"`
	SubstituteDriver   *User       `gorm:"foreignKey:SubstituteDriverID" json:"substituteDriver,omitempty"`
	AdminRemarks       string      `gorm:"column:admin_remarks" json:"adminRemarks,omitempty"`
}

// TableName specifies the table name
func (DriverLeave) TableName() string {
	return "driver_leaves"
}
