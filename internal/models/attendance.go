package models

import (
	"time"

	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

// Attendance is a rider's daily attendance record, one per user per date.
type Attendance struct {
	gorm.Model
	UserID       uint             `gorm:"column:user_id;not null;uniqueIndex:idx_attendance_user_date" json:"userId"`
	User         *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date         time.Time        `gorm:"column:date;not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	Status       AttendanceStatus `gorm:"column:status;not null" json:"status"`
	IsApproved   bool             `gorm:"column:is_approved;not null;default:false" json:"isApproved"`
	ApprovedByID *uint            `gorm:"column:approved_by_id" json:"approvedById,omitempty"`
	Remarks      string           `gorm:"column:remarks" json:"remarks,omitempty"`
}

// TableName specifies the table name
func (Attendance) TableName() string {
	return "attendances"
}

type DriverAttendanceStatus string

const (
	DriverAttendancePresent DriverAttendanceStatus = "PRESENT"
	DriverAttendanceAbsent  DriverAttendanceStatus = "ABSENT"
	DriverAttendanceLeave   DriverAttendanceStatus = "LEAVE"
	DriverAttendanceHalfDay DriverAttendanceStatus = "HALF_DAY"
)

// DriverAttendance tracks a driver's working day and kilometres driven.
type DriverAttendance struct {
	gorm.Model
	DriverID   uint                   `gorm:"column:driver_id;not null;uniqueIndex:idx_driver_attendance_date" json:"driverId"`
	Driver     *User                  `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	Date       time.Time              `gorm:"column:date;not null;uniqueIndex:idx_driver_attendance_date" json:"date"`
	Status     DriverAttendanceStatus `gorm:"column:status;not null;default:'PRESENT'" json:"status"`
	KMDriven   float64                `gorm:"column:km_driven;not null;default:0" json:"kmDriven"`
	Remarks    string                 `gorm:"column:remarks" json:"remarks,omitempty"`
	MarkedByID *uint                  `gorm:"column:marked_by_id" json:"markedById,omitempty"`
}

// TableName specifies the table name
func (DriverAttendance) TableName() string {
	return "driver_attendances"
}
