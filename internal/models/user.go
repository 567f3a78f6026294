package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDriver  Role = "DRIVER"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

type DriverStatus string

const (
	DriverAvailable   DriverStatus = "AVAILABLE"
	DriverUnavailable DriverStatus = "UNAVAILABLE"
	DriverOnLeave     DriverStatus = "ON_LEAVE"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// User is a single table for all roles: admins, drivers and riders
// (students/teachers). Driver and rider specific columns are nullable.
type User struct {
	gorm.Model
	Username     string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password     string `gorm:"-:all" json:"-"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string `gorm:"column:first_name" json:"firstName"`
	LastName     string `gorm:"column:last_name" json:"lastName"`
	Phone        string `gorm:"column:phone" json:"phone"`
	Address      string `gorm:"column:address" json:"address"`
	ProfilePhoto string `gorm:"column:profile_photo" json:"profilePhoto"`
	Role         Role   `gorm:"column:role;not null" json:"role"`

	// Rider fields (students and teachers)
	CollegeName   string   `gorm:"column:college_name" json:"collegeName,omitempty"`
	Year          string   `gorm:"column:year" json:"year,omitempty"`
	Course        string   `gorm:"column:course" json:"course,omitempty"`
	Semester      *int     `gorm:"column:semester" json:"semester,omitempty"`
	AcademicYear  string   `gorm:"column:academic_year" json:"academicYear,omitempty"`
	Gender        Gender   `gorm:"column:gender" json:"gender,omitempty"`
	HomeLocation  string   `gorm:"column:home_location" json:"homeLocation,omitempty"`
	HomeLatitude  *float64 `gorm:"column:home_latitude" json:"homeLatitude,omitempty"`
	HomeLongitude *float64 `gorm:"column:home_longitude" json:"homeLongitude,omitempty"`

	// Driver fields
	DriverStatus       DriverStatus `gorm:"column:driver_status" json:"driverStatus,omitempty"`
	Salary             *float64     `gorm:"column:salary" json:"salary,omitempty"`
	LicenseNumber      string       `gorm:"column:license_number" json:"licenseNumber,omitempty"`
	HireDate           *time.Time   `gorm:"column:hire_date" json:"hireDate,omitempty"`
	CurrentLatitude    *float64     `gorm:"column:current_latitude" json:"currentLatitude,omitempty"`
	CurrentLongitude   *float64     `gorm:"column:current_longitude" json:"currentLongitude,omitempty"`
	LastLocationUpdate *time.Time   `gorm:"column:last_location_update" json:"lastLocationUpdate,omitempty"`
	FCMToken           string       `gorm:"column:fcm_token" json:"-"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsRider reports whether the user is eligible for a bus seat.
func (u *User) IsRider() bool {
	return u.Role == RoleStudent || u.Role == RoleTeacher
}

// HasHomeCoordinates reports whether both home coordinates are set.
func (u *User) HasHomeCoordinates() bool {
	return u.HomeLatitude != nil && u.HomeLongitude != nil
}

// DrivingExperience derives years of experience from the hire date when set.
func (u *User) DrivingExperience() int {
	if u.HireDate == nil {
		return 0
	}
	today := time.Now()
	years := today.Year() - u.HireDate.Year()
	if today.Month() < u.HireDate.Month() ||
		(today.Month() == u.HireDate.Month() && today.Day() < u.HireDate.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
