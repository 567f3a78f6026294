package database

import (
	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Bus{},
		&models.Seat{},
		&models.Fee{},
		&models.Notification{},
		&models.Attendance{},
		&models.DriverAttendance{},
		&models.DriverLeave{},
		&models.EmergencyAlert{},
		&models.StudentQuery{},
	)
	if err != nil {
		return err
	}

	// Constraints AutoMigrate does not express: status value checks.
	db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
	db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('ADMIN', 'DRIVER', 'TEACHER', 'STUDENT'))`)

	db.Exec(`ALTER TABLE buses DROP CONSTRAINT IF EXISTS buses_status_check`)
	db.Exec(`ALTER TABLE buses ADD CONSTRAINT buses_status_check CHECK (status IN ('WORKING', 'BREAKDOWN', 'NOT_RUNNING'))`)

	db.Exec(`ALTER TABLE buses DROP CONSTRAINT IF EXISTS buses_capacity_check`)
	db.Exec(`ALTER TABLE buses ADD CONSTRAINT buses_capacity_check CHECK (capacity >= 1)`)

	return nil
}
