package database

import (
	"errors"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"gorm.io/gorm"
)

// Directory is the gorm-backed implementation of assignment.Directory.
// All list queries order by primary key so selector tie-breaks are stable.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func riderRoles() []models.Role {
	return []models.Role{models.RoleStudent, models.RoleTeacher}
}

func (d *Directory) RiderByID(id uint) (*models.User, error) {
	var rider models.User
	err := d.db.Where("id = ? AND role IN ?", id, riderRoles()).First(&rider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, assignment.ErrRiderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

func (d *Directory) unassignedRiderQuery() *gorm.DB {
	taken := d.db.Model(&models.Seat{}).
		Select("assigned_user_id").
		Where("assigned_user_id IS NOT NULL")
	return d.db.
		Where("role IN ?", riderRoles()).
		Where("id NOT IN (?)", taken).
		Order("id ASC")
}

func (d *Directory) UnassignedRiders() ([]models.User, error) {
	var riders []models.User
	err := d.unassignedRiderQuery().Find(&riders).Error
	return riders, err
}

func (d *Directory) UnassignedRidersWithCoordinates() ([]models.User, error) {
	var riders []models.User
	err := d.unassignedRiderQuery().
		Where("home_latitude IS NOT NULL AND home_longitude IS NOT NULL").
		Find(&riders).Error
	return riders, err
}

func (d *Directory) AvailableDrivers() ([]models.User, error) {
	assigned := d.db.Model(&models.Bus{}).
		Select("driver_id").
		Where("driver_id IS NOT NULL")

	var drivers []models.User
	err := d.db.
		Where("role = ? AND driver_status = ?", models.RoleDriver, models.DriverAvailable).
		Where("id NOT IN (?)", assigned).
		Order("id ASC").
		Find(&drivers).Error
	return drivers, err
}

func (d *Directory) WorkingBusesWithFreeSeats() ([]models.Bus, error) {
	withFree := d.db.Model(&models.Seat{}).
		Select("bus_id").
		Where("assigned_user_id IS NULL AND seat_number <> ?", models.DriverSeatNumber)

	var buses []models.Bus
	err := d.db.
		Where("status = ?", models.BusWorking).
		Where("id IN (?)", withFree).
		Order("id ASC").
		Find(&buses).Error
	return buses, err
}

func (d *Directory) BusByID(id uint) (*models.Bus, error) {
	var bus models.Bus
	err := d.db.First(&bus, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, assignment.ErrBusNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

func (d *Directory) SeatByID(id uint) (*models.Seat, error) {
	var seat models.Seat
	err := d.db.Preload("Bus").First(&seat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, assignment.ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (d *Directory) SeatOf(riderID uint) (*models.Seat, error) {
	var seat models.Seat
	err := d.db.Preload("Bus").Where("assigned_user_id = ?", riderID).First(&seat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (d *Directory) FreeSeats(busID uint) ([]models.Seat, error) {
	var seats []models.Seat
	err := d.db.
		Where("bus_id = ? AND assigned_user_id IS NULL AND seat_number <> ?",
			busID, models.DriverSeatNumber).
		Order("seat_number ASC").
		Find(&seats).Error
	return seats, err
}

// ReserveSeat is the mutual-exclusion point for concurrent assignments:
// the guarded UPDATE only wins when the seat is still free.
func (d *Directory) ReserveSeat(seatID, riderID uint) (bool, error) {
	res := d.db.Model(&models.Seat{}).
		Where("id = ? AND assigned_user_id IS NULL", seatID).
		Updates(map[string]interface{}{
			"assigned_user_id": riderID,
			"is_available":     false,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (d *Directory) ReleaseSeat(seatID uint) error {
	return d.db.Model(&models.Seat{}).
		Where("id = ?", seatID).
		Updates(map[string]interface{}{
			"assigned_user_id": nil,
			"is_available":     true,
		}).Error
}

func (d *Directory) BindDriverToBus(busID, driverID uint, salary *float64) error {
	if err := d.db.Model(&models.Bus{}).
		Where("id = ?", busID).
		Update("driver_id", driverID).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{"driver_status": models.DriverUnavailable}
	if salary != nil {
		updates["salary"] = *salary
	}
	return d.db.Model(&models.User{}).
		Where("id = ?", driverID).
		Updates(updates).Error
}

func (d *Directory) GetOrCreateFee(fee *models.Fee) (*models.Fee, bool, error) {
	var existing models.Fee
	err := d.db.
		Where("user_id = ? AND month = ? AND year = ?", fee.UserID, fee.Month, fee.Year).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := d.db.Create(fee).Error; err != nil {
		return nil, false, err
	}
	return fee, true, nil
}

func (d *Directory) InTransaction(fn func(assignment.Directory) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Directory{db: tx})
	})
}
