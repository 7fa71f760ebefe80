package repository

import (
	"medical-appointment-api/internal/domain/entity"

	"gorm.io/gorm"
)

type AvailabilityWindowRepository interface {
	Create(db *gorm.DB, window *entity.AvailabilityWindow) error
	FindByID(db *gorm.DB, id uint) (*entity.AvailabilityWindow, error)
	FindAll(db *gorm.DB) ([]entity.AvailabilityWindow, error)
	FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.AvailabilityWindow, error)
	ExistsDuplicate(db *gorm.DB, doctorID uint, roomID *uint, weekday, startTime, endTime string, excludeID uint) (bool, error)
	Update(db *gorm.DB, window *entity.AvailabilityWindow) error
	Delete(db *gorm.DB, id uint) (int64, error)
}
