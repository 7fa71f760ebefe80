package repository

import (
	"time"

	"medical-appointment-api/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uint) ([]entity.Appointment, error)
	IsWindowOccupied(db *gorm.DB, windowID uint, at time.Time, excludeID uint) (bool, error)
	HasPatientOverlap(db *gorm.DB, patientID uint, at time.Time, excludeID uint) (bool, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uint) (int64, error)
}
