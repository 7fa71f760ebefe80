package repository

import (
	"errors"
	"time"

	"medical-appointment-api/internal/domain/entity"
	domainRepo "medical-appointment-api/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Window").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Order("date_time DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uint) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Preload("Window.Doctor").
		Preload("Window.Room").
		Where("patient_id = ?", patientID).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// IsWindowOccupied reports whether a non-cancelled appointment already
// holds the window at the exact timestamp. excludeID = 0 excludes nothing.
func (r *appointmentRepository) IsWindowOccupied(db *gorm.DB, windowID uint, at time.Time, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).
		Where("availability_window_id = ? AND date_time = ? AND status != ?",
			windowID, at, entity.AppointmentStatusCancelled)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPatientOverlap reports whether the patient holds another
// non-cancelled appointment at the same timestamp, regardless of window.
func (r *appointmentRepository) HasPatientOverlap(db *gorm.DB, patientID uint, at time.Time, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).
		Where("patient_id = ? AND date_time = ? AND status != ?",
			patientID, at, entity.AppointmentStatusCancelled)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Window").Save(appointment).Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
