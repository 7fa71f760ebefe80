package repository

import (
	"errors"

	"medical-appointment-api/internal/domain/entity"
	domainRepo "medical-appointment-api/internal/domain/repository"

	"gorm.io/gorm"
)

type availabilityWindowRepository struct{}

func NewAvailabilityWindowRepository() domainRepo.AvailabilityWindowRepository {
	return &availabilityWindowRepository{}
}

func (r *availabilityWindowRepository) Create(db *gorm.DB, window *entity.AvailabilityWindow) error {
	return db.Create(window).Error
}

func (r *availabilityWindowRepository) FindByID(db *gorm.DB, id uint) (*entity.AvailabilityWindow, error) {
	var window entity.AvailabilityWindow
	err := db.Preload("Doctor").Preload("Room").Where("id = ?", id).First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

func (r *availabilityWindowRepository) FindAll(db *gorm.DB) ([]entity.AvailabilityWindow, error) {
	var windows []entity.AvailabilityWindow
	err := db.Preload("Doctor").Preload("Room").
		Order("doctor_id ASC, weekday ASC, start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityWindowRepository) FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.AvailabilityWindow, error) {
	var windows []entity.AvailabilityWindow
	err := db.Preload("Room").
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

// ExistsDuplicate reports whether the doctor already has a window with
// the same weekday and time range in the same room scope. Room-less
// windows only collide with other room-less windows.
func (r *availabilityWindowRepository) ExistsDuplicate(db *gorm.DB, doctorID uint, roomID *uint, weekday, startTime, endTime string, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(&entity.AvailabilityWindow{}).
		Where("doctor_id = ? AND weekday = ? AND start_time = ? AND end_time = ?",
			doctorID, weekday, startTime, endTime)
	if roomID != nil {
		query = query.Where("room_id = ?", *roomID)
	} else {
		query = query.Where("room_id IS NULL")
	}
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *availabilityWindowRepository) Update(db *gorm.DB, window *entity.AvailabilityWindow) error {
	return db.Omit("Doctor", "Room").Save(window).Error
}

func (r *availabilityWindowRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.AvailabilityWindow{})
	return result.RowsAffected, result.Error
}
