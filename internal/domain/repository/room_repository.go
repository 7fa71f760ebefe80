package repository

import (
	"medical-appointment-api/internal/domain/entity"

	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(db *gorm.DB, room *entity.Room) error
	FindByID(db *gorm.DB, id uint) (*entity.Room, error)
	FindByName(db *gorm.DB, name string) (*entity.Room, error)
	FindAll(db *gorm.DB) ([]entity.Room, error)
	Update(db *gorm.DB, room *entity.Room) error
	Delete(db *gorm.DB, id uint) (int64, error)
}
