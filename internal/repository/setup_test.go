package repository

import (
	"testing"

	"medical-appointment-api/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema
// migrated. Each test gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Patient{},
		&entity.Doctor{},
		&entity.Room{},
		&entity.AvailabilityWindow{},
		&entity.Appointment{},
		&entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

func seedPatient(t *testing.T, db *gorm.DB, name, email string) *entity.Patient {
	t.Helper()

	patient := &entity.Patient{FullName: name, Email: email}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
	return patient
}

func seedDoctor(t *testing.T, db *gorm.DB, name, license string) *entity.Doctor {
	t.Helper()

	doctor := &entity.Doctor{FullName: name, Specialty: "general", LicenseNumber: license}
	if err := db.Create(doctor).Error; err != nil {
		t.Fatalf("failed to seed doctor: %v", err)
	}
	return doctor
}

func seedRoom(t *testing.T, db *gorm.DB, name string) *entity.Room {
	t.Helper()

	room := &entity.Room{Name: name, Floor: 1}
	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}
	return room
}

func seedWindow(t *testing.T, db *gorm.DB, doctorID uint, weekday, start, end string, roomID *uint) *entity.AvailabilityWindow {
	t.Helper()

	window := entity.NewAvailabilityWindow(doctorID, weekday, start, end, roomID)
	if err := db.Create(window).Error; err != nil {
		t.Fatalf("failed to seed availability window: %v", err)
	}
	return window
}
