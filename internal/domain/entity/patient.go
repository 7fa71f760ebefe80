package entity

import "time"

// Patient represents a person who can book appointments
type Patient struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName    string    `gorm:"type:varchar(150);not null" json:"full_name"`
	Email       string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	DateOfBirth time.Time `gorm:"type:date" json:"date_of_birth"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}
