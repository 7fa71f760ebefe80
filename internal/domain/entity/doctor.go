package entity

import "time"

// Doctor represents a practitioner with recurring availability windows
type Doctor struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName      string    `gorm:"type:varchar(150);not null" json:"full_name"`
	Specialty     string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	LicenseNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Email         string    `gorm:"type:varchar(150)" json:"email,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	AvailabilityWindows []AvailabilityWindow `gorm:"foreignKey:DoctorID" json:"availability_windows,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
