package entity

import "time"

// AvailabilityWindow represents a doctor's recurring weekly slot,
// optionally scoped to a room. Weekday is stored as the canonical
// unaccented lowercase token; StartTime/EndTime as HH:MM strings.
type AvailabilityWindow struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uint      `gorm:"not null;index" json:"doctor_id"`
	RoomID    *uint     `gorm:"index" json:"room_id,omitempty"`
	Weekday   string    `gorm:"type:varchar(10);not null" json:"weekday"`
	StartTime string    `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(8);not null" json:"end_time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor       Doctor        `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Room         *Room         `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:AvailabilityWindowID" json:"appointments,omitempty"`
}

func (AvailabilityWindow) TableName() string {
	return "availability_windows"
}

// NewAvailabilityWindow builds an unpersisted window (zero ID). It does
// not validate; that is the availability usecase's job.
func NewAvailabilityWindow(doctorID uint, weekday, startTime, endTime string, roomID *uint) *AvailabilityWindow {
	return &AvailabilityWindow{
		DoctorID:  doctorID,
		RoomID:    roomID,
		Weekday:   weekday,
		StartTime: startTime,
		EndTime:   endTime,
	}
}
