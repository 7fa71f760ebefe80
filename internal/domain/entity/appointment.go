package entity

import (
	"strings"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// ParseAppointmentStatus matches s against the known statuses,
// ignoring case.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(AppointmentStatusScheduled):
		return AppointmentStatusScheduled, true
	case string(AppointmentStatusCancelled):
		return AppointmentStatusCancelled, true
	case string(AppointmentStatusCompleted):
		return AppointmentStatusCompleted, true
	}
	return "", false
}

// Appointment represents one concrete occurrence booked against an
// availability window. DateTime is a naive local-clock value held in UTC.
type Appointment struct {
	ID                   uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID            uint              `gorm:"not null;index" json:"patient_id"`
	AvailabilityWindowID uint              `gorm:"not null;index" json:"availability_window_id"`
	DateTime             time.Time         `gorm:"not null;index" json:"date_time"`
	Status               AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Reason               *string           `gorm:"type:text" json:"reason,omitempty"`
	Notes                string            `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient            `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Window  AvailabilityWindow `gorm:"foreignKey:AvailabilityWindowID" json:"window,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks status ignoring case, since stored rows may carry
// mixed-case values written before status normalization.
func (a *Appointment) IsCancelled() bool {
	return strings.EqualFold(string(a.Status), string(AppointmentStatusCancelled))
}

// IsScheduled checks if the appointment is still scheduled
func (a *Appointment) IsScheduled() bool {
	return strings.EqualFold(string(a.Status), string(AppointmentStatusScheduled))
}

// Cancel changes appointment status to cancelled
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
}
