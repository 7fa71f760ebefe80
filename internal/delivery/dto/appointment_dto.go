package dto

import "time"

// Request DTOs

type BookAppointmentRequest struct {
	PatientID            uint    `json:"patient_id" validate:"required,min=1"`
	AvailabilityWindowID uint    `json:"availability_window_id" validate:"required,min=1"`
	DateTime             string  `json:"date_time" validate:"required"` // Format: YYYY-MM-DD HH:MM:SS
	Reason               *string `json:"reason" validate:"omitempty,max=500"`
	Notes                string  `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateAppointmentRequest struct {
	AvailabilityWindowID *uint   `json:"availability_window_id" validate:"omitempty,min=1"`
	DateTime             *string `json:"date_time" validate:"omitempty"`
	Status               *string `json:"status" validate:"omitempty"`
	Reason               *string `json:"reason" validate:"omitempty,max=500"`
	Notes                *string `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                   uint                        `json:"id"`
	PatientID            uint                        `json:"patient_id"`
	AvailabilityWindowID uint                        `json:"availability_window_id"`
	DateTime             time.Time                   `json:"date_time"`
	Status               string                      `json:"status"`
	Reason               *string                     `json:"reason,omitempty"`
	Notes                string                      `json:"notes"`
	Patient              *PatientResponse            `json:"patient,omitempty"`
	Window               *AvailabilityWindowResponse `json:"window,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
