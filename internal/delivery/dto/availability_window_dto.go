package dto

import "time"

// Request DTOs

type CreateAvailabilityWindowRequest struct {
	DoctorID  uint   `json:"doctor_id" validate:"required,min=1"`
	RoomID    *uint  `json:"room_id" validate:"omitempty,min=1"`
	Weekday   string `json:"weekday" validate:"required"`    // lunes..domingo, accents accepted
	StartTime string `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // Format: HH:MM
}

type UpdateAvailabilityWindowRequest struct {
	RoomID    *uint  `json:"room_id" validate:"omitempty,min=1"`
	Weekday   string `json:"weekday" validate:"omitempty"`
	StartTime string `json:"start_time" validate:"omitempty"`
	EndTime   string `json:"end_time" validate:"omitempty"`
}

// Response DTOs

type AvailabilityWindowResponse struct {
	ID        uint            `json:"id"`
	DoctorID  uint            `json:"doctor_id"`
	RoomID    *uint           `json:"room_id,omitempty"`
	Weekday   string          `json:"weekday"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Doctor    *DoctorResponse `json:"doctor,omitempty"`
	Room      *RoomResponse   `json:"room,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AvailabilityWindowListResponse struct {
	Windows []AvailabilityWindowResponse `json:"windows"`
	Total   int                          `json:"total"`
}
