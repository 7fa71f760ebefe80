package dto

import "time"

// Request DTOs

type CreateRoomRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Floor int    `json:"floor" validate:"omitempty,gte=0"`
}

type UpdateRoomRequest struct {
	Name  string `json:"name" validate:"omitempty,max=50"`
	Floor *int   `json:"floor" validate:"omitempty,gte=0"`
}

// Response DTOs

type RoomResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Floor     int       `json:"floor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Total int            `json:"total"`
}
