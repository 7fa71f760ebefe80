package dto

import "time"

// Request DTOs

type CreateDoctorRequest struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=150"`
	Specialty     string `json:"specialty" validate:"required,max=100"`
	LicenseNumber string `json:"license_number" validate:"required,max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
}

type UpdateDoctorRequest struct {
	FullName      string `json:"full_name" validate:"omitempty,min=2,max=150"`
	Specialty     string `json:"specialty" validate:"omitempty,max=100"`
	LicenseNumber string `json:"license_number" validate:"omitempty,max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
}

// Response DTOs

type DoctorResponse struct {
	ID            uint      `json:"id"`
	FullName      string    `json:"full_name"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"license_number"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
