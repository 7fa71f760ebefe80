package converter

import (
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
)

// AvailabilityWindowToResponse converts an AvailabilityWindow entity to
// its DTO. The mapping is lossless: AvailabilityWindowFromResponse
// reverses it field for field.
func AvailabilityWindowToResponse(window *entity.AvailabilityWindow) *dto.AvailabilityWindowResponse {
	if window == nil {
		return nil
	}

	response := &dto.AvailabilityWindowResponse{
		ID:        window.ID,
		DoctorID:  window.DoctorID,
		RoomID:    window.RoomID,
		Weekday:   window.Weekday,
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
		CreatedAt: window.CreatedAt,
		UpdatedAt: window.UpdatedAt,
	}

	if window.Doctor.ID != 0 {
		response.Doctor = DoctorToResponse(&window.Doctor)
	}
	if window.Room != nil && window.Room.ID != 0 {
		response.Room = RoomToResponse(window.Room)
	}

	return response
}

// AvailabilityWindowFromResponse rebuilds the entity from its DTO form.
func AvailabilityWindowFromResponse(response *dto.AvailabilityWindowResponse) *entity.AvailabilityWindow {
	if response == nil {
		return nil
	}

	return &entity.AvailabilityWindow{
		ID:        response.ID,
		DoctorID:  response.DoctorID,
		RoomID:    response.RoomID,
		Weekday:   response.Weekday,
		StartTime: response.StartTime,
		EndTime:   response.EndTime,
		CreatedAt: response.CreatedAt,
		UpdatedAt: response.UpdatedAt,
	}
}

// AvailabilityWindowsToResponses converts a slice of windows to DTOs
func AvailabilityWindowsToResponses(windows []entity.AvailabilityWindow) []dto.AvailabilityWindowResponse {
	responses := make([]dto.AvailabilityWindowResponse, len(windows))
	for i, window := range windows {
		resp := AvailabilityWindowToResponse(&window)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
