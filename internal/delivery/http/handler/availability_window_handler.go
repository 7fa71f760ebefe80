package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/usecase"
	"medical-appointment-api/pkg/response"
	"medical-appointment-api/pkg/validator"
)

type AvailabilityWindowHandler struct {
	windowUsecase usecase.AvailabilityWindowUsecase
	validator     *validator.CustomValidator
}

func NewAvailabilityWindowHandler(windowUsecase usecase.AvailabilityWindowUsecase, validator *validator.CustomValidator) *AvailabilityWindowHandler {
	return &AvailabilityWindowHandler{
		windowUsecase: windowUsecase,
		validator:     validator,
	}
}

func (h *AvailabilityWindowHandler) CreateWindow(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAvailabilityWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	window, err := h.windowUsecase.CreateWindow(r.Context(), &req)
	if err != nil {
		h.writeWindowError(w, err, "Failed to create availability window")
		return
	}

	response.Success(w, http.StatusCreated, "Availability window created successfully", window)
}

func (h *AvailabilityWindowHandler) GetWindow(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDVar(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid availability window ID", nil)
		return
	}

	window, err := h.windowUsecase.GetWindow(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrAvailabilityWindowNotFound) {
			response.NotFound(w, "Availability window not found")
			return
		}
		response.InternalServerError(w, "Failed to get availability window")
		return
	}

	response.Success(w, http.StatusOK, "Availability window retrieved successfully", window)
}

func (h *AvailabilityWindowHandler) GetAllWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := h.windowUsecase.GetAllWindows(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get availability windows")
		return
	}

	response.Success(w, http.StatusOK, "Availability windows retrieved successfully", windows)
}

func (h *AvailabilityWindowHandler) GetWindowsByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := parseIDVar(r, "doctorId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	windows, err := h.windowUsecase.GetWindowsByDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get availability windows")
		return
	}

	response.Success(w, http.StatusOK, "Availability windows retrieved successfully", windows)
}

func (h *AvailabilityWindowHandler) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDVar(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid availability window ID", nil)
		return
	}

	var req dto.UpdateAvailabilityWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	window, err := h.windowUsecase.UpdateWindow(r.Context(), id, &req)
	if err != nil {
		h.writeWindowError(w, err, "Failed to update availability window")
		return
	}

	response.Success(w, http.StatusOK, "Availability window updated successfully", window)
}

func (h *AvailabilityWindowHandler) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDVar(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid availability window ID", nil)
		return
	}

	if err := h.windowUsecase.DeleteWindow(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrAvailabilityWindowNotFound) {
			response.NotFound(w, "Availability window not found")
			return
		}
		response.InternalServerError(w, "Failed to delete availability window")
		return
	}

	response.Success(w, http.StatusOK, "Availability window deleted successfully", nil)
}

func (h *AvailabilityWindowHandler) writeWindowError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrAvailabilityWindowNotFound):
		response.NotFound(w, "Availability window not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrRoomNotFound):
		response.NotFound(w, "Room not found")
	case errors.Is(err, usecase.ErrInvalidWeekday),
		errors.Is(err, usecase.ErrInvalidTimeFormat),
		errors.Is(err, usecase.ErrInvalidTimeRange):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, usecase.ErrDuplicateWindow):
		response.Error(w, http.StatusConflict, "Doctor already has an identical availability window", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
