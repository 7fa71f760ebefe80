package usecase

import (
	"context"
	"errors"
	"strconv"

	"medical-appointment-api/internal/converter"
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/service"
	"medical-appointment-api/pkg/schedule"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAvailabilityWindowNotFound = errors.New("availability window not found")
	ErrDuplicateWindow            = errors.New("doctor already has an identical availability window")
	ErrInvalidWeekday             = errors.New("invalid weekday")
	ErrInvalidTimeFormat          = errors.New("invalid time format, use HH:MM")
	ErrInvalidTimeRange           = errors.New("start_time must be before end_time")
)

type AvailabilityWindowUsecase interface {
	CreateWindow(ctx context.Context, req *dto.CreateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error)
	GetWindow(ctx context.Context, id uint) (*dto.AvailabilityWindowResponse, error)
	GetAllWindows(ctx context.Context) (*dto.AvailabilityWindowListResponse, error)
	GetWindowsByDoctor(ctx context.Context, doctorID uint) (*dto.AvailabilityWindowListResponse, error)
	UpdateWindow(ctx context.Context, id uint, req *dto.UpdateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error)
	DeleteWindow(ctx context.Context, id uint) error
}

type availabilityWindowUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	windowRepo   repository.AvailabilityWindowRepository
	doctorRepo   repository.DoctorRepository
	roomRepo     repository.RoomRepository
	auditService service.AuditService
}

func NewAvailabilityWindowUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	windowRepo repository.AvailabilityWindowRepository,
	doctorRepo repository.DoctorRepository,
	roomRepo repository.RoomRepository,
	auditService service.AuditService,
) AvailabilityWindowUsecase {
	return &availabilityWindowUsecase{
		db:           db,
		log:          log,
		windowRepo:   windowRepo,
		doctorRepo:   doctorRepo,
		roomRepo:     roomRepo,
		auditService: auditService,
	}
}

// CreateWindow validates formats, the start/end ordering, referenced
// doctor and room, and rejects an exact duplicate window before
// persisting.
func (u *availabilityWindowUsecase) CreateWindow(ctx context.Context, req *dto.CreateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error) {
	db := u.db.WithContext(ctx)

	weekday, ok := schedule.CanonicalWeekday(req.Weekday)
	if !ok {
		return nil, ErrInvalidWeekday
	}
	if !schedule.IsValidTimeFormat(req.StartTime) || !schedule.IsValidTimeFormat(req.EndTime) {
		return nil, ErrInvalidTimeFormat
	}
	if !schedule.IsRangeValid(req.StartTime, req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	doctor, err := u.doctorRepo.FindByID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if req.RoomID != nil {
		room, err := u.roomRepo.FindByID(db, *req.RoomID)
		if err != nil {
			u.log.Warnf("Failed to find room %d: %+v", *req.RoomID, err)
			return nil, err
		}
		if room == nil {
			return nil, ErrRoomNotFound
		}
	}

	duplicate, err := u.windowRepo.ExistsDuplicate(db, req.DoctorID, req.RoomID, weekday, req.StartTime, req.EndTime, 0)
	if err != nil {
		u.log.Warnf("Failed duplicate check for doctor %d: %+v", req.DoctorID, err)
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateWindow
	}

	window := entity.NewAvailabilityWindow(req.DoctorID, weekday, req.StartTime, req.EndTime, req.RoomID)
	if err := u.windowRepo.Create(db, window); err != nil {
		u.log.Warnf("Failed to create availability window: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, entity.AuditActionWindowCreate, "availability_window",
		strconv.FormatUint(uint64(window.ID), 10), window); err != nil {
		u.log.Warnf("Failed to audit window %d (non-fatal): %+v", window.ID, err)
	}

	return converter.AvailabilityWindowToResponse(window), nil
}

func (u *availabilityWindowUsecase) GetWindow(ctx context.Context, id uint) (*dto.AvailabilityWindowResponse, error) {
	window, err := u.windowRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find availability window %d: %+v", id, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrAvailabilityWindowNotFound
	}

	return converter.AvailabilityWindowToResponse(window), nil
}

func (u *availabilityWindowUsecase) GetAllWindows(ctx context.Context) (*dto.AvailabilityWindowListResponse, error) {
	windows, err := u.windowRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find availability windows: %+v", err)
		return nil, err
	}

	return &dto.AvailabilityWindowListResponse{
		Windows: converter.AvailabilityWindowsToResponses(windows),
		Total:   len(windows),
	}, nil
}

func (u *availabilityWindowUsecase) GetWindowsByDoctor(ctx context.Context, doctorID uint) (*dto.AvailabilityWindowListResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	windows, err := u.windowRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find windows for doctor %d: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AvailabilityWindowListResponse{
		Windows: converter.AvailabilityWindowsToResponses(windows),
		Total:   len(windows),
	}, nil
}

// UpdateWindow re-validates only the supplied fields and re-checks the
// start/end ordering and the duplicate constraint on the merged values.
func (u *availabilityWindowUsecase) UpdateWindow(ctx context.Context, id uint, req *dto.UpdateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error) {
	db := u.db.WithContext(ctx)

	window, err := u.windowRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find availability window %d: %+v", id, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrAvailabilityWindowNotFound
	}
	previous := *window

	if req.Weekday != "" {
		weekday, ok := schedule.CanonicalWeekday(req.Weekday)
		if !ok {
			return nil, ErrInvalidWeekday
		}
		window.Weekday = weekday
	}
	if req.StartTime != "" {
		if !schedule.IsValidTimeFormat(req.StartTime) {
			return nil, ErrInvalidTimeFormat
		}
		window.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		if !schedule.IsValidTimeFormat(req.EndTime) {
			return nil, ErrInvalidTimeFormat
		}
		window.EndTime = req.EndTime
	}
	if req.RoomID != nil {
		room, err := u.roomRepo.FindByID(db, *req.RoomID)
		if err != nil {
			u.log.Warnf("Failed to find room %d: %+v", *req.RoomID, err)
			return nil, err
		}
		if room == nil {
			return nil, ErrRoomNotFound
		}
		window.RoomID = req.RoomID
	}

	// Ordering must hold for the merged values
	if !schedule.IsRangeValid(window.StartTime, window.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	duplicate, err := u.windowRepo.ExistsDuplicate(db, window.DoctorID, window.RoomID, window.Weekday, window.StartTime, window.EndTime, window.ID)
	if err != nil {
		u.log.Warnf("Failed duplicate check for window %d: %+v", id, err)
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateWindow
	}

	window.Doctor = entity.Doctor{}
	window.Room = nil
	if err := u.windowRepo.Update(db, window); err != nil {
		u.log.Warnf("Failed to update availability window %d: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, entity.AuditActionWindowUpdate, "availability_window",
		strconv.FormatUint(uint64(id), 10), &previous, window); err != nil {
		u.log.Warnf("Failed to audit window %d (non-fatal): %+v", id, err)
	}

	return converter.AvailabilityWindowToResponse(window), nil
}

// DeleteWindow removes the window only. Appointments referencing it are
// left untouched; there is no cascade.
func (u *availabilityWindowUsecase) DeleteWindow(ctx context.Context, id uint) error {
	db := u.db.WithContext(ctx)

	window, err := u.windowRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find availability window %d: %+v", id, err)
		return err
	}
	if window == nil {
		return ErrAvailabilityWindowNotFound
	}

	if _, err := u.windowRepo.Delete(db, id); err != nil {
		u.log.Warnf("Failed to delete availability window %d: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, entity.AuditActionWindowDelete, "availability_window",
		strconv.FormatUint(uint64(id), 10), window); err != nil {
		u.log.Warnf("Failed to audit window %d (non-fatal): %+v", id, err)
	}

	return nil
}
