package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

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
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrWindowOccupied      = errors.New("availability window is already booked at this time")
	ErrPatientOverlap      = errors.New("patient already has an appointment at this time")
	ErrInvalidDateTime     = errors.New("invalid date_time format, use YYYY-MM-DD HH:MM:SS")
	ErrInvalidStatus       = errors.New("invalid status, use scheduled, cancelled or completed")
)

// ScheduleMismatchError reports a proposed appointment falling outside
// its availability window, carrying both sides for diagnostics.
type ScheduleMismatchError struct {
	Field string // "weekday" or "time"
	Got   string
	Want  string
}

func (e *ScheduleMismatchError) Error() string {
	return fmt.Sprintf("schedule mismatch: %s %q does not match window %s %q", e.Field, e.Got, e.Field, e.Want)
}

// dateTimeLayouts accepted for appointment timestamps. Values are naive
// local-clock times; they are parsed and held in UTC so weekday and
// time-of-day extraction stay consistent.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error)
	GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetAppointmentsByPatient(ctx context.Context, patientID uint) (*dto.AppointmentListResponse, error)
	UpdateAppointment(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id uint) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	windowRepo      repository.AvailabilityWindowRepository
	slotGuard       *service.SlotGuard
	auditService    service.AuditService
	strictUpdate    bool
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	windowRepo repository.AvailabilityWindowRepository,
	slotGuard *service.SlotGuard,
	auditService service.AuditService,
	strictUpdate bool,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		windowRepo:      windowRepo,
		slotGuard:       slotGuard,
		auditService:    auditService,
		strictUpdate:    strictUpdate,
	}
}

// Book runs the full booking pipeline. The check order is part of the
// contract: patient existence, window existence, weekday match, time
// range, window occupancy, patient overlap, then insert. When several
// conditions hold at once the earliest check wins.
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	dateTime, err := parseDateTime(req.DateTime)
	if err != nil {
		return nil, err
	}

	// Step 1: patient must exist
	patient, err := u.patientRepo.FindByID(db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	// Step 2: availability window must exist
	window, err := u.windowRepo.FindByID(db, req.AvailabilityWindowID)
	if err != nil {
		u.log.Warnf("Failed to find availability window %d: %+v", req.AvailabilityWindowID, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrAvailabilityWindowNotFound
	}

	// Steps 3-4: the timestamp must fall inside the window
	if err := u.checkWindowFit(window, dateTime); err != nil {
		return nil, err
	}

	// Step 5: window must be free at this exact timestamp
	occupied, err := u.appointmentRepo.IsWindowOccupied(db, window.ID, dateTime, 0)
	if err != nil {
		u.log.Warnf("Failed occupancy check for window %d: %+v", window.ID, err)
		return nil, err
	}
	if occupied {
		return nil, ErrWindowOccupied
	}

	// Step 6: patient must not hold another appointment at this time
	overlap, err := u.appointmentRepo.HasPatientOverlap(db, req.PatientID, dateTime, 0)
	if err != nil {
		u.log.Warnf("Failed overlap check for patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if overlap {
		return nil, ErrPatientOverlap
	}

	// Redis reservation closes the race between the checks above and
	// the insert. The partial unique index on appointments remains the
	// authoritative barrier.
	reserved, err := u.slotGuard.Reserve(ctx, window.ID, dateTime)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, ErrWindowOccupied
	}

	// Step 7: persist
	appointment := &entity.Appointment{
		PatientID:            req.PatientID,
		AvailabilityWindowID: window.ID,
		DateTime:             dateTime,
		Status:               entity.AppointmentStatusScheduled,
		Reason:               req.Reason,
		Notes:                req.Notes,
	}

	if err := u.appointmentRepo.Create(db, appointment); err != nil {
		u.log.Errorf("Failed to insert appointment, releasing slot reservation: %+v", err)
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		u.slotGuard.Release(releaseCtx, window.ID, dateTime)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, entity.AuditActionAppointmentBook, "appointment",
		strconv.FormatUint(uint64(appointment.ID), 10), appointment); err != nil {
		u.log.Warnf("Failed to audit appointment %d (non-fatal): %+v", appointment.ID, err)
	}

	// Reload with patient and window for the response
	full, err := u.appointmentRepo.FindByID(db, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %d: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment booked: id=%d, patient=%d, window=%d, at=%s",
		appointment.ID, req.PatientID, window.ID, dateTime.Format(time.RFC3339))
	return converter.AppointmentToResponse(full), nil
}

// checkWindowFit validates weekday match and half-open time containment.
func (u *appointmentUsecase) checkWindowFit(window *entity.AvailabilityWindow, dateTime time.Time) error {
	weekday := schedule.WeekdayOf(dateTime)
	if !schedule.SameWeekday(weekday, window.Weekday) {
		return &ScheduleMismatchError{Field: "weekday", Got: weekday, Want: window.Weekday}
	}

	timeOfDay := schedule.TimeOfDay(dateTime)
	if !schedule.IsTimeInRange(timeOfDay, window.StartTime, window.EndTime) {
		return &ScheduleMismatchError{
			Field: "time",
			Got:   timeOfDay,
			Want:  fmt.Sprintf("%s-%s", window.StartTime, window.EndTime),
		}
	}

	return nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetAppointmentsByPatient verifies the patient before touching the
// appointment store; an unknown patient never triggers the list query.
func (u *appointmentUsecase) GetAppointmentsByPatient(ctx context.Context, patientID uint) (*dto.AppointmentListResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %d: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateAppointment applies only the supplied fields. With strictUpdate
// off it mirrors the reference behavior and does not re-run the
// scheduling pipeline; with it on, a patch that moves the appointment
// (date_time or window) is re-validated against the merged values.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	previous := *appointment

	if req.AvailabilityWindowID != nil {
		appointment.AvailabilityWindowID = *req.AvailabilityWindowID
	}
	if req.DateTime != nil {
		dateTime, err := parseDateTime(*req.DateTime)
		if err != nil {
			return nil, err
		}
		appointment.DateTime = dateTime
	}
	if req.Status != nil {
		status, ok := entity.ParseAppointmentStatus(*req.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		appointment.Status = status
	}
	if req.Reason != nil {
		appointment.Reason = req.Reason
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	moved := req.AvailabilityWindowID != nil || req.DateTime != nil
	if u.strictUpdate && moved {
		if err := u.revalidateSchedule(db, appointment); err != nil {
			return nil, err
		}
	}

	appointment.Patient = entity.Patient{}
	appointment.Window = entity.AvailabilityWindow{}
	if err := u.appointmentRepo.Update(db, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %d: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, entity.AuditActionAppointmentUpdate, "appointment",
		strconv.FormatUint(uint64(id), 10), &previous, appointment); err != nil {
		u.log.Warnf("Failed to audit appointment %d (non-fatal): %+v", id, err)
	}

	full, err := u.appointmentRepo.FindByID(db, id)
	if err != nil || full == nil {
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

// revalidateSchedule reruns the window-fit and conflict checks for a
// moved appointment, excluding the appointment itself from the
// occupancy and overlap queries.
func (u *appointmentUsecase) revalidateSchedule(db *gorm.DB, appointment *entity.Appointment) error {
	window, err := u.windowRepo.FindByID(db, appointment.AvailabilityWindowID)
	if err != nil {
		return err
	}
	if window == nil {
		return ErrAvailabilityWindowNotFound
	}

	if err := u.checkWindowFit(window, appointment.DateTime); err != nil {
		return err
	}

	occupied, err := u.appointmentRepo.IsWindowOccupied(db, window.ID, appointment.DateTime, appointment.ID)
	if err != nil {
		return err
	}
	if occupied {
		return ErrWindowOccupied
	}

	overlap, err := u.appointmentRepo.HasPatientOverlap(db, appointment.PatientID, appointment.DateTime, appointment.ID)
	if err != nil {
		return err
	}
	if overlap {
		return ErrPatientOverlap
	}

	return nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id uint) error {
	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if _, err := u.appointmentRepo.Delete(db, id); err != nil {
		u.log.Warnf("Failed to delete appointment %d: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, entity.AuditActionAppointmentDelete, "appointment",
		strconv.FormatUint(uint64(id), 10), appointment); err != nil {
		u.log.Warnf("Failed to audit appointment %d (non-fatal): %+v", id, err)
	}

	return nil
}
