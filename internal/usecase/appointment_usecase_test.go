package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-02 is a Monday.
const (
	mondayMorning   = "2025-06-02 10:00:00"
	tuesdayMorning  = "2025-06-03 10:00:00"
	mondayAfternoon = "2025-06-02 14:00:00"
)

type appointmentTestEnv struct {
	appointments *mockAppointmentRepo
	patients     *mockPatientRepo
	windows      *mockWindowRepo
	audit        *mockAuditService
	usecase      AppointmentUsecase
}

func newAppointmentTestEnv(t *testing.T, strict bool, guard *service.SlotGuard) *appointmentTestEnv {
	t.Helper()

	log := newTestLogger()
	if guard == nil {
		guard = service.NewSlotGuard(nil, log)
	}

	env := &appointmentTestEnv{
		appointments: newMockAppointmentRepo(),
		patients: newMockPatientRepo(&entity.Patient{
			ID:       1,
			FullName: "Ana Torres",
			Email:    "ana.torres@example.com",
		}),
		windows: newMockWindowRepo(&entity.AvailabilityWindow{
			ID:        10,
			DoctorID:  1,
			Weekday:   "lunes",
			StartTime: "09:00",
			EndTime:   "13:00",
		}),
		audit: &mockAuditService{},
	}
	env.usecase = NewAppointmentUsecase(
		newTestDB(t), log,
		env.appointments, env.patients, env.windows,
		guard, env.audit, strict,
	)
	return env
}

func bookRequest(dateTime string) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		PatientID:            1,
		AvailabilityWindowID: 10,
		DateTime:             dateTime,
	}
}

func TestBookAppointment(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	resp, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, uint(1), resp.PatientID)
	assert.Equal(t, uint(10), resp.AvailabilityWindowID)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), resp.Status)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), resp.DateTime)

	assert.Equal(t, 1, env.appointments.createCalls)
	assert.Equal(t, []string{entity.AuditActionAppointmentBook}, env.audit.actions())
}

func TestBookAppointmentAtWindowStart(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	_, err := env.usecase.Book(context.Background(), bookRequest("2025-06-02 09:00:00"))
	assert.NoError(t, err)
}

func TestBookAppointmentInvalidDateTime(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	_, err := env.usecase.Book(context.Background(), bookRequest("not-a-timestamp"))
	assert.ErrorIs(t, err, ErrInvalidDateTime)
	assert.Equal(t, 0, env.appointments.createCalls)
}

func TestBookAppointmentAcceptedLayouts(t *testing.T) {
	for _, dateTime := range []string{
		"2025-06-02T10:00:00",
		"2025-06-02 10:00:00",
		"2025-06-02 10:00",
	} {
		env := newAppointmentTestEnv(t, false, nil)
		_, err := env.usecase.Book(context.Background(), bookRequest(dateTime))
		assert.NoError(t, err, "layout %q should be accepted", dateTime)
	}
}

// When both the patient and the window are missing, the patient check
// fires first and the window store is never consulted.
func TestBookAppointmentPatientNotFoundWins(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	req := bookRequest(mondayMorning)
	req.PatientID = 99
	req.AvailabilityWindowID = 99

	_, err := env.usecase.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Equal(t, 0, env.windows.findByIDCalls)
}

func TestBookAppointmentWindowNotFound(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	req := bookRequest(mondayMorning)
	req.AvailabilityWindowID = 99

	_, err := env.usecase.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrAvailabilityWindowNotFound)
}

func TestBookAppointmentWeekdayMismatch(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	_, err := env.usecase.Book(context.Background(), bookRequest(tuesdayMorning))
	require.Error(t, err)

	var mismatch *ScheduleMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "weekday", mismatch.Field)
	assert.Equal(t, "martes", mismatch.Got)
	assert.Equal(t, "lunes", mismatch.Want)
}

func TestBookAppointmentTimeOutsideWindow(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	_, err := env.usecase.Book(context.Background(), bookRequest(mondayAfternoon))
	require.Error(t, err)

	var mismatch *ScheduleMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "time", mismatch.Field)
}

// The window end is exclusive: booking exactly at end_time is rejected.
func TestBookAppointmentAtWindowEndRejected(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	_, err := env.usecase.Book(context.Background(), bookRequest("2025-06-02 13:00:00"))

	var mismatch *ScheduleMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "time", mismatch.Field)
}

// Occupancy is checked before patient overlap; when both conflicts
// exist the window conflict is reported.
func TestBookAppointmentWindowOccupiedWins(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	env.appointments.occupied = true
	env.appointments.overlap = true

	_, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	assert.ErrorIs(t, err, ErrWindowOccupied)
	assert.Equal(t, 0, env.appointments.createCalls)
}

func TestBookAppointmentPatientOverlap(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	env.appointments.overlap = true

	_, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	assert.ErrorIs(t, err, ErrPatientOverlap)
	assert.Equal(t, 0, env.appointments.createCalls)
}

func TestBookAppointmentSlotAlreadyReserved(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	guard := service.NewSlotGuard(client, newTestLogger())

	// Another in-flight booking holds the slot.
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	reserved, err := guard.Reserve(context.Background(), 10, at)
	require.NoError(t, err)
	require.True(t, reserved)

	env := newAppointmentTestEnv(t, false, guard)

	_, err = env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	assert.ErrorIs(t, err, ErrWindowOccupied)
	assert.Equal(t, 0, env.appointments.createCalls)
}

// A failed insert releases the Redis reservation so the slot is not
// blocked for the full TTL.
func TestBookAppointmentReleasesSlotOnInsertFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	guard := service.NewSlotGuard(client, newTestLogger())

	env := newAppointmentTestEnv(t, false, guard)
	env.appointments.createErr = errors.New("insert failed")

	_, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.Error(t, err)
	assert.Empty(t, mr.Keys())
}

func TestGetAppointmentNotFound(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	_, err := env.usecase.GetAppointment(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// An unknown patient short-circuits the listing; the appointment store
// is never queried.
func TestGetAppointmentsByPatientUnknownPatient(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	_, err := env.usecase.GetAppointmentsByPatient(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Equal(t, 0, env.appointments.findByPatientCalls)
}

func TestGetAppointmentsByPatient(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	_, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	resp, err := env.usecase.GetAppointmentsByPatient(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Len(t, resp.Appointments, 1)
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	notes := "updated"
	_, err := env.usecase.UpdateAppointment(context.Background(), 404, &dto.UpdateAppointmentRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateAppointmentPartial(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	booked, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	notes := "bring previous lab results"
	resp, err := env.usecase.UpdateAppointment(context.Background(), booked.ID, &dto.UpdateAppointmentRequest{Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, notes, resp.Notes)
	// untouched fields survive the patch
	assert.Equal(t, booked.DateTime, resp.DateTime)
	assert.Equal(t, booked.Status, resp.Status)
	assert.Contains(t, env.audit.actions(), entity.AuditActionAppointmentUpdate)
}

func TestUpdateAppointmentInvalidStatus(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	booked, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	status := "postponed"
	_, err = env.usecase.UpdateAppointment(context.Background(), booked.ID, &dto.UpdateAppointmentRequest{Status: &status})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateAppointmentStatusCaseInsensitive(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	booked, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	status := "CANCELLED"
	resp, err := env.usecase.UpdateAppointment(context.Background(), booked.ID, &dto.UpdateAppointmentRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), resp.Status)
}

// With strict updates off, moving an appointment is not re-checked
// against the window schedule.
func TestUpdateAppointmentLenientSkipsScheduleCheck(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	booked, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	dateTime := tuesdayMorning
	_, err = env.usecase.UpdateAppointment(context.Background(), booked.ID, &dto.UpdateAppointmentRequest{DateTime: &dateTime})
	assert.NoError(t, err)
}

func TestUpdateAppointmentStrictRevalidates(t *testing.T) {
	env := newAppointmentTestEnv(t, true, nil)
	booked, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	dateTime := tuesdayMorning
	_, err = env.usecase.UpdateAppointment(context.Background(), booked.ID, &dto.UpdateAppointmentRequest{DateTime: &dateTime})

	var mismatch *ScheduleMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "weekday", mismatch.Field)
}

func TestUpdateAppointmentStrictAllowsValidMove(t *testing.T) {
	env := newAppointmentTestEnv(t, true, nil)
	booked, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	dateTime := "2025-06-09 11:00:00" // next Monday, inside the window
	resp, err := env.usecase.UpdateAppointment(context.Background(), booked.ID, &dto.UpdateAppointmentRequest{DateTime: &dateTime})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC), resp.DateTime)
}

func TestDeleteAppointmentNotFound(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)

	err := env.usecase.DeleteAppointment(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDeleteAppointment(t *testing.T) {
	env := newAppointmentTestEnv(t, false, nil)
	booked, err := env.usecase.Book(context.Background(), bookRequest(mondayMorning))
	require.NoError(t, err)

	err = env.usecase.DeleteAppointment(context.Background(), booked.ID)
	require.NoError(t, err)

	_, err = env.usecase.GetAppointment(context.Background(), booked.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Contains(t, env.audit.actions(), entity.AuditActionAppointmentDelete)
}
