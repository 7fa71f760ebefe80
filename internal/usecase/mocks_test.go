package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite handle. The usecases only thread
// it through to the repositories, which are mocked here, so no schema
// is migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// ---- patient repository ----

type mockPatientRepo struct {
	patients map[uint]*entity.Patient
	err      error
}

var _ repository.PatientRepository = (*mockPatientRepo)(nil)

func newMockPatientRepo(patients ...*entity.Patient) *mockPatientRepo {
	m := &mockPatientRepo{patients: make(map[uint]*entity.Patient)}
	for _, p := range patients {
		m.patients[p.ID] = p
	}
	return m
}

func (m *mockPatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	if m.err != nil {
		return m.err
	}
	if patient.ID == 0 {
		patient.ID = uint(len(m.patients) + 1)
	}
	m.patients[patient.ID] = patient
	return nil
}

func (m *mockPatientRepo) FindByID(db *gorm.DB, id uint) (*entity.Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.patients[id], nil
}

func (m *mockPatientRepo) FindByEmail(db *gorm.DB, email string) (*entity.Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPatientRepo) FindAll(db *gorm.DB) ([]entity.Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPatientRepo) Update(db *gorm.DB, patient *entity.Patient) error {
	m.patients[patient.ID] = patient
	return m.err
}

func (m *mockPatientRepo) Delete(db *gorm.DB, id uint) (int64, error) {
	if _, ok := m.patients[id]; !ok {
		return 0, m.err
	}
	delete(m.patients, id)
	return 1, m.err
}

// ---- doctor repository ----

type mockDoctorRepo struct {
	doctors map[uint]*entity.Doctor
	err     error
}

var _ repository.DoctorRepository = (*mockDoctorRepo)(nil)

func newMockDoctorRepo(doctors ...*entity.Doctor) *mockDoctorRepo {
	m := &mockDoctorRepo{doctors: make(map[uint]*entity.Doctor)}
	for _, d := range doctors {
		m.doctors[d.ID] = d
	}
	return m
}

func (m *mockDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	if m.err != nil {
		return m.err
	}
	if doctor.ID == 0 {
		doctor.ID = uint(len(m.doctors) + 1)
	}
	m.doctors[doctor.ID] = doctor
	return nil
}

func (m *mockDoctorRepo) FindByID(db *gorm.DB, id uint) (*entity.Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.doctors[id], nil
}

func (m *mockDoctorRepo) FindByLicenseNumber(db *gorm.DB, license string) (*entity.Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.doctors {
		if d.LicenseNumber == license {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockDoctorRepo) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDoctorRepo) Update(db *gorm.DB, doctor *entity.Doctor) error {
	m.doctors[doctor.ID] = doctor
	return m.err
}

func (m *mockDoctorRepo) Delete(db *gorm.DB, id uint) (int64, error) {
	if _, ok := m.doctors[id]; !ok {
		return 0, m.err
	}
	delete(m.doctors, id)
	return 1, m.err
}

// ---- room repository ----

type mockRoomRepo struct {
	rooms map[uint]*entity.Room
	err   error
}

var _ repository.RoomRepository = (*mockRoomRepo)(nil)

func newMockRoomRepo(rooms ...*entity.Room) *mockRoomRepo {
	m := &mockRoomRepo{rooms: make(map[uint]*entity.Room)}
	for _, r := range rooms {
		m.rooms[r.ID] = r
	}
	return m
}

func (m *mockRoomRepo) Create(db *gorm.DB, room *entity.Room) error {
	if m.err != nil {
		return m.err
	}
	if room.ID == 0 {
		room.ID = uint(len(m.rooms) + 1)
	}
	m.rooms[room.ID] = room
	return nil
}

func (m *mockRoomRepo) FindByID(db *gorm.DB, id uint) (*entity.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rooms[id], nil
}

func (m *mockRoomRepo) FindByName(db *gorm.DB, name string) (*entity.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rooms {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRoomRepo) FindAll(db *gorm.DB) ([]entity.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRoomRepo) Update(db *gorm.DB, room *entity.Room) error {
	m.rooms[room.ID] = room
	return m.err
}

func (m *mockRoomRepo) Delete(db *gorm.DB, id uint) (int64, error) {
	if _, ok := m.rooms[id]; !ok {
		return 0, m.err
	}
	delete(m.rooms, id)
	return 1, m.err
}

// ---- availability window repository ----

type mockWindowRepo struct {
	windows       map[uint]*entity.AvailabilityWindow
	duplicate     bool
	findByIDCalls int
	err           error
}

var _ repository.AvailabilityWindowRepository = (*mockWindowRepo)(nil)

func newMockWindowRepo(windows ...*entity.AvailabilityWindow) *mockWindowRepo {
	m := &mockWindowRepo{windows: make(map[uint]*entity.AvailabilityWindow)}
	for _, w := range windows {
		m.windows[w.ID] = w
	}
	return m
}

func (m *mockWindowRepo) Create(db *gorm.DB, window *entity.AvailabilityWindow) error {
	if m.err != nil {
		return m.err
	}
	if window.ID == 0 {
		window.ID = uint(len(m.windows) + 1)
	}
	m.windows[window.ID] = window
	return nil
}

func (m *mockWindowRepo) FindByID(db *gorm.DB, id uint) (*entity.AvailabilityWindow, error) {
	m.findByIDCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.windows[id], nil
}

func (m *mockWindowRepo) FindAll(db *gorm.DB) ([]entity.AvailabilityWindow, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.AvailabilityWindow, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, *w)
	}
	return out, nil
}

func (m *mockWindowRepo) FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.AvailabilityWindow, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []entity.AvailabilityWindow
	for _, w := range m.windows {
		if w.DoctorID == doctorID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockWindowRepo) ExistsDuplicate(db *gorm.DB, doctorID uint, roomID *uint, weekday, startTime, endTime string, excludeID uint) (bool, error) {
	return m.duplicate, m.err
}

func (m *mockWindowRepo) Update(db *gorm.DB, window *entity.AvailabilityWindow) error {
	m.windows[window.ID] = window
	return m.err
}

func (m *mockWindowRepo) Delete(db *gorm.DB, id uint) (int64, error) {
	if _, ok := m.windows[id]; !ok {
		return 0, m.err
	}
	delete(m.windows, id)
	return 1, m.err
}

// ---- appointment repository ----

type mockAppointmentRepo struct {
	appointments       map[uint]*entity.Appointment
	nextID             uint
	occupied           bool
	overlap            bool
	createErr          error
	createCalls        int
	findByPatientCalls int
	err                error
}

var _ repository.AppointmentRepository = (*mockAppointmentRepo)(nil)

func newMockAppointmentRepo(appointments ...*entity.Appointment) *mockAppointmentRepo {
	m := &mockAppointmentRepo{
		appointments: make(map[uint]*entity.Appointment),
		nextID:       1,
	}
	for _, a := range appointments {
		m.appointments[a.ID] = a
		if a.ID >= m.nextID {
			m.nextID = a.ID + 1
		}
	}
	return m
}

func (m *mockAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if m.err != nil {
		return m.err
	}
	appointment.ID = m.nextID
	m.nextID++
	m.appointments[appointment.ID] = appointment
	return nil
}

func (m *mockAppointmentRepo) FindByID(db *gorm.DB, id uint) (*entity.Appointment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.appointments[id], nil
}

func (m *mockAppointmentRepo) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uint) ([]entity.Appointment, error) {
	m.findByPatientCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []entity.Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) IsWindowOccupied(db *gorm.DB, windowID uint, at time.Time, excludeID uint) (bool, error) {
	return m.occupied, m.err
}

func (m *mockAppointmentRepo) HasPatientOverlap(db *gorm.DB, patientID uint, at time.Time, excludeID uint) (bool, error) {
	return m.overlap, m.err
}

func (m *mockAppointmentRepo) Update(db *gorm.DB, appointment *entity.Appointment) error {
	if m.err != nil {
		return m.err
	}
	m.appointments[appointment.ID] = appointment
	return nil
}

func (m *mockAppointmentRepo) Delete(db *gorm.DB, id uint) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.appointments[id]; !ok {
		return 0, nil
	}
	delete(m.appointments, id)
	return 1, nil
}

// ---- audit service ----

type auditEntry struct {
	action   string
	entity   string
	entityID string
}

type mockAuditService struct {
	entries []auditEntry
}

var _ service.AuditService = (*mockAuditService)(nil)

func (m *mockAuditService) LogCreate(ctx context.Context, action, entityName, entityID string, newValue interface{}) error {
	m.entries = append(m.entries, auditEntry{action, entityName, entityID})
	return nil
}

func (m *mockAuditService) LogUpdate(ctx context.Context, action, entityName, entityID string, oldValue, newValue interface{}) error {
	m.entries = append(m.entries, auditEntry{action, entityName, entityID})
	return nil
}

func (m *mockAuditService) LogDelete(ctx context.Context, action, entityName, entityID string, oldValue interface{}) error {
	m.entries = append(m.entries, auditEntry{action, entityName, entityID})
	return nil
}

func (m *mockAuditService) actions() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.action)
	}
	return out
}
