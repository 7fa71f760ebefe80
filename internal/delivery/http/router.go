package http

import (
	"net/http"

	"medical-appointment-api/internal/delivery/http/handler"
	"medical-appointment-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	patientHandler      *handler.PatientHandler
	doctorHandler       *handler.DoctorHandler
	roomHandler         *handler.RoomHandler
	windowHandler       *handler.AvailabilityWindowHandler
	appointmentHandler  *handler.AppointmentHandler
	corsMiddleware      *middleware.CORSMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

func NewRouter(
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	roomHandler *handler.RoomHandler,
	windowHandler *handler.AvailabilityWindowHandler,
	appointmentHandler *handler.AppointmentHandler,
	corsMiddleware *middleware.CORSMiddleware,
	requestIDMiddleware *middleware.RequestIDMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		patientHandler:      patientHandler,
		doctorHandler:       doctorHandler,
		roomHandler:         roomHandler,
		windowHandler:       windowHandler,
		appointmentHandler:  appointmentHandler,
		corsMiddleware:      corsMiddleware,
		requestIDMiddleware: requestIDMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patients
	api.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	api.HandleFunc("/patients", r.patientHandler.GetAllPatients).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	api.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)
	api.HandleFunc("/patients/{patientId}/appointments", r.appointmentHandler.GetAppointmentsByPatient).Methods(http.MethodGet)

	// Doctors
	api.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)
	api.HandleFunc("/doctors/{doctorId}/availability-windows", r.windowHandler.GetWindowsByDoctor).Methods(http.MethodGet)

	// Rooms
	api.HandleFunc("/rooms", r.roomHandler.CreateRoom).Methods(http.MethodPost)
	api.HandleFunc("/rooms", r.roomHandler.GetAllRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", r.roomHandler.GetRoom).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", r.roomHandler.UpdateRoom).Methods(http.MethodPut)
	api.HandleFunc("/rooms/{id}", r.roomHandler.DeleteRoom).Methods(http.MethodDelete)

	// Availability windows
	api.HandleFunc("/availability-windows", r.windowHandler.CreateWindow).Methods(http.MethodPost)
	api.HandleFunc("/availability-windows", r.windowHandler.GetAllWindows).Methods(http.MethodGet)
	api.HandleFunc("/availability-windows/{id}", r.windowHandler.GetWindow).Methods(http.MethodGet)
	api.HandleFunc("/availability-windows/{id}", r.windowHandler.UpdateWindow).Methods(http.MethodPut)
	api.HandleFunc("/availability-windows/{id}", r.windowHandler.DeleteWindow).Methods(http.MethodDelete)

	// Appointments (creation goes through the booking pipeline only)
	api.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)

	// Global middleware
	r.router.Use(r.requestIDMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
