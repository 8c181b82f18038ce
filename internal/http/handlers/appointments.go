package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hongminglow/hospital-be/internal/booking"
	"github.com/hongminglow/hospital-be/internal/metrics"
	"github.com/hongminglow/hospital-be/internal/middleware"
	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/models/dto"
	"github.com/hongminglow/hospital-be/internal/session"
	"github.com/hongminglow/hospital-be/internal/storage"
)

const (
	msgBooked         = "Appointment booked successfully."
	msgNotAuthorized  = "You are not authorized to view appointments."
	msgPatientsOnly   = "Only patients can book appointments."
	msgDoctorsOnly    = "Only doctors can view this page."
	msgInvalidDoctor  = "Invalid doctor id."
	msgDoctorNotFound = "Doctor not found."
)

const (
	dashboardPath          = "/dashboard"
	appointmentsPath       = "/appointments"
	doctorAppointmentsPath = "/doctor/appointments"
)

// AppointmentsHandler serves the booking pages and the doctor directory.
type AppointmentsHandler struct {
	pages
	booking *booking.Service
	doctors storage.ClinicStore
	metrics *metrics.Metrics
}

// NewAppointmentsHandler constructs the handler.
func NewAppointmentsHandler(svc *booking.Service, doctors storage.ClinicStore, sessions *session.Manager, m *metrics.Metrics, logger zerolog.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{
		pages:   pages{sessions: sessions, logger: logger},
		booking: svc,
		doctors: doctors,
		metrics: m,
	}
}

// Register attaches the booking routes and the doctor directory, all behind requireLogin.
func (h *AppointmentsHandler) Register(mux *http.ServeMux, requireLogin func(http.Handler) http.Handler) {
	mux.Handle(appointmentsPath, requireLogin(http.HandlerFunc(h.handleAppointments)))
	mux.Handle(doctorAppointmentsPath, requireLogin(http.HandlerFunc(h.handleDoctorAppointments)))
	mux.Handle("/doctors", requireLogin(http.HandlerFunc(h.handleDoctors)))
}

func (h *AppointmentsHandler) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.book(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AppointmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	appts, err := h.booking.List(r.Context(), user)
	if err != nil {
		h.bookingError(w, r, err, msgNotAuthorized)
		return
	}
	h.render(w, r, http.StatusOK, "appointments", dto.AppointmentsView{Role: user.Role, Appointments: appts})
}

func (h *AppointmentsHandler) book(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	form, err := readForm(w, r)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireFields(form, "doctor_id", "appointment_time"); err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req := dto.BookAppointmentRequest{DoctorID: form.Get("doctor_id"), AppointmentTime: form.Get("appointment_time")}

	doctorID, err := strconv.ParseInt(strings.TrimSpace(req.DoctorID), 10, 64)
	if err != nil || doctorID <= 0 {
		h.metrics.ObserveBooking("invalid")
		h.redirect(w, r, appointmentsPath, msgInvalidDoctor)
		return
	}

	_, err = h.booking.Book(r.Context(), user, doctorID, req.AppointmentTime)
	switch {
	case err == nil:
		h.metrics.ObserveBooking("ok")
		h.redirect(w, r, appointmentsPath, msgBooked)
	case errors.Is(err, storage.ErrNotFound):
		h.metrics.ObserveBooking("unknown_doctor")
		h.redirect(w, r, appointmentsPath, msgDoctorNotFound)
	default:
		h.metrics.ObserveBooking("rejected")
		h.bookingError(w, r, err, msgPatientsOnly)
	}
}

func (h *AppointmentsHandler) handleDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user, _ := middleware.CurrentUser(r.Context())
	appts, err := h.booking.ListForDoctor(r.Context(), user)
	if err != nil {
		h.bookingError(w, r, err, msgDoctorsOnly)
		return
	}
	h.render(w, r, http.StatusOK, "doctor appointments", dto.AppointmentsView{Role: user.Role, Appointments: appts})
}

func (h *AppointmentsHandler) handleDoctors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doctors, err := h.doctors.ListDoctors(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list doctors")
		return
	}
	h.render(w, r, http.StatusOK, "doctors", dto.DoctorsView{Doctors: doctors})
}

// bookingError maps booking failures: role refusals flash and go back to the
// dashboard, everything else is fatal to the request.
func (h *AppointmentsHandler) bookingError(w http.ResponseWriter, r *http.Request, err error, forbiddenMsg string) {
	switch {
	case errors.Is(err, booking.ErrForbidden):
		h.redirect(w, r, dashboardPath, forbiddenMsg)
	case errors.Is(err, models.ErrUnknownRole):
		h.fail(w, r, http.StatusForbidden, "unknown role")
	default:
		h.internalError(w, r, err, "appointments")
	}
}
