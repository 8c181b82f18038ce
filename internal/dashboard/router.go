// Package dashboard selects the dashboard content for a user's role.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/hospital-be/internal/booking"
	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/storage"
)

// View is the role-specific dashboard payload. Only the fields for View.Role are set.
type View struct {
	Role         models.Role          `json:"role"`
	Title        string               `json:"title"`
	Census       *models.Census       `json:"census,omitempty"`
	Doctors      []models.Doctor      `json:"doctors,omitempty"`
	Patient      *models.Patient      `json:"patient,omitempty"`
	Doctor       *models.Doctor       `json:"doctor,omitempty"`
	Appointments []models.Appointment `json:"appointments,omitempty"`
	Bills        []models.Bill        `json:"bills,omitempty"`
}

// Store is the subset of storage the dashboards read.
type Store interface {
	storage.ClinicStore
	storage.AppointmentStore
	storage.BillStore
}

// Router builds dashboards.
type Router struct {
	store Store
}

// NewRouter builds a router over store.
func NewRouter(store Store) *Router {
	return &Router{store: store}
}

// For returns the dashboard for user. Roles outside models.Roles() yield
// models.ErrUnknownRole; a missing profile yields booking.ErrProfileMissing.
func (r *Router) For(ctx context.Context, user models.User) (View, error) {
	switch user.Role {
	case models.RoleAdmin:
		return r.admin(ctx)
	case models.RoleDoctor:
		return r.doctor(ctx, user)
	case models.RolePatient:
		return r.patient(ctx, user)
	default:
		return View{}, fmt.Errorf("%w: %q", models.ErrUnknownRole, user.Role)
	}
}

func (r *Router) admin(ctx context.Context) (View, error) {
	census, err := r.store.Census(ctx)
	if err != nil {
		return View{}, err
	}
	doctors, err := r.store.ListDoctors(ctx)
	if err != nil {
		return View{}, err
	}
	return View{Role: models.RoleAdmin, Title: "Admin Dashboard", Census: &census, Doctors: doctors}, nil
}

func (r *Router) doctor(ctx context.Context, user models.User) (View, error) {
	doctor, err := r.store.DoctorByUserID(ctx, user.ID)
	if err != nil {
		return View{}, missing(err, user)
	}
	appts, err := r.store.ListAppointmentsByDoctor(ctx, doctor.ID)
	if err != nil {
		return View{}, err
	}
	return View{Role: models.RoleDoctor, Title: "Doctor Dashboard", Doctor: &doctor, Appointments: appts}, nil
}

func (r *Router) patient(ctx context.Context, user models.User) (View, error) {
	patient, err := r.store.PatientByUserID(ctx, user.ID)
	if err != nil {
		return View{}, missing(err, user)
	}
	appts, err := r.store.ListAppointmentsByPatient(ctx, patient.ID)
	if err != nil {
		return View{}, err
	}
	bills, err := r.store.ListBillsByPatient(ctx, patient.ID)
	if err != nil {
		return View{}, err
	}
	return View{Role: models.RolePatient, Title: "Patient Dashboard", Patient: &patient, Appointments: appts, Bills: bills}, nil
}

func missing(err error, user models.User) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s user %d", booking.ErrProfileMissing, user.Role, user.ID)
	}
	return err
}
