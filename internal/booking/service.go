// Package booking lists and creates appointments for the signed-in actor.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/storage"
)

var (
	// ErrForbidden means the actor's role may not perform the operation.
	ErrForbidden = errors.New("not authorized for appointments")
	// ErrProfileMissing means a patient or doctor user has no profile row.
	ErrProfileMissing = errors.New("profile missing for user")
)

// Store is the subset of storage the booking flow reads and writes.
type Store interface {
	storage.ClinicStore
	storage.AppointmentStore
}

// Service scopes appointment access to the actor's own profile.
type Service struct {
	store Store
}

// NewService builds a booking service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the patient's or doctor's own appointments. Other roles get ErrForbidden.
func (s *Service) List(ctx context.Context, actor models.User) ([]models.Appointment, error) {
	switch actor.Role {
	case models.RolePatient:
		patient, err := s.patient(ctx, actor)
		if err != nil {
			return nil, err
		}
		return s.store.ListAppointmentsByPatient(ctx, patient.ID)
	case models.RoleDoctor:
		return s.ListForDoctor(ctx, actor)
	case models.RoleAdmin:
		return nil, ErrForbidden
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownRole, actor.Role)
	}
}

// ListForDoctor returns the doctor's appointments and rejects every other role.
func (s *Service) ListForDoctor(ctx context.Context, actor models.User) ([]models.Appointment, error) {
	if actor.Role != models.RoleDoctor {
		return nil, ErrForbidden
	}
	doctor, err := s.store.DoctorByUserID(ctx, actor.ID)
	if err != nil {
		return nil, profileErr(err, actor)
	}
	return s.store.ListAppointmentsByDoctor(ctx, doctor.ID)
}

// Book records a Pending appointment for a patient. The time is stored as
// given and no overlap check is made against the doctor's other bookings.
func (s *Service) Book(ctx context.Context, actor models.User, doctorID int64, appointmentTime string) (models.Appointment, error) {
	if actor.Role != models.RolePatient {
		return models.Appointment{}, ErrForbidden
	}
	patient, err := s.patient(ctx, actor)
	if err != nil {
		return models.Appointment{}, err
	}
	return s.store.CreateAppointment(ctx, models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctorID,
		AppointmentTime: appointmentTime,
		Status:          models.AppointmentPending,
	})
}

func (s *Service) patient(ctx context.Context, actor models.User) (models.Patient, error) {
	patient, err := s.store.PatientByUserID(ctx, actor.ID)
	if err != nil {
		return models.Patient{}, profileErr(err, actor)
	}
	return patient, nil
}

func profileErr(err error, actor models.User) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s user %d", ErrProfileMissing, actor.Role, actor.ID)
	}
	return err
}
