package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/hospital-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// Registration is a new user plus the profile row matching its role. At most
// one of Patient and Doctor is set; their UserID is filled in by the store.
type Registration struct {
	User    models.User
	Patient *models.Patient
	Doctor  *models.Doctor
}

// UserStore persists credentials.
type UserStore interface {
	CreateUser(ctx context.Context, reg Registration) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
}

// ClinicStore reads patient and doctor profiles.
type ClinicStore interface {
	PatientByUserID(ctx context.Context, userID int64) (models.Patient, error)
	DoctorByUserID(ctx context.Context, userID int64) (models.Doctor, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	Census(ctx context.Context) (models.Census, error)
}

// AppointmentStore persists appointments.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, appt models.Appointment) (models.Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, patientID int64) ([]models.Appointment, error)
	ListAppointmentsByDoctor(ctx context.Context, doctorID int64) ([]models.Appointment, error)
}

// BillStore reads bills.
type BillStore interface {
	ListBillsByPatient(ctx context.Context, patientID int64) ([]models.Bill, error)
}

// Store is everything the application needs from persistence.
type Store interface {
	UserStore
	ClinicStore
	AppointmentStore
	BillStore
	Close()
}
