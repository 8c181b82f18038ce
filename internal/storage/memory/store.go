// Package memory is an in-process storage.Store used for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every table in maps guarded by a single mutex.
type Store struct {
	mu           sync.Mutex
	users        map[int64]models.User
	patients     map[int64]models.Patient
	doctors      map[int64]models.Doctor
	appointments []models.Appointment
	bills        []models.Bill
	nextID       map[string]int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]models.User),
		patients: make(map[int64]models.Patient),
		doctors:  make(map[int64]models.Doctor),
		nextID:   make(map[string]int64),
	}
}

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser stores the user and its profile, rejecting taken usernames.
func (s *Store) CreateUser(_ context.Context, reg storage.Registration) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == reg.User.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user := reg.User
	user.ID = s.id("users")
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user

	if reg.Patient != nil {
		p := *reg.Patient
		p.ID = s.id("patients")
		p.UserID = user.ID
		s.patients[p.ID] = p
	}
	if reg.Doctor != nil {
		d := *reg.Doctor
		d.ID = s.id("doctors")
		d.UserID = user.ID
		s.doctors[d.ID] = d
	}
	return user, nil
}

// FindByUsername looks a user up by exact username.
func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// FindByID looks a user up by id.
func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

// PatientByUserID returns the patient profile owned by userID.
func (s *Store) PatientByUserID(_ context.Context, userID int64) (models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return models.Patient{}, storage.ErrNotFound
}

// DoctorByUserID returns the doctor profile owned by userID.
func (s *Store) DoctorByUserID(_ context.Context, userID int64) (models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return models.Doctor{}, storage.ErrNotFound
}

// ListDoctors returns every doctor ordered by id.
func (s *Store) ListDoctors(_ context.Context) ([]models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Doctor{}
	for id := int64(1); id <= s.nextID["doctors"]; id++ {
		if d, ok := s.doctors[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// Census counts users, patients, doctors and appointments.
func (s *Store) Census(_ context.Context) (models.Census, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Census{
		Users:        int64(len(s.users)),
		Patients:     int64(len(s.patients)),
		Doctors:      int64(len(s.doctors)),
		Appointments: int64(len(s.appointments)),
	}, nil
}

// CreateAppointment enforces the same foreign keys as the SQL schema.
func (s *Store) CreateAppointment(_ context.Context, appt models.Appointment) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[appt.PatientID]; !ok {
		return models.Appointment{}, storage.ErrNotFound
	}
	if _, ok := s.doctors[appt.DoctorID]; !ok {
		return models.Appointment{}, storage.ErrNotFound
	}
	if appt.Status == "" {
		appt.Status = models.AppointmentPending
	}
	appt.ID = s.id("appointments")
	appt.CreatedAt = time.Now().UTC()
	s.appointments = append(s.appointments, appt)
	return appt, nil
}

// ListAppointmentsByPatient returns a patient's appointments ordered by id.
func (s *Store) ListAppointmentsByPatient(_ context.Context, patientID int64) ([]models.Appointment, error) {
	return s.filterAppointments(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

// ListAppointmentsByDoctor returns a doctor's appointments ordered by id.
func (s *Store) ListAppointmentsByDoctor(_ context.Context, doctorID int64) ([]models.Appointment, error) {
	return s.filterAppointments(func(a models.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (s *Store) filterAppointments(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// ListBillsByPatient returns a patient's bills, newest first.
func (s *Store) ListBillsByPatient(_ context.Context, patientID int64) ([]models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Bill{}
	for i := len(s.bills) - 1; i >= 0; i-- {
		if s.bills[i].PatientID == patientID {
			out = append(out, s.bills[i])
		}
	}
	return out, nil
}

// AddBill records a bill directly; the application has no issuance flow, so
// this exists for seeding.
func (s *Store) AddBill(bill models.Bill) models.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill.ID = s.id("bills")
	if bill.PaymentStatus == "" {
		bill.PaymentStatus = models.PaymentUnpaid
	}
	if bill.DateIssued.IsZero() {
		bill.DateIssued = time.Now().UTC()
	}
	s.bills = append(s.bills, bill)
	return bill
}
