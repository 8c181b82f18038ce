package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/storage"
)

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, err := s.CreateUser(ctx, storage.Registration{User: models.User{Username: "alice", Role: models.RolePatient, PasswordHash: "h1"}})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, storage.Registration{User: models.User{Username: "alice", Role: models.RoleAdmin, PasswordHash: "h2"}})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestCreateAppointmentRequiresKnownDoctor(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u, err := s.CreateUser(ctx, storage.Registration{
		User:    models.User{Username: "p", Role: models.RolePatient},
		Patient: &models.Patient{Name: "p"},
	})
	require.NoError(t, err)
	p, err := s.PatientByUserID(ctx, u.ID)
	require.NoError(t, err)

	_, err = s.CreateAppointment(ctx, models.Appointment{PatientID: p.ID, DoctorID: 1, AppointmentTime: "now"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBillsNewestFirst(t *testing.T) {
	s := NewStore()
	s.AddBill(models.Bill{PatientID: 1, Amount: "10.00"})
	s.AddBill(models.Bill{PatientID: 2, Amount: "99.00"})
	s.AddBill(models.Bill{PatientID: 1, Amount: "20.00"})

	bills, err := s.ListBillsByPatient(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "20.00", bills[0].Amount)
	assert.Equal(t, models.PaymentUnpaid, bills[0].PaymentStatus)
}
