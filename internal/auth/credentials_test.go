package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/storage"
	"github.com/hongminglow/hospital-be/internal/storage/memory"
)

func newTestCredentials() (*Credentials, *memory.Store) {
	store := memory.NewStore()
	c := NewCredentials(store)
	c.cost = bcrypt.MinCost
	return c, store
}

func TestRegisterHashesPassword(t *testing.T) {
	c, store := newTestCredentials()
	ctx := context.Background()

	user, err := c.Register(ctx, RegisterInput{Username: " alice ", Password: "pw1", Role: "patient"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RolePatient, user.Role)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")))

	patient, err := store.PatientByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", patient.Name)
}

func TestRegisterDoctorCreatesProfile(t *testing.T) {
	c, store := newTestCredentials()
	ctx := context.Background()

	user, err := c.Register(ctx, RegisterInput{Username: "grey", Password: "pw", Role: "doctor", Name: "Dr Grey", Specialization: "Surgery"})
	require.NoError(t, err)

	doctor, err := store.DoctorByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr Grey", doctor.Name)
	assert.Equal(t, "Surgery", doctor.Specialization)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	c, store := newTestCredentials()
	ctx := context.Background()

	first, err := c.Register(ctx, RegisterInput{Username: "alice", Password: "pw1", Role: "patient"})
	require.NoError(t, err)

	_, err = c.Register(ctx, RegisterInput{Username: "alice", Password: "other", Role: "admin"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	stored, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	c, _ := newTestCredentials()
	ctx := context.Background()

	_, err := c.Register(ctx, RegisterInput{Username: "", Password: "pw", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.Register(ctx, RegisterInput{Username: "x", Password: "pw", Role: "janitor"})
	assert.ErrorIs(t, err, models.ErrUnknownRole)

	_, err = c.Register(ctx, RegisterInput{Username: "y", Password: "pw", Role: "patient", Age: "old"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	c, _ := newTestCredentials()
	ctx := context.Background()

	registered, err := c.Register(ctx, RegisterInput{Username: "alice", Password: "pw1", Role: "patient"})
	require.NoError(t, err)

	user, err := c.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = c.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = c.Authenticate(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
