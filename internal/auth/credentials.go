package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/storage"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput reports a registration form that cannot be stored.
	ErrInvalidInput = errors.New("invalid registration input")
)

// RegisterInput is a registration form. Profile fields are optional and only
// used for the matching role.
type RegisterInput struct {
	Username       string
	Password       string
	Role           string
	Name           string
	Age            string
	Address        string
	Phone          string
	Specialization string
}

// Credentials registers users and verifies their passwords.
type Credentials struct {
	users storage.UserStore
	cost  int
}

// NewCredentials builds the credential service with bcrypt's default cost.
func NewCredentials(users storage.UserStore) *Credentials {
	return &Credentials{users: users, cost: bcrypt.DefaultCost}
}

// Register stores a new user with a bcrypt hash of the password. A taken
// username returns storage.ErrAlreadyExists and leaves the existing row alone.
func (c *Credentials) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if !utf8.ValidString(in.Password) {
		return models.User{}, fmt.Errorf("%w: password must be valid UTF-8", ErrInvalidInput)
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return models.User{}, err
	}

	hash, err := c.hashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, fmt.Errorf("%w: password is too long", ErrInvalidInput)
		}
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	reg := storage.Registration{
		User: models.User{Username: username, Role: role, PasswordHash: hash},
	}
	name := fallback(in.Name, username)
	switch role {
	case models.RolePatient:
		age, err := parseAge(in.Age)
		if err != nil {
			return models.User{}, err
		}
		reg.Patient = &models.Patient{
			Name:    name,
			Age:     age,
			Address: strings.TrimSpace(in.Address),
			Phone:   strings.TrimSpace(in.Phone),
		}
	case models.RoleDoctor:
		reg.Doctor = &models.Doctor{
			Name:           name,
			Specialization: strings.TrimSpace(in.Specialization),
			Phone:          strings.TrimSpace(in.Phone),
		}
	case models.RoleAdmin:
	}

	return c.users.CreateUser(ctx, reg)
}

// Authenticate returns the user when the password matches its stored hash.
func (c *Credentials) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := c.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (c *Credentials) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func parseAge(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	age, err := strconv.Atoi(raw)
	if err != nil || age < 0 {
		return 0, fmt.Errorf("%w: age must be a non-negative number", ErrInvalidInput)
	}
	return age, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
