package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned for role values outside the closed set below.
var ErrUnknownRole = errors.New("unknown role")

// Role decides which dashboard and records a user can reach.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RolePatient}
}

// ParseRole converts user input into a Role, rejecting anything unrecognised.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, value)
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	default:
		return false
	}
}

// String returns the stored form of the role.
func (r Role) String() string {
	return string(r)
}
