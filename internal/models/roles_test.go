package models

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"Doctor", RoleDoctor, false},
		{"  patient ", RolePatient, false},
		{"nurse", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownRole) {
				t.Fatalf("ParseRole(%q) err = %v, want ErrUnknownRole", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRolesAreValid(t *testing.T) {
	for _, r := range Roles() {
		if !r.Valid() {
			t.Fatalf("role %q should be valid", r)
		}
	}
	if Role("superuser").Valid() {
		t.Fatal("unexpected valid role")
	}
}
