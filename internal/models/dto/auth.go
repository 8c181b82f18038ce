package dto

import "github.com/hongminglow/hospital-be/internal/models"

// RegisterRequest is the registration form. Field order matches auth.RegisterInput.
type RegisterRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Name           string `json:"name"`
	Age            string `json:"age"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FormView describes a page that submits a form. Fields lists the accepted keys.
type FormView struct {
	Action string        `json:"action"`
	Fields []string      `json:"fields"`
	Roles  []models.Role `json:"roles,omitempty"`
}
