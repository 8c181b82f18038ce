package dto

import "github.com/hongminglow/hospital-be/internal/models"

// BookAppointmentRequest is the booking form as submitted.
type BookAppointmentRequest struct {
	DoctorID        string `json:"doctor_id"`
	AppointmentTime string `json:"appointment_time"`
}

// AppointmentsView is the payload of the appointment list pages.
type AppointmentsView struct {
	Role         models.Role          `json:"role"`
	Appointments []models.Appointment `json:"appointments"`
}

// DoctorsView is the payload of the doctor directory.
type DoctorsView struct {
	Doctors []models.Doctor `json:"doctors"`
}
