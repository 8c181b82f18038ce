package models

import "time"

// Patient is the clinical profile linked 1:1 to a user with the patient role.
type Patient struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Age     int    `json:"age,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Doctor is the practitioner profile linked 1:1 to a user with the doctor role.
type Doctor struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// AppointmentStatus is the lifecycle state of an appointment. Only
// AppointmentPending is written today.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "Pending"
	AppointmentConfirmed AppointmentStatus = "Confirmed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
)

// Appointment books a patient with a doctor. AppointmentTime is free text.
type Appointment struct {
	ID              int64             `json:"id"`
	PatientID       int64             `json:"patient_id"`
	DoctorID        int64             `json:"doctor_id"`
	AppointmentTime string            `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// PaymentStatus tracks whether a bill was settled.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

// Bill is a charge against a patient. Amount is kept as the decimal string
// stored by the database to avoid float rounding.
type Bill struct {
	ID            int64         `json:"id"`
	PatientID     int64         `json:"patient_id"`
	Amount        string        `json:"amount"`
	DateIssued    time.Time     `json:"date_issued"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// Census summarises row counts for the admin dashboard.
type Census struct {
	Users        int64 `json:"users"`
	Patients     int64 `json:"patients"`
	Doctors      int64 `json:"doctors"`
	Appointments int64 `json:"appointments"`
}
