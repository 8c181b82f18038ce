package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// dbtx is the subset of *pgxpool.Pool used by Store, narrowed so tests can
// substitute pgxmock.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store provides Postgres-backed persistence for users, profiles, appointments and bills.
type Store struct {
	db dbtx
}

// NewStore applies migrations and opens a connection pool.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: pool}, nil
}

func newStoreWithDB(db dbtx) *Store {
	return &Store{db: db}
}

// Close releases database resources.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// CreateUser inserts a user and its role profile in a single transaction.
func (s *Store) CreateUser(ctx context.Context, reg storage.Registration) (_ models.User, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("begin registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const insertUser = `
		INSERT INTO users (username, role, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, role, password_hash, created_at`
	created, err := scanUser(tx.QueryRow(ctx, insertUser, reg.User.Username, string(reg.User.Role), reg.User.PasswordHash))
	if err != nil {
		if isPgCode(err, uniqueViolation) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	if p := reg.Patient; p != nil {
		const insertPatient = `
			INSERT INTO patients (user_id, name, age, address, phone)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err = tx.Exec(ctx, insertPatient, created.ID, p.Name, p.Age, p.Address, p.Phone); err != nil {
			return models.User{}, fmt.Errorf("insert patient: %w", err)
		}
	}
	if d := reg.Doctor; d != nil {
		const insertDoctor = `
			INSERT INTO doctors (user_id, name, specialization, phone)
			VALUES ($1, $2, $3, $4)`
		if _, err = tx.Exec(ctx, insertDoctor, created.ID, d.Name, d.Specialization, d.Phone); err != nil {
			return models.User{}, fmt.Errorf("insert doctor: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return models.User{}, fmt.Errorf("commit registration: %w", err)
	}
	return created, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `
	SELECT id, username, role, password_hash, created_at
	FROM users
	WHERE username = $1`
	return scanUser(s.db.QueryRow(ctx, query, username))
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
	SELECT id, username, role, password_hash, created_at
	FROM users
	WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// PatientByUserID fetches the patient profile owned by a user.
func (s *Store) PatientByUserID(ctx context.Context, userID int64) (models.Patient, error) {
	const query = `
	SELECT id, user_id, name, age, address, phone
	FROM patients
	WHERE user_id = $1`
	var p models.Patient
	err := s.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Age, &p.Address, &p.Phone)
	if err != nil {
		return models.Patient{}, notFound(err)
	}
	return p, nil
}

// DoctorByUserID fetches the doctor profile owned by a user.
func (s *Store) DoctorByUserID(ctx context.Context, userID int64) (models.Doctor, error) {
	const query = `
	SELECT id, user_id, name, specialization, phone
	FROM doctors
	WHERE user_id = $1`
	var d models.Doctor
	err := s.db.QueryRow(ctx, query, userID).Scan(&d.ID, &d.UserID, &d.Name, &d.Specialization, &d.Phone)
	if err != nil {
		return models.Doctor{}, notFound(err)
	}
	return d, nil
}

// ListDoctors returns every doctor ordered by id.
func (s *Store) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	const query = `
	SELECT id, user_id, name, specialization, phone
	FROM doctors
	ORDER BY id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	doctors := []models.Doctor{}
	for rows.Next() {
		var d models.Doctor
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Specialization, &d.Phone); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

// Census counts the main tables for the admin dashboard.
func (s *Store) Census(ctx context.Context) (models.Census, error) {
	const query = `
	SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM patients),
		(SELECT COUNT(*) FROM doctors),
		(SELECT COUNT(*) FROM appointments)`
	var c models.Census
	if err := s.db.QueryRow(ctx, query).Scan(&c.Users, &c.Patients, &c.Doctors, &c.Appointments); err != nil {
		return models.Census{}, fmt.Errorf("census: %w", err)
	}
	return c, nil
}

// CreateAppointment inserts an appointment. A doctor or patient id that does
// not exist maps to storage.ErrNotFound.
func (s *Store) CreateAppointment(ctx context.Context, appt models.Appointment) (models.Appointment, error) {
	const query = `
	INSERT INTO appointments (patient_id, doctor_id, appointment_time, status)
	VALUES ($1, $2, $3, $4)
	RETURNING id, patient_id, doctor_id, appointment_time, status, created_at`
	row := s.db.QueryRow(ctx, query, appt.PatientID, appt.DoctorID, appt.AppointmentTime, string(appt.Status))
	created, err := scanAppointment(row)
	if err != nil {
		if isPgCode(err, foreignKeyViolation) {
			return models.Appointment{}, storage.ErrNotFound
		}
		return models.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return created, nil
}

// ListAppointmentsByPatient returns a patient's appointments ordered by id.
func (s *Store) ListAppointmentsByPatient(ctx context.Context, patientID int64) ([]models.Appointment, error) {
	const query = `
	SELECT id, patient_id, doctor_id, appointment_time, status, created_at
	FROM appointments
	WHERE patient_id = $1
	ORDER BY id`
	return s.listAppointments(ctx, query, patientID)
}

// ListAppointmentsByDoctor returns a doctor's appointments ordered by id.
func (s *Store) ListAppointmentsByDoctor(ctx context.Context, doctorID int64) ([]models.Appointment, error) {
	const query = `
	SELECT id, patient_id, doctor_id, appointment_time, status, created_at
	FROM appointments
	WHERE doctor_id = $1
	ORDER BY id`
	return s.listAppointments(ctx, query, doctorID)
}

func (s *Store) listAppointments(ctx context.Context, query string, id int64) ([]models.Appointment, error) {
	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	out := []models.Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, appt)
	}
	return out, rows.Err()
}

// ListBillsByPatient returns a patient's bills, newest first.
func (s *Store) ListBillsByPatient(ctx context.Context, patientID int64) ([]models.Bill, error) {
	const query = `
	SELECT id, patient_id, amount::text, date_issued, payment_status
	FROM bills
	WHERE patient_id = $1
	ORDER BY date_issued DESC, id DESC`
	rows, err := s.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		var (
			b      models.Bill
			status string
		)
		if err := rows.Scan(&b.ID, &b.PatientID, &b.Amount, &b.DateIssued, &status); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		b.PaymentStatus = models.PaymentStatus(status)
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user models.User
		role string
	)
	if err := row.Scan(&user.ID, &user.Username, &role, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.User{}, notFound(err)
	}
	user.Role = models.Role(role)
	return user, nil
}

func scanAppointment(row pgx.Row) (models.Appointment, error) {
	var (
		appt   models.Appointment
		status string
	)
	if err := row.Scan(&appt.ID, &appt.PatientID, &appt.DoctorID, &appt.AppointmentTime, &status, &appt.CreatedAt); err != nil {
		return models.Appointment{}, notFound(err)
	}
	appt.Status = models.AppointmentStatus(status)
	return appt, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
