package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hongminglow/hospital-be/internal/models"
)

// unknownRole labels registrations whose role did not parse.
const unknownRole = "unknown"

// Metrics exposes counters for the auth and booking flows.
type Metrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	bookings      *prometheus.CounterVec
	redirects     *prometheus.CounterVec
}

// New registers the counters on reg, or on the default registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Registration attempts by parsed role and outcome",
		}, []string{"role", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		}, []string{"result"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Appointment booking attempts by outcome",
		}, []string{"result"}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "http",
			Name:      "login_redirects_total",
			Help:      "Protected requests redirected to the login page",
		}, []string{"path"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.registrations, m.logins, m.bookings, m.redirects)
	return m
}

// ObserveRegistration counts a registration attempt. Roles outside the known
// set share the "unknown" label so client input cannot add series.
func (m *Metrics) ObserveRegistration(role models.Role, result string) {
	if m == nil {
		return
	}
	label := unknownRole
	if role.Valid() {
		label = role.String()
	}
	m.registrations.WithLabelValues(label, result).Inc()
}

// ObserveLogin counts a login attempt by outcome.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// ObserveBooking counts a booking attempt by outcome.
func (m *Metrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(result).Inc()
}

// ObserveLoginRedirect counts a protected route that bounced to the login page.
func (m *Metrics) ObserveLoginRedirect(path string) {
	if m == nil {
		return
	}
	m.redirects.WithLabelValues(path).Inc()
}
