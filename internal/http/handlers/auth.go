package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/hospital-be/internal/auth"
	"github.com/hongminglow/hospital-be/internal/metrics"
	"github.com/hongminglow/hospital-be/internal/middleware"
	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/models/dto"
	"github.com/hongminglow/hospital-be/internal/session"
	"github.com/hongminglow/hospital-be/internal/storage"
)

const (
	msgRegistered          = "Registration successful. Please log in."
	msgUsernameTaken       = "Username already exists."
	msgUnknownRole         = "Please choose a valid role."
	msgInvalidRegistration = "Registration details are invalid. Please check the form."
	msgInvalidCredentials  = "Invalid credentials"
	msgLoggedIn            = "Logged in successfully."
	msgLoggedOut           = "You have been logged out."
)

// AuthHandler owns the register/login/logout pages.
type AuthHandler struct {
	pages
	creds   *auth.Credentials
	metrics *metrics.Metrics
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(creds *auth.Credentials, sessions *session.Manager, m *metrics.Metrics, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		pages:   pages{sessions: sessions, logger: logger},
		creds:   creds,
		metrics: m,
	}
}

// Register attaches auth routes to the mux. Logout is wrapped by requireLogin.
func (h *AuthHandler) Register(mux *http.ServeMux, requireLogin func(http.Handler) http.Handler) {
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.Handle("/logout", requireLogin(http.HandlerFunc(h.handleLogout)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, http.StatusOK, "register", dto.FormView{
			Action: "/register",
			Fields: []string{"username", "password", "role", "name", "age", "address", "phone", "specialization"},
			Roles:  models.Roles(),
		})
	case http.MethodPost:
		h.register(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireFields(form, "username", "password", "role"); err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req := dto.RegisterRequest{
		Username:       form.Get("username"),
		Password:       form.Get("password"),
		Role:           form.Get("role"),
		Name:           form.Get("name"),
		Age:            form.Get("age"),
		Address:        form.Get("address"),
		Phone:          form.Get("phone"),
		Specialization: form.Get("specialization"),
	}

	// Unparsed roles fall back to the zero Role, which metrics labels "unknown".
	role, _ := models.ParseRole(req.Role)

	_, err = h.creds.Register(r.Context(), auth.RegisterInput(req))
	switch {
	case err == nil:
		h.metrics.ObserveRegistration(role, "ok")
		h.redirect(w, r, "/login", msgRegistered)
	case errors.Is(err, storage.ErrAlreadyExists):
		h.metrics.ObserveRegistration(role, "duplicate")
		h.redirect(w, r, "/register", msgUsernameTaken)
	case errors.Is(err, models.ErrUnknownRole):
		h.metrics.ObserveRegistration(role, "invalid")
		h.redirect(w, r, "/register", msgUnknownRole)
	case errors.Is(err, auth.ErrInvalidInput):
		h.logger.Info().Err(err).Str("request_id", middleware.RequestID(r.Context())).Msg("registration rejected")
		h.metrics.ObserveRegistration(role, "invalid")
		h.redirect(w, r, "/register", msgInvalidRegistration)
	default:
		h.metrics.ObserveRegistration(role, "error")
		h.internalError(w, r, err, "create user")
	}
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, http.StatusOK, "login", dto.FormView{
			Action: "/login",
			Fields: []string{"username", "password"},
		})
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireFields(form, "username", "password"); err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req := dto.LoginRequest{Username: form.Get("username"), Password: form.Get("password")}

	user, err := h.creds.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.metrics.ObserveLogin("invalid")
			h.redirect(w, r, "/login", msgInvalidCredentials)
			return
		}
		h.metrics.ObserveLogin("error")
		h.internalError(w, r, err, "authenticate")
		return
	}

	s := session.FromContext(r.Context())
	s.AddFlash(msgLoggedIn)
	if err := h.sessions.Login(r.Context(), w, s, user); err != nil {
		h.metrics.ObserveLogin("error")
		h.internalError(w, r, err, "establish session")
		return
	}
	h.metrics.ObserveLogin("ok")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fresh, err := h.sessions.Logout(r.Context(), w, session.FromContext(r.Context()))
	if err != nil {
		h.internalError(w, r, err, "destroy session")
		return
	}
	fresh.AddFlash(msgLoggedOut)
	h.save(w, r, fresh)
	http.Redirect(w, r, "/login", http.StatusFound)
}
