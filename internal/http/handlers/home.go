package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/hospital-be/internal/session"
)

const welcomeMessage = "Welcome to the Hospital Management System"

// HomeHandler serves the public landing page.
type HomeHandler struct {
	pages
}

// NewHomeHandler constructs the handler.
func NewHomeHandler(sessions *session.Manager, logger zerolog.Logger) *HomeHandler {
	return &HomeHandler{pages: pages{sessions: sessions, logger: logger}}
}

// Register attaches the landing page at "/".
func (h *HomeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handle)
}

func (h *HomeHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.render(w, r, http.StatusOK, welcomeMessage, nil)
}
