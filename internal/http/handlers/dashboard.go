package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/hospital-be/internal/dashboard"
	"github.com/hongminglow/hospital-be/internal/middleware"
	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/session"
)

// DashboardHandler renders the role-keyed dashboard.
type DashboardHandler struct {
	pages
	router *dashboard.Router
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(router *dashboard.Router, sessions *session.Manager, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{pages: pages{sessions: sessions, logger: logger}, router: router}
}

// Register attaches /dashboard behind requireLogin.
func (h *DashboardHandler) Register(mux *http.ServeMux, requireLogin func(http.Handler) http.Handler) {
	mux.Handle("/dashboard", requireLogin(http.HandlerFunc(h.handle)))
}

func (h *DashboardHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user, _ := middleware.CurrentUser(r.Context())

	view, err := h.router.For(r.Context(), user)
	if err != nil {
		if errors.Is(err, models.ErrUnknownRole) {
			h.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("dashboard for unknown role")
			h.fail(w, r, http.StatusForbidden, "unknown role")
			return
		}
		h.internalError(w, r, err, "build dashboard")
		return
	}
	h.render(w, r, http.StatusOK, view.Title, view)
}
