package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/hospital-be/internal/http/respond"
	"github.com/hongminglow/hospital-be/internal/metrics"
	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/session"
	"github.com/hongminglow/hospital-be/internal/storage"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// LoginRequiredMessage is flashed when a protected page is requested without a session.
const LoginRequiredMessage = "Please log in to access this page."

type userKey struct{}

// CurrentUser returns the user resolved by RequireLogin.
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// Sessions loads the request's session into the context. A session store
// outage degrades to an anonymous session.
func Sessions(mgr *session.Manager, logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Load(r.Context(), r)
		if err != nil {
			logger.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("load session")
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

// Gate enforces that a protected page has a logged-in user.
type Gate struct {
	sessions *session.Manager
	users    storage.UserStore
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewGate builds the login gate for protected routes.
func NewGate(sessions *session.Manager, users storage.UserStore, m *metrics.Metrics, logger zerolog.Logger) *Gate {
	return &Gate{sessions: sessions, users: users, metrics: m, logger: logger}
}

// RequireLogin redirects anonymous requests to the login page with a flash,
// otherwise resolves the session's user into the context.
func (g *Gate) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := session.FromContext(ctx)
		if !s.Authenticated() {
			g.redirectToLogin(w, r, s)
			return
		}

		user, err := g.users.FindByID(ctx, s.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			fresh, err := g.sessions.Logout(ctx, w, s)
			if err != nil {
				g.logger.Error().Err(err).Msg("drop stale session")
				respond.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}
			g.redirectToLogin(w, r, fresh)
			return
		}
		if err != nil {
			g.logger.Error().Err(err).Int64("user_id", s.UserID).Msg("resolve session user")
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
	})
}

func (g *Gate) redirectToLogin(w http.ResponseWriter, r *http.Request, s *session.Session) {
	g.metrics.ObserveLoginRedirect(r.URL.Path)
	s.AddFlash(LoginRequiredMessage)
	if err := g.sessions.Save(r.Context(), w, s); err != nil {
		g.logger.Error().Err(err).Msg("save session")
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}
