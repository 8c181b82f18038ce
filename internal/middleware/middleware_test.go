package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/hospital-be/internal/auth"
	"github.com/hongminglow/hospital-be/internal/metrics"
	"github.com/hongminglow/hospital-be/internal/models"
	"github.com/hongminglow/hospital-be/internal/session"
	"github.com/hongminglow/hospital-be/internal/storage"
	"github.com/hongminglow/hospital-be/internal/storage/memory"
)

func TestCORSAllowList(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := CORS([]string{"https://clinic.example"}, next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://CLINIC.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://CLINIC.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS([]string{"*"}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/appointments", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.False(t, called)
}

func TestLoggingAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var seen string
	h := Logging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"status":202`)
	assert.Contains(t, buf.String(), seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(zerolog.New(&buf), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

type gateFixture struct {
	gate     *Gate
	sessions *session.Manager
	store    *memory.Store
	metrics  *metrics.Metrics
}

func newGateFixture(t *testing.T) gateFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	tokens := auth.NewTokenManager("secret", "hospital-test", time.Hour)
	sessions := session.NewManager(session.NewRedisStore(rc), tokens, false)
	store := memory.NewStore()
	m := metrics.New(prometheus.NewRegistry())
	return gateFixture{
		gate:     NewGate(sessions, store, m, zerolog.Nop()),
		sessions: sessions,
		store:    store,
		metrics:  m,
	}
}

// serve runs req through Sessions and RequireLogin.
func (f gateFixture) serve(req *http.Request, next http.Handler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	Sessions(f.sessions, zerolog.Nop(), f.gate.RequireLogin(next)).ServeHTTP(rec, req)
	return rec
}

// loginCookie creates a logged-in session for userID and returns its cookie.
func (f gateFixture) loginCookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, f.sessions.Login(context.Background(), rec, &session.Session{}, models.User{ID: userID}))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	f := newGateFixture(t)
	called := false
	rec := f.serve(httptest.NewRequest(http.MethodGet, "/dashboard", nil), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookies[0])
	s, err := f.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{LoginRequiredMessage}, s.PopFlashes())
}

func TestRequireLoginResolvesUser(t *testing.T) {
	f := newGateFixture(t)
	user, err := f.store.CreateUser(context.Background(), storage.Registration{
		User: models.User{Username: "root", Role: models.RoleAdmin, PasswordHash: "x"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(f.loginCookie(t, user.ID))

	var got models.User
	rec := f.serve(req, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root", got.Username)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestRequireLoginDropsStaleUser(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	req.AddCookie(f.loginCookie(t, 404))

	rec := f.serve(req, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for a stale session")
	}))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}
