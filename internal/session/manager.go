package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/hospital-be/internal/auth"
	"github.com/hongminglow/hospital-be/internal/models"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "hms_session"

// AnonymousTTL caps the lifetime of records that only carry flashes for a
// visitor who is not logged in.
const AnonymousTTL = 5 * time.Minute

// Manager ties the signed cookie to the server-side record.
type Manager struct {
	store  Store
	tokens *auth.TokenManager
	secure bool
}

// NewManager builds a manager. secure marks the cookie Secure.
func NewManager(store Store, tokens *auth.TokenManager, secure bool) *Manager {
	return &Manager{store: store, tokens: tokens, secure: secure}
}

// Load returns the session referenced by the request cookie. A missing,
// forged or expired cookie yields a fresh anonymous session and no error;
// only store failures are reported.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}, nil
	}
	id, err := m.tokens.Parse(cookie.Value)
	if err != nil {
		return &Session{}, nil
	}
	data, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &Session{}, nil
		}
		return &Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return &Session{}, nil
	}
	s.ID = id
	return &s, nil
}

// Save persists s and (re)issues the cookie, assigning an id on first save.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	ttl := m.ttl(s)
	if err := m.store.Set(ctx, s.ID, data, ttl); err != nil {
		return err
	}
	token, err := m.tokens.Generate(s.ID)
	if err != nil {
		return fmt.Errorf("session: sign: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.dirty = false
	return nil
}

func (m *Manager) ttl(s *Session) time.Duration {
	full := m.tokens.TTL()
	if s.Authenticated() || full < AnonymousTTL {
		return full
	}
	return AnonymousTTL
}

// Login binds user to the session under a new id. Pending flashes are kept.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, s *Session, user models.User) error {
	if s.ID != "" {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return err
		}
	}
	s.ID = ""
	s.UserID = user.ID
	return m.Save(ctx, w, s)
}

// Logout destroys the session record and returns a fresh anonymous session
// for the caller to attach flashes to.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, s *Session) (*Session, error) {
	if s.ID != "" {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.ID = ""
	s.UserID = 0
	s.Flashes = nil
	s.dirty = false
	return &Session{}, nil
}
