// Package session keeps server-side login state and one-shot flash messages.
package session

import "context"

// Session is the server-side record behind the session cookie. A zero UserID
// means the client is anonymous.
type Session struct {
	ID      string   `json:"-"`
	UserID  int64    `json:"user_id,omitempty"`
	Flashes []string `json:"flashes,omitempty"`

	dirty bool
}

// Authenticated reports whether a user is bound to the session.
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// AddFlash queues a message for the next rendered response.
func (s *Session) AddFlash(msg string) {
	s.Flashes = append(s.Flashes, msg)
	s.dirty = true
}

// PopFlashes returns and clears queued messages.
func (s *Session) PopFlashes() []string {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return out
}

// Dirty reports whether the session changed since it was loaded or saved.
func (s *Session) Dirty() bool {
	return s.dirty
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or a fresh anonymous one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
