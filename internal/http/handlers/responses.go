package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/hospital-be/internal/http/respond"
	"github.com/hongminglow/hospital-be/internal/session"
)

// pages renders envelopes and flash redirects, persisting the session first
// so the cookie is written before the body.
type pages struct {
	sessions *session.Manager
	logger   zerolog.Logger
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	s := session.FromContext(r.Context())
	flashes := s.PopFlashes()
	p.save(w, r, s)
	respond.Page(w, status, message, data, flashes)
}

func (p pages) redirect(w http.ResponseWriter, r *http.Request, location, flash string) {
	s := session.FromContext(r.Context())
	if flash != "" {
		s.AddFlash(flash)
	}
	p.save(w, r, s)
	http.Redirect(w, r, location, http.StatusFound)
}

func (p pages) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	s := session.FromContext(r.Context())
	flashes := s.PopFlashes()
	p.save(w, r, s)
	respond.Page(w, status, message, nil, flashes)
}

func (p pages) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	p.logger.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	respond.Error(w, http.StatusInternalServerError, "internal server error")
}

func (p pages) save(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if !s.Dirty() {
		return
	}
	if err := p.sessions.Save(r.Context(), w, s); err != nil {
		p.logger.Error().Err(err).Msg("save session")
	}
}
