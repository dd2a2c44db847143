package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/worldle/apps/go-server/internal/account"
	"github.com/robalobadob/worldle/apps/go-server/internal/metrics"
)

// credentialsReq is the payload for signup/login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers /auth/*.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
}

// handleSignup creates a user, sets the auth cookie, and claims anonymous history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.accounts.Signup(r.Context(), body.Username, body.Password)
	if errors.Is(err, account.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "username_taken")
		return
	}
	if errors.Is(err, account.ErrInvalidSignup) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_signup", "detail": err.Error()})
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("signup")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	metrics.SignupsTotal.Inc()
	s.signIn(w, r, u)
}

// handleLogin authenticates, sets the cookie, and claims anonymous history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.accounts.Login(r.Context(), body.Username, body.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("login")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	s.signIn(w, r, u)
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	c := s.cookie(s.cfg.CookieName, "", time.Time{})
	c.MaxAge = -1
	http.SetCookie(w, c)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type authRes struct {
	User  *account.User `json:"user"`
	Token string        `json:"token"`
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *account.User) {
	tok, exp, err := s.accounts.Sign(u)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	http.SetCookie(w, s.cookie(s.cfg.CookieName, tok, exp))

	// Attach anonymous progress to the account
	if anon, ok := anonID(r); ok {
		unlock := s.history.Lock(u.ID)
		err := s.history.Claim(r.Context(), anon, u.ID)
		unlock()
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", u.ID).Msg("claim anonymous history")
		}
		if err := s.results.ClaimResults(r.Context(), anon, u.ID); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", u.ID).Msg("claim anonymous results")
		}
	}
	writeJSON(w, http.StatusOK, authRes{User: u, Token: tok})
}
