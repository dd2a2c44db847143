// internal/httpserver/server.go
//
// HTTP server wiring for the Worldle backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery, timeouts,
//     JSON content type, CORS).
//   - Public endpoints: "/", "/health", "/metrics", "/countries".
//   - Puzzle endpoints (optional auth): mounted under /daily and /practice.
//   - Player endpoints: /settings, /stats.
//   - Accounts: /auth/*.
//
// Notes:
//   - Every request is attributed to a player: the signed-in account when a
//     valid token is present, otherwise an anonymous cookie id.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/apps/go-server/internal/account"
	"github.com/robalobadob/worldle/apps/go-server/internal/config"
	"github.com/robalobadob/worldle/apps/go-server/internal/countries"
	"github.com/robalobadob/worldle/apps/go-server/internal/daily"
	"github.com/robalobadob/worldle/apps/go-server/internal/history"
	"github.com/robalobadob/worldle/apps/go-server/internal/settings"
	"github.com/robalobadob/worldle/apps/go-server/internal/store"
)

const (
	anonCookieName = "worldle_anon"

	// anonPrefix keeps anonymous player ids apart from account ids.
	anonPrefix = "anon:"

	// maxBodyBytes bounds JSON request bodies.
	maxBodyBytes = 1 << 14
)

// Server bundles the router and the services behind it.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	history  *history.History
	settings *settings.Service
	accounts *account.Service
	results  *daily.Store
	now      func() time.Time
}

// Option customises a Server.
type Option func(*Server)

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New constructs a Server, installs middleware, and registers routes.
// db backs accounts and daily results; st holds player data.
func New(cfg *config.Config, st store.Store, db *sql.DB, opts ...Option) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		history:  history.New(st),
		settings: settings.NewService(st),
		accounts: account.NewService(db, cfg.JWTSecret, cfg.TokenTTL()),
		results:  daily.NewStore(db),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "worldle-go",
			"endpoints": []string{"/health", "/countries", "/daily", "/practice", "/settings", "/stats", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Get("/countries", s.handleCountries)

	// Puzzles and player data - OPTIONAL AUTH (guests play with a cookie id)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		s.mountPuzzles(r)
		s.mountPlayer(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Handler exposes the router (http.Server, tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- identity ----------------------------------

// ctxUserKey is the context key type for storing *account.User.
type ctxUserKey struct{}

// withOptionalAuth decorates requests with the account if a valid token is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := s.userFromToken(r); u != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := s.userFromToken(r)
		if u == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
	})
}

func (s *Server) userFromToken(r *http.Request) *account.User {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil
	}
	claims, err := s.accounts.Verify(tok)
	if err != nil {
		return nil
	}
	// Ensure user still exists
	u, err := s.accounts.FindByID(r.Context(), claims.Subject)
	if err != nil {
		return nil
	}
	return u
}

func currentUser(r *http.Request) *account.User {
	u, _ := r.Context().Value(ctxUserKey{}).(*account.User)
	return u
}

// playerID returns the account id when signed in, otherwise the anonymous id.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if u := currentUser(r); u != nil {
		return u.ID
	}
	return s.ensureAnonID(w, r)
}

// anonID returns the anonymous id carried by the request. Only ids of the
// form "anon:<uuid>" are accepted, so a cookie can never name an account.
func anonID(r *http.Request) (string, bool) {
	c, err := r.Cookie(anonCookieName)
	if err != nil {
		return "", false
	}
	rest, ok := strings.CutPrefix(c.Value, anonPrefix)
	if !ok {
		return "", false
	}
	if u, err := uuid.Parse(rest); err != nil || u.String() != rest {
		return "", false
	}
	return c.Value, true
}

// ensureAnonID returns the request's anonymous id or issues a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := anonID(r); ok {
		return id
	}
	id := anonPrefix + uuid.NewString()
	http.SetCookie(w, s.cookie(anonCookieName, id, time.Now().Add(365*24*time.Hour)))
	return id
}

// cookie builds an HttpOnly cookie with the environment's security attributes.
func (s *Server) cookie(name, value string, exp time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production() {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		SameSite: sameSite,
		Expires:  exp,
	}
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------ countries -----------------------------------

type countriesRes struct {
	Locale string   `json:"locale"`
	Names  []string `json:"names"`
}

// handleCountries lists localized names for the guess autocomplete.
func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	locale := localeOf(r, "")
	writeJSON(w, http.StatusOK, countriesRes{Locale: locale, Names: countries.Names(locale)})
}

// ------------------------------- small util --------------------------------

// localeOf picks the locale from an explicit value, ?locale=, or the default.
func localeOf(r *http.Request, explicit string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	if q := r.URL.Query().Get("locale"); q != "" {
		return strings.ToLower(q)
	}
	return countries.DefaultLocale
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
