package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/worldle/apps/go-server/internal/history"
	"github.com/robalobadob/worldle/apps/go-server/internal/settings"
	"github.com/robalobadob/worldle/apps/go-server/internal/stats"
)

// mountPlayer registers /settings and /stats.
func (s *Server) mountPlayer(r chi.Router) {
	r.Get("/settings", s.handleGetSettings)
	r.Patch("/settings", s.handlePatchSettings)
	r.Get("/stats", s.handleStats)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	d, err := s.settings.Load(r.Context(), s.playerID(w, r))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load settings")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handlePatchSettings applies a partial update, like updateSettings on the client.
func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var p settings.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	player := s.playerID(w, r)
	unlock := s.history.Lock(player)
	defer unlock()

	d, err := s.settings.Update(r.Context(), player, p)
	if errors.Is(err, settings.ErrInvalid) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_settings", "detail": err.Error()})
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("update settings")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleStats summarises the daily history.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	all, err := s.history.LoadAll(r.Context(), s.playerID(w, r), history.Daily)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load history")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(all))
}
