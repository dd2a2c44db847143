// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily and practice puzzles.
//
//   - GET  /daily              → today's puzzle state
//   - POST /daily/guess        → submit a guess for today's puzzle
//   - GET  /daily/share        → emoji summary
//   - GET  /daily/leaderboard  → top results for today (or ?date=)
//   - GET  /practice           → current practice puzzle
//   - POST /practice/guess     → submit a practice guess
//   - POST /practice/new       → start a new practice puzzle
//   - GET  /practice/share     → emoji summary
//   - PATCH /daily/modes, /practice/modes → turn off hide-image / rotation
//
// The target country is recomputed from the seed on every request; only the
// guesses and the per-puzzle display modes are persisted. Finished daily puzzles are also recorded in
// daily_results for the leaderboard.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/worldle/apps/go-server/internal/countries"
	"github.com/robalobadob/worldle/apps/go-server/internal/daily"
	"github.com/robalobadob/worldle/apps/go-server/internal/game"
	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
	"github.com/robalobadob/worldle/apps/go-server/internal/history"
	"github.com/robalobadob/worldle/apps/go-server/internal/metrics"
	"github.com/robalobadob/worldle/apps/go-server/internal/settings"
	"github.com/robalobadob/worldle/apps/go-server/internal/share"
)

// mountPuzzles registers /daily and /practice routes.
func (s *Server) mountPuzzles(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleState(history.Daily))
		r.Post("/guess", s.handleGuess(history.Daily))
		r.Get("/share", s.handleShare(history.Daily))
		r.Patch("/modes", s.handleModes(history.Daily))
		r.Get("/leaderboard", s.handleLeaderboard)
	})
	r.Route("/practice", func(r chi.Router) {
		r.Get("/", s.handleState(history.Practice))
		r.Post("/guess", s.handleGuess(history.Practice))
		r.Post("/new", s.handleNewPractice)
		r.Get("/share", s.handleShare(history.Practice))
		r.Patch("/modes", s.handleModes(history.Practice))
	})
}

// seed returns the puzzle key for mode: today's (possibly shifted) day
// string, or the player's practice string.
func (s *Server) seed(ctx context.Context, player string, mode history.Mode, set settings.Data) (string, error) {
	if mode == history.Practice {
		return s.history.PracticeString(ctx, player)
	}
	return daily.DayString(s.now(), set.EffectiveShift(), s.cfg.Location()), nil
}

// puzzle is everything a handler needs about one player's puzzle.
type puzzle struct {
	state *game.DayState
	set   settings.Data
	modes history.Modes
}

// loadPuzzle rebuilds the puzzle state for the player.
// Callers must hold s.history.Lock(player): a first view stores the
// practice seed and the puzzle's modes.
func (s *Server) loadPuzzle(ctx context.Context, player string, mode history.Mode) (*puzzle, error) {
	set, err := s.settings.Load(ctx, player)
	if err != nil {
		return nil, err
	}
	seed, err := s.seed(ctx, player, mode, set)
	if err != nil {
		return nil, err
	}
	guesses, err := s.history.Load(ctx, player, mode, seed)
	if err != nil {
		return nil, err
	}
	modes, err := s.history.LoadModes(ctx, player, mode, seed, history.Modes{
		HideImage: set.NoImageMode,
		Rotation:  set.RotationMode,
	})
	if err != nil {
		return nil, err
	}
	return &puzzle{state: game.New(seed, set.CountryListOnly, guesses), set: set, modes: modes}, nil
}

// -----------------------------------------------------------------------------
// views

type guessView struct {
	game.Guess
	Proximity    int    `json:"proximity"`
	DistanceText string `json:"distanceText"`
	Arrow        string `json:"arrow"`
}

type countryView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type puzzleRes struct {
	Mode          history.Mode `json:"mode"`
	Seed          string       `json:"seed"`
	DayNumber     *int         `json:"dayNumber,omitempty"`
	State         string       `json:"state"` // playing | won | lost
	Guesses       []guessView  `json:"guesses"`
	Remaining     int          `json:"remaining"`
	MaxTries      int          `json:"maxTries"`
	ImageURL      string       `json:"imageUrl"`
	RotationAngle float64      `json:"rotationAngle"`
	ImageScale    float64      `json:"imageScale"`
	HideImageMode bool         `json:"hideImageMode"`
	RotationMode  bool         `json:"rotationMode"`
	Country       *countryView `json:"country,omitempty"` // revealed once ended
}

func viewGuess(g game.Guess, unit geo.Unit) guessView {
	return guessView{
		Guess:        g,
		Proximity:    geo.Proximity(g.Distance),
		DistanceText: geo.FormatDistance(g.Distance, unit),
		Arrow:        share.Arrow(g),
	}
}

func viewPuzzle(mode history.Mode, p *puzzle, locale string) puzzleRes {
	st := p.state
	angle := daily.RandomAngle(st.Key)
	res := puzzleRes{
		Mode:          mode,
		Seed:          st.Key,
		State:         st.State(),
		Guesses:       make([]guessView, 0, len(st.Guesses)),
		Remaining:     st.Remaining(),
		MaxTries:      game.MaxTryCount,
		ImageURL:      "images/countries/" + strings.ToLower(st.Country.Code) + "/vector.svg",
		RotationAngle: angle,
		ImageScale:    daily.ImageScale(angle),
		HideImageMode: p.modes.HideImage,
		RotationMode:  p.modes.Rotation,
	}
	if n, ok := daily.DayNumber(st.Key); ok && mode == history.Daily {
		res.DayNumber = &n
	}
	for _, g := range st.Guesses {
		res.Guesses = append(res.Guesses, viewGuess(g, p.set.DistanceUnit))
	}
	if st.Ended() {
		res.Country = &countryView{Code: st.Country.Code, Name: st.Country.Name(locale)}
	}
	return res
}

// -----------------------------------------------------------------------------
// GET /daily, GET /practice

func (s *Server) handleState(mode history.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := s.playerID(w, r)
		unlock := s.history.Lock(player)
		defer unlock()

		p, err := s.loadPuzzle(r.Context(), player, mode)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("mode", string(mode)).Msg("load puzzle")
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		writeJSON(w, http.StatusOK, viewPuzzle(mode, p, localeOf(r, "")))
	}
}

// -----------------------------------------------------------------------------
// POST /daily/guess, POST /practice/guess

// guessReq is the request payload for guesses.
type guessReq struct {
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// guessRes is the response payload for guesses.
type guessRes struct {
	Guess  guessView `json:"guess"`
	Puzzle puzzleRes `json:"puzzle"`
}

// handleGuess validates and applies a guess.
// - Unknown country names are rejected with 400 unknown_country.
// - Guesses on a finished puzzle are rejected with 409 game_ended.
// - The guess is appended to the stored history; finished daily puzzles are recorded.
func (s *Server) handleGuess(mode history.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guessReq
		if err := decodeJSON(w, r, &req); err != nil || req.Name == "" {
			writeError(w, http.StatusBadRequest, "bad_request")
			return
		}
		locale := localeOf(r, req.Locale)
		player := s.playerID(w, r)
		ctx := r.Context()
		logger := hlog.FromRequest(r).With().Str("player", player).Str("mode", string(mode)).Logger()

		unlock := s.history.Lock(player)
		defer unlock()

		p, err := s.loadPuzzle(ctx, player, mode)
		if err != nil {
			logger.Error().Err(err).Msg("load puzzle")
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		st := p.state

		g, err := st.Submit(locale, req.Name)
		switch {
		case errors.Is(err, countries.ErrUnknownCountry):
			metrics.GuessesTotal.WithLabelValues(string(mode), "unknown_country").Inc()
			writeError(w, http.StatusBadRequest, "unknown_country")
			return
		case errors.Is(err, game.ErrGameEnded):
			metrics.GuessesTotal.WithLabelValues(string(mode), "game_ended").Inc()
			writeError(w, http.StatusConflict, "game_ended")
			return
		case err != nil:
			logger.Error().Err(err).Msg("submit guess")
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}

		if err := s.history.Save(ctx, player, mode, st.Key, st.Guesses); err != nil {
			logger.Error().Err(err).Msg("save guesses")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}

		outcome := "miss"
		if g.Exact() {
			outcome = "exact"
		}
		metrics.GuessesTotal.WithLabelValues(string(mode), outcome).Inc()

		if st.Ended() {
			metrics.GamesFinishedTotal.WithLabelValues(string(mode), st.State()).Inc()
			logger.Info().Str("seed", st.Key).Str("state", st.State()).Int("guesses", len(st.Guesses)).Msg("puzzle finished")
			if mode == history.Daily {
				// best effort, the guesses are already saved
				if err := s.results.InsertResult(ctx, daily.Result{
					PlayerID:    player,
					Date:        st.Key,
					CountryCode: st.Country.Code,
					Guesses:     len(st.Guesses),
					Won:         st.Won(),
				}); err != nil {
					logger.Warn().Err(err).Msg("record daily result")
				}
			}
		}

		writeJSON(w, http.StatusOK, guessRes{
			Guess:  viewGuess(g, p.set.DistanceUnit),
			Puzzle: viewPuzzle(mode, p, locale),
		})
	}
}

// -----------------------------------------------------------------------------
// POST /practice/new

func (s *Server) handleNewPractice(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	unlock := s.history.Lock(player)
	defer unlock()

	if _, err := s.history.NewPracticeString(r.Context(), player); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("new practice string")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	metrics.PracticeGamesStartedTotal.Inc()

	p, err := s.loadPuzzle(r.Context(), player, history.Practice)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load practice puzzle")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, viewPuzzle(history.Practice, p, localeOf(r, "")))
}

// -----------------------------------------------------------------------------
// GET /daily/share, GET /practice/share

type shareRes struct {
	Text string `json:"text"`
}

// handleShare renders the share text once the puzzle is over. The mode
// markers reflect the puzzle's stored modes.
func (s *Server) handleShare(mode history.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := s.playerID(w, r)
		unlock := s.history.Lock(player)
		defer unlock()

		p, err := s.loadPuzzle(r.Context(), player, mode)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("load puzzle")
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		st := p.state
		if !st.Ended() {
			writeError(w, http.StatusConflict, "game_not_ended")
			return
		}
		writeJSON(w, http.StatusOK, shareRes{Text: share.Text(st.Key, st.Guesses, share.Options{
			Theme:         p.set.Theme,
			HideImageMode: p.modes.HideImage,
			RotationMode:  p.modes.Rotation,
			URL:           s.cfg.GameURL,
		})})
	}
}

// -----------------------------------------------------------------------------
// PATCH /daily/modes, PATCH /practice/modes

// modesReq turns modes off ("show country", "cancel rotation").
// A mode cannot be switched back on for a puzzle in progress.
type modesReq struct {
	HideImageMode *bool `json:"hideImageMode"`
	RotationMode  *bool `json:"rotationMode"`
}

func (s *Server) handleModes(mode history.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req modesReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request")
			return
		}
		if (req.HideImageMode != nil && *req.HideImageMode) || (req.RotationMode != nil && *req.RotationMode) {
			writeError(w, http.StatusBadRequest, "invalid_modes")
			return
		}
		player := s.playerID(w, r)
		unlock := s.history.Lock(player)
		defer unlock()

		p, err := s.loadPuzzle(r.Context(), player, mode)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("load puzzle")
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if req.HideImageMode != nil {
			p.modes.HideImage = false
		}
		if req.RotationMode != nil {
			p.modes.Rotation = false
		}
		if err := s.history.SaveModes(r.Context(), player, mode, p.state.Key, p.modes); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("save modes")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		writeJSON(w, http.StatusOK, viewPuzzle(mode, p, localeOf(r, "")))
	}
}

// -----------------------------------------------------------------------------
// GET /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DayString(s.now(), 0, s.cfg.Location())
	} else if _, ok := daily.ParseDayString(date); !ok {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := s.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
