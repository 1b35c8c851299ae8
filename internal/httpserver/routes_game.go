// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST   /game/new           → start a session (normal or daily dice), set cookie
//   - GET    /game               → state snapshot
//   - POST   /game/roll          → roll unheld dice
//   - POST   /game/hold/{index}  → toggle hold on die 0..4
//   - POST   /game/reset-turn    → clear holds and the roll counter
//   - GET    /game/eligible      → categories the current dice may be scored in
//   - POST   /game/score         → {"category": "..."} submit a score
//   - POST   /game/scratch-mode  → {"on": bool} arm/disarm scratching
//   - POST   /game/scratch       → {"category": "..."} scratch a category
//   - GET    /game/totals        → upper/lower/grand totals
//   - POST   /game/restart       → new game in the same session
//   - DELETE /game               → end the session
//
// Every route except /game/new requires the session token.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/yahtzee/internal/daily"
	"github.com/robalobadob/yahtzee/internal/dice"
	"github.com/robalobadob/yahtzee/internal/game"
	"github.com/robalobadob/yahtzee/internal/scorecard"
)

// mountGame registers all /game routes.
func (s *Server) mountGame() {
	s.r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleState)
			r.Delete("/", s.handleEnd)
			r.Post("/roll", s.handleRoll)
			r.Post("/hold/{index}", s.handleHold)
			r.Post("/reset-turn", s.handleResetTurn)
			r.Get("/eligible", s.handleEligible)
			r.Post("/score", s.handleScore)
			r.Post("/scratch-mode", s.handleScratchMode)
			r.Post("/scratch", s.handleScratch)
			r.Get("/totals", s.handleTotals)
			r.Post("/restart", s.handleRestart)
		})
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode game.Mode `json:"mode"` // "normal" (default) | "daily"
}
type newGameRes struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	State     game.State `json:"state"`
}

// moveRes is returned by every move. Accepted=false means the move was not
// legal right now and nothing changed.
type moveRes struct {
	Accepted bool       `json:"accepted"`
	Value    *int       `json:"value,omitempty"` // points recorded by /game/score
	State    game.State `json:"state"`
}

// categoryReq is the body of /game/score and /game/scratch.
type categoryReq struct {
	Category *scorecard.Category `json:"category"`
}

// scratchModeReq is the body of /game/scratch-mode.
type scratchModeReq struct {
	On *bool `json:"on"`
}

// sourceFor returns the dice source factory for a mode.
func (s *Server) sourceFor(mode game.Mode) game.SourceFunc {
	if mode == game.ModeDaily {
		return func() dice.Source {
			return dice.NewSeededSource(daily.Seed(s.opts.Now(), s.opts.DailySalt))
		}
	}
	return dice.NewRandomSource
}

// handleNewGame creates a session, stores it, and binds it to the caller via
// a signed token (cookie + response body). A session the caller already
// holds is discarded: one game per browser session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body means a normal game
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Mode == "" {
		req.Mode = game.ModeNormal
	}
	if req.Mode != game.ModeNormal && req.Mode != game.ModeDaily {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	if old := bearerOrCookie(r, s.opts.CookieName); old != "" {
		if id, err := s.opts.Sessions.Parse(old); err == nil {
			_ = s.opts.Store.Delete(r.Context(), id)
		}
	}

	g := game.New(req.Mode, s.sourceFor(req.Mode))
	if err := s.opts.Store.Save(r.Context(), g); err != nil {
		fail(w, r, err)
		return
	}
	tok, exp, err := s.opts.Sessions.Issue(g.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	s.setSessionCookie(w, tok, exp)

	hlog.FromRequest(r).Info().Str("gameId", g.ID).Str("mode", string(g.Mode)).Msg("new game")
	writeJSON(w, http.StatusCreated, newGameRes{Token: tok, ExpiresAt: exp, State: g.State()})
}

// withGame runs fn on the caller's session and writes its result as JSON.
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(g *game.Session) (any, error)) {
	var out any
	err := s.opts.Store.Update(r.Context(), gameID(r), func(g *game.Session) error {
		var err error
		out, err = fn(g)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game.Session) (any, error) {
		return g.State(), nil
	})
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game.Session) (any, error) {
		ok := g.Roll()
		hlog.FromRequest(r).Debug().Str("gameId", g.ID).Bool("accepted", ok).
			Ints("dice", valuesOf(g)).Msg("roll")
		return moveRes{Accepted: ok, State: g.State()}, nil
	})
}

func (s *Server) handleHold(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "die index must be an integer")
		return
	}
	s.withGame(w, r, func(g *game.Session) (any, error) {
		ok, err := g.ToggleHold(idx)
		if err != nil {
			return nil, err
		}
		return moveRes{Accepted: ok, State: g.State()}, nil
	})
}

func (s *Server) handleResetTurn(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game.Session) (any, error) {
		g.ResetTurn()
		return moveRes{Accepted: true, State: g.State()}, nil
	})
}

func (s *Server) handleEligible(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game.Session) (any, error) {
		cats := g.EligibleCategories()
		if cats == nil {
			cats = []scorecard.Category{}
		}
		return map[string]any{"dice": valuesOf(g), "categories": cats}, nil
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCategory(w, r)
	if !ok {
		return
	}
	s.withGame(w, r, func(g *game.Session) (any, error) {
		res, err := g.SubmitScore(c)
		if err != nil {
			return nil, err
		}
		ev := hlog.FromRequest(r).Info().Str("gameId", g.ID).Stringer("category", c).Bool("accepted", res.Accepted)
		if res.Accepted {
			ev = ev.Int("value", res.Value)
		}
		ev.Msg("score")
		s.logFinished(r, g)

		out := moveRes{Accepted: res.Accepted, State: g.State()}
		if res.Accepted {
			v := res.Value
			out.Value = &v
		}
		return out, nil
	})
}

func (s *Server) handleScratchMode(w http.ResponseWriter, r *http.Request) {
	var req scratchModeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.On == nil {
		writeError(w, http.StatusBadRequest, `body must be {"on": bool}`)
		return
	}
	s.withGame(w, r, func(g *game.Session) (any, error) {
		g.SetScratchMode(*req.On)
		return moveRes{Accepted: true, State: g.State()}, nil
	})
}

func (s *Server) handleScratch(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCategory(w, r)
	if !ok {
		return
	}
	s.withGame(w, r, func(g *game.Session) (any, error) {
		ok, err := g.Scratch(c)
		if err != nil {
			return nil, err
		}
		hlog.FromRequest(r).Info().Str("gameId", g.ID).Stringer("category", c).Bool("accepted", ok).Msg("scratch")
		s.logFinished(r, g)
		return moveRes{Accepted: ok, State: g.State()}, nil
	})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game.Session) (any, error) {
		return g.Totals(), nil
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game.Session) (any, error) {
		g.NewGame()
		hlog.FromRequest(r).Info().Str("gameId", g.ID).Msg("restart")
		return moveRes{Accepted: true, State: g.State()}, nil
	})
}

// handleEnd drops the session and clears the cookie.
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Store.Delete(r.Context(), gameID(r)); err != nil {
		fail(w, r, err)
		return
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// decodeCategory reads {"category": "..."}; on failure it writes a 400.
func decodeCategory(w http.ResponseWriter, r *http.Request) (scorecard.Category, bool) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, scorecard.ErrUnknownCategory) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, "bad_json")
		}
		return 0, false
	}
	if req.Category == nil {
		writeError(w, http.StatusBadRequest, "category is required")
		return 0, false
	}
	return *req.Category, true
}

func (s *Server) logFinished(r *http.Request, g *game.Session) {
	if !g.Finished() {
		return
	}
	ev := hlog.FromRequest(r).Info().Str("gameId", g.ID)
	if tot := g.Totals(); tot.Grand != nil {
		ev = ev.Int("grand", *tot.Grand)
	}
	ev.Msg("game over")
}

func valuesOf(g *game.Session) []int {
	v := g.CurrentDiceValues()
	return v[:]
}
