// internal/httpserver/server.go
//
// HTTP server wiring for the Yahtzee backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery, timeouts,
//     JSON content type, CORS).
//   - Public endpoints: "/", "/health", POST /game/new.
//   - Session-bound game endpoints under /game (see routes_game.go).
//   - Mapping domain errors to JSON error bodies.
//
// Notes:
//   - Illegal moves are not HTTP errors: they return 200 with accepted=false.
//   - CORS is origin-aware and credentials-enabled so the session cookie works
//     from the browser front end.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/yahtzee/internal/dice"
	"github.com/robalobadob/yahtzee/internal/scorecard"
	"github.com/robalobadob/yahtzee/internal/session"
	"github.com/robalobadob/yahtzee/internal/store"
)

// Options carries the server's dependencies and settings.
type Options struct {
	Store          store.Store
	Sessions       *session.Manager
	Logger         zerolog.Logger
	CookieName     string
	ClientOrigin   string
	Secure         bool          // Secure + SameSite=None cookies
	RequestTimeout time.Duration // 0 disables the handler timeout
	DailySalt      string
	Now            func() time.Time // defaults to time.Now
}

// Server bundles the router and the session store.
type Server struct {
	r    *chi.Mux
	opts Options
	http *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CookieName == "" {
		opts.CookieName = "yahtzee_session"
	}
	s := &Server{r: chi.NewRouter(), opts: opts}
	s.http = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(opts.Logger))  // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	if opts.RequestTimeout > 0 {
		s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	}
	s.r.Use(jsonContentType)         // default JSON responses
	s.r.Use(cors(opts.ClientOrigin)) // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "yahtzee-go",
			"endpoints": []string{
				"/health", "POST /game/new", "GET /game", "POST /game/roll",
				"POST /game/hold/{index}", "POST /game/reset-turn", "GET /game/eligible",
				"POST /game/score", "POST /game/scratch-mode", "POST /game/scratch",
				"GET /game/totals", "POST /game/restart", "DELETE /game",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": opts.Store.Len()})
	})

	s.mountGame()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start(addr string) error {
	s.http.Addr = addr
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// accessLog writes a structured line for every request.
func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps an error from the store or the game to a status code.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, scorecard.ErrUnknownCategory),
		errors.Is(err, scorecard.ErrInvalidDice),
		errors.Is(err, dice.ErrDieIndex):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
