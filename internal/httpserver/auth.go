// internal/httpserver/auth.go
//
// Session binding: the signed token issued by POST /game/new travels back
// as a cookie or an Authorization bearer header. requireSession verifies it
// and puts the game ID into the request context.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ctxGameKey is the context key type for the caller's game ID.
type ctxGameKey struct{}

// requireSession enforces a valid session token.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r, s.opts.CookieName)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "no_session")
			return
		}
		id, err := s.opts.Sessions.Parse(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_session")
			return
		}
		ctx := context.WithValue(r.Context(), ctxGameKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// gameID returns the game ID placed by requireSession.
func gameID(r *http.Request) string {
	id, _ := r.Context().Value(ctxGameKey{}).(string)
	return id
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the session cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) sameSite() http.SameSite {
	if s.opts.Secure {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// setSessionCookie writes the session token cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// clearSessionCookie deletes the session token cookie.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}
