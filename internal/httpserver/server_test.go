package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/yahtzee/internal/game"
	"github.com/robalobadob/yahtzee/internal/scorecard"
	"github.com/robalobadob/yahtzee/internal/session"
	"github.com/robalobadob/yahtzee/internal/store"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sessions, err := session.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	return New(Options{
		Store:        store.NewMemoryStore(),
		Sessions:     sessions,
		Logger:       zerolog.Nop(),
		ClientOrigin: "http://localhost:5173",
		DailySalt:    "salt",
		Now:          func() time.Time { return testNow },
	})
}

func do(t *testing.T, s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func startGame(t *testing.T, s *Server, body string) newGameRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/game/new", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[newGameRes](t, rec)
}

func TestNewGame_IssuesTokenAndCookie(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/game/new", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	res := decode[newGameRes](t, rec)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, game.ModeNormal, res.State.Mode)
	assert.Equal(t, 3, res.State.RollsLeft)
	assert.Len(t, res.State.Slots, 13)
	assert.Empty(t, res.State.Eligible)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "yahtzee_session", cookies[0].Name)
	assert.Equal(t, res.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestNewGame_RejectsUnknownMode(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/game/new", "", `{"mode":"blitz"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameRoutes_RequireSession(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/game", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_session")

	rec = do(t, s, http.MethodPost, "/game/roll", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_session")
}

func TestSessionCookie_IsAccepted(t *testing.T) {
	s := newTestServer(t)
	res := startGame(t, s, "")

	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.AddCookie(&http.Cookie{Name: "yahtzee_session", Value: res.Token})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, res.State.ID, decode[game.State](t, rec).ID)
}

func TestRoll_LimitedPerTurn(t *testing.T) {
	s := newTestServer(t)
	tok := startGame(t, s, "").Token

	for i := 1; i <= 3; i++ {
		rec := do(t, s, http.MethodPost, "/game/roll", tok, "")
		require.Equal(t, http.StatusOK, rec.Code)
		res := decode[moveRes](t, rec)
		assert.True(t, res.Accepted)
		assert.Equal(t, i, res.State.RollsTaken)
		for _, d := range res.State.Dice {
			assert.True(t, d.Value >= 1 && d.Value <= 6)
		}
	}

	res := decode[moveRes](t, do(t, s, http.MethodPost, "/game/roll", tok, ""))
	assert.False(t, res.Accepted)
	assert.Equal(t, 0, res.State.RollsLeft)
}

func TestHold(t *testing.T) {
	s := newTestServer(t)
	tok := startGame(t, s, "").Token

	res := decode[moveRes](t, do(t, s, http.MethodPost, "/game/hold/0", tok, ""))
	assert.False(t, res.Accepted, "no holds before the first roll")

	do(t, s, http.MethodPost, "/game/roll", tok, "")
	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/hold/2", tok, ""))
	assert.True(t, res.Accepted)
	assert.True(t, res.State.Dice[2].Held)

	held := res.State.Dice[2].Value
	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/roll", tok, ""))
	assert.Equal(t, held, res.State.Dice[2].Value)

	before := res.State.Dice
	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/reset-turn", tok, ""))
	assert.Equal(t, 0, res.State.RollsTaken)
	for i, d := range res.State.Dice {
		assert.False(t, d.Held)
		assert.Equal(t, before[i].Value, d.Value)
	}

	do(t, s, http.MethodPost, "/game/roll", tok, "")
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/hold/5", tok, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/hold/x", tok, "").Code)
}

func TestScore_ChanceAfterRoll(t *testing.T) {
	s := newTestServer(t)
	tok := startGame(t, s, "").Token

	res := decode[moveRes](t, do(t, s, http.MethodPost, "/game/score", tok, `{"category":"chance"}`))
	assert.False(t, res.Accepted, "no scoring before the first roll")

	rolled := decode[moveRes](t, do(t, s, http.MethodPost, "/game/roll", tok, ""))
	sum := 0
	for _, d := range rolled.State.Dice {
		sum += d.Value
	}

	elig := decode[struct {
		Dice       []int    `json:"dice"`
		Categories []string `json:"categories"`
	}](t, do(t, s, http.MethodGet, "/game/eligible", tok, ""))
	assert.Len(t, elig.Dice, 5)
	assert.Contains(t, elig.Categories, "chance")

	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/score", tok, `{"category":"chance"}`))
	require.True(t, res.Accepted)
	require.NotNil(t, res.Value)
	assert.Equal(t, sum, *res.Value)
	assert.Equal(t, 0, res.State.RollsTaken, "turn ends after scoring")

	// slot is now filled
	do(t, s, http.MethodPost, "/game/roll", tok, "")
	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/score", tok, `{"category":"chance"}`))
	assert.False(t, res.Accepted)

	tot := decode[scorecard.Totals](t, do(t, s, http.MethodGet, "/game/totals", tok, ""))
	assert.Nil(t, tot.Upper)
	assert.Nil(t, tot.Lower)
	assert.Nil(t, tot.Grand)
}

func TestScore_BadInput(t *testing.T) {
	s := newTestServer(t)
	tok := startGame(t, s, "").Token
	do(t, s, http.MethodPost, "/game/roll", tok, "")

	rec := do(t, s, http.MethodPost, "/game/score", tok, `{"category":"bonus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/score", tok, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/score", tok, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScratch(t *testing.T) {
	s := newTestServer(t)
	tok := startGame(t, s, "").Token

	res := decode[moveRes](t, do(t, s, http.MethodPost, "/game/scratch", tok, `{"category":"yahtzee"}`))
	assert.False(t, res.Accepted, "scratch needs scratch mode")

	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/scratch-mode", tok, `{"on":true}`))
	assert.True(t, res.State.ScratchMode)

	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/scratch", tok, `{"category":"yahtzee"}`))
	require.True(t, res.Accepted)
	assert.False(t, res.State.ScratchMode)
	for _, row := range res.State.Slots {
		if row.Category == scorecard.Yahtzee {
			assert.Equal(t, scorecard.SlotScratched, row.Status)
			assert.Nil(t, row.Value)
		}
	}

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/scratch-mode", tok, `{}`).Code)
}

func TestFullGame_ByScratching(t *testing.T) {
	s := newTestServer(t)
	tok := startGame(t, s, "").Token

	var last moveRes
	for _, c := range scorecard.All() {
		do(t, s, http.MethodPost, "/game/scratch-mode", tok, `{"on":true}`)
		last = decode[moveRes](t, do(t, s, http.MethodPost, "/game/scratch", tok, `{"category":"`+c.String()+`"}`))
		require.True(t, last.Accepted, c.String())
	}
	assert.True(t, last.State.Finished)
	require.NotNil(t, last.State.Totals.Grand)
	assert.Equal(t, 0, *last.State.Totals.Grand)

	res := decode[moveRes](t, do(t, s, http.MethodPost, "/game/roll", tok, ""))
	assert.False(t, res.Accepted, "no rolls once the game is over")

	res = decode[moveRes](t, do(t, s, http.MethodPost, "/game/restart", tok, ""))
	assert.False(t, res.State.Finished)
	assert.Nil(t, res.State.Totals.Grand)
	assert.Equal(t, last.State.ID, res.State.ID)
}

func TestEndGame(t *testing.T) {
	s := newTestServer(t)
	tok := startGame(t, s, "").Token

	rec := do(t, s, http.MethodDelete, "/game", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// the token is still signed but the session is gone
	rec = do(t, s, http.MethodGet, "/game", tok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_not_found")
}

func TestNewGame_ReplacesCallersSession(t *testing.T) {
	s := newTestServer(t)
	first := startGame(t, s, "")

	req := httptest.NewRequest(http.MethodPost, "/game/new", nil)
	req.Header.Set("Authorization", "Bearer "+first.Token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, 1, s.opts.Store.Len())
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/game", first.Token, "").Code)
}

func TestDailyMode_SameDiceForEveryone(t *testing.T) {
	s := newTestServer(t)
	a := startGame(t, s, `{"mode":"daily"}`)
	b := startGame(t, s, `{"mode":"daily"}`)
	assert.Equal(t, game.ModeDaily, a.State.Mode)
	assert.NotEqual(t, a.State.ID, b.State.ID)

	for i := 0; i < 3; i++ {
		ra := decode[moveRes](t, do(t, s, http.MethodPost, "/game/roll", a.Token, ""))
		rb := decode[moveRes](t, do(t, s, http.MethodPost, "/game/roll", b.Token, ""))
		assert.Equal(t, ra.State.Dice, rb.State.Dice)
	}
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t)
	startGame(t, s, "")

	rec := do(t, s, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 1, body["sessions"])

	rec = do(t, s, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodOptions, "/game/roll", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
