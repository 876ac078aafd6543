package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
	"github.com/rocketscienceinc/jeopardy-backend/internal/jeopardy"
	"github.com/rocketscienceinc/jeopardy-backend/internal/usecase"
)

var errUpstream = errors.New("upstream down")

type fetcherFunc func(ctx context.Context, id int) (*entity.RawCategory, error)

func (that fetcherFunc) FetchCategory(ctx context.Context, id int) (*entity.RawCategory, error) {
	return that(ctx, id)
}

func anyCategory(_ context.Context, id int) (*entity.RawCategory, error) {
	return &entity.RawCategory{ID: id, Title: "Category", Clues: []entity.RawClue{
		{Question: "2+2", Answer: "4"},
		{Question: "1+1", Answer: "2"},
		{Question: "3+3", Answer: "6"},
	}}, nil
}

func newTestHandler(t *testing.T, fetcher fetcherFunc, burst int) http.Handler {
	t.Helper()

	handler, _ := newTestServer(t, fetcher, burst)

	return handler
}

func newTestServer(t *testing.T, fetcher fetcherFunc, burst int) (http.Handler, *usecase.GameManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := usecase.BoardOptions{
		CategoryCount:    2,
		CluesPerCategory: 2,
		CategoryIDSpace:  1000,
		FetchConcurrency: 2,
		LoadingMode:      usecase.LoadingKeep,
	}

	manager := usecase.NewGameManager(logger, fetcher, opts, time.Hour).
		WithRand(func() jeopardy.Rand { return rand.New(rand.NewPCG(1, 2)) })

	return New(logger, manager, 0.01, burst).Handler(), manager
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (that *client) do(method, path string) *httptest.ResponseRecorder {
	that.t.Helper()

	req := httptest.NewRequest(method, path, nil)
	for _, cookie := range that.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	that.handler.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		that.cookies = cookies
	}

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))

	return v
}

func TestPing(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t, anyCategory, 5)}

	w := c.do(http.MethodGet, "/ping")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestGame_FullRound(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t, anyCategory, 5)}

	// Given: a new session with no game
	w := c.do(http.MethodGet, "/game")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, c.cookies, "session cookie should be issued")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	empty := decode[boardView](t, w)
	assert.Equal(t, usecase.StatusEmpty, empty.Status)
	assert.Empty(t, empty.Columns)

	// When: starting a game
	w = c.do(http.MethodPost, "/game")
	require.Equal(t, http.StatusOK, w.Code)

	// Then: a 2x2 board of hidden cells is returned
	view := decode[boardView](t, w)
	assert.Equal(t, usecase.StatusReady, view.Status)
	require.Len(t, view.Columns, 2)
	for _, column := range view.Columns {
		require.Len(t, column.Cells, 2)
		for _, cell := range column.Cells {
			assert.Equal(t, entity.HiddenCellText, cell.Text)
			assert.Equal(t, entity.Hidden, cell.Showing)
		}
	}

	// When: activating cell (0, 0) three times
	w = c.do(http.MethodPost, "/game/0/0")
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[usecase.RevealResult](t, w)

	w = c.do(http.MethodPost, "/game/0/0")
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[usecase.RevealResult](t, w)

	w = c.do(http.MethodPost, "/game/0/0")

	// Then: question, answer, then nothing to re-render
	assert.Equal(t, entity.Question, first.Showing)
	assert.Equal(t, entity.Answer, second.Showing)
	assert.NotEqual(t, first.Text, second.Text)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// And the board view shows the answer in that cell
	w = c.do(http.MethodGet, "/game")
	view = decode[boardView](t, w)
	assert.Equal(t, second.Text, view.Columns[0].Cells[0].Text)
	assert.Equal(t, entity.HiddenCellText, view.Columns[0].Cells[1].Text)
}

func TestReveal_Errors(t *testing.T) {
	t.Run("Before a game is started", func(t *testing.T) {
		c := &client{t: t, handler: newTestHandler(t, anyCategory, 5)}

		w := c.do(http.MethodPost, "/game/0/0")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Out of range", func(t *testing.T) {
		c := &client{t: t, handler: newTestHandler(t, anyCategory, 5)}
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game").Code)

		w := c.do(http.MethodPost, "/game/99/0")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not a number", func(t *testing.T) {
		c := &client{t: t, handler: newTestHandler(t, anyCategory, 5)}

		w := c.do(http.MethodPost, "/game/a/0")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStartGame_LoadFailure(t *testing.T) {
	failing := fetcherFunc(func(context.Context, int) (*entity.RawCategory, error) {
		return nil, errUpstream
	})
	c := &client{t: t, handler: newTestHandler(t, failing, 5)}

	w := c.do(http.MethodPost, "/game")

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[errorResponse](t, w)
	assert.NotEmpty(t, body.Error)
	assert.NotNil(t, body.CategoryID)

	w = c.do(http.MethodGet, "/game")
	view := decode[boardView](t, w)
	assert.Equal(t, usecase.StatusFailed, view.Status)
	assert.Empty(t, view.Columns)
}

func TestStartGame_RateLimited(t *testing.T) {
	c := &client{t: t, handler: newTestHandler(t, anyCategory, 1)}

	first := c.do(http.MethodPost, "/game")
	second := c.do(http.MethodPost, "/game")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestSessions_AreIsolated(t *testing.T) {
	handler := newTestHandler(t, anyCategory, 5)
	alice := &client{t: t, handler: handler}
	bob := &client{t: t, handler: handler}

	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/game").Code)

	w := bob.do(http.MethodPost, "/game/0/0")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessions_CookielessReadsAreNotStored(t *testing.T) {
	// Given: a server with no sessions
	handler, manager := newTestServer(t, anyCategory, 5)

	// When: many clients without a cookie read the board and click a cell
	for range 100 {
		c := &client{t: t, handler: handler}
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game").Code)

		c = &client{t: t, handler: handler}
		require.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/0/0").Code)
	}

	// Then: no session was kept
	assert.Zero(t, manager.Sessions())

	// And starting a game keeps exactly one
	c := &client{t: t, handler: handler}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game").Code)
	assert.Equal(t, 1, manager.Sessions())
}

func TestWriteJSON_EncodeFailureIsLogged(t *testing.T) {
	// Given: a server logging into a buffer
	var logs bytes.Buffer
	srv := New(slog.New(slog.NewTextHandler(&logs, nil)), nil, 1, 1)

	// When: the value cannot be encoded
	w := httptest.NewRecorder()
	srv.writeJSON(w, http.StatusOK, make(chan int))

	// Then: the status already sent is kept and the failure is logged
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to encode response")
}
