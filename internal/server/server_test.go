package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bookshelf/internal/config"
	"github.com/sakif/bookshelf/internal/middleware"
	"github.com/sakif/bookshelf/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"},
		Log:      config.LogConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	s, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.Handler()
}

func request(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, r))
	return rr
}

func decodeAs[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func seedUser(t *testing.T, h http.Handler) model.User {
	t.Helper()
	rr := request(t, h, http.MethodPost, "/sign-up", map[string]any{
		"username": "Nice",
		"password": "mnbdshi3",
		"email":    "nice@gmial.com",
		"books": []map[string]any{
			{"title": "How to be golang developer", "page": 105, "description": "-"},
			{"title": "How to be rust developer", "page": 135, "description": "Rust is coming to beat golang and nodejs"},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeAs[model.User](t, rr)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, testConfig())

	rr := request(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestSignUpYieldsOneUserAndTwoBooks(t *testing.T) {
	h := newTestServer(t, testConfig())
	u := seedUser(t, h)

	users := decodeAs[[]model.User](t, request(t, h, http.MethodGet, "/users", nil))
	require.Len(t, users, 1)
	assert.Equal(t, "mnbdshi3", users[0].Password)

	books := decodeAs[[]model.Book](t, request(t, h, http.MethodGet, "/dashboard", nil))
	require.Len(t, books, 2)
	for _, b := range books {
		assert.Equal(t, u.ID, b.AuthorID)
	}
}

func TestGetAfterCreate(t *testing.T) {
	h := newTestServer(t, testConfig())
	u := seedUser(t, h)

	rr := request(t, h, http.MethodPost, "/post", map[string]any{
		"title": "How to be nodejs developer", "page": 150, "authorId": u.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodeAs[model.Book](t, rr)

	got := decodeAs[model.Book](t, request(t, h, http.MethodGet, fmt.Sprintf("/book/%d", created.ID), nil))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "How to be nodejs developer", got.Title)
	assert.Equal(t, 150, got.Page)
	assert.Nil(t, got.Description)
	assert.False(t, got.Published)
	assert.Zero(t, got.ViewCount)
}

func TestConcurrentViewIncrements(t *testing.T) {
	h := newTestServer(t, testConfig())
	u := seedUser(t, h)
	id := u.Books[0].ID
	path := fmt.Sprintf("/book/%d/views", id)

	const n = 20
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, path, nil))
			codes <- rr.Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}

	got := decodeAs[model.Book](t, request(t, h, http.MethodGet, fmt.Sprintf("/book/%d", id), nil))
	assert.EqualValues(t, n, got.ViewCount)
}

func TestToggleTwiceRestores(t *testing.T) {
	h := newTestServer(t, testConfig())
	u := seedUser(t, h)
	path := fmt.Sprintf("/publish/%d", u.Books[0].ID)

	first := decodeAs[model.Book](t, request(t, h, http.MethodPut, path, nil))
	second := decodeAs[model.Book](t, request(t, h, http.MethodPut, path, nil))

	assert.True(t, first.Published)
	assert.False(t, second.Published)
}

func TestSearchByTitleOrDescription(t *testing.T) {
	h := newTestServer(t, testConfig())
	seedUser(t, h)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?searchString=rust", 1},
		{"?searchString=nodejs", 1}, // matches the rust book's description
		{"?searchString=developer", 2},
		{"?searchString=python", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			books := decodeAs[[]model.Book](t, request(t, h, http.MethodGet, "/dashboard"+tt.query, nil))
			assert.Len(t, books, tt.want)
		})
	}
}

func TestDeleteThenGetIsNull(t *testing.T) {
	h := newTestServer(t, testConfig())
	u := seedUser(t, h)
	path := fmt.Sprintf("/book/%d", u.Books[1].ID)

	rr := request(t, h, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = request(t, h, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "null", rr.Body.String())
}

func TestHashPasswordsConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{HashPasswords: true, BcryptCost: 4}
	h := newTestServer(t, cfg)
	seedUser(t, h)

	users := decodeAs[[]model.User](t, request(t, h, http.MethodGet, "/users", nil))
	require.Len(t, users, 1)
	assert.NotEqual(t, "mnbdshi3", users[0].Password)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, testConfig())

	rr := request(t, h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
