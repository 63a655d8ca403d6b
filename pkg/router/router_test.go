package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func newTestRouter() *Router {
	return New(
		WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		WithRequestContext(func(ctx context.Context, id string) context.Context {
			return context.WithValue(ctx, ctxKey{}, id)
		}),
	)
}

func TestRouter_ExactAndWildcard(t *testing.T) {
	r := newTestRouter()
	r.GET("/api/jobs", func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, "jobs") })
	r.GET("/api/get_results/*", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "result "+PathParam(req, 2))
	})
	r.GET("/swagger/*", func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, "swagger") })

	tests := []struct {
		method, path string
		status       int
		body         string
	}{
		{http.MethodGet, "/api/jobs", http.StatusOK, "jobs"},
		{http.MethodGet, "/api/get_results/12", http.StatusOK, "result 12"},
		{http.MethodGet, "/swagger/index.html", http.StatusOK, "swagger"},
		{http.MethodGet, "/swagger/a/b/c.js", http.StatusOK, "swagger"},
		{http.MethodPost, "/api/jobs", http.StatusMethodNotAllowed, ""},
		{http.MethodPost, "/api/get_results/3", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRouter_RequestID(t *testing.T) {
	r := newTestRouter()
	var seen string
	r.GET("/ping", func(w http.ResponseWriter, req *http.Request) {
		seen, _ = req.Context().Value(ctxKey{}).(string)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.POST("/api/states_mean", noop)
	r.GET("/api/jobs", noop)
	r.Handle("/metrics", http.NotFoundHandler())

	assert.Equal(t, []string{"GET:/api/jobs", "GET:/metrics", "POST:/api/states_mean"}, r.Routes())
}

func TestMatchWildcardRoute(t *testing.T) {
	assert.True(t, matchWildcardRoute("/api/get_results/5", "/api/get_results/*"))
	assert.False(t, matchWildcardRoute("/api/get_results", "/api/get_results/*/x"))
	assert.True(t, matchWildcardRoute("/a/1/b", "/a/*/b"))
	assert.False(t, matchWildcardRoute("/a/1/c", "/a/*/b"))
}

func TestPathParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/get_results/42", nil)
	assert.Equal(t, "api", PathParam(req, 0))
	assert.Equal(t, "42", PathParam(req, 2))
	assert.Equal(t, "", PathParam(req, 5))
}
