package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-s12345/routelens/internal/analyzer"
	"github.com/Aman-s12345/routelens/internal/generator"
	"github.com/Aman-s12345/routelens/internal/metrics"
	"github.com/Aman-s12345/routelens/internal/route"
	"github.com/Aman-s12345/routelens/internal/scan"
)

const appJS = `const router = require('express').Router();
app.use('/api', router);
router.get('/users', list);
app.post('/login', login);
`

const appPy = `from flask import Flask
app = Flask(__name__)

@app.route('/hello', methods=['GET', 'POST'])
def hello():
    return 'hi'
`

func newHandler(t *testing.T) (http.Handler, *analyzer.Indexer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fsys := fstest.MapFS{
		"app.js": {Data: []byte(appJS)},
		"app.py": {Data: []byte(appPy)},
	}
	m := metrics.New()
	a, err := analyzer.New(&scan.Selector{FS: fsys, Root: "/ws", Logger: logger}, analyzer.Options{Logger: logger, Metrics: m})
	require.NoError(t, err)

	ix := analyzer.NewIndexer(a, analyzer.Express, ".")
	_, err = ix.Refresh(context.Background())
	require.NoError(t, err)

	return Handler(Options{
		Indexer:   ix,
		Metrics:   m,
		Generator: generator.Config{Title: "API", Version: "1", Root: "/ws"},
		Logger:    logger,
	}), ix
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeRoutes(t *testing.T, rec *httptest.ResponseRecorder) []route.Route {
	t.Helper()
	var routes []route.Route
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	return routes
}

func TestListRoutes(t *testing.T) {
	h, _ := newHandler(t)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/api/routes", []string{"/api/users", "/login"}},
		{"query", "/api/routes?q=USERS", []string{"/api/users"}},
		{"method", "/api/routes?method=post", []string{"/login"}},
		{"no match", "/api/routes?q=nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got []string
			for _, r := range decodeRoutes(t, rec) {
				got = append(got, r.FullPath())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListRoutesEmptyIsArray(t *testing.T) {
	h, _ := newHandler(t)
	rec := do(h, http.MethodGet, "/api/routes?q=nothing", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestRefresh(t *testing.T) {
	h, _ := newHandler(t)
	rec := do(h, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body refreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "express", body.Framework)
	assert.Equal(t, 1, body.Scanned)
	assert.Equal(t, 2, body.Routes)
}

func TestSetFramework(t *testing.T) {
	h, ix := newHandler(t)

	rec := do(h, http.MethodPut, "/api/framework", `{"framework":"Flask"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analyzer.Flask, ix.Framework())

	routes := decodeRoutes(t, do(h, http.MethodGet, "/api/routes", ""))
	require.Len(t, routes, 2)
	assert.Equal(t, "/ws/app.py", routes[0].File)

	rec = do(h, http.MethodGet, "/api/framework", "")
	assert.JSONEq(t, `{"framework":"flask"}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/api/framework", `{"framework":"rails"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, analyzer.Flask, ix.Framework())

	rec = do(h, http.MethodPut, "/api/framework", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenAPI(t *testing.T) {
	h, _ := newHandler(t)

	rec := do(h, http.MethodGet, "/api/openapi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Contains(t, spec["paths"], "/api/users")

	rec = do(h, http.MethodGet, "/api/openapi?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = do(h, http.MethodGet, "/api/openapi?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newHandler(t)

	rec := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "routelens_files_scanned_total")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	h, _ := newHandler(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln.Addr().String(), h, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
