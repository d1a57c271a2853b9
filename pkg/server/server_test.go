package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cosmicscale/pkg/cache"
	"github.com/matzehuels/cosmicscale/pkg/catalog"
	"github.com/matzehuels/cosmicscale/pkg/httputil"
	"github.com/matzehuels/cosmicscale/pkg/hud"
	"github.com/matzehuels/cosmicscale/pkg/mirror"
)

func newTestServer(t *testing.T, m http.Handler) *Server {
	t.Helper()
	reg, err := catalog.Build(catalog.Default())
	require.NoError(t, err)
	s, err := New(Options{Registry: reg, Mirror: m})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNewRequiresRegistry(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 10, body.Entities)
}

func TestCatalog(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body []entityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 10)
	assert.Equal(t, "Proton", body[0].Name)
	assert.Equal(t, -15.0, body[0].Exponent)
	assert.Equal(t, "proton", body[0].Kind)
	assert.NotEmpty(t, body[0].Color)
	assert.Equal(t, "Observable Universe", body[9].Name)
}

func TestEvaluate(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/evaluate?exponent=7.1")
	require.Equal(t, http.StatusOK, rec.Code)

	var report hud.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 7.1, report.Current)
	assert.Equal(t, "10^7.1 meters", report.Readout)
	assert.Equal(t, "The Earth", report.Active)
	assert.Equal(t, "The Earth", report.Title)
	assert.Len(t, report.States, 10)
}

func TestEvaluateRejects(t *testing.T) {
	s := newTestServer(t, nil)
	for _, target := range []string{
		"/api/evaluate",
		"/api/evaluate?exponent=",
		"/api/evaluate?exponent=abc",
		"/api/evaluate?exponent=NaN",
		"/api/evaluate?exponent=Inf",
		"/api/evaluate?exponent=1e400",
	} {
		rec := do(t, s, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.Equal(t, "INVALID_INPUT", string(body.Code), target)
		assert.NotEmpty(t, body.Error, target)
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/healthz")
	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	assert.NoError(t, err, "generated ID is a UUID")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestUnknownRouteWithoutMirror(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/index.html")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFallsThroughToMirror(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("asset " + r.URL.Path))
	}))
	defer upstream.Close()

	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	f, err := httputil.NewFetcher(upstream.URL, httputil.FetcherOptions{Timeout: time.Second})
	require.NoError(t, err)
	mr, err := mirror.New(mirror.Manifest{Version: "v1"}, c, f, mirror.Options{Attempts: 1})
	require.NoError(t, err)

	s := newTestServer(t, mr)

	rec := do(t, s, http.MethodGet, "/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asset /style.css", rec.Body.String())
	assert.Equal(t, mirror.SourceMiss, rec.Header().Get(mirror.HeaderCache))

	rec = do(t, s, http.MethodGet, "/style.css")
	assert.Equal(t, mirror.SourceHit, rec.Header().Get(mirror.HeaderCache))

	rec = do(t, s, http.MethodPost, "/style.css")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// API routes still win over the mirror.
	rec = do(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoversFromPanic(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := do(t, newTestServer(t, panicky), http.MethodGet, "/anything")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", time.Second, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
