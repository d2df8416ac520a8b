package api

import (
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/landforge/pkg/cache"
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/observability"
	"github.com/matzehuels/landforge/pkg/pipeline"
)

// small keeps pipeline runs fast.
const small = "particles=200&relaxations=1&image=16:-1"

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"), nil)
	return New(runner, Config{MaxSites: 1000, MaxPixels: 64 * 64})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(t, nil), "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestTerrain(t *testing.T) {
	w := get(t, newTestServer(t, nil), "/v1/terrain?seed=3&"+small)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	_, err := uuid.Parse(w.Header().Get("X-Run-ID"))
	assert.NoError(t, err, "X-Run-ID should be a UUID")
	assert.Equal(t, "miss", w.Header().Get("X-Cache"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestTerrainCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := newTestServer(t, fc)

	first := get(t, s, "/v1/terrain?format=csv&"+small)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "text/csv", first.Header().Get("Content-Type"))

	second := get(t, s, "/v1/terrain?format=csv&"+small)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.NotEqual(t, first.Header().Get("X-Run-ID"), second.Header().Get("X-Run-ID"))
}

func TestOutlets(t *testing.T) {
	w := get(t, newTestServer(t, nil), "/v1/outlets?bound=100:100&seed=0&fault_scale=0&"+small)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body outletsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Greater(t, body.Sites, 200)
	assert.Positive(t, body.Outlets)
	assert.LessOrEqual(t, body.Outlets, body.Sites)
	assert.Equal(t, w.Header().Get("X-Run-ID"), body.RunID)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		code   errors.Code
	}{
		{"bad bound", "/v1/terrain?bound=100", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"bad format", "/v1/terrain?format=gif&" + small, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown param", "/v1/terrain?color=red", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"repeated param", "/v1/terrain?seed=1&seed=2", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"not a number", "/v1/outlets?seed=abc", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too many sites", "/v1/terrain?particles=5000", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too many pixels", "/v1/terrain?particles=100&image=128:128", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"supersample over the pixel limit", "/v1/terrain?particles=100&image=32:32&supersample=4", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"supersample out of range", "/v1/terrain?particles=100&image=32:32&supersample=100000", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"negative supersample", "/v1/terrain?particles=100&image=32:32&supersample=-5", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"huge image", "/v1/terrain?particles=100&image=4294967295:4294967295", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad colormap", "/v1/terrain?colormap=" + url.QueryEscape("[]") + "&" + small, http.StatusBadRequest, errors.ErrCodeInvalidColormap},
		{"no route", "/v2/terrain", http.StatusNotFound, errors.ErrCodeNotFound},
	}
	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, tt.target)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			var body errorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(errors.New(errors.ErrCodeInvalidColormap, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New(errors.ErrCodeTerrainFailed, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(context.DeadlineExceeded))
}

func TestExceedsPixels(t *testing.T) {
	tests := []struct {
		w, h, scale, limit int
		want               bool
	}{
		{64, 64, 1, 64 * 64, false},
		{64, 65, 1, 64 * 64, true},
		{32, 32, 2, 64 * 64, false},
		{32, 32, 3, 64 * 64, true},
		{1, 1, 64, 64 * 64, false},
		{1, 1, 65, 64 * 64, true},
		{4294967295, 4294967295, 1, 64 * 64, true},
		{1 << 40, 1 << 40, 1, 1 << 62, true},
		{0, 10, 1, 64 * 64, true},
	}
	for _, tt := range tests {
		if got := exceedsPixels(tt.w, tt.h, tt.scale, tt.limit); got != tt.want {
			t.Errorf("exceedsPixels(%d, %d, %d, %d) = %v, want %v", tt.w, tt.h, tt.scale, tt.limit, got, tt.want)
		}
	}
}

func TestOptionsFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("seed", "42")
	q.Set("land_ratio", "0.25")
	q.Set("all_boundary_outlets", "true")
	q.Set("colormap", `[{"color":[0,0,255],"elevation":0},{"color":[255,255,255],"elevation":50}]`)

	opts, err := OptionsFromQuery(q)
	require.NoError(t, err)
	assert.Equal(t, int64(42), opts.Seed)
	assert.Equal(t, 0.25, opts.LandRatio)
	assert.True(t, opts.AllBoundaryOutlets)
	assert.Len(t, opts.ColormapEntries, 2)
	assert.Equal(t, pipeline.DefaultSites, opts.Sites, "unset parameters keep their defaults")
}

// recordingHooks captures HTTP hook events.
type recordingHooks struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.status = append(h.status, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t, nil)
	get(t, s, "/healthz")
	get(t, s, "/v1/outlets?seed=x")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"/healthz", "/v1/outlets"}, hooks.routes)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.status)
}
