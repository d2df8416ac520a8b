// Package api implements the landforge HTTP API.
//
// The API exposes the terrain pipeline over plain GET requests so that
// terrains can be embedded directly with an <img> tag:
//
//	GET /healthz              liveness and version
//	GET /v1/terrain?seed=7    encoded PNG, JPEG or CSV
//	GET /v1/outlets?seed=7    JSON summary of the synthesized site field
//
// Query parameters map onto [pipeline.Options]; see [OptionsFromQuery].
// Every request is reported to the observability HTTP hooks.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/landforge/pkg/buildinfo"
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/pipeline"
	"github.com/matzehuels/landforge/pkg/render"
)

// Default request limits.
const (
	DefaultMaxSites   = 200_000
	DefaultMaxPixels  = 4096 * 4096
	DefaultRunTimeout = 2 * time.Minute
)

// Config tunes the server. Zero fields take the defaults.
type Config struct {
	MaxSites   int           // largest accepted particle count
	MaxPixels  int           // largest accepted width × height
	RunTimeout time.Duration // per-request pipeline deadline
	Logger     *log.Logger
}

// Server serves terrains from a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	router chi.Router
}

// New creates a server around runner.
func New(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.MaxSites <= 0 {
		cfg.MaxSites = DefaultMaxSites
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{runner: runner, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/terrain", s.handleTerrain)
		r.Get("/outlets", s.handleOutlets)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

func (s *Server) handleTerrain(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RunTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.cfg.Logger.Warn("terrain request failed", "error", err)
		writeError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", render.ContentType(res.Format))
	h.Set("Cache-Control", "public, max-age=86400, immutable")
	h.Set("X-Run-ID", res.RunID.String())
	if res.CacheInfo.ArtifactHit {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// outletsResponse summarizes a synthesized site field.
type outletsResponse struct {
	RunID        string `json:"run_id"`
	Sites        int    `json:"sites"`
	Outlets      int    `json:"outlets"`
	Candidates   int    `json:"candidates"`
	FallbackUsed bool   `json:"fallback_used"`
	Cached       bool   `json:"cached"`
}

func (s *Server) handleOutlets(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RunTimeout)
	defer cancel()

	syn, err := s.runner.Synthesize(ctx, opts)
	if err != nil {
		s.cfg.Logger.Warn("outlets request failed", "error", err)
		writeError(w, err)
		return
	}

	runID := uuid.New()
	w.Header().Set("X-Run-ID", runID.String())
	writeJSON(w, http.StatusOK, outletsResponse{
		RunID:        runID.String(),
		Sites:        len(syn.Field.Outlets),
		Outlets:      syn.Field.OutletCount(),
		Candidates:   syn.Field.CandidateCount(),
		FallbackUsed: syn.Field.FallbackUsed,
		Cached:       syn.CacheHit,
	})
}

// options parses and validates the request's query, and enforces the
// server limits.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts, err := OptionsFromQuery(r.URL.Query())
	if err != nil {
		return opts, err
	}
	opts.Logger = s.cfg.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	if opts.Sites > s.cfg.MaxSites {
		return opts, errors.New(errors.ErrCodeInvalidInput,
			"particles must be at most %d, got %d", s.cfg.MaxSites, opts.Sites)
	}
	w, h := opts.ImageSizePx()
	if exceedsPixels(w, h, opts.RenderScale(), s.cfg.MaxPixels) {
		return opts, errors.New(errors.ErrCodeInvalidInput,
			"image of %dx%d at supersample %d exceeds the limit of %d pixels",
			w, h, opts.RenderScale(), s.cfg.MaxPixels)
	}
	return opts, nil
}

// exceedsPixels reports whether a w × h image rendered at scale times its
// size has more than limit pixels. It divides instead of multiplying so
// that huge dimensions cannot overflow.
func exceedsPixels(w, h, scale, limit int) bool {
	if w <= 0 || h <= 0 || scale <= 0 {
		return true
	}
	if w > limit/h {
		return true
	}
	rest := limit / (w * h)
	return scale > rest || scale*scale > rest
}

// =============================================================================
// Responses
// =============================================================================

// errorResponse is the JSON body of every error.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps an error to an HTTP status: INVALID_* codes are client
// errors, NOT_FOUND is 404 and everything else is a server error.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
