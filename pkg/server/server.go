// Package server exposes the rendering pipeline over HTTP.
//
// The API supports synchronous renders for quick previews and asynchronous
// jobs for long animations:
//
//	POST /api/v1/render                        render and return the artifact
//	POST /api/v1/jobs                          enqueue an async render job
//	GET  /api/v1/jobs                          list recent jobs
//	GET  /api/v1/jobs/{id}                     poll job status
//	GET  /api/v1/jobs/{id}/artifacts/{format}  download a finished artifact
//	GET  /healthz                              liveness probe
//	GET  /version                              build information
//
// Requests carry pipeline options as JSON; responses for single-format
// renders are served raw with the matching content type, multi-format
// renders as a JSON envelope with base64 artifacts.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sketchmesh/pkg/buildinfo"
	errs "github.com/matzehuels/sketchmesh/pkg/errors"
	"github.com/matzehuels/sketchmesh/pkg/jobs"
	"github.com/matzehuels/sketchmesh/pkg/observability"
	"github.com/matzehuels/sketchmesh/pkg/pipeline"
)

// Default server settings.
const (
	DefaultAddr = ":8080"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second

	// maxRequestBody bounds inline manifests in request bodies.
	maxRequestBody = 1 << 20

	defaultListLimit = 20
	maxListLimit     = 100
)

// Config holds server dependencies and settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Runner executes render pipelines. Required.
	Runner *pipeline.Runner

	// Store tracks async jobs. Defaults to an in-memory store.
	Store jobs.Store

	// Logger receives request and job logs.
	Logger *log.Logger
}

// Server is the HTTP API for the rendering pipeline.
type Server struct {
	addr   string
	router chi.Router
	runner *pipeline.Runner
	store  jobs.Store
	worker *jobs.Worker
	logger *log.Logger
}

// New creates a server and mounts its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Store == nil {
		cfg.Store = jobs.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		addr:   cfg.Addr,
		runner: cfg.Runner,
		store:  cfg.Store,
		worker: jobs.NewWorker(cfg.Store, cfg.Runner, cfg.Logger),
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/artifacts/{format}", s.handleJobArtifact)
	})

	s.router = r
	return s, nil
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

// handleRender runs the pipeline synchronously and returns the artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}

	// A single requested format is served raw for easy curl use.
	if len(result.Artifacts) == 1 {
		for format, data := range result.Artifacts {
			w.Header().Set("Content-Type", contentType(format))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	writeJSON(w, http.StatusOK, renderResponse{
		SceneName: result.SceneName,
		SceneHash: result.SceneHash,
		Artifacts: result.Artifacts,
	})
}

// handleCreateJob enqueues an async render and returns 202 with the job.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	job := jobs.New(opts)
	if err := s.store.Create(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("job enqueued", "job", job.ID)
	observability.Server().OnJobEnqueued(r.Context(), job.ID)

	// The job outlives the request; detach from its cancellation.
	go func() {
		if err := s.worker.Run(context.WithoutCancel(r.Context()), job.ID); err != nil {
			s.logger.Error("job bookkeeping failed", "job", job.ID, "err", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %q", v))
			return
		}
		limit = min(n, maxListLimit)
	}

	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": list})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleJobArtifact serves one encoded artifact of a finished job.
func (s *Server) handleJobArtifact(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	if !job.Status.Finished() {
		writeError(w, http.StatusConflict, fmt.Errorf("job %s is still %s", job.ID, job.Status))
		return
	}

	format := chi.URLParam(r, "format")
	data, ok := job.Artifacts[format]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("job %s has no %q artifact", job.ID, format))
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

// renderResponse is the JSON envelope for multi-format synchronous renders.
// Artifact bytes serialize as base64.
type renderResponse struct {
	SceneName string            `json:"scene_name"`
	SceneHash string            `json:"scene_hash"`
	Artifacts map[string][]byte `json:"artifacts"`
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return opts, false
	}
	return opts, true
}

func (s *Server) loadJob(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return job, true
}

// errorStatus maps pipeline error codes to HTTP statuses. Validation
// failures are the client's fault, missing scenes are 404, everything
// else is a server error.
func errorStatus(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatGIF:
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": err.Error()}
	if code := errs.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}
