// Package server exposes the pipeline over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/pipeline"
)

const (
	defaultRunTimeout = 5 * time.Minute
	runRetention      = 24 * time.Hour
)

// Factory builds a fresh pipeline for one request.
type Factory func() *pipeline.Pipeline

type Server struct {
	newPipeline Factory
	store       *runStore
	log         *logger.Logger
	// RunTimeout bounds a single pipeline run.
	RunTimeout time.Duration
}

// runStore keeps finished runs for later retrieval.
type runStore struct {
	c *cache.Cache
}

func newStore(ttl time.Duration) *runStore {
	return &runStore{c: cache.New(ttl, ttl/4)}
}

func (s *runStore) set(res runResp) {
	s.c.Set(res.RunID, res, cache.DefaultExpiration)
}

func (s *runStore) get(id string) (runResp, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return runResp{}, false
	}
	return v.(runResp), true
}

func New(factory Factory, log *logger.Logger) (*Server, error) {
	if factory == nil {
		return nil, errors.New("pipeline factory required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		newPipeline: factory,
		store:       newStore(runRetention),
		log:         log.With("component", "server"),
		RunTimeout:  defaultRunTimeout,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/articles", s.handleCreate)
	mux.HandleFunc("GET /api/articles/{id}", s.handleGet)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.logMiddleware(mux)
}

// --- Handlers ---

type createReq struct {
	Topic string `json:"topic"`
}

type runResp struct {
	pipeline.Result
	PublishError string `json:"publish_error,omitempty"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "topic is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.RunTimeout)
	defer cancel()
	res := s.newPipeline().Run(ctx, topic)

	resp := runResp{Result: res}
	if res.PublishErr != nil {
		resp.PublishError = res.PublishErr.Error()
	}
	s.store.set(resp)

	status := http.StatusCreated
	if !res.Succeeded() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.store.get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "run not found"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}
