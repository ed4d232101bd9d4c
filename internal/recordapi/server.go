// Package recordapi serves a store set over HTTP as table records with
// snake_case fields. The remote backend is its client.
package recordapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// Server exposes a store.Set as the record API
type Server struct {
	resources map[string]resource
	projects  store.ProjectStore
	apiKey    string
	logger    *slog.Logger
	metrics   *metrics
	mux       *http.ServeMux
}

// Option configures a Server
type Option func(*Server)

// WithAPIKey requires "Authorization: Bearer <key>" on every record route
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithLogger sets the request logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRegistry registers the request metrics on reg instead of a private registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.metrics = newMetrics(reg) }
}

// New builds a server over stores
func New(stores store.Set, opts ...Option) *Server {
	s := &Server{
		resources: map[string]resource{
			TableTasks:     taskResource{stores.Tasks},
			TableProjects:  projectResource{stores.Projects},
			TableTemplates: templateResource{stores.Templates},
		},
		projects: stores.Projects,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.NewRegistry())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", s.metrics.handler())

	mux.HandleFunc("GET /api/records/{table}", s.auth(s.handleList))
	mux.HandleFunc("POST /api/records/{table}", s.auth(s.handleCreate))
	mux.HandleFunc("GET /api/records/{table}/{id}", s.auth(s.handleGet))
	mux.HandleFunc("PATCH /api/records/{table}/{id}", s.auth(s.handleUpdate))
	mux.HandleFunc("DELETE /api/records/{table}/{id}", s.auth(s.handleDelete))
	mux.HandleFunc("POST /api/records/projects/{id}/task_count", s.auth(s.handleTaskCount))
	s.mux = mux
	return s
}

// Handler returns the instrumented router
func (s *Server) Handler() http.Handler {
	return s.metrics.instrument(s.mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Record API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	if s.apiKey == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.apiKey)) != 1 {
			writeJSON(w, http.StatusUnauthorized, response{Message: "missing or invalid API key"})
			return
		}
		next(w, r)
	}
}

func (s *Server) resource(w http.ResponseWriter, r *http.Request) (resource, bool) {
	res, ok := s.resources[r.PathValue("table")]
	if !ok {
		writeJSON(w, http.StatusNotFound, response{Message: "unknown table " + r.PathValue("table")})
	}
	return res, ok
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	data, err := res.list(r.Context(), r.URL.Query())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	data, err := res.get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if data == nil {
		writeJSON(w, http.StatusNotFound, response{Message: r.PathValue("table") + " " + id + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	data, err := res.create(r.Context(), json.NewDecoder(r.Body))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response{Success: true, Data: data})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	data, err := res.update(r.Context(), r.PathValue("id"), json.NewDecoder(r.Body))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	if err := res.delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true})
}

func (s *Server) handleTaskCount(w http.ResponseWriter, r *http.Request) {
	var body TaskCountDelta
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErr(w, r, badBody(store.EntityProject, store.OpUpdate, err))
		return
	}
	if err := s.projects.AdjustTaskCount(r.Context(), r.PathValue("id"), body.Delta); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true})
}

// writeErr maps the store error taxonomy onto status codes
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	resp := response{Message: store.Message(err)}

	var code int
	switch store.KindOf(err) {
	case store.ErrValidation:
		code = http.StatusBadRequest
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			resp.Field = verr.Field
			resp.Message = verr.Message
		}
	case store.ErrNotFound:
		code = http.StatusNotFound
	default:
		code = http.StatusInternalServerError
		s.logger.Error("Record request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, code, resp)
}

// response is the outgoing form of Envelope
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func badBody(entity, op string, err error) error {
	return store.Invalid(entity, op, &models.ValidationError{Field: "body", Message: err.Error()})
}
