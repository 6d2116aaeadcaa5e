// Package http exposes a read-only inspection API over dialogue trees,
// character assignments and engine metrics.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/parley/internal/presentation/graph"
	"github.com/aretw0/parley/pkg/dialogue"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the inspection endpoints.
type Server struct {
	Loader      ports.TreeLoader
	Assignments ports.AssignmentStore
	Metrics     http.Handler
	Logger      *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithAssignments enables GET /assignments/{identity}.
func WithAssignments(store ports.AssignmentStore) Option {
	return func(s *Server) {
		s.Assignments = store
	}
}

// WithMetrics serves h on /metrics. The default is the Prometheus default registry.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// TreeSummary is one entry of GET /trees.
type TreeSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Nodes int    `json:"nodes"`
	Valid bool   `json:"valid"`
}

// TreeDetail is the body of GET /trees/{id}.
type TreeDetail struct {
	dialogue.TreeDocument
	Issues      []string        `json:"issues,omitempty"`
	Unreachable []domain.NodeID `json:"unreachable,omitempty"`
}

// NewHandler creates the HTTP handler.
func NewHandler(loader ports.TreeLoader, opts ...Option) http.Handler {
	s := &Server{
		Loader:  loader,
		Metrics: promhttp.Handler(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/trees", s.ListTrees)
	r.Get("/trees/{id}", s.GetTree)
	r.Get("/trees/{id}/graph", s.GetGraph)
	if s.Assignments != nil {
		r.Get("/assignments/{identity}", s.GetAssignment)
	}
	r.Handle("/metrics", s.Metrics)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListTrees handles GET /trees.
func (s *Server) ListTrees(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Loader.ListTrees()
	if err != nil {
		s.fail(w, "list trees", err)
		return
	}

	out := make([]TreeSummary, 0, len(ids))
	for _, id := range ids {
		t, err := s.Loader.GetTree(id)
		if err != nil {
			s.Logger.Warn("skipping unreadable tree", "tree", id, "error", err)
			out = append(out, TreeSummary{ID: id})
			continue
		}
		out = append(out, TreeSummary{ID: id, Name: t.Name, Nodes: len(t.Nodes), Valid: t.Validate() == nil})
	}
	writeJSON(w, out)
}

// GetTree handles GET /trees/{id}.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tree(w, r)
	if !ok {
		return
	}

	detail := TreeDetail{TreeDocument: dialogue.NewDocument(t), Unreachable: t.Unreachable()}
	var verr *domain.ValidationError
	if err := t.Validate(); errors.As(err, &verr) {
		detail.Issues = verr.Issues
	}
	writeJSON(w, detail)
}

// GetGraph handles GET /trees/{id}/graph as Mermaid text.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tree(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(t, nil))
}

// GetAssignment handles GET /assignments/{identity}.
func (s *Server) GetAssignment(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	a, err := s.Assignments.Load(r.Context(), identity)
	if errors.Is(err, domain.ErrAssignmentNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, "load assignment", err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) tree(w http.ResponseWriter, r *http.Request) (*domain.Tree, bool) {
	id := chi.URLParam(r, "id")
	t, err := s.Loader.GetTree(id)
	if errors.Is(err, domain.ErrTreeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.fail(w, "get tree", err)
		return nil, false
	}
	return t, true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.Logger.Error(op+" failed", "error", err)
	http.Error(w, op+" failed", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
