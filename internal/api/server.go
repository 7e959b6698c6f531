package api

import (
	"encoding/json"
	"log"
	"net/http"

	"tasktree/pkg/tree"
)

// Tree is the store the API drives: the mediator in production, a bare
// tree.Store-backed fake in tests.
type Tree interface {
	tree.Dispatcher
	Subscribe() chan tree.State
	Unsubscribe(ch chan tree.State)
}

// Server is the HTTP API server.
type Server struct {
	tree    Tree
	metrics http.Handler
	mux     *http.ServeMux
}

// New creates a new Server. metrics may be nil, in which case /metrics is not served.
func New(t Tree, metrics http.Handler) *Server {
	s := &Server{
		tree:    t,
		metrics: metrics,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Tree
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/state/stream", s.handleStateStream)
	s.mux.HandleFunc("POST /api/actions", s.handleDispatch)

	// Derived views
	s.mux.HandleFunc("GET /api/projects/{id}/summary", s.handleProjectSummary)
	s.mux.HandleFunc("GET /api/summary", s.handleSelectedSummary)

	// System
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
