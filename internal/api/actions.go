package api

import (
	"errors"
	"io"
	"net/http"

	"tasktree/pkg/progress"
	"tasktree/pkg/tree"
)

const maxActionBytes = 1 << 20

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, s.tree.State())
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBytes))
	if err != nil {
		writeError(w, 400, "read body: "+err.Error())
		return
	}
	a, err := tree.DecodeAction(body)
	if err != nil {
		status := 500
		if errors.Is(err, tree.ErrInvalidAction) {
			status = 400
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, 200, s.tree.Dispatch(a))
}

func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.tree.State().Project(id)
	if !ok {
		writeError(w, 404, "project not found: "+id)
		return
	}
	writeJSON(w, 200, progress.Summarize(p))
}

func (s *Server) handleSelectedSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := s.tree.State().SelectedProject()
	if !ok {
		writeError(w, 404, "no project selected")
		return
	}
	writeJSON(w, 200, progress.Summarize(p))
}
