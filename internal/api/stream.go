package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// handleStateStream sends the current tree, then every new tree, as SSE frames.
func (s *Server) handleStateStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, 500, "streaming not supported")
		return
	}

	ch := s.tree.Subscribe()
	defer s.tree.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if err := writeFrame(w, s.tree.State()); err != nil {
		log.Printf("SSE write: %v", err)
		return
	}
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case state, open := <-ch:
			if !open {
				return
			}
			if err := writeFrame(w, state); err != nil {
				log.Printf("SSE write: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
