package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/orgpulse/orgpulse/logger"
	"github.com/orgpulse/orgpulse/scheduler"
)

// sseStream writes ProgressEvents as server-sent-event frames. Delivery is
// best-effort: after the first failed write the stream marks itself closed
// and silently drops everything that follows.
type sseStream struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu     sync.Mutex
	closed bool
	log    *logger.Logger
}

func newSSEStream(w http.ResponseWriter) (*sseStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming unsupported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &sseStream{
		w:       w,
		flusher: flusher,
		log:     logger.Named("sse"),
	}, nil
}

func (s *sseStream) Send(ev scheduler.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Error().Err(err).Msg("event marshal failed")
		return
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		s.closed = true
		s.log.Debug().Err(err).Msg("consumer gone, dropping further events")
		return
	}
	s.flusher.Flush()
}
