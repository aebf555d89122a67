package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgpulse/orgpulse/scheduler"
)

// brokenWriter simulates a consumer that goes away after n successful writes.
type brokenWriter struct {
	header http.Header
	writes int
	okFor  int
}

func (b *brokenWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

func (b *brokenWriter) Write(p []byte) (int, error) {
	b.writes++
	if b.writes > b.okFor {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func (b *brokenWriter) WriteHeader(int) {}
func (b *brokenWriter) Flush()          {}

func TestSSEStream_SetsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := newSSEStream(rec)
	require.NoError(t, err)

	stream.Send(scheduler.ProgressEvent{Type: scheduler.EventDone, Message: "Analysis complete"})

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	assert.Contains(t, rec.Body.String(), `data: {"type":"done"`)
}

func TestSSEStream_DisconnectIsSilent(t *testing.T) {
	w := &brokenWriter{okFor: 1}
	stream, err := newSSEStream(w)
	require.NoError(t, err)

	stream.Send(scheduler.ProgressEvent{Type: scheduler.EventProgress, Message: "one"})
	stream.Send(scheduler.ProgressEvent{Type: scheduler.EventProgress, Message: "two"})
	stream.Send(scheduler.ProgressEvent{Type: scheduler.EventProgress, Message: "three"})

	// First send landed, second failed and closed the stream, third was
	// dropped without touching the writer again.
	assert.Equal(t, 2, w.writes)
	assert.True(t, stream.closed)
}

func TestSSEStream_RequiresFlusher(t *testing.T) {
	_, err := newSSEStream(plainWriter{})
	assert.Error(t, err)
}

type plainWriter struct{}

func (plainWriter) Header() http.Header       { return make(http.Header) }
func (plainWriter) Write(p []byte) (int, error) { return len(p), nil }
func (plainWriter) WriteHeader(int)           {}
