package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/service"
)

// StreamWriter writes an event-stream response, flushing on demand.
// Once Begin has run the status line is fixed and errors can only be
// reported in-band.
type StreamWriter struct {
	w       gin.ResponseWriter
	started bool
}

// NewStreamWriter wraps a gin response writer
func NewStreamWriter(w gin.ResponseWriter) *StreamWriter {
	return &StreamWriter{w: w}
}

// Begin commits the streaming headers and status
func (s *StreamWriter) Begin() {
	if s.started {
		return
	}
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	s.w.WriteHeader(http.StatusOK)
	s.w.WriteHeaderNow()
	s.w.Flush()
	s.started = true
}

// Write implements io.Writer
func (s *StreamWriter) Write(p []byte) (int, error) {
	s.Begin()
	return s.w.Write(p)
}

// Flush pushes buffered output to the client
func (s *StreamWriter) Flush() {
	s.w.Flush()
}

// WriteError reports err as an in-band event
func (s *StreamWriter) WriteError(err error) error {
	s.Begin()
	_, werr := io.WriteString(s.w, service.ErrorEvent(err))
	s.w.Flush()
	return werr
}

var _ service.Sink = (*StreamWriter)(nil)
