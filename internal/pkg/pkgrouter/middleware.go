package pkgrouter

import (
	"bytes"
	"net/http"
)

// Middleware wraps an http.Handler with cross-cutting behaviour.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that mws[0] runs first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// responseWriter remembers the status and size of a response and, when
// capture is set, keeps up to limit bytes of the body.
type responseWriter struct {
	http.ResponseWriter
	status    int
	written   int
	capture   *bytes.Buffer
	limit     int
	truncated bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if w.capture != nil && !w.truncated {
		room := w.limit - w.capture.Len()
		switch {
		case room <= 0:
			w.truncated = true
		case len(p) > room:
			w.capture.Write(p[:room])
			w.truncated = true
		default:
			w.capture.Write(p)
		}
	}

	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

// Status returns the written status, 200 when the handler wrote nothing
// explicit.
func (w *responseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *responseWriter) wroteHeader() bool {
	return w.status != 0
}

func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
