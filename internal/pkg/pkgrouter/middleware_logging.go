package pkgrouter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
)

const maxLoggedBodyBytes = 16 * 1024

const masked = "***"

//nolint:gochecknoglobals // lookup table
var sensitiveKeys = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"password":      {},
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
}

// routes whose bodies are never logged
//
//nolint:gochecknoglobals // lookup table
var quietRoutes = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
}

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

func maskHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for key, values := range headers {
		if isSensitive(key) {
			out[key] = masked
			continue
		}
		out[key] = strings.Join(values, ", ")
	}
	return out
}

func maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if isSensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = maskData(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = maskData(inner)
		}
		return out
	default:
		return v
	}
}

// loggableBody turns a captured body into a log value: masked JSON when it
// parses, text otherwise.
func loggableBody(body []byte, truncated bool) any {
	if len(body) == 0 {
		return nil
	}

	var value any
	if !truncated && json.Unmarshal(body, &value) == nil {
		return maskData(value)
	}

	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	if truncated {
		return string(body) + "...(truncated)"
	}
	return string(body)
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// readLoggedBody returns up to maxLoggedBodyBytes of the request body and
// restores r.Body so the handler still sees all of it.
func readLoggedBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	if err != nil {
		slog.WarnContext(r.Context(), "failed to read request body for logging", "error", err)
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	if len(head) > maxLoggedBodyBytes {
		return head[:maxLoggedBodyBytes], true
	}
	return head, false
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := matchedRoutePath(r)
		_, quiet := quietRoutes[route]

		attrs := []any{
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		}

		rw := wrapResponseWriter(w)
		if quiet {
			next.ServeHTTP(rw, r)
		} else {
			reqBody, reqTruncated := readLoggedBody(r)
			slog.DebugContext(r.Context(), "request received", append(attrs,
				"headers", maskHeaders(r.Header),
				"body", loggableBody(reqBody, reqTruncated),
			)...)

			rw.capture = &bytes.Buffer{}
			rw.limit = maxLoggedBodyBytes
			next.ServeHTTP(rw, r)
		}

		status := rw.Status()
		attrs = append(attrs,
			"status", status,
			"bytes", rw.written,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		if rw.capture != nil {
			attrs = append(attrs, "body", loggableBody(rw.capture.Bytes(), rw.truncated))
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "response sent", attrs...)
	})
}
