package pkgrouter

import (
	"net/http"
	"strconv"
	"time"
)

// Observer records one finished HTTP request.
type Observer interface {
	ObserveHTTP(method, route, status string, elapsed time.Duration)
}

func middlewareMetrics(obs Observer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			obs.ObserveHTTP(r.Method, matchedRoutePath(r), strconv.Itoa(rw.Status()), time.Since(start))
		})
	}
}
