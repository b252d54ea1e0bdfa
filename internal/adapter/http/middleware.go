package adapthttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// responseWriter remembers the status code so middleware can report it
// after the handler ran.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(resp, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   resp.statusCode,
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		resp := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(resp, r)

		status := strconv.Itoa(resp.statusCode)
		s.metrics.CounterRequests.With(prometheus.Labels{
			"method": r.Method,
			"status": status,
		}).Inc()

		// The route pattern keeps label cardinality bounded even when the
		// path carries a date or an id.
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.metrics.HistogramRequestDuration.With(prometheus.Labels{
			"route":       route,
			"method":      r.Method,
			"status_code": status,
		}).Observe(time.Since(begin).Seconds())
	})
}
