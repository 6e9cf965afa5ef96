package api

import (
	"log"
	"market-route-service/internal/platform/metrics"
	"market-route-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// statusWriter captures the final HTTP status code and number of bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// requestIDMiddleware reuses a caller-supplied X-Request-ID or mints one,
// echoes it back and stores it for obs log lines.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(obs.WithRequestID(r.Context(), id)))
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			obs.RequestID(r.Context()), r.Method, r.URL.RequestURI(), sw.code(), sw.bytes, time.Since(start).Milliseconds(),
		)
	})
}

// metricsMiddleware labels requests by the matched route pattern so raw
// paths never reach the label set.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(sw.code())
		metrics.HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}
