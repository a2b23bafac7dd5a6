package metrics

import (
	"net/http"
	"strconv"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Instrument records RPCRequestsTotal and RPCDuration for requests served by
// next. procedure names the label; it comes from the route, never from
// client input, to keep label cardinality bounded.
func Instrument(procedure string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		RPCDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
		RPCRequestsTotal.WithLabelValues(procedure, strconv.Itoa(rec.status)).Inc()
	})
}
