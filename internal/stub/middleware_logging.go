package stub

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-risk-console/internal/logger"
)

// withLogging emits one access-log line per request through the
// trace-id-scoped logger installed by withTraceID. The remote address is
// included because the session audit trail records client IPs, which makes
// correlating a log line with a session row straightforward.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		uri := r.RequestURI
		method := r.Method

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", uri).
			Str("method", method).
			Str("remote_addr", r.RemoteAddr).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
