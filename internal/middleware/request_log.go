package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ticketgraph/internal/reqctx"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger emits one line per request, keyed by the correlation id when
// AttachContext ran earlier in the chain.
func RequestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			ev := l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Dur("duration", time.Since(start))
			if rc, ok := reqctx.FromContext(r.Context()); ok {
				ev = ev.Str("req_id", rc.ReqID.String())
			}
			ev.Msg("request")
		})
	}
}
