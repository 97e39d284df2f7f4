package middleware

import (
	"net/http"

	"ticketgraph/internal/config"
	"ticketgraph/internal/reqctx"
)

// AttachContext builds the per-request context (correlation id + resolved
// identity) before any handler runs and stores it on the request.
func AttachContext(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := reqctx.New(r, cfg.SessionSecret)
			next.ServeHTTP(w, r.WithContext(reqctx.WithContext(r.Context(), rc)))
		})
	}
}
