package http

import (
	"net/http"

	"go.uber.org/zap"
)

// Handlers groups everything the router serves. Limiter may be nil to
// disable rate limiting.
type Handlers struct {
	Calculate *CalculateHandler
	Search    *SearchHandler
	Limiter   *RateLimiter
	Logger    *zap.Logger
}

func NewRouter(h Handlers) http.Handler {
	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	limited := func(fn http.HandlerFunc) http.Handler {
		if h.Limiter == nil {
			return fn
		}
		return RateLimitMiddleware(h.Limiter, fn)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/calculate", limited(h.Calculate.Calculate))
	mux.Handle("/api/calculations", limited(h.Calculate.History))
	mux.Handle("/api/bikes/search", limited(h.Search.Search))
	mux.Handle("/api/bikes/facets", limited(h.Search.Facets))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return RequestMiddleware(logger.Named("http"), mux)
}
