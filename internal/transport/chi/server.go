// Package chi serves the operational HTTP surface: Prometheus metrics
// and health probes. The pipeline itself has no public HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	logpkg "github.com/gzeric2k/library-news-extract/internal/logger"
	"github.com/gzeric2k/library-news-extract/internal/version"
)

// HealthChecker reports readiness of a pipeline dependency.
type HealthChecker func(ctx context.Context) error

const healthCheckTimeout = 5 * time.Second

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// NewRouter builds the operational router. Checks run on /healthz; a nil
// or empty map reports healthy unconditionally.
func NewRouter(checks map[string]HealthChecker, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(checks))
	return r
}

// requestLogger stashes a request-scoped logger carrying the request ID.
// Handlers read it back with logger.FromContext.
func requestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base
			if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
				l = base.With(zap.String("request_id", reqID))
			}
			next.ServeHTTP(w, r.WithContext(logpkg.ContextWith(r.Context(), l)))
		})
	}
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logpkg.FromContext(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{
			Status:  "ok",
			Version: version.Version,
			Checks:  make(map[string]string, len(checks)),
		}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// recoverer turns handler panics into 500s with a structured log entry.
func recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic in HTTP handler",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path))
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
