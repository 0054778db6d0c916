// Package chi serves the operational HTTP surface: health checks, build info and metrics.
package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/filtering/internal/metrics"
	healthuc "github.com/kailas-cloud/filtering/internal/usecase/health"
	"github.com/kailas-cloud/filtering/internal/version"
)

// HealthChecker reports readiness of the service's dependencies.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// healthResponse is the body of /readyz.
type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// versionResponse is the body of /version.
type versionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Health  HealthChecker
	Logger  *zap.Logger
	APIKeys []string
	// MetricsHandler serves /metrics. Nil means promhttp.Handler().
	MetricsHandler http.Handler
}

// NewRouter builds the chi router with the standard middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		report := cfg.Health.Check(r.Context())
		status := http.StatusOK
		if report.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, healthResponse{Status: report.Status, Checks: report.Checks})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, versionResponse{
			Version: version.Version,
			Commit:  version.Commit,
			Date:    version.Date,
		})
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	return r
}
