package app

// pkg/app/kernel.go builds an http.Handler from the Application config.
// Project routes are injected through Routes(); nothing here imports app/.

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// healthTimeout bounds a single /healthz probe.
const healthTimeout = 2 * time.Second

func buildHandler(a *Application) http.Handler {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics  outermost for accurate total latency
	//  2. Recovery           last-resort 500 for panics
	//  3. StripSlashes       "/products/" routes like "/products"
	//  4. Request ID         inject unique ID before anything logs
	//  5. Logger             logs request_id from context
	//  6. CORS               set CORS headers
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(chimw.StripSlashes)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", a.health)

	for _, fn := range a.routesFns {
		fn(r)
	}

	return r.Handler()
}

func (a *Application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	for _, check := range a.checks {
		if err := check(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("health check failed", "error", err)
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}

	response.OK(w, map[string]string{"status": "ok"})
}
