// Package app assembles the HTTP application.
//
//	handle, _ := database.Connect(ctx, opts)
//	catalog := services.NewCatalogService(...)
//
//	err := app.New().
//	    Routes(func(r *router.Router) { routes.RegisterAPI(r, catalog) }).
//	    HealthCheck(handle.Ping).
//	    Serve(ctx, ":"+config.AppPort())
//
// Serve blocks until ctx is cancelled and then drains in-flight requests.
package app

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

// HealthFunc reports whether a backing dependency is usable.
type HealthFunc func(ctx context.Context) error

// ─── Application Builder ──────────────────────────────────────────────────────

// Application collects route registrations and health checks.
type Application struct {
	routesFns []func(*router.Router)
	checks    []HealthFunc
}

// New creates an empty Application.
func New() *Application {
	return &Application{}
}

// Routes registers a route-registration callback. Callbacks run in order
// each time a handler or route table is built.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// HealthCheck adds a check run by GET /healthz.
func (a *Application) HealthCheck(fn HealthFunc) *Application {
	a.checks = append(a.checks, fn)
	return a
}

// Handler builds the full http.Handler: global middleware, /metrics,
// /healthz and every registered route.
func (a *Application) Handler() http.Handler {
	return buildHandler(a)
}
