// Package middleware provides observability middleware for the router.
//
// Both middlewares wrap router.Router.Resolve, so every resolution is
// counted and traced the same way whether it comes from the HTTP shell, the
// /_nav WebSocket or the CLI.
//
// # Prometheus Metrics
//
//	r := router.NewRouter(routes.Table(),
//	    router.WithMiddleware(middleware.Prometheus()),
//	)
//
// Metrics are labelled by route name and status (ok, not_found,
// invalid_path, error). Expose them with promhttp, as pkg/server does on
// /metrics.
//
// # OpenTelemetry
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithFilter(func(ctx router.Ctx) bool {
//	        return ctx.Path() != "/favicon.ico"
//	    }),
//	))
//
// Spans are named "navigate <route name>" and carry the requested path.
package middleware
