// Package server is the HTTP application shell for history-based
// navigation.
//
// Every non-asset GET is resolved against the route table. A match serves
// the shell document with the route name in X-Route-Name, so the client
// router can mount the right view; an unmatched URL gets 404 with the
// not-found document. Alongside the shell the server exposes:
//
//	GET /_routes        route table as JSON
//	GET /_resolve?path= resolution result as JSON
//	GET /_nav           WebSocket for programmatic navigation
//	GET /healthz        liveness
//	GET /metrics        Prometheus exposition
package server
