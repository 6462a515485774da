// Package api provides the HTTP server exposing the webhook surface.
//
// Three routes exist: an unauthenticated liveness path (GET /health), an
// unauthenticated service info path (GET /), and the authenticated
// command path (POST /webhook) guarded by bearer-token middleware.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Per-request logging is kept to debug level; authentication failures
// and unhandled errors are always logged.
package api
