// Package app wires the wbreport HTTP server: telemetry providers, the
// analysis and health services, the chi router with its middleware chain and
// the server lifecycle.
//
// # Middleware
//
// Every API request passes through, in order:
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer → StripSlashes
//	→ SecureHeaders → CORS → RateLimiter
//
// Analysis routes add a run deadline (Server.RunTimeout) and a request body
// bound derived from Upload.MaxBytes. The Prometheus handler is mounted at
// /metrics outside the chain.
//
// # Usage
//
//	app, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM. Serve and the shutdown watcher share
// an errgroup, so a listener failure also triggers shutdown. Shutdown waits
// up to Server.ShutdownTimeout for in-flight analyses, then flushes
// telemetry. The package never calls os.Exit.
package app
