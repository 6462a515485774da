// Package logging provides structured logging for switchhook.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "2.0.0")
//	logger.Info("starting service", "port", 8099)
//	logger.Error("failed to bind", "error", err)
//
// # Security
//
// Never log bearer tokens or the JWT secret. Auth failures are logged
// with the failure reason only, never the presented credential.
package logging
