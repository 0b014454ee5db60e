// Package logger provides structured logging with context extraction and Sentry integration.
//
// This package extends the standard library's log/slog with two key capabilities:
// automatic context-based attribute injection and optional Sentry error reporting.
// It is designed for production applications that need consistent, enriched logs
// with minimal boilerplate.
//
// # Overview
//
// The package provides:
//   - Context extractors that automatically inject request-scoped values (e.g., request IDs, user IDs)
//   - A handler wrapper that adds extracted attributes to any slog.Handler
//   - The serving app name on every record logged with a request context
//   - Sentry integration for error tracking with graceful fallback when unconfigured
//
// # Basic Usage
//
// Create a logger with context extractors:
//
//	// Define an extractor for request ID
//	requestIDExtractor := func(ctx context.Context) (slog.Attr, bool) {
//		if reqID, ok := ctx.Value("request_id").(string); ok && reqID != "" {
//			return slog.String("request_id", reqID), true
//		}
//		return slog.Attr{}, false
//	}
//
//	// Create logger with extractors
//	log := logger.New(requestIDExtractor)
//
//	// Use with context - request_id is automatically included
//	ctx := context.WithValue(context.Background(), "request_id", "abc-123")
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//	// Output: {"level":"INFO","msg":"request processed","status":200,"request_id":"abc-123"}
//
// # Configuration
//
// New reads LOG_LEVEL (debug, info, warn, error) and LOG_FORMAT (json, text)
// from the process environment. Use LoadConfig with any key/value source, such
// as a neoforge App, and NewWithConfig to configure a logger explicitly:
//
//	cfg, err := logger.LoadConfig(app)
//	if err != nil {
//		return err
//	}
//	log := logger.NewWithConfig(cfg, os.Stderr, requestIDExtractor)
//
// # Sentry Integration
//
// For production error tracking, use NewWithSentry:
//
//	cfg, err := logger.LoadSentryConfig(nil) // SENTRY_DSN, SENTRY_ENVIRONMENT, SENTRY_MIN_LEVEL
//	if err != nil {
//		return err
//	}
//
//	log := logger.NewWithSentry(cfg, requestIDExtractor)
//
//	// Errors create Issues in Sentry, warnings are stored for context
//	log.ErrorContext(ctx, "payment failed", slog.String("user_id", "user-456"))
//
// If SENTRY_DSN is empty, the logger gracefully falls back to stdout-only logging,
// making it safe to use the same code path in development and production.
//
// # Context Extractors
//
// A ContextExtractor is a function that extracts a log attribute from context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors are called on every log call, ensuring fresh values for request-scoped data.
// Return false from the extractor to skip adding the attribute for that log entry.
//
// AppExtractor is installed on every logger built by this package. It adds
// "app" with the name of the neoforge App found in the context, so one
// process serving several domains still produces attributable logs. When two
// extractors produce the same key, the first one wins.
//
// # Custom Handlers
//
// NewContextHandler adds extraction to any slog.Handler:
//
//	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	log := slog.New(logger.NewContextHandler(jsonHandler, logger.AppExtractor(), requestIDExtractor))
//
// With Sentry configured, records go to stdout and Sentry. A failure in one
// destination does not stop delivery to the other.
package logger
