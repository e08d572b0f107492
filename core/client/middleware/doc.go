// Package middleware provides built-in middleware for the client. Each
// middleware is constructed via a New* function that returns a
// [client.MiddlewareConfig] ready to be passed to [client.WithMiddleware].
//
//   - [NewTimeoutMiddleware]: adds a per-request deadline via context.WithTimeout,
//     so a stalled provider call does not block the caller indefinitely.
//
//   - [NewLoggingMiddleware]: emits structured slog entries before and after
//     every provider call, with three verbosity levels (Minimal, Standard, Verbose).
//
// Usage:
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first: in the example above the timeout
// deadline also bounds the time spent in the logging middleware.
package middleware
