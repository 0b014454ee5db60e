package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// PanicError is returned by Recover in place of a panic.
// DefaultErrorHandler renders it as 500 and never shows the panic value.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panic value that is itself an error, so errors.Is
// still finds, say, a driver error a handler panicked with.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// StatusCode reports the response status for a recovered panic.
func (e *PanicError) StatusCode() int { return http.StatusInternalServerError }

// TimeoutError is returned by Timeout when the handler misses its deadline.
// It matches context.DeadlineExceeded, like a graph query cancelled by the
// same deadline does.
type TimeoutError struct {
	Duration time.Duration // The timeout that was exceeded
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// StatusCode reports the response status for a timed out request.
func (e *TimeoutError) StatusCode() int { return http.StatusGatewayTimeout }
