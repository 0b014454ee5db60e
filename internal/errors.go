package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/neoforge/pkg/graphdb"
	"github.com/dmitrymomot/neoforge/pkg/graphmodel"
)

// HTTPError represents an HTTP error with all data needed for rendering.
// It implements the error interface and provides structured data for
// error handlers to render error bodies.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Title is an optional title for the error (defaults derived from Code).
	Title string

	// Detail is an optional extended description.
	Detail string

	// ErrorCode is an application-specific error code for clients.
	ErrorCode string

	// RequestID is the request tracking ID.
	RequestID string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusBadRequest, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusUnauthorized, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusForbidden, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusNotFound, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusConflict, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusUnprocessableEntity, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusInternalServerError, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusServiceUnavailable, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrGatewayTimeout(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusGatewayTimeout, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Helper functions for error inspection.

// IsHTTPError reports whether err is or wraps an *HTTPError.
func IsHTTPError(err error) bool {
	return AsHTTPError(err) != nil
}

// AsHTTPError extracts the HTTPError from an error chain if present.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

type statusCoder interface {
	StatusCode() int
}

// toHTTPError maps err onto the status a client should see.
// Graph database errors get their own codes so handlers can return them as is.
func toHTTPError(err error) *HTTPError {
	if httpErr := AsHTTPError(err); httpErr != nil {
		return httpErr
	}

	// Errors from middleware (panics, timeouts) carry their own status.
	var sc statusCoder
	if errors.As(err, &sc) {
		he := NewHTTPError(sc.StatusCode(), http.StatusText(sc.StatusCode()))
		WithError(err)(he)
		return he
	}

	switch {
	case errors.Is(err, graphmodel.ErrNodeNotFound):
		return ErrNotFound("not found", WithError(err))
	case errors.Is(err, graphmodel.ErrInvalidValue),
		errors.Is(err, graphmodel.ErrUnknownField),
		errors.Is(err, graphmodel.ErrInvalidLabel):
		return ErrUnprocessable(err.Error(), WithError(err))
	case errors.Is(err, graphdb.ErrNotBound):
		return ErrServiceUnavailable("graph database unavailable", WithError(err))
	case errors.Is(err, context.DeadlineExceeded):
		return ErrGatewayTimeout(http.StatusText(http.StatusGatewayTimeout), WithError(err))
	default:
		return ErrInternal(http.StatusText(http.StatusInternalServerError), WithError(err))
	}
}

// errorBody is the JSON shape written by DefaultErrorHandler.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// DefaultErrorHandler renders errors as JSON.
// Server errors are logged with the underlying cause. Their message never
// reaches the client.
func DefaultErrorHandler(c Context, err error) error {
	he := toHTTPError(err)

	if he.Code >= http.StatusInternalServerError {
		c.LogError("request failed",
			slog.Int("status", he.Code),
			slog.String("path", c.Request().URL.Path),
			slog.Any("error", err),
		)
	}

	reqID := he.RequestID
	if reqID == "" {
		// Set by the RequestID middleware.
		reqID = c.Response().Header().Get("X-Request-ID")
	}

	return c.JSON(he.Code, errorBody{
		Error:     he.Message,
		Code:      he.ErrorCode,
		Detail:    he.Detail,
		RequestID: reqID,
	})
}
