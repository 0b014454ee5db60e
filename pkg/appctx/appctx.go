// Package appctx carries the current application through a context.Context.
//
// The host framework stores the serving application in every request context.
// Background work outside a request (CLI commands, jobs, tests) sets it
// explicitly with WithApp.
package appctx

import "context"

type appKey struct{}

// WithApp returns a copy of ctx that carries app.
func WithApp(ctx context.Context, app any) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// From returns the application stored in ctx.
func From(ctx context.Context) (any, bool) {
	if ctx == nil {
		return nil, false
	}
	app := ctx.Value(appKey{})
	return app, app != nil
}

// As returns the application stored in ctx as T.
// It reports false when ctx has no application or the application is not a T.
func As[T any](ctx context.Context) (T, bool) {
	v, ok := From(ctx)
	if !ok {
		var zero T
		return zero, false
	}
	app, ok := v.(T)
	return app, ok
}
