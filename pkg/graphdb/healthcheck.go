package graphdb

import (
	"context"
	"errors"
)

// Healthcheck returns a closure that verifies connectivity of the driver bound to app.
// Compatible with health check interfaces that expect func(context.Context) error.
func Healthcheck(ext *Extension, app Application) func(context.Context) error {
	return func(ctx context.Context) error {
		if ext == nil {
			return ErrHealthcheckFailed
		}
		driver, err := ext.DriverFor(app)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// ContextHealthcheck is like Healthcheck but resolves the application from the
// check's context. Readiness probes served by a neoforge App receive a request
// context that carries the app, so one check serves every bound application.
func ContextHealthcheck(ext *Extension) func(context.Context) error {
	return func(ctx context.Context) error {
		if ext == nil {
			return ErrHealthcheckFailed
		}
		driver, err := ext.Driver(ctx)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
