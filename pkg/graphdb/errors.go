package graphdb

import "errors"

var (
	ErrInvalidConfig      = errors.New("graphdb: invalid configuration")
	ErrNotBound           = errors.New("graphdb: extension is not bound to the current application")
	ErrNoApplication      = errors.New("graphdb: no application in context")
	ErrNilApplication     = errors.New("graphdb: application is nil")
	ErrInvalidApplication = errors.New("graphdb: application type is not comparable")
	ErrHealthcheckFailed  = errors.New("graphdb: healthcheck failed")
)
