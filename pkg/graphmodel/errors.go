package graphmodel

import "errors"

var (
	ErrNodeNotFound   = errors.New("graphmodel: no nodes found")
	ErrUnknownField   = errors.New("graphmodel: field is not declared by the model")
	ErrInvalidValue   = errors.New("graphmodel: invalid field value")
	ErrInvalidLabel   = errors.New("graphmodel: invalid label")
	ErrDuplicateModel = errors.New("graphmodel: model already registered")
)
