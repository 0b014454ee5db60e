package graphmodel

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validator checks a single property value before it is stored on a node.
type Validator interface {
	Validate(v any) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(v any) error

func (f ValidatorFunc) Validate(v any) error { return f(v) }

// Integer accepts any Go integer type.
type Integer struct {
	// Positive rejects negative values. Zero is allowed.
	Positive bool
}

func (i Integer) Validate(v any) error {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8, uint16, uint32:
		return nil
	case uint:
		return fitsInt64(uint64(x))
	case uint64:
		return fitsInt64(x)
	default:
		return fmt.Errorf("expected an integer, got %T", v)
	}
	if i.Positive && n < 0 {
		return fmt.Errorf("%d is not a positive integer", n)
	}
	return nil
}

// fitsInt64 rejects unsigned values Neo4j cannot store as a 64-bit integer.
func fitsInt64(u uint64) error {
	if u > math.MaxInt64 {
		return fmt.Errorf("%d overflows a 64-bit signed integer", u)
	}
	return nil
}

// String accepts strings within an optional length range, counted in runes.
// A zero bound is not checked.
type String struct {
	MinLength int
	MaxLength int
}

func (s String) Validate(v any) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected a string, got %T", v)
	}
	n := utf8.RuneCountInString(str)
	if s.MaxLength > 0 && n > s.MaxLength {
		return fmt.Errorf("length %d exceeds max length %d", n, s.MaxLength)
	}
	if s.MinLength > 0 && n < s.MinLength {
		return fmt.Errorf("length %d is below min length %d", n, s.MinLength)
	}
	return nil
}

// Float accepts float32 and float64 values.
type Float struct {
	// Positive rejects negative values. Zero is allowed.
	Positive bool
}

func (f Float) Validate(v any) error {
	var n float64
	switch x := v.(type) {
	case float32:
		n = float64(x)
	case float64:
		n = x
	default:
		return fmt.Errorf("expected a float, got %T", v)
	}
	if f.Positive && n < 0 {
		return fmt.Errorf("%g is not a positive float", n)
	}
	return nil
}

// UUID accepts strings in any format understood by uuid.Parse.
type UUID struct{}

func (UUID) Validate(v any) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected a uuid string, got %T", v)
	}
	if _, err := uuid.Parse(str); err != nil {
		return fmt.Errorf("%q is not a uuid: %w", str, err)
	}
	return nil
}
