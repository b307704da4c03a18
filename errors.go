package orchestra

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnknownObject reports an object id that is not part of the base state.
	ErrUnknownObject = errors.New("unknown object")
	// ErrUnknownField reports a field that the object's base state does not
	// declare, or that has no entry in the Fields capability table.
	ErrUnknownField = errors.New("unknown field")
	// ErrMalformedEntry reports a keyframe entry that is neither an inherit
	// marker nor a value.
	ErrMalformedEntry = errors.New("malformed keyframe entry")
	// ErrInvalidTime reports a keyframe time that is not a finite, non-negative
	// number, or a NaN query time.
	ErrInvalidTime = errors.New("invalid time")
	// ErrInvalidConfig reports a clip option with an unusable value.
	ErrInvalidConfig = errors.New("invalid clip config")
	// ErrValueType reports a stored value whose type does not match its field.
	ErrValueType = errors.New("value type mismatch")
)

// CompileError locates a compile-time failure within the keyframe definition.
type CompileError struct {
	Object string
	Field  string
	Time   float64
	// TimeKey is the raw time key when the time could not be parsed.
	TimeKey string
	Err     error
}

func (e *CompileError) Error() string {
	at := strconv.FormatFloat(e.Time, 'g', -1, 64)
	if e.TimeKey != "" {
		at = strconv.Quote(e.TimeKey)
	}
	if e.Field == "" {
		return fmt.Sprintf("orchestra: object %q at t=%s: %v", e.Object, at, e.Err)
	}
	return fmt.Sprintf("orchestra: object %q field %q at t=%s: %v", e.Object, e.Field, at, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// LookupError is returned when a query names an object or field the store
// does not know.
type LookupError struct {
	Object string
	Field  string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("orchestra: object %q: %v", e.Object, e.Err)
	}
	return fmt.Sprintf("orchestra: object %q field %q: %v", e.Object, e.Field, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
