package orchestra

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// InterpolateFunc blends two stored values of a field by progress alpha.
type InterpolateFunc func(a, b Value, alpha float64, cfg ResolvedConfig) (Value, error)

// ApplyFunc writes the raw pair of values and their progress onto a live
// target. It receives the pair rather than a blended value so that fields
// which cannot be reduced to a single interpolated value (discrete states)
// can blend on their own terms.
type ApplyFunc func(target any, a, b Value, alpha float64) error

// Field is the capability set for one animatable field.
type Field struct {
	Interpolate InterpolateFunc
	// Apply is optional; fields without it are evaluated but never applied.
	Apply ApplyFunc
	// Check validates a stored value at compile time. Optional.
	Check func(v Value) error
	// Decode converts a document node into a stored value. Optional; fields
	// without it cannot be loaded from documents.
	Decode func(node *yaml.Node) (Value, error)
	// Config is the field-level clip configuration layer.
	Config ClipConfig
}

// Fields is the capability table, keyed by field id.
type Fields map[string]Field

// NewField builds a Field whose values are of type V and whose targets are of
// type T. Values of the wrong type are reported as ErrValueType rather than
// panicking; numeric values are converted when V is a numeric type.
func NewField[V, T any](lerp func(a, b V, alpha float64) V, apply func(target T, a, b V, alpha float64)) Field {
	if lerp == nil {
		panic("orchestra: NewField requires an interpolation func")
	}
	f := Field{
		Interpolate: func(a, b Value, alpha float64, _ ResolvedConfig) (Value, error) {
			av, bv, err := valuePair[V](a, b)
			if err != nil {
				return nil, err
			}
			return lerp(av, bv, alpha), nil
		},
		Check: func(v Value) error {
			_, err := valueAs[V](v)
			return err
		},
		Decode: func(node *yaml.Node) (Value, error) {
			var v V
			if err := node.Decode(&v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
	if apply != nil {
		f.Apply = func(target any, a, b Value, alpha float64) error {
			tgt, ok := target.(T)
			if !ok {
				var zero T
				return fmt.Errorf("%w: target is %T, want %T", ErrValueType, target, zero)
			}
			av, bv, err := valuePair[V](a, b)
			if err != nil {
				return err
			}
			apply(tgt, av, bv, alpha)
			return nil
		}
	}
	return f
}

// WithConfig returns a copy of f using cfg as its field-level config layer.
func (f Field) WithConfig(cfg ClipConfig) Field {
	f.Config = cfg
	return f
}

func valuePair[V any](a, b Value) (V, V, error) {
	av, err := valueAs[V](a)
	if err != nil {
		return av, av, err
	}
	bv, err := valueAs[V](b)
	return av, bv, err
}

func valueAs[V any](v Value) (V, error) {
	if tv, ok := v.(V); ok {
		return tv, nil
	}
	var zero V
	want := reflect.TypeOf(&zero).Elem()
	rv := reflect.ValueOf(v)
	if rv.IsValid() && isNumeric(rv.Kind()) && isNumeric(want.Kind()) {
		return rv.Convert(want).Interface().(V), nil
	}
	return zero, fmt.Errorf("%w: got %T, want %s", ErrValueType, v, want)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
