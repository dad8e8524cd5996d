package pave

import (
	"reflect"
)

// FieldSpec declares one expected key of a record: its name, the validator
// for its value, and whether it is required, optional or defaulted.
//
// Optional and a present Default are mutually exclusive; New rejects a spec
// that sets both.
type FieldSpec struct {
	Name      string
	Validator Validator[any]
	Optional  bool
	Default   Option[any]
}

// Field declares a required field.
func Field[T any](name string, v Validator[T]) FieldSpec {
	return FieldSpec{Name: name, Validator: eraseValidator(v)}
}

// OptionalField declares a field whose absence yields Nothing and whose
// presence yields Just(validated value).
func OptionalField[T any](name string, v Validator[T]) FieldSpec {
	return FieldSpec{Name: name, Validator: eraseValidator(v), Optional: true}
}

// DefaultField declares a field whose absence yields def, used as-is.
func DefaultField[T any](name string, v Validator[T], def any) FieldSpec {
	return FieldSpec{Name: name, Validator: eraseValidator(v), Default: Just(def)}
}

func eraseValidator[T any](v Validator[T]) Validator[any] {
	if v == nil {
		return nil
	}
	if va, ok := any(v).(Validator[any]); ok {
		return va
	}
	return v.Erase()
}

// field is a compiled FieldSpec.
type field struct {
	name      string
	validator Validator[any]
	optional  bool
	def       Option[any]
}

func (f field) required() bool {
	return !f.optional && f.def.IsNothing()
}

// compileSpec normalizes one raw spec. Accepted shapes are FieldSpec,
// *FieldSpec, and the tuples []any{name, validator} and
// []any{name, validator, opts} where opts is a map[string]any holding a
// single "optional" or "default" entry.
func compileSpec(raw any) (field, bool) {
	switch spec := raw.(type) {
	case FieldSpec:
		return compileFieldSpec(spec)
	case *FieldSpec:
		if spec == nil {
			return field{}, false
		}
		return compileFieldSpec(*spec)
	case []any:
		return compileTuple(spec)
	default:
		return field{}, false
	}
}

func compileFieldSpec(spec FieldSpec) (field, bool) {
	if spec.Name == "" || spec.Validator == nil {
		return field{}, false
	}
	if spec.Optional && spec.Default.IsJust() {
		return field{}, false
	}
	return field{
		name:      spec.Name,
		validator: spec.Validator,
		optional:  spec.Optional,
		def:       spec.Default,
	}, true
}

func compileTuple(tuple []any) (field, bool) {
	if len(tuple) != 2 && len(tuple) != 3 {
		return field{}, false
	}

	name, ok := symbol(tuple[0])
	if !ok || name == "" {
		return field{}, false
	}
	v, ok := validatorOf(tuple[1])
	if !ok {
		return field{}, false
	}
	spec := FieldSpec{Name: name, Validator: v}

	if len(tuple) == 3 {
		opts, ok := tuple[2].(map[string]any)
		if !ok || len(opts) == 0 {
			return field{}, false
		}
		for key, value := range opts {
			switch key {
			case OptionalSpecOption:
				optional, ok := value.(bool)
				if !ok {
					return field{}, false
				}
				spec.Optional = optional
			case DefaultSpecOption:
				spec.Default = Just(value)
			default:
				return field{}, false
			}
		}
	}

	return compileFieldSpec(spec)
}

var (
	anyType          = reflect.TypeFor[any]()
	erasedResultType = reflect.TypeFor[erasedResult]()
)

// validatorOf erases a validator given loosely in a tuple: a Validator[T],
// or any non-nil func(any) Result[T].
func validatorOf(value any) (Validator[any], bool) {
	if v, ok := value.(erasable); ok {
		if reflect.ValueOf(v).IsNil() {
			return nil, false
		}
		return v.Erase(), true
	}

	fn := reflect.ValueOf(value)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, false
	}
	typ := fn.Type()
	if typ.NumIn() != 1 || typ.In(0) != anyType || typ.IsVariadic() ||
		typ.NumOut() != 1 || !typ.Out(0).Implements(erasedResultType) {
		return nil, false
	}
	return func(input any) Result[any] {
		out := fn.Call([]reflect.Value{reflect.ValueOf(&input).Elem()})[0]
		value, err := out.Interface().(erasedResult).erased()
		if err != nil {
			return Fail[any](err)
		}
		return Ok(value)
	}, true
}

// symbol reports whether key is a string-kinded value and returns it.
func symbol(key any) (string, bool) {
	if s, ok := key.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(key)
	if !rv.IsValid() || rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}
