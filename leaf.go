package pave

import (
	"math"
	"reflect"

	"github.com/google/uuid"
)

// Leaf validators. These are plain type checks meant to be plugged into
// the combinators; each rejects with a not_a_<type> reason carrying the
// input in its details.

func leafError(reason string, input any) *Error {
	return NewError(reason, map[string]any{DetailInput: input})
}

// Any accepts every input unchanged.
func Any() Validator[any] {
	return func(input any) Result[any] {
		return Ok(input)
	}
}

// String accepts string-kinded input.
func String() Validator[string] {
	return func(input any) Result[string] {
		if s, ok := symbol(input); ok {
			return Ok(s)
		}
		return Fail[string](leafError(ReasonNotAString, input))
	}
}

// Integer accepts any Go integer that fits in an int. Floats with no
// fractional part are accepted too, since decoded documents (JSON, YAML,
// msgpack) may carry whole numbers as floats.
func Integer() Validator[int] {
	return func(input any) Result[int] {
		if i, ok := input.(int); ok {
			return Ok(i)
		}
		rv := reflect.ValueOf(input)
		if !rv.IsValid() {
			return Fail[int](leafError(ReasonNotAnInteger, input))
		}
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := rv.Int()
			if n < math.MinInt || n > math.MaxInt {
				break
			}
			return Ok(int(n))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			n := rv.Uint()
			if n > math.MaxInt {
				break
			}
			return Ok(int(n))
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
				break
			}
			return Ok(int(f))
		}
		return Fail[int](leafError(ReasonNotAnInteger, input))
	}
}

// Float accepts any Go float or integer and returns it as a float64.
func Float() Validator[float64] {
	return func(input any) Result[float64] {
		rv := reflect.ValueOf(input)
		if !rv.IsValid() {
			return Fail[float64](leafError(ReasonNotAFloat, input))
		}
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return Ok(rv.Float())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return Ok(float64(rv.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return Ok(float64(rv.Uint()))
		}
		return Fail[float64](leafError(ReasonNotAFloat, input))
	}
}

// Boolean accepts bool-kinded input.
func Boolean() Validator[bool] {
	return func(input any) Result[bool] {
		rv := reflect.ValueOf(input)
		if rv.IsValid() && rv.Kind() == reflect.Bool {
			return Ok(rv.Bool())
		}
		return Fail[bool](leafError(ReasonNotABoolean, input))
	}
}

// UUID accepts a uuid.UUID or a string that parses as one.
func UUID() Validator[uuid.UUID] {
	return func(input any) Result[uuid.UUID] {
		switch v := input.(type) {
		case uuid.UUID:
			return Ok(v)
		case string:
			id, err := uuid.Parse(v)
			if err == nil {
				return Ok(id)
			}
		case []byte:
			id, err := uuid.ParseBytes(v)
			if err == nil {
				return Ok(id)
			}
		}
		return Fail[uuid.UUID](leafError(ReasonNotAUUID, input))
	}
}
