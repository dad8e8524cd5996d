package pave

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

///////////////////////////////////////////////////////////////////////////////
// Validator
///////////////////////////////////////////////////////////////////////////////

// Validator is a pure function from loosely typed input to a validated T or
// a structured *Error. Validators hold no state and may be shared freely
// between goroutines.
type Validator[T any] func(input any) Result[T]

// Run invokes the validator on input.
func (v Validator[T]) Run(input any) Result[T] {
	return v(input)
}

// Erase forgets the output type so validators of different types can sit in
// the same field list.
func (v Validator[T]) Erase() Validator[any] {
	return func(input any) Result[any] {
		return MapResult(v(input), func(value T) any { return value })
	}
}

// erasable is satisfied by every Validator[T].
type erasable interface {
	Erase() Validator[any]
}

///////////////////////////////////////////////////////////////////////////////
// Combinators
///////////////////////////////////////////////////////////////////////////////

// Predicate accepts input that is a T for which pred holds, and rejects
// everything else with the error described by err.
func Predicate[T any](pred func(T) bool, err ErrorSpec) Validator[T] {
	return func(input any) Result[T] {
		value, ok := as[T](input)
		if !ok || !pred(value) {
			return Fail[T](resolveError(err, input))
		}
		return Ok(value)
	}
}

// OneOf accepts input equal to one of values.
func OneOf[T comparable](values []T, err ErrorSpec) Validator[T] {
	values = slices.Clone(values)
	return Predicate(func(value T) bool {
		return slices.Contains(values, value)
	}, err)
}

// Maybe lifts inner over Option: Nothing passes through untouched, Just(x)
// is validated by inner and re-wrapped. Input must be an Option of any type.
func Maybe[T any](inner Validator[T]) Validator[Option[T]] {
	return func(input any) Result[Option[T]] {
		opt, ok := input.(optional)
		if !ok {
			return Fail[Option[T]](NewError(ReasonNotAMaybe, map[string]any{DetailInput: input}))
		}
		value, present := opt.anyValue()
		if !present {
			return Ok(Nothing[T]())
		}
		return MapResult(inner(value), Just[T])
	}
}

// List validates every element of a slice or array with inner, in order.
// The first failing element aborts; its error keeps the inner kind, reason
// and details and gains a failed_element detail.
func List[T any](inner Validator[T]) Validator[[]T] {
	return func(input any) Result[[]T] {
		elems, ok := sequence(input)
		if !ok {
			return Fail[[]T](NewError(ReasonNotAList, map[string]any{DetailInput: input}))
		}
		return validateElements(inner, elems)
	}
}

// NonEmptyList is List that also rejects a zero-length sequence.
func NonEmptyList[T any](inner Validator[T]) Validator[[]T] {
	return func(input any) Result[[]T] {
		elems, ok := sequence(input)
		if !ok {
			return Fail[[]T](NewError(ReasonNotAList, map[string]any{DetailInput: input}))
		}
		if len(elems) == 0 {
			return Fail[[]T](NewError(ReasonEmptyList, map[string]any{DetailInput: input}))
		}
		return validateElements(inner, elems)
	}
}

// SetOf validates every member of a set with inner. Members are visited in
// a deterministic order (sorted by their printed form) so the reported
// failed_element does not depend on map iteration order.
func SetOf[T comparable](inner Validator[T]) Validator[Set[T]] {
	return func(input any) Result[Set[T]] {
		members, ok := setMembers(input)
		if !ok {
			return Fail[Set[T]](NewError(ReasonNotASet, map[string]any{DetailInput: input}))
		}
		out := make(Set[T], len(members))
		for _, member := range members {
			r := inner(member)
			if r.IsErr() {
				return Fail[Set[T]](r.Err().WithDetail(DetailFailedElement, member))
			}
			out[r.Value()] = struct{}{}
		}
		return Ok(out)
	}
}

// Chain feeds the output of first into next.
func Chain[T, U any](first Validator[T], next Validator[U]) Validator[U] {
	return func(input any) Result[U] {
		r := first(input)
		if r.IsErr() {
			return Fail[U](r.Err())
		}
		return next(r.Value())
	}
}

// Transform maps fn over the output of a successful validation.
func Transform[T, U any](v Validator[T], fn func(T) U) Validator[U] {
	return func(input any) Result[U] {
		return MapResult(v(input), fn)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

func validateElements[T any](inner Validator[T], elems []any) Result[[]T] {
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		r := inner(elem)
		if r.IsErr() {
			return Fail[[]T](r.Err().WithDetail(DetailFailedElement, elem))
		}
		out = append(out, r.Value())
	}
	return Ok(out)
}

// as asserts input to T, treating a nil input as the zero value of nilable
// types.
func as[T any](input any) (T, bool) {
	if value, ok := input.(T); ok {
		return value, true
	}
	var zero T
	if input == nil && isNilable(reflect.TypeFor[T]()) {
		return zero, true
	}
	return zero, false
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// sequence views a slice or array as []any.
func sequence(input any) ([]any, bool) {
	if xs, ok := input.([]any); ok {
		return xs, true
	}
	rv := reflect.ValueOf(input)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// setMembers returns the members of a map-backed set in sorted order. Maps
// whose values are zero-size structs hold every key; maps of bool hold the
// keys mapped to true.
func setMembers(input any) ([]any, bool) {
	rv := reflect.ValueOf(input)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}
	elem := rv.Type().Elem()
	isUnit := elem.Kind() == reflect.Struct && elem.Size() == 0
	if !isUnit && elem.Kind() != reflect.Bool {
		return nil, false
	}

	members := make([]any, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		if !isUnit && !iter.Value().Bool() {
			continue
		}
		members = append(members, iter.Key().Interface())
	}
	slices.SortFunc(members, func(a, b any) int {
		if c := cmp.Compare(fmt.Sprint(a), fmt.Sprint(b)); c != 0 {
			return c
		}
		return cmp.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
	})
	return members, true
}
