package pave

import (
	"fmt"
	"reflect"
)

// Option represents an optional value that may or may not be present.
// Optional fields produce Option[any], and the Maybe combinator validates
// the value inside one.
type Option[T any] struct {
	value   T
	present bool
}

// Just creates an Option containing a value.
func Just[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// Nothing creates an empty Option.
func Nothing[T any]() Option[T] {
	return Option[T]{}
}

// IsJust returns true if the Option contains a value.
func (o Option[T]) IsJust() bool {
	return o.present
}

// IsNothing returns true if the Option is empty.
func (o Option[T]) IsNothing() bool {
	return !o.present
}

// Get returns the contained value and whether it was present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// Unwrap returns the contained value or panics if empty.
func (o Option[T]) Unwrap() T {
	if !o.present {
		panic("called Unwrap on Nothing")
	}
	return o.value
}

// UnwrapOr returns the contained value or a default.
func (o Option[T]) UnwrapOr(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Option[T]) String() string {
	if o.present {
		return fmt.Sprintf("Just(%v)", o.value)
	}
	return "Nothing"
}

// optional is satisfied by every Option[T]; it lets Maybe and the struct
// mapper look inside an option without knowing T.
type optional interface {
	anyValue() (any, bool)
}

func (o Option[T]) anyValue() (any, bool) {
	return o.value, o.present
}

// optionSetter is satisfied by *Option[T].
type optionSetter interface {
	setAny(value any, present bool) bool
}

// setAny stores value into o, converting it to T when needed. It reports
// false if value cannot become a T.
func (o *Option[T]) setAny(value any, present bool) bool {
	if !present {
		*o = Nothing[T]()
		return true
	}
	if v, ok := value.(T); ok {
		*o = Just(v)
		return true
	}
	rv, ok := convertTo(value, reflect.TypeFor[T]())
	if !ok {
		return false
	}
	v, _ := rv.Interface().(T)
	*o = Just(v)
	return true
}
