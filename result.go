package pave

// Result is the outcome of running a validator: either a validated value or
// a structured *Error.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok creates a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail creates a failed Result. A nil err is replaced by an invalid_value
// error so a failed Result always carries one.
func Fail[T any](err *Error) Result[T] {
	if err == nil {
		err = NewError(ReasonInvalidValue, nil)
	}
	return Result[T]{err: err}
}

// IsOk returns true if the Result is successful.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr returns true if the Result is an error.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Value returns the success value, or the zero value on error.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error, or nil on success.
func (r Result[T]) Err() *Error {
	return r.err
}

// Get unpacks the Result into Go's (value, error) convention. The error is a
// nil interface on success.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		return r.value, r.err
	}
	return r.value, nil
}

// Unwrap returns the success value or panics on error.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic("called Unwrap on Fail: " + r.err.Error())
	}
	return r.value
}

// UnwrapOr returns the success value or a default.
func (r Result[T]) UnwrapOr(defaultValue T) T {
	if r.err != nil {
		return defaultValue
	}
	return r.value
}

// MapResult applies fn to the success value.
func MapResult[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return Ok(fn(r.value))
}

// FlatMapResult applies a function that itself returns a Result.
func FlatMapResult[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return fn(r.value)
}

// erasedResult is satisfied by every Result[T].
type erasedResult interface {
	erased() (any, *Error)
}

func (r Result[T]) erased() (any, *Error) {
	return r.value, r.err
}
