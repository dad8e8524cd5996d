package pave

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Sentinel errors
///////////////////////////////////////////////////////////////////////////////

var (
	// ErrDomain matches any *Error of kind KindDomain with errors.Is.
	ErrDomain = &Error{Kind: KindDomain}

	ErrSourceAlreadyRegistered  = errors.New("a source with this name for this source-type is already registered")
	ErrSourceNotFound           = errors.New("no registered source found for this type")
	ErrMultipleSourcesAvailable = errors.New("multiple sources available for this source type, use WithSource() to specify which one")
	ErrInvalidDestination       = errors.New("dest must be a non-nil pointer to a struct type")
	ErrNilConstructor           = errors.New("constructor cannot be nil")
)

// ReasonInvalidValue is used when a predicate fails and no ErrorSpec was given.
const ReasonInvalidValue = "invalid_value"

///////////////////////////////////////////////////////////////////////////////
// Error
///////////////////////////////////////////////////////////////////////////////

// Error is the structured failure value produced by every validator.
//
// Kind is a small fixed tag (KindDomain for validation failures), Reason a
// symbolic code such as "not_an_integer", and Details carries auxiliary
// diagnostic data like the offending field or input.
type Error struct {
	Kind    string
	Reason  string
	Details map[string]any
}

// NewError builds a domain error with the given reason and details.
func NewError(reason string, details map[string]any) *Error {
	if details == nil {
		details = map[string]any{}
	}
	return &Error{Kind: KindDomain, Reason: reason, Details: details}
}

// Error implements the error interface. Detail keys are rendered in sorted
// order so the message is stable.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s error: %s", e.Kind, e.Reason)
	if len(e.Details) == 0 {
		return sb.String()
	}
	sb.WriteString(" (")
	for i, key := range slices.Sorted(maps.Keys(e.Details)) {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", key, e.Details[key])
	}
	sb.WriteString(")")
	return sb.String()
}

// Is reports whether target is an *Error with the same kind and, when the
// target names one, the same reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// WithDetail returns a copy of e with key set to value.
func (e *Error) WithDetail(key string, value any) *Error {
	c := e.clone()
	c.Details[key] = value
	return c
}

// WithDetails returns a copy of e whose details are replaced by details.
func (e *Error) WithDetails(details map[string]any) *Error {
	return &Error{Kind: e.Kind, Reason: e.Reason, Details: maps.Clone(details)}
}

func (e *Error) clone() *Error {
	details := maps.Clone(e.Details)
	if details == nil {
		details = map[string]any{}
	}
	return &Error{Kind: e.Kind, Reason: e.Reason, Details: details}
}

// KindOf returns the kind of err if it is (or wraps) an *Error.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ReasonOf returns the reason of err if it is (or wraps) an *Error.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// DetailsOf returns the details of err if it is (or wraps) an *Error.
func DetailsOf(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// ErrorSpec
///////////////////////////////////////////////////////////////////////////////

// ErrorSpec describes how a rejecting validator builds its error: either a
// ready-made value (Fixed) or a function of the rejected input (Computed).
type ErrorSpec interface {
	resolve(input any) *Error
}

type fixedError struct {
	err *Error
}

func (f fixedError) resolve(any) *Error {
	if f.err == nil {
		return nil
	}
	return f.err.clone()
}

type computedError func(input any) *Error

func (c computedError) resolve(input any) *Error {
	return c(input)
}

// Fixed returns an ErrorSpec that always yields err.
func Fixed(err *Error) ErrorSpec {
	return fixedError{err: err}
}

// Computed returns an ErrorSpec that calls fn with the rejected input.
func Computed(fn func(input any) *Error) ErrorSpec {
	return computedError(fn)
}

// resolveError builds the error for a rejected input.
func resolveError(spec ErrorSpec, input any) *Error {
	if spec == nil {
		return NewError(ReasonInvalidValue, map[string]any{DetailInput: input})
	}
	if err := spec.resolve(input); err != nil {
		return err
	}
	return NewError(ReasonInvalidValue, map[string]any{DetailInput: input})
}
