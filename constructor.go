package pave

import (
	"reflect"
)

///////////////////////////////////////////////////////////////////////////////
// Constructor
///////////////////////////////////////////////////////////////////////////////

// Constructor is a compiled, reusable record validator built from an
// ordered list of field specs. It is immutable once built and safe for
// concurrent use.
type Constructor struct {
	fields []field
}

// New compiles specs into a Constructor.
//
// specs must be a sequence; each element is a FieldSpec, a *FieldSpec, or a
// tuple ([]any{name, validator} / []any{name, validator, opts}) whose
// validator is a Validator[T] or a plain func(any) Result[T]. The first
// invalid element aborts compilation with an invalid_field_spec error whose
// details carry the offending element.
func New(specs any) Result[*Constructor] {
	raw, ok := sequence(specs)
	if !ok {
		return Fail[*Constructor](NewError(ReasonNotAList, map[string]any{DetailInput: specs}))
	}

	fields := make([]field, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, spec := range raw {
		f, ok := compileSpec(spec)
		if !ok {
			return Fail[*Constructor](invalidSpec(spec))
		}
		if _, dup := seen[f.name]; dup {
			return Fail[*Constructor](invalidSpec(spec))
		}
		seen[f.name] = struct{}{}
		fields = append(fields, f)
	}

	return Ok(&Constructor{fields: fields})
}

// MustNew is New that panics on an invalid spec list. It is meant for
// package-level constructors built from literal specs.
func MustNew(specs any) *Constructor {
	c, err := New(specs).Get()
	if err != nil {
		panic("pave: " + err.Error())
	}
	return c
}

func invalidSpec(spec any) *Error {
	return NewError(ReasonInvalidFieldSpec, map[string]any{DetailSpec: spec})
}

// Fields returns the declared field names in order.
func (c *Constructor) Fields() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.name
	}
	return names
}

// Run validates input against the compiled fields.
//
// input must be a map with string keys or a keyword list (see Pair). Fields
// are processed in declaration order and the first failing field aborts the
// run. On success the result maps every declared field name to its value;
// keys in input that no field declares are ignored.
func (c *Constructor) Run(input any) Result[map[string]any] {
	view, ok := newInputView(input)
	if !ok {
		return Fail[map[string]any](NewError(ReasonInvalidInput, map[string]any{DetailInput: input}))
	}

	out := make(map[string]any, len(c.fields))
	for _, f := range c.fields {
		value, err := f.run(view)
		if err != nil {
			return Fail[map[string]any](err)
		}
		out[f.name] = value
	}
	return Ok(out)
}

// Validator returns c as a Validator.
func (c *Constructor) Validator() Validator[map[string]any] {
	return c.Run
}

func (f field) run(view inputView) (any, *Error) {
	raw, present := view.lookup(f.name)
	if !present {
		switch {
		case f.optional:
			return Nothing[any](), nil
		case f.def.IsJust():
			return f.def.Unwrap(), nil
		default:
			return nil, NewError(ReasonFieldNotFoundInInput, f.errorDetails(view))
		}
	}

	r := f.validator(raw)
	if r.IsErr() {
		return nil, r.Err().WithDetails(f.errorDetails(view))
	}
	if f.optional {
		return Just(r.Value()), nil
	}
	return r.Value(), nil
}

func (f field) errorDetails(view inputView) map[string]any {
	return map[string]any{
		DetailField: f.name,
		DetailInput: view.normalized(),
	}
}

// Kv compiles specs into a record validator. It is New followed by
// Constructor.Validator.
func Kv(specs any) Result[Validator[map[string]any]] {
	return MapResult(New(specs), (*Constructor).Validator)
}

///////////////////////////////////////////////////////////////////////////////
// Input views
///////////////////////////////////////////////////////////////////////////////

// Pair is one entry of a keyword list: an ordered sequence of key/value
// pairs with unique keys, accepted anywhere a map is.
type Pair struct {
	Key   string
	Value any
}

// KV builds a keyword list from alternating keys and values. It panics on
// an odd number of arguments or a non string key.
func KV(keyvals ...any) []Pair {
	if len(keyvals)%2 != 0 {
		panic("pave: KV requires an even number of arguments")
	}
	pairs := make([]Pair, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := symbol(keyvals[i])
		if !ok {
			panic("pave: KV keys must be strings")
		}
		pairs = append(pairs, Pair{Key: key, Value: keyvals[i+1]})
	}
	return pairs
}

// inputView is the single lookup interface over the accepted input shapes.
type inputView interface {
	lookup(key string) (any, bool)
	normalized() map[string]any
}

type mapView map[string]any

func (m mapView) lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapView) normalized() map[string]any {
	return m
}

// pairView indexes a keyword list by key.
type pairView struct {
	index map[string]any
}

func (p pairView) lookup(key string) (any, bool) {
	v, ok := p.index[key]
	return v, ok
}

func (p pairView) normalized() map[string]any {
	return p.index
}

// newInputView checks the shape of input once and wraps it.
func newInputView(input any) (inputView, bool) {
	switch in := input.(type) {
	case map[string]any:
		if in == nil {
			return mapView{}, true
		}
		return mapView(in), true
	case []Pair:
		return newPairView(in)
	}

	rv := reflect.ValueOf(input)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return mapView(m), true
	case reflect.Slice, reflect.Array:
		elems, _ := sequence(input)
		pairs := make([]Pair, 0, len(elems))
		for _, elem := range elems {
			pair, ok := asPair(elem)
			if !ok {
				return nil, false
			}
			pairs = append(pairs, pair)
		}
		return newPairView(pairs)
	default:
		return nil, false
	}
}

func newPairView(pairs []Pair) (inputView, bool) {
	index := make(map[string]any, len(pairs))
	for _, p := range pairs {
		if _, dup := index[p.Key]; dup {
			return nil, false
		}
		index[p.Key] = p.Value
	}
	return pairView{index: index}, true
}

// asPair accepts a Pair, a *Pair, or a two element []any / [2]any whose
// first element is a string-kinded key.
func asPair(elem any) (Pair, bool) {
	switch e := elem.(type) {
	case Pair:
		return e, true
	case *Pair:
		if e == nil {
			return Pair{}, false
		}
		return *e, true
	case []any:
		if len(e) != 2 {
			return Pair{}, false
		}
		key, ok := symbol(e[0])
		return Pair{Key: key, Value: e[1]}, ok
	case [2]any:
		key, ok := symbol(e[0])
		return Pair{Key: key, Value: e[1]}, ok
	default:
		return Pair{}, false
	}
}
