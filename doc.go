// Package pave (Parse And Validate Everything) turns loosely typed input,
// such as maps and keyword lists, into strongly typed validated values, and
// reports failures as structured data.
//
// The package has two layers.
//
// Validators and combinators. A Validator[T] is a pure function from any
// input to a Result[T]. Leaf validators (String, Integer, Float, Boolean,
// UUID, Any) check a single value; combinators build new validators from
// existing ones:
//   - Predicate and OneOf accept values satisfying a test, rejecting with an
//     ErrorSpec that is either Fixed or Computed from the rejected value.
//   - Maybe lifts a validator over Option.
//   - List, NonEmptyList and SetOf validate every element of a collection
//     and report the first failing one in a failed_element detail.
//   - Chain and Transform compose validators.
//
// Field-spec constructors. New (or Kv) compiles an ordered list of field
// specs into a Constructor. Each field is required, optional (absence gives
// Nothing, presence Just(value)) or defaulted (absence gives the default,
// used as-is). Running a Constructor accepts a map with string keys or a
// keyword list ([]Pair) and returns a map from field name to value; the
// first failing field aborts with an error whose details carry the field
// and the normalized input. Struct and StructOf additionally map the
// result onto a struct type.
//
// Every failure is an *Error with a Kind (always "domain" for validation
// failures), a Reason such as "field_not_found_in_input", and Details.
// Nothing panics and nothing is retried; errors are values.
//
// Raw payloads can be decoded before a Constructor runs through a
// SourceRegistry. Built in sources handle JSON ([]byte and string),
// YAML, MessagePack, *http.Request, map[string]any and []Pair. Several
// sources share the []byte payload type, so those are selected by name:
//
//	c := pave.MustNew([]pave.FieldSpec{
//		pave.Field("name", pave.String()),
//		pave.DefaultField("age", pave.Integer(), 21),
//	})
//	values, err := pave.WithSource(pave.YAMLByteSliceSourceName).Run(c, doc)
//
// If a destination struct implements Validatable, Parse calls its
// Validate method after populating it and zeroes it on any failure.
package pave
