package pave

import (
	"reflect"
	"strings"
	"sync"
)

///////////////////////////////////////////////////////////////////////////////
// Struct mapping
///////////////////////////////////////////////////////////////////////////////

// Struct compiles specs, runs them on input and maps the resulting fields
// onto a new T. A spec compilation error is returned as New reports it,
// without looking at input.
//
// Each field is matched to a struct attribute by its `kv:"name"` tag, then
// by exact Go field name, then case-insensitively. Optional fields may land
// in an Option[X] attribute or in a *X attribute (nil for Nothing).
func Struct[T any](specs any, input any) Result[T] {
	return FlatMapResult(New(specs), func(c *Constructor) Result[T] {
		return StructOf[T](c, input)
	})
}

// StructOf runs c on input and maps the result onto a new T.
func StructOf[T any](c *Constructor, input any) Result[T] {
	var dest T
	target := reflect.ValueOf(&dest).Elem()
	if target.Kind() != reflect.Struct {
		return Fail[T](NewError(ReasonNotAStruct, map[string]any{DetailType: target.Type().String()}))
	}

	r := c.Run(input)
	if r.IsErr() {
		return Fail[T](r.Err())
	}
	if e := assignStruct(target, r.Value(), c.fields); e != nil {
		return Fail[T](e)
	}
	return Ok(dest)
}

// Into runs c on input and populates the struct dest points to. On failure
// dest is reset to its zero value and the returned error is an *Error.
func (c *Constructor) Into(input any, dest any) error {
	target, err := structTarget(dest)
	if err != nil {
		return err
	}

	values, err := c.Run(input).Get()
	if err != nil {
		target.SetZero()
		return err
	}
	if e := assignStruct(target, values, c.fields); e != nil {
		target.SetZero()
		return e
	}
	return nil
}

// structTarget checks that dest is a non-nil pointer to a struct and returns
// the struct value.
func structTarget(dest any) (reflect.Value, error) {
	value := reflect.ValueOf(dest)
	if !value.IsValid() ||
		value.Kind() != reflect.Ptr ||
		value.IsNil() ||
		value.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, ErrInvalidDestination
	}
	return value.Elem(), nil
}

func assignStruct(target reflect.Value, values map[string]any, fields []field) *Error {
	plan := getStructPlan(target.Type())
	for _, f := range fields {
		index, ok := plan.lookup(f.name)
		if !ok {
			return NewError(ReasonUnknownStructField, map[string]any{
				DetailField: f.name,
				DetailType:  target.Type().String(),
			})
		}
		fv, ok := fieldByIndexAlloc(target, index)
		if !ok || !setFieldValue(fv, values[f.name]) {
			return NewError(ReasonInvalidStructField, map[string]any{
				DetailField: f.name,
				DetailType:  target.Type().String(),
			})
		}
	}
	return nil
}

// fieldByIndexAlloc is FieldByIndex that allocates nil embedded pointers on
// the way down.
func fieldByIndexAlloc(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

///////////////////////////////////////////////////////////////////////////////
// Struct plans
///////////////////////////////////////////////////////////////////////////////

// structPlan resolves field names to struct attribute indexes for one type.
type structPlan struct {
	tagged map[string][]int
	named  map[string][]int
	folded map[string][]int
}

func (p *structPlan) lookup(name string) ([]int, bool) {
	if index, ok := p.tagged[name]; ok {
		return index, true
	}
	if index, ok := p.named[name]; ok {
		return index, true
	}
	index, ok := p.folded[strings.ToLower(name)]
	return index, ok
}

var (
	structPlans   = make(map[reflect.Type]*structPlan) // Cache for plans. Keyed by struct type.
	structPlansMu sync.RWMutex
)

// getStructPlan retrieves the plan for typ, building and caching it if
// needed.
func getStructPlan(typ reflect.Type) *structPlan {
	structPlansMu.RLock()
	plan, exists := structPlans[typ]
	structPlansMu.RUnlock()
	if exists {
		return plan
	}

	plan = newStructPlan(typ)

	structPlansMu.Lock()
	structPlans[typ] = plan
	structPlansMu.Unlock()

	return plan
}

func newStructPlan(typ reflect.Type) *structPlan {
	plan := &structPlan{
		tagged: make(map[string][]int),
		named:  make(map[string][]int),
		folded: make(map[string][]int),
	}

	for _, sf := range reflect.VisibleFields(typ) {
		// Skip unexported and embedded fields; promoted fields are visited
		// on their own.
		if !sf.IsExported() || sf.Anonymous || behindUnexportedPointer(typ, sf.Index) {
			continue
		}

		tag, hasTag := sf.Tag.Lookup(KVTagName)
		if tag == KVTagIgnore {
			continue
		}
		if hasTag && tag != "" {
			if _, taken := plan.tagged[tag]; !taken {
				plan.tagged[tag] = sf.Index
			}
			continue
		}
		if _, taken := plan.named[sf.Name]; !taken {
			plan.named[sf.Name] = sf.Index
		}
		if _, taken := plan.folded[strings.ToLower(sf.Name)]; !taken {
			plan.folded[strings.ToLower(sf.Name)] = sf.Index
		}
	}

	return plan
}

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// behindUnexportedPointer reports whether the field at index is promoted
// through an embedded pointer to an unexported type. Such pointers cannot be
// allocated through reflection, so those fields are not mapped.
func behindUnexportedPointer(typ reflect.Type, index []int) bool {
	for _, x := range index[:len(index)-1] {
		sf := typ.Field(x)
		typ = sf.Type
		if typ.Kind() == reflect.Ptr {
			if !sf.IsExported() {
				return true
			}
			typ = typ.Elem()
		}
	}
	return false
}

// setFieldValue stores value into field, converting where it is lossless.
//
// Currently supports:
//   - assignable values
//   - numeric to numeric when the value round-trips
//   - string kinds to string kinds, and same-kind convertible types
//   - Option[X] into Option[Y] and into *Y (nil for Nothing)
//   - plain values into Option[Y] as Just
func setFieldValue(field reflect.Value, value any) bool {
	if !field.CanSet() {
		return false
	}

	if setter, ok := field.Addr().Interface().(optionSetter); ok {
		if opt, ok := value.(optional); ok {
			return setter.setAny(opt.anyValue())
		}
		return setter.setAny(value, true)
	}

	if opt, ok := value.(optional); ok && field.Kind() == reflect.Ptr {
		inner, present := opt.anyValue()
		if !present {
			field.SetZero()
			return true
		}
		rv, ok := convertTo(inner, field.Type().Elem())
		if !ok {
			return false
		}
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().Set(rv)
		field.Set(ptr)
		return true
	}

	rv, ok := convertTo(value, field.Type())
	if !ok {
		return false
	}
	field.Set(rv)
	return true
}

// convertTo returns value as a reflect.Value assignable to target.
func convertTo(value any, target reflect.Type) (reflect.Value, bool) {
	if value == nil {
		if isNilable(target) {
			return reflect.Zero(target), true
		}
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(target) {
		return rv, true
	}

	switch {
	case isNumeric(rv.Kind()) && isNumeric(target.Kind()):
		if isUnsigned(target.Kind()) && isNegative(rv) {
			return reflect.Value{}, false
		}
		out := rv.Convert(target)
		if !out.Convert(rv.Type()).Equal(rv) {
			return reflect.Value{}, false
		}
		return out, true
	case rv.Kind() == target.Kind() && rv.Type().ConvertibleTo(target):
		return rv.Convert(target), true
	default:
		return reflect.Value{}, false
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isNegative(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() < 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() < 0
	default:
		return false
	}
}
