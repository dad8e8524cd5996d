package pave

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid JSON document")

type JSONByteSliceSource struct{}

func NewJSONByteSliceSource() *JSONByteSliceSource {
	return &JSONByteSliceSource{}
}

func (js *JSONByteSliceSource) SourceType() reflect.Type {
	return ByteSliceType
}

func (js *JSONByteSliceSource) Name() string {
	return JSONByteSliceSourceName
}

func (js *JSONByteSliceSource) Decode(source any) (any, error) {
	return TypeErasedDecode(js.Name(), js.decode)(source)
}

func (js *JSONByteSliceSource) decode(source []byte) (any, error) {
	if !gjson.ValidBytes(source) {
		return nil, decodeError(js.Name(), errInvalidJSON)
	}
	return jsonValue(gjson.ParseBytes(source)), nil
}

type JSONStringSource struct{}

func NewJSONStringSource() *JSONStringSource {
	return &JSONStringSource{}
}

func (js *JSONStringSource) SourceType() reflect.Type {
	return StringType
}

func (js *JSONStringSource) Name() string {
	return JSONStringSourceName
}

func (js *JSONStringSource) Decode(source any) (any, error) {
	return TypeErasedDecode(js.Name(), js.decode)(source)
}

func (js *JSONStringSource) decode(source string) (any, error) {
	if !gjson.Valid(source) {
		return nil, decodeError(js.Name(), errInvalidJSON)
	}
	return jsonValue(gjson.Parse(source)), nil
}

// jsonValue converts a gjson result into plain Go values: objects become
// map[string]any, arrays []any, and numbers int when they are written
// without a fraction or exponent and fit, float64 otherwise.
func jsonValue(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := make(map[string]any)
		r.ForEach(func(key, value gjson.Result) bool {
			m[key.String()] = jsonValue(value)
			return true
		})
		return m
	case r.IsArray():
		elems := r.Array()
		out := make([]any, len(elems))
		for i, elem := range elems {
			out[i] = jsonValue(elem)
		}
		return out
	}

	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		return r.String()
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			if n, err := strconv.ParseInt(r.Raw, 10, 0); err == nil {
				return int(n)
			}
		}
		return r.Float()
	default:
		return r.Value()
	}
}
