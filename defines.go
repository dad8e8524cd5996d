package pave

import (
	"net/http"
	"reflect"

	"github.com/google/uuid"
)

// Kind tags carried by every *Error.
const (
	KindDomain = "domain"
)

// Reasons reported by the combinators and the field-spec compiler.
const (
	ReasonNotAList             = "not_a_list"
	ReasonNotASet              = "not_a_set"
	ReasonNotAMaybe            = "not_a_maybe"
	ReasonEmptyList            = "empty_list"
	ReasonInvalidInput         = "invalid_input"
	ReasonInvalidFieldSpec     = "invalid_field_spec"
	ReasonFieldNotFoundInInput = "field_not_found_in_input"
	ReasonInvalidSource        = "invalid_source"
	ReasonNotAStruct           = "not_a_struct"
	ReasonUnknownStructField   = "unknown_struct_field"
	ReasonInvalidStructField   = "invalid_struct_field"
)

// Reasons reported by the leaf validators.
const (
	ReasonNotAString   = "not_a_string"
	ReasonNotAnInteger = "not_an_integer"
	ReasonNotAFloat    = "not_a_float"
	ReasonNotABoolean  = "not_a_boolean"
	ReasonNotAUUID     = "not_a_uuid"
)

// Keys used in Error details.
const (
	DetailInput         = "input"
	DetailField         = "field"
	DetailSpec          = "spec"
	DetailFailedElement = "failed_element"
	DetailSource        = "source"
	DetailCause         = "cause"
	DetailType          = "type"
)

// Keyword options accepted in tuple-shaped field specs.
const (
	OptionalSpecOption = "optional"
	DefaultSpecOption  = "default"
)

// Struct tag used to bind a field name to a struct attribute.
const (
	KVTagName   = "kv"
	KVTagIgnore = "-"
)

// Source name constants for built in sources.
const (
	JSONByteSliceSourceName    = "json-[]byte"
	JSONStringSourceName       = "json-string"
	YAMLByteSliceSourceName    = "yaml-[]byte"
	MsgpackByteSliceSourceName = "msgpack-[]byte"
	HTTPRequestSourceName      = "http-request"
	MapSourceName              = "map"
	PairListSourceName         = "pair-list"
)

// Mime Type constants for content types.
const (
	ContentTypeApplicationJSON = "application/json"
)

// reflect.TypeOf constants for type checks
var (
	HTTPRequestType  = reflect.TypeOf((*http.Request)(nil))
	ByteSliceType    = reflect.TypeOf([]byte{})
	StringType       = reflect.TypeOf("")
	StringAnyMapType = reflect.TypeOf(map[string]any{})
	PairListType     = reflect.TypeOf([]Pair{})
	UUIDType         = reflect.TypeOf(uuid.UUID{})
)
