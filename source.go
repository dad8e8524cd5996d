package pave

import (
	"fmt"
	"reflect"
	"sync"
)

///////////////////////////////////////////////////////////////////////////////
// Source Interface
///////////////////////////////////////////////////////////////////////////////

// Source decodes a raw payload of one Go type (a JSON document, an HTTP
// request, ...) into the input shape a Constructor accepts: a map with
// string keys or a keyword list.
type Source interface {
	// Name returns a unique identifier for this source within its source type
	Name() string
	// SourceType returns the reflect.Type of the payloads this source decodes
	SourceType() reflect.Type
	// Decode turns source into constructor input
	Decode(source any) (any, error)
}

// Validatable marks a struct that checks its own invariants after it has
// been populated by SourceRegistry.Parse.
type Validatable interface {
	// Validate checks the fields of the struct and returns an error
	// if any of the fields are invalid.
	Validate() error
}

// decodeError reports a payload the named source could not decode.
func decodeError(name string, cause error) *Error {
	return NewError(ReasonInvalidSource, map[string]any{
		DetailSource: name,
		DetailCause:  cause.Error(),
	})
}

// TypeErasedDecode adapts a typed decode function to Source.Decode.
func TypeErasedDecode[S any](name string, decode func(source S) (any, error)) func(source any) (any, error) {
	return func(source any) (any, error) {
		typed, ok := source.(S)
		if !ok {
			return nil, decodeError(name, fmt.Errorf("expected source type %T, got %T", *new(S), source))
		}
		return decode(typed)
	}
}

///////////////////////////////////////////////////////////////////////////////
// SourceRegistry
///////////////////////////////////////////////////////////////////////////////

// SourceRegistry selects a Source by payload type and runs constructors on
// the decoded input.
//
// Multiple Sources can be registered for each source type. If only one
// source is registered for a type, it will be used automatically. If
// multiple sources are registered, you must use WithSource() to specify
// which one to use.
type SourceRegistry struct {
	mu sync.RWMutex
	m  map[reflect.Type]map[string]Source // source type -> source name -> source
}

// SourceRegistryContext provides a curried SourceRegistry with a specific
// source selection.
type SourceRegistryContext struct {
	registry   *SourceRegistry
	sourceName string
}

type SourceRegistryOpts struct {
	Sources         []Source
	ExcludeDefaults bool
}

// DefaultSources returns fresh instances of the built in sources.
func DefaultSources() []Source {
	return []Source{
		NewJSONByteSliceSource(),
		NewJSONStringSource(),
		NewYAMLSource(),
		NewMsgpackSource(),
		NewHTTPRequestSource(),
		NewMapSource(),
		NewPairListSource(),
	}
}

func NewSourceRegistry(opts SourceRegistryOpts) (*SourceRegistry, error) {
	reg := &SourceRegistry{
		m: make(map[reflect.Type]map[string]Source),
	}

	if !opts.ExcludeDefaults {
		for _, source := range DefaultSources() {
			if err := reg.Register(source); err != nil {
				return nil, err
			}
		}
	}

	for _, source := range opts.Sources {
		if err := reg.Register(source); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register adds source under its type and name.
func (reg *SourceRegistry) Register(source Source) error {
	typ := source.SourceType()
	name := source.Name()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.m[typ] == nil {
		reg.m[typ] = make(map[string]Source)
	}
	if _, exists := reg.m[typ][name]; exists {
		return fmt.Errorf("%w: %s", ErrSourceAlreadyRegistered, name)
	}

	reg.m[typ][name] = source
	return nil
}

// WithSource returns a SourceRegistryContext that will use the named
// source. This is useful when multiple sources are registered for the same
// payload type, such as []byte.
func (reg *SourceRegistry) WithSource(sourceName string) *SourceRegistryContext {
	return &SourceRegistryContext{
		registry:   reg,
		sourceName: sourceName,
	}
}

// Decode decodes source with the only source registered for its type.
func (reg *SourceRegistry) Decode(source any) (any, error) {
	return reg.WithSource("").Decode(source)
}

// Run decodes source and runs c on the result.
func (reg *SourceRegistry) Run(c *Constructor, source any) (map[string]any, error) {
	return reg.WithSource("").Run(c, source)
}

// Parse decodes source, runs c and populates dest.
//
// # It expects dest to be a pointer to a struct
//
// If dest is Validatable and validate is set, its Validate method runs
// last. On any failure dest is reset to its zero value.
func (reg *SourceRegistry) Parse(c *Constructor, source any, dest any, validate bool) error {
	return reg.WithSource("").Parse(c, source, dest, validate)
}

// Decode decodes source with the selected source.
func (regCtx *SourceRegistryContext) Decode(source any) (any, error) {
	s, err := regCtx.registry.getSourceByName(source, regCtx.sourceName)
	if err != nil {
		return nil, err
	}
	return s.Decode(source)
}

// Run decodes source with the selected source and runs c on the result.
func (regCtx *SourceRegistryContext) Run(c *Constructor, source any) (map[string]any, error) {
	if c == nil {
		return nil, ErrNilConstructor
	}
	input, err := regCtx.Decode(source)
	if err != nil {
		return nil, err
	}
	return c.Run(input).Get()
}

// Parse decodes source with the selected source, runs c and populates dest.
func (regCtx *SourceRegistryContext) Parse(c *Constructor, source any, dest any, validate bool) error {
	if c == nil {
		return ErrNilConstructor
	}
	target, err := structTarget(dest)
	if err != nil {
		return err
	}

	input, err := regCtx.Decode(source)
	if err != nil {
		target.SetZero()
		return err
	}

	if err := c.Into(input, dest); err != nil {
		return err
	}

	if v, ok := dest.(Validatable); ok && validate {
		if err := v.Validate(); err != nil {
			target.SetZero()
			return fmt.Errorf("validation failed after parsing: %w", err)
		}
	}

	return nil
}

// getSourceByName retrieves a specific source by name for the payload type.
//
// No name provided: If there is only one source registered for the type,
// it returns that source. If multiple sources are registered, it returns an
// error.
func (reg *SourceRegistry) getSourceByName(source any, sourceName string) (Source, error) {
	t := reflect.TypeOf(source)

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	sourcesForType, exists := reg.m[t]
	if !exists || len(sourcesForType) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, t)
	}

	if sourceName == "" {
		if len(sourcesForType) > 1 {
			return nil, fmt.Errorf("%w: %v", ErrMultipleSourcesAvailable, t)
		}
		for _, s := range sourcesForType {
			return s, nil
		}
	}

	if s, found := sourcesForType[sourceName]; found {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s for %v", ErrSourceNotFound, sourceName, t)
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _gSourceRegistry *SourceRegistry = nil

func init() {
	var err error
	_gSourceRegistry, err = NewSourceRegistry(SourceRegistryOpts{})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize global SourceRegistry: %v", err))
	}
}

// Package-level functions that delegate to the global SourceRegistry instance

func RegisterSource(source Source) error {
	return _gSourceRegistry.Register(source)
}

func WithSource(sourceName string) *SourceRegistryContext {
	return _gSourceRegistry.WithSource(sourceName)
}

func Decode(source any) (any, error) {
	return _gSourceRegistry.Decode(source)
}

func RunSource(c *Constructor, source any) (map[string]any, error) {
	return _gSourceRegistry.Run(c, source)
}

func Parse(c *Constructor, source any, dest any, validate bool) error {
	return _gSourceRegistry.Parse(c, source, dest, validate)
}
