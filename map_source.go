package pave

import "reflect"

// MapSource passes map[string]any payloads through unchanged.
type MapSource struct{}

func NewMapSource() *MapSource {
	return &MapSource{}
}

func (ms *MapSource) SourceType() reflect.Type {
	return StringAnyMapType
}

func (ms *MapSource) Name() string {
	return MapSourceName
}

func (ms *MapSource) Decode(source any) (any, error) {
	return TypeErasedDecode(ms.Name(), func(m map[string]any) (any, error) {
		return m, nil
	})(source)
}

// PairListSource passes keyword lists through unchanged.
type PairListSource struct{}

func NewPairListSource() *PairListSource {
	return &PairListSource{}
}

func (ps *PairListSource) SourceType() reflect.Type {
	return PairListType
}

func (ps *PairListSource) Name() string {
	return PairListSourceName
}

func (ps *PairListSource) Decode(source any) (any, error) {
	return TypeErasedDecode(ps.Name(), func(pairs []Pair) (any, error) {
		return pairs, nil
	})(source)
}
