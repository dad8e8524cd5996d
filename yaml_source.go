package pave

import (
	"reflect"

	"gopkg.in/yaml.v3"
)

// YAMLSource decodes YAML documents. It shares the []byte source type with
// the JSON and msgpack sources, so it has to be selected with WithSource.
type YAMLSource struct{}

func NewYAMLSource() *YAMLSource {
	return &YAMLSource{}
}

func (ys *YAMLSource) SourceType() reflect.Type {
	return ByteSliceType
}

func (ys *YAMLSource) Name() string {
	return YAMLByteSliceSourceName
}

func (ys *YAMLSource) Decode(source any) (any, error) {
	return TypeErasedDecode(ys.Name(), ys.decode)(source)
}

func (ys *YAMLSource) decode(source []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, decodeError(ys.Name(), err)
	}
	return doc, nil
}
