package pave

import (
	"bytes"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackSource decodes MessagePack payloads. Numbers are decoded loosely
// (int64, uint64, float64) so the leaf validators see a stable set of types.
type MsgpackSource struct{}

func NewMsgpackSource() *MsgpackSource {
	return &MsgpackSource{}
}

func (ms *MsgpackSource) SourceType() reflect.Type {
	return ByteSliceType
}

func (ms *MsgpackSource) Name() string {
	return MsgpackByteSliceSourceName
}

func (ms *MsgpackSource) Decode(source any) (any, error) {
	return TypeErasedDecode(ms.Name(), ms.decode)(source)
}

func (ms *MsgpackSource) decode(source []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(source))
	dec.UseLooseInterfaceDecoding(true)

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, decodeError(ms.Name(), err)
	}
	return doc, nil
}
