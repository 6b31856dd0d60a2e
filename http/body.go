package http

import (
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

type BodyKind uint8

const (
	NoBody BodyKind = iota
	TextBody
	KeyValueBody
	BytesBody
)

func (k BodyKind) String() string {
	switch k {
	case NoBody:
		return "none"
	case TextBody:
		return "text"
	case KeyValueBody:
		return "key-value"
	case BytesBody:
		return "bytes"
	default:
		return "unknown"
	}
}

// Body is a response body of one of the fixed kinds. Every kind is serialized once,
// when the body is constructed, so the length is always known in advance.
type Body struct {
	kind BodyKind
	data []byte
}

// Text returns a text body.
func Text(text string) Body {
	return Body{kind: TextBody, data: uf.S2B(text)}
}

// Raw returns a body of bytes. The slice is not copied.
func Raw(b []byte) Body {
	return Body{kind: BytesBody, data: b}
}

// KeyValue serializes the model into a JSON object. Maps with string keys are rendered
// with sorted keys, so the output is deterministic.
func KeyValue(model any) (Body, error) {
	data, err := json.ConfigCompatibleWithStandardLibrary.Marshal(model)
	if err != nil {
		return Body{}, err
	}

	return Body{kind: KeyValueBody, data: data}, nil
}

func (b Body) Kind() BodyKind {
	return b.kind
}

// Bytes returns the serialized form of the body.
func (b Body) Bytes() []byte {
	return b.data
}

func (b Body) String() string {
	return uf.B2S(b.data)
}

func (b Body) Len() int {
	return len(b.data)
}

func (b Body) Empty() bool {
	return b.kind == NoBody
}
