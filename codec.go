package encryptedfield

import (
	"encoding/json"
	"fmt"
)

// Codec converts a logical value to and from its canonical byte
// representation, independent of encryption. Implementations must be pure:
// no external state, no I/O, and Encode/Decode must be exact inverses for
// every value the column will ever hold. The codec cannot verify the inverse
// property; it is the caller's obligation.
type Codec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// Built-in codecs for the supported logical types.
var (
	// StringCodec encodes UTF-8 strings as their raw bytes.
	StringCodec Codec = stringCodec{}

	// BytesCodec is the identity codec for raw byte sequences.
	BytesCodec Codec = bytesCodec{}

	// JSONCodec encodes any JSON-serializable value as compact JSON.
	// Map keys are emitted in sorted order, so equal values produce equal
	// bytes. Decoding yields the generic JSON shapes (map[string]any,
	// []any, float64, ...); use JSONCodecOf for a concrete type.
	JSONCodec Codec = jsonCodec{}
)

type stringCodec struct{}

func (stringCodec) Encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: expected string, got %T", ErrCodec, value)
	}
}

func (stringCodec) Decode(data []byte) (any, error) {
	return string(data), nil
}

type bytesCodec struct{}

func (bytesCodec) Encode(value any) ([]byte, error) {
	v, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: expected []byte, got %T", ErrCodec, value)
	}
	return v, nil
}

func (bytesCodec) Decode(data []byte) (any, error) {
	return data, nil
}

type jsonCodec struct{}

func (jsonCodec) Encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return data, nil
}

func (jsonCodec) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return v, nil
}

// JSONCodecOf returns a codec that round-trips values of a concrete type
// through JSON, decoding into T instead of the generic JSON shapes.
func JSONCodecOf[T any]() Codec {
	return typedJSONCodec[T]{}
}

type typedJSONCodec[T any] struct{}

func (typedJSONCodec[T]) Encode(value any) ([]byte, error) {
	v, ok := value.(T)
	if !ok {
		return nil, fmt.Errorf("%w: expected %T, got %T", ErrCodec, v, value)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return data, nil
}

func (typedJSONCodec[T]) Decode(data []byte) (any, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return v, nil
}

// FuncCodec builds a codec from a raw encode/decode function pair.
// The pair must be exact inverses.
func FuncCodec(encode func(value any) ([]byte, error), decode func(data []byte) (any, error)) Codec {
	return funcCodec{encode: encode, decode: decode}
}

type funcCodec struct {
	encode func(any) ([]byte, error)
	decode func([]byte) (any, error)
}

func (c funcCodec) Encode(value any) ([]byte, error) {
	data, err := c.encode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return data, nil
}

func (c funcCodec) Decode(data []byte) (any, error) {
	v, err := c.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return v, nil
}

// StringFuncCodec builds a codec from a serializer that renders the value as
// a string and its inverse. The string is byte-encoded as UTF-8. Use this for
// custom logical types with a natural text form, e.g. dates as ISO-8601:
//
//	codec := encryptedfield.StringFuncCodec(
//	    func(v any) (string, error) { return v.(time.Time).Format(time.RFC3339), nil },
//	    func(s string) (any, error) { return time.Parse(time.RFC3339, s) },
//	)
//
// The serializer/deserializer pair must be exact inverses for every value the
// column will ever hold.
func StringFuncCodec(serialize func(value any) (string, error), deserialize func(s string) (any, error)) Codec {
	return FuncCodec(
		func(value any) ([]byte, error) {
			s, err := serialize(value)
			if err != nil {
				return nil, err
			}
			return []byte(s), nil
		},
		func(data []byte) (any, error) {
			return deserialize(string(data))
		},
	)
}
