package discord

import (
	"encoding/hex"
	"errors"
)

var (
	ErrInvalidEncoding  = errors.New("value is not a valid hex string")
	ErrUnrecognizedType = errors.New("unrecognized value type, must be one of: text, buffer, bytes")
)

type Format string

const (
	FormatUTF8 Format = "utf8"
	FormatHex  Format = "hex"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindText
	KindBuffer
	KindBytes
)

// Value is one of the inputs accepted by ToBytes. Build it with Text, Buffer
// or Bytes; the zero Value is not coercible.
type Value struct {
	kind Kind
	text string
	data []byte
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Buffer wraps b so that ToBytes returns a private copy of it.
func Buffer(b []byte) Value {
	return Value{kind: KindBuffer, data: b}
}

// Bytes wraps b so that ToBytes returns b itself.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, data: b}
}

// ToBytes coerces v into a byte sequence. Text values are decoded as hex when
// format is FormatHex and taken as UTF-8 otherwise. The format is ignored for
// byte values.
func ToBytes(v Value, format Format) ([]byte, error) {
	switch v.kind {
	case KindText:
		if format == FormatHex {
			return decodeHex(v.text)
		}
		return []byte(v.text), nil

	case KindBuffer:
		b := make([]byte, len(v.data))
		copy(b, v.data)
		return b, nil

	case KindBytes:
		return v.data, nil
	}

	return nil, ErrUnrecognizedType
}

func decodeHex(s string) ([]byte, error) {
	if len(s) == 0 || len(s)%2 != 0 {
		return nil, ErrInvalidEncoding
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}

	return b, nil
}

// Concat returns a new slice holding a followed by b.
func Concat(a, b []byte) []byte {
	merged := make([]byte, len(a)+len(b))
	copy(merged, a)
	copy(merged[len(a):], b)
	return merged
}
