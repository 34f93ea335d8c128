// internal/register/decode.go
package register

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// ConversionError reports a register that could not be decoded.
// It only invalidates the one value; sibling values are unaffected.
type ConversionError struct {
	Register string
	Reason   string
}

func (e *ConversionError) Error() string {
	if e.Register == "" {
		return "register conversion: " + e.Reason
	}
	return fmt.Sprintf("register conversion %s: %s", e.Register, e.Reason)
}

// Decode turns the raw words of one register into a typed Value.
// The word count must match the descriptor exactly.
func Decode(d *Descriptor, words []uint16) (Value, error) {
	if d == nil {
		return Value{}, &ConversionError{Reason: "nil descriptor"}
	}
	if d.Quantity < 1 {
		return Value{}, &ConversionError{Register: d.Name, Reason: "zero word count"}
	}
	if n := d.Type.Size(); n > 0 && int(d.Quantity) != n {
		return Value{}, &ConversionError{
			Register: d.Name,
			Reason:   fmt.Sprintf("%s needs %d words, descriptor has %d", d.Type, n, d.Quantity),
		}
	}
	if len(words) != int(d.Quantity) {
		return Value{}, &ConversionError{
			Register: d.Name,
			Reason:   fmt.Sprintf("expected %d words, got %d", d.Quantity, len(words)),
		}
	}

	switch d.Type {
	case U16:
		return Value{kind: U16, num: int64(words[0])}, nil

	case I16:
		return Value{kind: I16, num: int64(int16(words[0]))}, nil

	case U32:
		return Value{kind: U32, num: int64(join32(words))}, nil

	case I32:
		return Value{kind: I32, num: int64(int32(join32(words)))}, nil

	case Bitfield:
		return Value{kind: Bitfield, bits: Bits(packWords(words))}, nil

	case String:
		b := packWords(words)
		if !utf8.Valid(b) {
			return Value{}, &ConversionError{Register: d.Name, Reason: "invalid UTF-8"}
		}
		// Devices pad short strings with NUL.
		return Value{kind: String, text: string(bytes.TrimRight(b, "\x00"))}, nil

	default:
		return Value{}, &ConversionError{
			Register: d.Name,
			Reason:   fmt.Sprintf("unsupported type %s", d.Type),
		}
	}
}

// Measure decodes a register and returns its scaled physical value.
// Bitfield and String registers have no scaled form.
func Measure(d *Descriptor, words []uint16) (float64, error) {
	v, err := Decode(d, words)
	if err != nil {
		return 0, err
	}
	f, err := v.Scaled(d.Gain)
	if err != nil {
		return 0, &ConversionError{Register: d.Name, Reason: "no scaled form for " + d.Type.String()}
	}
	return f, nil
}

func join32(words []uint16) uint32 {
	return uint32(words[0])<<16 | uint32(words[1])
}

// packWords lays words out big-endian, high byte first.
func packWords(words []uint16) []byte {
	out := make([]byte, 2*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint16(out[2*i:], w)
	}
	return out
}
