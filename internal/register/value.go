// internal/register/value.go
package register

import (
	"fmt"
	"math"
	"strings"
)

// Bits is a decoded bit-field.
// Bit i lives in byte i/8, most-significant bit first.
// Word 0x0008 therefore sets bit 12, not bit 3.
type Bits []byte

// Len returns the number of addressable bits.
func (b Bits) Len() int { return len(b) * 8 }

// Get returns bit i. Out-of-range indexes read as false.
func (b Bits) Get(i int) bool {
	if i < 0 || i >= b.Len() {
		return false
	}
	return b[i/8]&(0x80>>uint(i%8)) != 0
}

// Ones returns the indexes of all set bits in ascending order.
func (b Bits) Ones() []int {
	var out []int
	for i := 0; i < b.Len(); i++ {
		if b.Get(i) {
			out = append(out, i)
		}
	}
	return out
}

func (b Bits) String() string {
	var sb strings.Builder
	for i := 0; i < b.Len(); i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		if b.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Value is one decoded register value.
// Exactly one representation is populated, selected by Kind.
type Value struct {
	kind Type
	num  int64
	bits Bits
	text string
}

// Kind returns the decode type that produced the value.
func (v Value) Kind() Type { return v.kind }

// Int returns the raw integer of a numeric value.
func (v Value) Int() (int64, error) {
	if !v.kind.Numeric() {
		return 0, &ConversionError{Reason: fmt.Sprintf("%s value is not numeric", v.kind)}
	}
	return v.num, nil
}

// Uint16 returns the value of a U16 register.
func (v Value) Uint16() (uint16, error) {
	if v.kind != U16 {
		return 0, &ConversionError{Reason: fmt.Sprintf("%s value is not U16", v.kind)}
	}
	return uint16(v.num), nil
}

// Uint32 returns the value of a U32 register.
func (v Value) Uint32() (uint32, error) {
	if v.kind != U32 {
		return 0, &ConversionError{Reason: fmt.Sprintf("%s value is not U32", v.kind)}
	}
	return uint32(v.num), nil
}

// Bits returns the bit sequence of a Bitfield value, nil otherwise.
func (v Value) Bits() Bits { return v.bits }

// Text returns the string of a String value, "" otherwise.
func (v Value) Text() string { return v.text }

// Scaled converts a numeric value to its physical magnitude:
// raw * 10^gain. The multiply is the register map convention and is kept as is.
func (v Value) Scaled(gain uint8) (float64, error) {
	raw, err := v.Int()
	if err != nil {
		return 0, err
	}
	return float64(raw) * math.Pow10(int(gain)), nil
}

func (v Value) String() string {
	switch v.kind {
	case Bitfield:
		return v.bits.String()
	case String:
		return v.text
	default:
		return fmt.Sprintf("%d", v.num)
	}
}

// Format renders a value with the register's gain and unit applied.
func Format(d *Descriptor, v Value) string {
	if !v.kind.Numeric() {
		return v.String()
	}
	f, err := v.Scaled(d.Gain)
	if err != nil {
		return v.String()
	}
	if d.Unit == "" {
		return fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("%g %s", f, d.Unit)
}
