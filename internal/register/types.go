// internal/register/types.go
package register

import "fmt"

// MaxQuantity is the largest word count a single register may span.
const MaxQuantity = 15

// Access is the device-side access mode of a register.
type Access uint8

const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "RO"
	case WriteOnly:
		return "WO"
	case ReadWrite:
		return "RW"
	default:
		return fmt.Sprintf("Access(%d)", uint8(a))
	}
}

// Readable reports whether the register may be polled.
func (a Access) Readable() bool {
	return a == ReadOnly || a == ReadWrite
}

// Type selects the decode rule applied to a register's words.
// The set is closed; Decode switches over it.
type Type uint8

const (
	U16 Type = iota
	U32
	I16
	I32
	Bitfield
	String
)

func (t Type) String() string {
	switch t {
	case U16:
		return "U16"
	case U32:
		return "U32"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case Bitfield:
		return "BF"
	case String:
		return "STR"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Size returns the fixed word count of numeric types.
// Bitfield and String are variable and return 0.
func (t Type) Size() int {
	switch t {
	case U16, I16:
		return 1
	case U32, I32:
		return 2
	default:
		return 0
	}
}

// Numeric reports whether values of this type have a scaled form.
func (t Type) Numeric() bool {
	return t.Size() > 0
}

// Descriptor describes one register of the device map.
// Descriptors are declared once in the catalog and shared by pointer.
// Nothing mutates them after package initialization.
type Descriptor struct {
	Address  uint16
	Quantity uint8
	Gain     uint8 // scale exponent: scaled = raw * 10^Gain
	Unit     string
	Access   Access
	Type     Type
	Name     string
}

// End returns the first address after the register (exclusive bound).
func (d *Descriptor) End() uint32 {
	return uint32(d.Address) + uint32(d.Quantity)
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s@%d[%d]", d.Name, d.Address, d.Quantity)
}
