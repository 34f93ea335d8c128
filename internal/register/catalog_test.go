// internal/register/catalog_test.go
package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogValid(t *testing.T) {
	require.NoError(t, Validate())
}

func TestLookup(t *testing.T) {
	d, ok := ByName("PV1_VOLTAGE")
	require.True(t, ok)
	assert.Same(t, PV1Voltage, d)

	d, ok = ByAddress(32017)
	require.True(t, ok)
	assert.Same(t, PV1Current, d)

	_, ok = ByName("NOPE")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0] = nil
	assert.NotNil(t, All()[0])
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string][]*Descriptor{
		"zero quantity": {{Address: 1, Quantity: 0, Type: Bitfield, Name: "A"}},
		"too long":      {{Address: 1, Quantity: 16, Type: String, Name: "A"}},
		"type size":     {{Address: 1, Quantity: 1, Type: U32, Name: "A"}},
		"no name":       {{Address: 1, Quantity: 1, Type: U16}},
		"dup name": {
			{Address: 1, Quantity: 1, Type: U16, Name: "A"},
			{Address: 2, Quantity: 1, Type: U16, Name: "A"},
		},
		"dup address": {
			{Address: 1, Quantity: 1, Type: U16, Name: "A"},
			{Address: 1, Quantity: 1, Type: U16, Name: "B"},
		},
		"past end": {{Address: 0xFFFF, Quantity: 2, Type: U32, Name: "A"}},
	}

	for name, list := range cases {
		assert.Error(t, validate(list), name)
	}
}

func TestStatusStrings(t *testing.T) {
	s, ok := DeviceStatusString(0x0200)
	assert.True(t, ok)
	assert.Equal(t, "On-grid", s)

	_, ok = DeviceStatusString(0xBEEF)
	assert.False(t, ok)

	s, ok = StorageStatusString(2)
	assert.True(t, ok)
	assert.Equal(t, "running", s)
}
