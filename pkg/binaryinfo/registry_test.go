package binaryinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, 0, reg.Len())

	name := reg.Add(ProgramName("blinky\x00"))
	f1 := reg.Add(ProgramFeature("usb\x00"))
	f2 := reg.Add(ProgramFeature("uart\x00"))
	end := reg.Add(BinaryEnd(0x10001000))

	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, 0, name.Index())
	assert.Equal(t, 3, end.Index())

	e, ok := reg.Lookup(f1)
	require.True(t, ok)
	assert.Equal(t, "usb\x00", e.(IDAndString).Value())

	e, ok = reg.Lookup(f2)
	require.True(t, ok)
	assert.Equal(t, IDProgramFeature, e.ID(), "identifiers may repeat")

	_, ok = reg.Lookup(Addr(4))
	assert.False(t, ok)
	_, ok = reg.Lookup(Addr(-1))
	assert.False(t, ok)
}

func TestRegistry_EntriesIsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Add(ProgramName("a\x00"))

	entries := reg.Entries()
	entries[0] = ProgramName("b\x00")

	e, _ := reg.Lookup(0)
	assert.Equal(t, "a\x00", e.(IDAndString).Value())
}
