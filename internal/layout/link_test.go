package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-binaryinfo/internal/types"
	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

func u32(t *testing.T, img *Image, addr uint32) uint32 {
	t.Helper()
	off, ok := img.Offset(addr)
	require.True(t, ok, "address 0x%08X outside image", addr)
	return binary.LittleEndian.Uint32(img.Bytes()[off : off+4])
}

func cstringAt(t *testing.T, data []byte, off int) string {
	t.Helper()
	end := bytes.IndexByte(data[off:], 0)
	require.GreaterOrEqual(t, end, 0, "string at 0x%X is not terminated", off)
	return string(data[off : off+end])
}

func TestLink_EntryTableCount(t *testing.T) {
	for _, n := range []int{0, 1, 25} {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			reg := binaryinfo.NewRegistry()
			for i := 0; i < n; i++ {
				reg.Add(binaryinfo.ProgramFeature(binaryinfo.CString(fmt.Sprintf("feature %d", i))))
			}
			cfg := DefaultConfig()
			cfg.EmitBinaryEnd = false

			img, err := Link(reg, cfg)
			require.NoError(t, err)

			start, end := img.Header.EntriesStart(), img.Header.EntriesEnd()
			assert.Equal(t, n, int((end-start)/binaryinfo.AddrSize))
			assert.Equal(t, n, img.Header.EntryCount())
			assert.Equal(t, img.Symbols.EntriesStart, start)
			assert.Equal(t, img.Symbols.EntriesEnd, end)

			for i := 0; i < n; i++ {
				assert.Equal(t, img.EntryAddrs[i], u32(t, img, start+uint32(i)*4))
			}
		})
	}
}

func TestLink_HeaderPlacement(t *testing.T) {
	reg := binaryinfo.NewRegistry()
	reg.Add(binaryinfo.ProgramName("blinky\x00"))

	img, err := Link(reg, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, uint32(0x100001C0), img.Symbols.Header)
	assert.Equal(t, binaryinfo.MarkerStart, u32(t, img, img.Symbols.Header))
	assert.Equal(t, img.Header.EntriesStart(), u32(t, img, img.Symbols.Header+4))
	assert.Equal(t, img.Header.EntriesEnd(), u32(t, img, img.Symbols.Header+8))
	assert.Equal(t, img.Header.MappingTable(), u32(t, img, img.Symbols.Header+12))
	assert.Equal(t, binaryinfo.MarkerEnd, u32(t, img, img.Symbols.Header+16))

	programStart := img.Origin + DefaultProgramOffset
	assert.LessOrEqual(t, img.Symbols.Header+binaryinfo.HeaderSize, programStart+DefaultSearchWindow)
}

func TestLink_ProgramNameRecord(t *testing.T) {
	reg := binaryinfo.NewRegistry()
	reg.Add(binaryinfo.ProgramName("blinky\x00"))
	cfg := DefaultConfig()
	cfg.EmitBinaryEnd = false

	img, err := Link(reg, cfg)
	require.NoError(t, err)
	data := img.Bytes()

	recordAddr := u32(t, img, img.Header.EntriesStart())
	off, ok := img.Offset(recordAddr)
	require.True(t, ok)

	var record types.IDAndStringT
	require.NoError(t, binary.Read(bytes.NewReader(data[off:off+types.IDAndStringSize]), binary.LittleEndian, &record))
	assert.Equal(t, types.DataTypeIDAndString, record.Common.DataType)
	assert.Equal(t, binaryinfo.MakeTag('R', 'P'), record.Common.Tag)
	assert.Equal(t, binaryinfo.IDProgramName, record.ID)

	strOff, ok := img.Offset(record.Value)
	require.True(t, ok, "flash strings are addressed inside the image")
	assert.Equal(t, "blinky", cstringAt(t, data, strOff))
}

func TestLink_DataPlacementUsesMappingTable(t *testing.T) {
	reg := binaryinfo.NewRegistry()
	reg.Add(binaryinfo.ProgramName("flash name\x00"))
	addr := reg.Add(binaryinfo.ProgramVersionString("1.2.3\x00").InData())

	img, err := Link(reg, DefaultConfig())
	require.NoError(t, err)
	data := img.Bytes()

	valueAddr := img.ValueAddrs[addr.Index()]
	assert.Equal(t, DefaultRAMOrigin, valueAddr)
	_, inImage := img.Offset(valueAddr)
	assert.False(t, inImage, "RAM address must not resolve directly")

	loadAddr, ok := img.Mapping.Translate(valueAddr)
	require.True(t, ok)
	off, ok := img.Offset(loadAddr)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", cstringAt(t, data, off))

	// The mapping table in the image matches the one on the Image.
	mt := img.Header.MappingTable()
	assert.Equal(t, img.Symbols.Sidata, u32(t, img, mt))
	assert.Equal(t, img.Symbols.Sdata, u32(t, img, mt+4))
	assert.Equal(t, img.Symbols.Edata, u32(t, img, mt+8))
	for i := uint32(12); i < 24; i += 4 {
		assert.Zero(t, u32(t, img, mt+i), "sentinel must be zero")
	}
}

func TestLink_BinaryEnd(t *testing.T) {
	reg := binaryinfo.NewRegistry()
	reg.Add(binaryinfo.ProgramName("blinky\x00"))

	img, err := Link(reg, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, img.Entries, 2)
	last, ok := img.Entries[1].(binaryinfo.IDAndInt)
	require.True(t, ok)
	assert.Equal(t, binaryinfo.IDBinaryEnd, last.ID())
	assert.Equal(t, img.Origin+uint32(img.Size()), last.Value())
	assert.Equal(t, img.Symbols.End, last.Value())

	off, _ := img.Offset(img.EntryAddrs[1])
	assert.Equal(t, last.Value(), binary.LittleEndian.Uint32(img.Bytes()[off+8:off+12]))

	assert.Equal(t, 1, reg.Len(), "linking must not modify the registry")
}

func TestLink_Boot2(t *testing.T) {
	boot2 := bytes.Repeat([]byte{0xAB}, 252)
	boot2 = append(boot2, 0xDE, 0xAD, 0xBE, 0xEF)
	cfg := DefaultConfig()
	cfg.Boot2 = boot2

	img, err := Link(binaryinfo.NewRegistry(), cfg)
	require.NoError(t, err)
	assert.Equal(t, boot2, img.Bytes()[:256])
}

func TestLink_Errors(t *testing.T) {
	tests := []struct {
		name   string
		reg    *binaryinfo.Registry
		mutate func(*Config)
	}{
		{name: "nil registry", reg: nil, mutate: func(*Config) {}},
		{name: "header outside search window", reg: binaryinfo.NewRegistry(), mutate: func(c *Config) { c.HeaderOffset = 0xF0 }},
		{name: "unaligned header", reg: binaryinfo.NewRegistry(), mutate: func(c *Config) { c.HeaderOffset = 0x42 }},
		{name: "boot2 too large", reg: binaryinfo.NewRegistry(), mutate: func(c *Config) { c.Boot2 = make([]byte, 0x101) }},
		{name: "zero flash origin", reg: binaryinfo.NewRegistry(), mutate: func(c *Config) { c.FlashOrigin = 0 }},
		{name: "RAM overlaps image", reg: binaryinfo.NewRegistry(), mutate: func(c *Config) { c.RAMOrigin = c.FlashOrigin + 0x100 }},
		{
			name: "RAM ending at top of address space overlaps image",
			reg:  binaryinfo.NewRegistry(),
			mutate: func(c *Config) {
				c.FlashOrigin = 0xFFFF0000
				c.RAMOrigin = 0xFFFF0000
				c.RAMSize = 0x10000
			},
		},
		{
			name: "data larger than RAM",
			reg: func() *binaryinfo.Registry {
				r := binaryinfo.NewRegistry()
				r.Add(binaryinfo.ProgramDescription("far too long for this RAM\x00").InData())
				return r
			}(),
			mutate: func(c *Config) { c.RAMSize = 8 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			img, err := Link(tt.reg, cfg)
			assert.Error(t, err)
			assert.Nil(t, img)
		})
	}
}

func TestLink_Deterministic(t *testing.T) {
	build := func() []byte {
		reg := binaryinfo.NewRegistry()
		reg.Add(binaryinfo.ProgramName("a\x00"))
		reg.Add(binaryinfo.ProgramFeature("b\x00").InData())
		reg.Add(binaryinfo.ProgramFeature("c\x00").InData())
		reg.Add(binaryinfo.CustomInteger(binaryinfo.MakeTag('M', 'Y'), 1, 2))
		img, err := Link(reg, DefaultConfig())
		require.NoError(t, err)
		return img.Bytes()
	}
	assert.Equal(t, build(), build())
}
