package layout

import (
	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// Symbols are the addresses a linker script would export for the image.
type Symbols struct {
	Header       uint32
	EntriesStart uint32 // __bi_entries_start
	EntriesEnd   uint32 // __bi_entries_end
	MappingTable uint32
	Sdata        uint32 // __sdata
	Edata        uint32 // __edata
	Sidata       uint32 // __sidata
	End          uint32
}

// Image is a linked flash image.
type Image struct {
	Origin  uint32
	Header  binaryinfo.Header
	Mapping binaryinfo.MappingTable
	Symbols Symbols
	// Entries in table order, including any appended BinaryEnd entry.
	Entries []binaryinfo.Entry
	// EntryAddrs[i] is the address of the record for Entries[i].
	EntryAddrs []uint32
	// ValueAddrs[i] is the run-time address of the string of Entries[i],
	// or zero for entries without one.
	ValueAddrs []uint32

	data []byte
}

// Bytes returns a copy of the image contents.
func (img *Image) Bytes() []byte {
	out := make([]byte, len(img.data))
	copy(out, img.data)
	return out
}

// Size returns the image length in bytes
func (img *Image) Size() int {
	return len(img.data)
}

// Offset converts an address inside the image to a file offset.
func (img *Image) Offset(addr uint32) (int, bool) {
	if addr < img.Origin || uint64(addr) >= uint64(img.Origin)+uint64(len(img.data)) {
		return 0, false
	}
	return int(addr - img.Origin), true
}
