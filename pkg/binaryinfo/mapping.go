package binaryinfo

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// MappingEntrySize is the encoded size of one mapping table entry.
const MappingEntrySize = types.MappingTableEntrySize

// MappingTableEntry tells a reader where a run-time region lives in the image.
// Addresses in [DestAddrStart, DestAddrEnd) correspond to the region of the
// same length starting at SourceAddrStart.
type MappingTableEntry struct {
	SourceAddrStart uint32
	DestAddrStart   uint32
	DestAddrEnd     uint32
}

// IsSentinel reports whether e is the all-zero entry that ends a table
func (e MappingTableEntry) IsSentinel() bool {
	return e.SourceAddrStart == 0 && e.DestAddrStart == 0 && e.DestAddrEnd == 0
}

// Contains reports whether addr falls in the destination range
func (e MappingTableEntry) Contains(addr uint32) bool {
	return addr >= e.DestAddrStart && addr < e.DestAddrEnd
}

// Wire returns the on-image form of the entry
func (e MappingTableEntry) Wire() types.MappingTableEntryT {
	return types.MappingTableEntryT{
		SourceAddrStart: e.SourceAddrStart,
		DestAddrStart:   e.DestAddrStart,
		DestAddrEnd:     e.DestAddrEnd,
	}
}

// MappingTable is a list of mapping entries ending in a sentinel.
type MappingTable []MappingTableEntry

// NewMappingTable returns the given entries followed by the sentinel.
// Entries that are themselves all zero are dropped.
func NewMappingTable(entries ...MappingTableEntry) MappingTable {
	table := make(MappingTable, 0, len(entries)+1)
	for _, e := range entries {
		if e.IsSentinel() {
			continue
		}
		table = append(table, e)
	}
	return append(table, MappingTableEntry{})
}

// Translate converts a run-time address into its location in the image.
// The walk stops at the first sentinel; ok is false when no range before it
// contains addr.
func (t MappingTable) Translate(addr uint32) (uint32, bool) {
	for _, e := range t {
		if e.IsSentinel() {
			break
		}
		if e.Contains(addr) {
			return e.SourceAddrStart + (addr - e.DestAddrStart), true
		}
	}
	return 0, false
}

// Len returns the number of entries before the first sentinel
func (t MappingTable) Len() int {
	for i, e := range t {
		if e.IsSentinel() {
			return i
		}
	}
	return len(t)
}

// MarshalBinary encodes the table, sentinel included, in little-endian form.
// A table without a sentinel gets one appended.
func (t MappingTable) MarshalBinary() ([]byte, error) {
	n := t.Len()
	buf := make([]byte, (n+1)*MappingEntrySize)
	for i := 0; i < n; i++ {
		off := i * MappingEntrySize
		binary.LittleEndian.PutUint32(buf[off:off+4], t[i].SourceAddrStart)
		binary.LittleEndian.PutUint32(buf[off+4:off+8], t[i].DestAddrStart)
		binary.LittleEndian.PutUint32(buf[off+8:off+12], t[i].DestAddrEnd)
	}
	return buf, nil
}
