package binaryinfo

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// Header markers and sizes.
const (
	MarkerStart = types.BinaryInfoMarkerStart
	MarkerEnd   = types.BinaryInfoMarkerEnd
	HeaderSize  = types.BinaryInfoHeaderSize
	AddrSize    = types.EntryAddrSize
)

// Header is the block picotool looks for in the first 256 bytes of a program.
// It holds the bounds of the entry table and the start of the mapping table.
type Header struct {
	entriesStart uint32
	entriesEnd   uint32
	mappingTable uint32
}

// NewHeader creates a picotool compatible header.
//
//   - entriesStart: address of the first entry address in the table
//   - entriesEnd: address one past the last entry address in the table
//   - mappingTable: address of the RAM/flash mapping table
func NewHeader(entriesStart, entriesEnd, mappingTable uint32) Header {
	return Header{
		entriesStart: entriesStart,
		entriesEnd:   entriesEnd,
		mappingTable: mappingTable,
	}
}

// MarkerStart is always MarkerStart
func (h Header) MarkerStart() uint32 { return MarkerStart }

// MarkerEnd is always MarkerEnd
func (h Header) MarkerEnd() uint32 { return MarkerEnd }

// EntriesStart is the address of the first entry address
func (h Header) EntriesStart() uint32 { return h.entriesStart }

// EntriesEnd is the address one past the last entry address
func (h Header) EntriesEnd() uint32 { return h.entriesEnd }

// MappingTable is the address of the first mapping table entry
func (h Header) MappingTable() uint32 { return h.mappingTable }

// EntryCount returns how many entry addresses lie between the table bounds.
func (h Header) EntryCount() int {
	if h.entriesEnd < h.entriesStart {
		return 0
	}
	return int((h.entriesEnd - h.entriesStart) / AddrSize)
}

// Wire returns the on-image form of the header
func (h Header) Wire() types.BinaryInfoHeaderT {
	return types.BinaryInfoHeaderT{
		MarkerStart:  MarkerStart,
		EntriesStart: h.entriesStart,
		EntriesEnd:   h.entriesEnd,
		MappingTable: h.mappingTable,
		MarkerEnd:    MarkerEnd,
	}
}

// MarshalBinary encodes the header in its 20-byte little-endian form.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], MarkerStart)
	binary.LittleEndian.PutUint32(buf[4:8], h.entriesStart)
	binary.LittleEndian.PutUint32(buf[8:12], h.entriesEnd)
	binary.LittleEndian.PutUint32(buf[12:16], h.mappingTable)
	binary.LittleEndian.PutUint32(buf[16:20], MarkerEnd)
	return buf, nil
}
