package binaryinfo

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/internal/interfaces"
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// binaryInfoHeaderReader implements the BinaryInfoHeaderReader interface
type binaryInfoHeaderReader struct {
	header *types.BinaryInfoHeaderT
}

// NewBinaryInfoHeaderReader parses a discovery header. Both markers must match.
func NewBinaryInfoHeaderReader(data []byte, endian binary.ByteOrder) (interfaces.BinaryInfoHeaderReader, error) {
	if len(data) < types.BinaryInfoHeaderSize {
		return nil, fmt.Errorf("data too small for binary info header: %d bytes", len(data))
	}

	header := parseBinaryInfoHeader(data, endian)

	if header.MarkerStart != types.BinaryInfoMarkerStart {
		return nil, fmt.Errorf("%w: marker_start got 0x%08X, want 0x%08X", ErrInvalidMarker, header.MarkerStart, types.BinaryInfoMarkerStart)
	}
	if header.MarkerEnd != types.BinaryInfoMarkerEnd {
		return nil, fmt.Errorf("%w: marker_end got 0x%08X, want 0x%08X", ErrInvalidMarker, header.MarkerEnd, types.BinaryInfoMarkerEnd)
	}

	return &binaryInfoHeaderReader{header: header}, nil
}

func parseBinaryInfoHeader(data []byte, endian binary.ByteOrder) *types.BinaryInfoHeaderT {
	return &types.BinaryInfoHeaderT{
		MarkerStart:  endian.Uint32(data[0:4]),
		EntriesStart: endian.Uint32(data[4:8]),
		EntriesEnd:   endian.Uint32(data[8:12]),
		MappingTable: endian.Uint32(data[12:16]),
		MarkerEnd:    endian.Uint32(data[16:20]),
	}
}

func (r *binaryInfoHeaderReader) MarkerStart() uint32 {
	return r.header.MarkerStart
}

func (r *binaryInfoHeaderReader) EntriesStart() uint32 {
	return r.header.EntriesStart
}

func (r *binaryInfoHeaderReader) EntriesEnd() uint32 {
	return r.header.EntriesEnd
}

func (r *binaryInfoHeaderReader) MappingTableAddress() uint32 {
	return r.header.MappingTable
}

func (r *binaryInfoHeaderReader) MarkerEnd() uint32 {
	return r.header.MarkerEnd
}

// EntryCount returns (entries_end - entries_start) / 4
func (r *binaryInfoHeaderReader) EntryCount() int {
	if r.header.EntriesEnd < r.header.EntriesStart {
		return 0
	}
	return int((r.header.EntriesEnd - r.header.EntriesStart) / types.EntryAddrSize)
}

func (r *binaryInfoHeaderReader) IsValid() bool {
	return r.header.MarkerStart == types.BinaryInfoMarkerStart && r.header.MarkerEnd == types.BinaryInfoMarkerEnd
}

// Header returns the parsed header
func (r *binaryInfoHeaderReader) Header() types.BinaryInfoHeaderT {
	return *r.header
}
