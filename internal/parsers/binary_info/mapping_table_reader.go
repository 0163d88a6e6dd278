package binaryinfo

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/internal/interfaces"
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
	bi "github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// mappingTableReader implements the MappingTableReader interface
type mappingTableReader struct {
	table bi.MappingTable
}

// NewMappingTableReader reads mapping entries from data up to and including
// the first all-zero sentinel.
func NewMappingTableReader(data []byte, endian binary.ByteOrder) (interfaces.MappingTableReader, error) {
	table := make(bi.MappingTable, 0, 2)

	for off := 0; ; off += types.MappingTableEntrySize {
		if off+types.MappingTableEntrySize > len(data) {
			return nil, fmt.Errorf("%w after %d entries", ErrMissingSentinel, len(table))
		}
		e := bi.MappingTableEntry{
			SourceAddrStart: endian.Uint32(data[off : off+4]),
			DestAddrStart:   endian.Uint32(data[off+4 : off+8]),
			DestAddrEnd:     endian.Uint32(data[off+8 : off+12]),
		}
		table = append(table, e)
		if e.IsSentinel() {
			break
		}
	}

	return &mappingTableReader{table: table}, nil
}

func (r *mappingTableReader) Entries() []types.MappingTableEntryT {
	out := make([]types.MappingTableEntryT, 0, r.table.Len())
	for _, e := range r.table[:r.table.Len()] {
		out = append(out, e.Wire())
	}
	return out
}

func (r *mappingTableReader) Translate(addr uint32) (uint32, bool) {
	return r.table.Translate(addr)
}

// Table returns the entries including the sentinel
func (r *mappingTableReader) Table() bi.MappingTable {
	return r.table
}
