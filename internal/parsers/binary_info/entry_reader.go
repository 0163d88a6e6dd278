package binaryinfo

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/internal/interfaces"
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// entryReader implements the BinaryInfoEntryReader interface
type entryReader struct {
	common    types.EntryCommonT
	id        uint32
	value     uint32
	supported bool
}

// NewEntryReader parses an entry record, dispatching on its data type.
// IdAndInt and IdAndString bodies are decoded; other valid types only have
// their common header read.
func NewEntryReader(data []byte, endian binary.ByteOrder) (interfaces.BinaryInfoEntryReader, error) {
	if len(data) < types.EntryCommonSize {
		return nil, fmt.Errorf("data too small for entry header: %d bytes", len(data))
	}

	r := &entryReader{
		common: types.EntryCommonT{
			DataType: types.DataType(endian.Uint16(data[0:2])),
			Tag:      endian.Uint16(data[2:4]),
		},
	}

	if !r.common.DataType.IsValid() {
		return nil, fmt.Errorf("invalid entry data type: %d", r.common.DataType)
	}

	switch r.common.DataType {
	case types.DataTypeIDAndInt, types.DataTypeIDAndString:
		// Both layouts are header + id + 32-bit value.
		if len(data) < types.IDAndIntSize {
			return nil, fmt.Errorf("data too small for %s entry: %d bytes", r.common.DataType, len(data))
		}
		r.id = endian.Uint32(data[4:8])
		r.value = endian.Uint32(data[8:12])
		r.supported = true
	}

	return r, nil
}

func (r *entryReader) DataType() types.DataType {
	return r.common.DataType
}

func (r *entryReader) Tag() uint16 {
	return r.common.Tag
}

func (r *entryReader) ID() uint32 {
	return r.id
}

func (r *entryReader) Value() uint32 {
	return r.value
}

func (r *entryReader) IsSupported() bool {
	return r.supported
}
