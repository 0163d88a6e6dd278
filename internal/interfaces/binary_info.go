package interfaces

import (
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// BinaryInfoHeaderReader provides methods for reading the binary info discovery header
type BinaryInfoHeaderReader interface {
	// MarkerStart returns the leading magic number
	MarkerStart() uint32

	// EntriesStart returns the address of the first entry address
	EntriesStart() uint32

	// EntriesEnd returns the address one past the last entry address
	EntriesEnd() uint32

	// MappingTableAddress returns the address of the first mapping table entry
	MappingTableAddress() uint32

	// MarkerEnd returns the trailing magic number
	MarkerEnd() uint32

	// EntryCount returns the number of entry addresses between the table bounds
	EntryCount() int

	// IsValid checks both magic numbers
	IsValid() bool
}

// BinaryInfoEntryReader provides methods for reading one entry record
type BinaryInfoEntryReader interface {
	// DataType returns the layout selector from the common header
	DataType() types.DataType

	// Tag returns the namespace from the common header
	Tag() uint16

	// ID returns the fact identifier, zero for unsupported layouts
	ID() uint32

	// Value returns the integer of an IdAndInt or the string address of an IdAndString
	Value() uint32

	// IsSupported reports whether the body layout is known
	IsSupported() bool
}

// MappingTableReader provides methods for reading a RAM to flash mapping table
type MappingTableReader interface {
	// Entries returns the entries before the sentinel
	Entries() []types.MappingTableEntryT

	// Translate converts a run-time address to an image address
	Translate(addr uint32) (uint32, bool)
}

// BinaryInfoLocator finds the discovery header in an image
type BinaryInfoLocator interface {
	// FindHeader returns the offset of the header within [start, start+length)
	FindHeader(start, length int64) (int64, error)
}

// BinaryInfoEntry is one decoded entry
type BinaryInfoEntry struct {
	// Address of the record
	Address uint32 `json:"address" yaml:"address"`

	DataType  types.DataType `json:"data_type" yaml:"data_type"`
	Tag       uint16         `json:"tag" yaml:"tag"`
	ID        uint32         `json:"id" yaml:"id"`
	Supported bool           `json:"supported" yaml:"supported"`

	// IdAndInt value
	IntValue uint32 `json:"int_value,omitempty" yaml:"int_value,omitempty"`

	// IdAndString value address as stored and where it was found in the image
	StringAddress     uint32 `json:"string_address,omitempty" yaml:"string_address,omitempty"`
	StringLoadAddress uint32 `json:"string_load_address,omitempty" yaml:"string_load_address,omitempty"`
	StringValue       string `json:"string_value,omitempty" yaml:"string_value,omitempty"`
}

// BinaryInfoReport contains everything read from an image's binary info
type BinaryInfoReport struct {
	HeaderAddress uint32                     `json:"header_address" yaml:"header_address"`
	Header        types.BinaryInfoHeaderT    `json:"header" yaml:"header"`
	Mapping       []types.MappingTableEntryT `json:"mapping" yaml:"mapping"`
	Entries       []BinaryInfoEntry          `json:"entries" yaml:"entries"`
}
