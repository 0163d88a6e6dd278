package types

// Binary Info
// A firmware image carries a discoverable metadata block: a magic-bounded header
// that points at a table of entry addresses and at a RAM-to-flash mapping table.
// All multi-byte fields are little-endian and all pointers are 32 bits wide.

// BinaryInfoHeaderT is the discovery header an external reader scans for.
type BinaryInfoHeaderT struct {
	// Always BinaryInfoMarkerStart.
	MarkerStart uint32
	// Address of the first entry address in the entry table.
	EntriesStart uint32
	// Address one past the last entry address in the entry table.
	EntriesEnd uint32
	// Address of the first entry of the null-terminated mapping table.
	MappingTable uint32
	// Always BinaryInfoMarkerEnd.
	MarkerEnd uint32
}

// BinaryInfoMarkerStart is the value of the marker_start field.
const BinaryInfoMarkerStart uint32 = 0x7188ebf2

// BinaryInfoMarkerEnd is the value of the marker_end field.
const BinaryInfoMarkerEnd uint32 = 0xe71aa390

// MappingTableEntryT describes one region copied from flash to RAM at startup.
// Addresses in [DestAddrStart, DestAddrEnd) at run time live at SourceAddrStart
// onwards in the image. A table ends with an entry whose fields are all zero.
type MappingTableEntryT struct {
	SourceAddrStart uint32
	DestAddrStart   uint32
	DestAddrEnd     uint32
}

// DataType selects the concrete layout of an entry.
type DataType uint16

const (
	DataTypeRaw                          DataType = 1
	DataTypeSizedData                    DataType = 2
	DataTypeBinaryInfoListZeroTerminated DataType = 3
	DataTypeBson                         DataType = 4
	DataTypeIDAndInt                     DataType = 5
	DataTypeIDAndString                  DataType = 6
	DataTypeBlockDevice                  DataType = 7
	DataTypePinsWithFunction             DataType = 8
	DataTypePinsWithName                 DataType = 9
	DataTypePinsWithNames                DataType = 10
)

var dataTypeNames = map[DataType]string{
	DataTypeRaw:                          "Raw",
	DataTypeSizedData:                    "SizedData",
	DataTypeBinaryInfoListZeroTerminated: "BinaryInfoListZeroTerminated",
	DataTypeBson:                         "Bson",
	DataTypeIDAndInt:                     "IdAndInt",
	DataTypeIDAndString:                  "IdAndString",
	DataTypeBlockDevice:                  "BlockDevice",
	DataTypePinsWithFunction:             "PinsWithFunction",
	DataTypePinsWithName:                 "PinsWithName",
	DataTypePinsWithNames:                "PinsWithNames",
}

// String returns the name used by picotool for the data type
func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return "Unknown"
}

// IsValid reports whether d is one of the defined data types
func (d DataType) IsValid() bool {
	return d >= DataTypeRaw && d <= DataTypePinsWithNames
}

// EntryCommonT is the header shared by every entry.
type EntryCommonT struct {
	// Selects the layout of the rest of the entry.
	DataType DataType
	// Namespace of the entry ID, two ASCII characters.
	Tag uint16
}

// IDAndStringT is an entry holding an ID and the address of a NUL-terminated string.
type IDAndStringT struct {
	Common EntryCommonT
	ID     uint32
	Value  uint32
}

// IDAndIntT is an entry holding an ID and a 32-bit integer.
type IDAndIntT struct {
	Common EntryCommonT
	ID     uint32
	Value  uint32
}

// Wire sizes in bytes.
const (
	BinaryInfoHeaderSize  = 20
	MappingTableEntrySize = 12
	EntryCommonSize       = 4
	IDAndStringSize       = 12
	IDAndIntSize          = 12
	EntryAddrSize         = 4
)

// TagRaspberryPi is the tag of every Raspberry Pi defined ID.
// It is 'R' | 'P'<<8 so that it reads "RP" in a memory dump.
const TagRaspberryPi uint16 = 'R' | 'P'<<8

// Raspberry Pi defined IDs. The values are fixed by the external reader.
const (
	// IdAndString
	IDRPProgramName uint32 = 0x02031c86
	// IdAndString
	IDRPProgramVersionString uint32 = 0x11a9bc3a
	// IdAndString
	IDRPProgramBuildDateString uint32 = 0x9da22254
	// IdAndInt
	IDRPBinaryEnd uint32 = 0x68f465de
	// IdAndString
	IDRPProgramURL uint32 = 0x1856239a
	// IdAndString
	IDRPProgramDescription uint32 = 0xb6a07c19
	// IdAndString, may repeat
	IDRPProgramFeature uint32 = 0xa1f4b453
	// IdAndString, may repeat
	IDRPProgramBuildAttribute uint32 = 0x4275f0d3
	// IdAndString
	IDRPSDKVersion uint32 = 0x5360b3ab
	// IdAndString
	IDRPPicoBoard uint32 = 0xb63cffbb
	// IdAndString
	IDRPBoot2Name uint32 = 0x7f8882e1
)
