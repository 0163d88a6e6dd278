package types

// UF2
// A UF2 file is a sequence of independent 512-byte blocks, each carrying up
// to 476 payload bytes and the flash address they belong at.

// UF2BlockT is one 512-byte UF2 block.
type UF2BlockT struct {
	MagicStart0 uint32
	MagicStart1 uint32
	Flags       uint32
	// Flash address of the first payload byte.
	TargetAddr uint32
	// Number of payload bytes used in Data.
	PayloadSize uint32
	// Sequential block number, starting at zero.
	BlockNo uint32
	// Total number of blocks in the file.
	NumBlocks uint32
	// Family ID when UF2FlagFamilyIDPresent is set, otherwise the file size.
	FamilyID uint32
	Data     [UF2DataSize]byte
	MagicEnd uint32
}

const (
	UF2MagicStart0 uint32 = 0x0A324655 // "UF2\n"
	UF2MagicStart1 uint32 = 0x9E5D5157
	UF2MagicEnd    uint32 = 0x0AB16F30
)

// UF2 block flags
const (
	UF2FlagNotMainFlash       uint32 = 0x00000001
	UF2FlagFileContainer      uint32 = 0x00001000
	UF2FlagFamilyIDPresent    uint32 = 0x00002000
	UF2FlagMD5ChecksumPresent uint32 = 0x00004000
	UF2FlagExtensionTags      uint32 = 0x00008000
)

// UF2FamilyRP2040 is the family ID the RP2040 boot ROM accepts.
const UF2FamilyRP2040 uint32 = 0xe48bff56

const (
	UF2BlockSize = 512
	UF2DataSize  = 476
	// The boot ROM expects 256-byte pages, one per block.
	UF2PageSize = 256
)
