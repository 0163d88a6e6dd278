package layout

import (
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// Defaults for an RP2040 flash image.
const (
	DefaultFlashOrigin   uint32 = 0x10000000
	DefaultProgramOffset uint32 = 0x100 // boot2 occupies the first 256 bytes
	DefaultHeaderOffset  uint32 = 0xC0  // right after the 48-word vector table
	DefaultSearchWindow  uint32 = 256
	DefaultRAMOrigin     uint32 = 0x20000000
	DefaultRAMSize       uint32 = 0x42000
)

// Config places the binary info structures in an image.
type Config struct {
	// Address of the first byte of the image.
	FlashOrigin uint32
	// Offset of the program (vector table) from FlashOrigin.
	ProgramOffset uint32
	// Offset of the header from the program start.
	HeaderOffset uint32
	// Readers only look for the header in this many bytes from the program start.
	SearchWindow uint32
	// Run-time address range of initialised data.
	RAMOrigin uint32
	RAMSize   uint32
	// Append a BinaryEnd entry holding the end address of the image.
	EmitBinaryEnd bool
	// Optional second stage bootloader copied to FlashOrigin.
	Boot2 []byte
}

// DefaultConfig returns the RP2040 layout.
func DefaultConfig() Config {
	return Config{
		FlashOrigin:   DefaultFlashOrigin,
		ProgramOffset: DefaultProgramOffset,
		HeaderOffset:  DefaultHeaderOffset,
		SearchWindow:  DefaultSearchWindow,
		RAMOrigin:     DefaultRAMOrigin,
		RAMSize:       DefaultRAMSize,
		EmitBinaryEnd: true,
	}
}

// Validate checks that the layout can hold a header readers will find.
func (c Config) Validate() error {
	if c.FlashOrigin == 0 {
		return fmt.Errorf("flash origin cannot be zero")
	}
	if c.FlashOrigin%4 != 0 || c.ProgramOffset%4 != 0 || c.HeaderOffset%4 != 0 {
		return fmt.Errorf("flash origin, program offset and header offset must be 4-byte aligned")
	}
	if c.RAMOrigin == 0 || c.RAMOrigin%4 != 0 {
		return fmt.Errorf("RAM origin must be non-zero and 4-byte aligned, got 0x%08X", c.RAMOrigin)
	}
	if uint64(c.HeaderOffset)+binaryinfo.HeaderSize > uint64(c.SearchWindow) {
		return fmt.Errorf("header at offset 0x%X does not fit in the %d byte search window", c.HeaderOffset, c.SearchWindow)
	}
	if uint64(len(c.Boot2)) > uint64(c.ProgramOffset) {
		return fmt.Errorf("boot2 is %d bytes but only %d bytes precede the program", len(c.Boot2), c.ProgramOffset)
	}
	if uint64(c.RAMOrigin)+uint64(c.RAMSize) > 1<<32 {
		return fmt.Errorf("RAM range 0x%08X+0x%X exceeds the 32-bit address space", c.RAMOrigin, c.RAMSize)
	}
	return nil
}
