// Package binaryinfo builds the "Binary Info" metadata block that host tools
// such as picotool read out of a firmware image without running it.
//
// # Format
//
// The block has three parts, all little-endian with 32-bit pointers:
//
//	Header (20 bytes, placed in the first 256 bytes of the program)
//	  marker_start   0x7188ebf2
//	  entries_start  address of the first entry address
//	  entries_end    address one past the last entry address
//	  mapping_table  address of the first mapping table entry
//	  marker_end     0xe71aa390
//
//	Entry table: a contiguous array of entry addresses.
//
//	Entries: a 4-byte common header (data_type u16, tag u16) followed by a
//	type-specific body. IdAndString carries an id and the address of a
//	NUL-terminated string, IdAndInt carries an id and a 32-bit value.
//
//	Mapping table: (source, dest_start, dest_end) triples ending in an
//	all-zero sentinel, used to find RAM-resident values in the image.
//
// # Usage
//
// Entries are registered in a build-time Registry. The registry holds handles,
// not addresses; addresses are assigned when an image is linked:
//
//	reg := binaryinfo.NewRegistry()
//	reg.Add(binaryinfo.ProgramName(binaryinfo.CString("blinky")))
//	reg.Add(binaryinfo.ProgramFeature(binaryinfo.CString("USB stdio")))
//
// String constructors store the value exactly as given. The stored value must
// already end in a NUL byte; CString appends one when it is missing.
//
// Every value in this package is immutable once constructed and is safe for
// concurrent reads. A Registry itself is built by a single goroutine.
package binaryinfo
