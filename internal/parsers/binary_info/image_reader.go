package binaryinfo

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/internal/interfaces"
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
	bi "github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// ImageReader reads binary info out of a flat image loaded at origin. It
// plays the role of the external reader: addresses inside the image are read
// directly and anything else goes through the mapping table.
type ImageReader struct {
	data   []byte
	origin uint32
	endian binary.ByteOrder
}

// NewImageReader creates a reader over an image whose first byte is at origin.
func NewImageReader(data []byte, origin uint32) (*ImageReader, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	if uint64(origin)+uint64(len(data)) > 1<<32 {
		return nil, fmt.Errorf("image of %d bytes at 0x%08X exceeds the 32-bit address space", len(data), origin)
	}
	return &ImageReader{data: data, origin: origin, endian: binary.LittleEndian}, nil
}

// Origin returns the address of the first byte of the image
func (r *ImageReader) Origin() uint32 {
	return r.origin
}

// Size returns the image length in bytes
func (r *ImageReader) Size() int {
	return len(r.data)
}

// Contains reports whether addr lies inside the image
func (r *ImageReader) Contains(addr uint32) bool {
	return addr >= r.origin && uint64(addr) < uint64(r.origin)+uint64(len(r.data))
}

// Locate returns the address of the header in the length bytes starting at
// offset from the origin.
func (r *ImageReader) Locate(offset, length uint32) (uint32, error) {
	locator, err := NewBinaryInfoHeaderLocator(bytes.NewReader(r.data), int64(len(r.data)))
	if err != nil {
		return 0, err
	}
	off, err := locator.FindHeader(int64(offset), int64(length))
	if err != nil {
		return 0, err
	}
	return r.origin + uint32(off), nil
}

// ReadAt returns n bytes at an image address.
func (r *ImageReader) ReadAt(addr uint32, n int) ([]byte, error) {
	if !r.Contains(addr) {
		return nil, fmt.Errorf("%w: 0x%08X", ErrUnmappedAddress, addr)
	}
	off := int(addr - r.origin)
	if off+n > len(r.data) {
		return nil, fmt.Errorf("read of %d bytes at 0x%08X runs past the image end", n, addr)
	}
	return r.data[off : off+n], nil
}

// Resolve returns the image address holding the byte at a run-time address.
func (r *ImageReader) Resolve(addr uint32, mapping interfaces.MappingTableReader) (uint32, error) {
	if r.Contains(addr) {
		return addr, nil
	}
	if mapping != nil {
		if src, ok := mapping.Translate(addr); ok && r.Contains(src) {
			return src, nil
		}
	}
	return 0, fmt.Errorf("%w: 0x%08X", ErrUnmappedAddress, addr)
}

// ReadHeader parses the header at addr.
func (r *ImageReader) ReadHeader(addr uint32) (interfaces.BinaryInfoHeaderReader, error) {
	data, err := r.ReadAt(addr, types.BinaryInfoHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return NewBinaryInfoHeaderReader(data, r.endian)
}

// ReadMappingTable parses the mapping table at addr.
func (r *ImageReader) ReadMappingTable(addr uint32) (interfaces.MappingTableReader, error) {
	if !r.Contains(addr) {
		return nil, fmt.Errorf("mapping table: %w: 0x%08X", ErrUnmappedAddress, addr)
	}
	return NewMappingTableReader(r.data[addr-r.origin:], r.endian)
}

// ReadEntryAddresses returns the entry table between start and end.
func (r *ImageReader) ReadEntryAddresses(start, end uint32) ([]uint32, error) {
	if end < start {
		return nil, fmt.Errorf("entry table end 0x%08X is before start 0x%08X", end, start)
	}
	count := int((end - start) / types.EntryAddrSize)
	if count == 0 {
		return []uint32{}, nil
	}
	data, err := r.ReadAt(start, count*types.EntryAddrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry table: %w", err)
	}
	addrs := make([]uint32, count)
	for i := range addrs {
		addrs[i] = r.endian.Uint32(data[i*4 : i*4+4])
	}
	return addrs, nil
}

// ReadEntry parses the record at addr.
func (r *ImageReader) ReadEntry(addr uint32) (interfaces.BinaryInfoEntryReader, error) {
	if !r.Contains(addr) {
		return nil, fmt.Errorf("entry: %w: 0x%08X", ErrUnmappedAddress, addr)
	}
	off := addr - r.origin
	end := off + types.IDAndStringSize
	if end > uint32(len(r.data)) {
		end = uint32(len(r.data))
	}
	return NewEntryReader(r.data[off:end], r.endian)
}

// ReadCString reads the NUL-terminated string at a run-time address and
// returns it with the image address it was read from.
func (r *ImageReader) ReadCString(addr uint32, mapping interfaces.MappingTableReader) (string, uint32, error) {
	src, err := r.Resolve(addr, mapping)
	if err != nil {
		return "", 0, err
	}
	rest := r.data[src-r.origin:]
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return "", 0, fmt.Errorf("%w at 0x%08X", ErrUnterminatedString, addr)
	}
	return string(rest[:n]), src, nil
}

// Read locates the header in the given window and decodes everything it
// points at.
func (r *ImageReader) Read(offset, length uint32) (*interfaces.BinaryInfoReport, error) {
	headerAddr, err := r.Locate(offset, length)
	if err != nil {
		return nil, err
	}
	return r.ReadFrom(headerAddr)
}

// ReadFrom decodes the binary info whose header is at headerAddr.
func (r *ImageReader) ReadFrom(headerAddr uint32) (*interfaces.BinaryInfoReport, error) {
	header, err := r.ReadHeader(headerAddr)
	if err != nil {
		return nil, err
	}

	mapping, err := r.ReadMappingTable(header.MappingTableAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping table: %w", err)
	}

	addrs, err := r.ReadEntryAddresses(header.EntriesStart(), header.EntriesEnd())
	if err != nil {
		return nil, err
	}

	report := &interfaces.BinaryInfoReport{
		HeaderAddress: headerAddr,
		Header: types.BinaryInfoHeaderT{
			MarkerStart:  header.MarkerStart(),
			EntriesStart: header.EntriesStart(),
			EntriesEnd:   header.EntriesEnd(),
			MappingTable: header.MappingTableAddress(),
			MarkerEnd:    header.MarkerEnd(),
		},
		Mapping: mapping.Entries(),
		Entries: make([]interfaces.BinaryInfoEntry, 0, len(addrs)),
	}

	for i, addr := range addrs {
		entry, err := r.decodeEntry(addr, mapping)
		if err != nil {
			return nil, fmt.Errorf("entry %d at 0x%08X: %w", i, addr, err)
		}
		report.Entries = append(report.Entries, entry)
	}

	return report, nil
}

func (r *ImageReader) decodeEntry(addr uint32, mapping interfaces.MappingTableReader) (interfaces.BinaryInfoEntry, error) {
	er, err := r.ReadEntry(addr)
	if err != nil {
		return interfaces.BinaryInfoEntry{}, err
	}

	entry := interfaces.BinaryInfoEntry{
		Address:   addr,
		DataType:  er.DataType(),
		Tag:       er.Tag(),
		ID:        er.ID(),
		Supported: er.IsSupported(),
	}

	switch er.DataType() {
	case bi.DataTypeIDAndInt:
		entry.IntValue = er.Value()
	case bi.DataTypeIDAndString:
		s, src, err := r.ReadCString(er.Value(), mapping)
		if err != nil {
			return interfaces.BinaryInfoEntry{}, err
		}
		entry.StringAddress = er.Value()
		entry.StringLoadAddress = src
		entry.StringValue = s
	}

	return entry, nil
}
