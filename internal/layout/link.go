package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/internal/types"
	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// plan holds the image offsets of every section, relative to FlashOrigin.
type plan struct {
	header     uint32
	table      uint32
	records    []uint32
	rodata     map[int]uint32 // entry index -> string offset in flash
	mapping    uint32
	sidata     uint32
	ramOffsets map[int]uint32 // entry index -> string offset from RAMOrigin
	dataLen    uint32
	total      uint32
}

// Link lays out the registered entries and the structures that find them,
// and returns the resulting image.
//
// Flash order is: boot2 area, vector area, header, entry table, records,
// read-only strings, mapping table, initialised data load image. Handles in
// the registry become absolute addresses here and nowhere else.
func Link(reg *binaryinfo.Registry, cfg Config) (*Image, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	entries := reg.Entries()
	if cfg.EmitBinaryEnd {
		// The value is patched once the image size is known.
		entries = append(entries, binaryinfo.BinaryEnd(0))
	}

	for i, e := range entries {
		switch e.(type) {
		case binaryinfo.IDAndString, binaryinfo.IDAndInt:
		default:
			return nil, fmt.Errorf("entry %d: unsupported entry type %T", i, e)
		}
	}

	p, err := planLayout(entries, cfg)
	if err != nil {
		return nil, err
	}

	if uint64(cfg.FlashOrigin)+uint64(p.total) > 1<<32 {
		return nil, fmt.Errorf("image of %d bytes at 0x%08X exceeds the 32-bit address space", p.total, cfg.FlashOrigin)
	}
	end := cfg.FlashOrigin + p.total
	imageEnd := uint64(cfg.FlashOrigin) + uint64(p.total)
	ramEnd := uint64(cfg.RAMOrigin) + uint64(cfg.RAMSize)
	if uint64(cfg.RAMOrigin) < imageEnd && uint64(cfg.FlashOrigin) < ramEnd {
		return nil, fmt.Errorf("RAM range 0x%08X-0x%09X overlaps the image 0x%08X-0x%09X",
			cfg.RAMOrigin, ramEnd, cfg.FlashOrigin, imageEnd)
	}

	if cfg.EmitBinaryEnd {
		entries[len(entries)-1] = binaryinfo.BinaryEnd(end)
	}

	img := &Image{
		Origin:     cfg.FlashOrigin,
		Entries:    entries,
		EntryAddrs: make([]uint32, len(entries)),
		ValueAddrs: make([]uint32, len(entries)),
	}
	img.Symbols = Symbols{
		Header:       cfg.FlashOrigin + p.header,
		EntriesStart: cfg.FlashOrigin + p.table,
		EntriesEnd:   cfg.FlashOrigin + p.table + uint32(len(entries))*binaryinfo.AddrSize,
		MappingTable: cfg.FlashOrigin + p.mapping,
		Sdata:        cfg.RAMOrigin,
		Edata:        cfg.RAMOrigin + p.dataLen,
		Sidata:       cfg.FlashOrigin + p.sidata,
		End:          end,
	}
	img.Header = binaryinfo.NewHeader(img.Symbols.EntriesStart, img.Symbols.EntriesEnd, img.Symbols.MappingTable)
	img.Mapping = binaryinfo.NewMappingTable(binaryinfo.MappingTableEntry{
		SourceAddrStart: img.Symbols.Sidata,
		DestAddrStart:   img.Symbols.Sdata,
		DestAddrEnd:     img.Symbols.Edata,
	})

	for i := range entries {
		img.EntryAddrs[i] = cfg.FlashOrigin + p.records[i]
		if off, ok := p.rodata[i]; ok {
			img.ValueAddrs[i] = cfg.FlashOrigin + off
		}
		if off, ok := p.ramOffsets[i]; ok {
			img.ValueAddrs[i] = cfg.RAMOrigin + off
		}
	}

	data, err := emit(img, entries, p, cfg)
	if err != nil {
		return nil, err
	}
	img.data = data

	return img, nil
}

func planLayout(entries []binaryinfo.Entry, cfg Config) (*plan, error) {
	p := &plan{
		records:    make([]uint32, len(entries)),
		rodata:     make(map[int]uint32),
		ramOffsets: make(map[int]uint32),
	}

	p.header = cfg.ProgramOffset + cfg.HeaderOffset
	off := align4(p.header + binaryinfo.HeaderSize)

	p.table = off
	off += uint32(len(entries)) * binaryinfo.AddrSize

	for i, e := range entries {
		p.records[i] = off
		switch e.(type) {
		case binaryinfo.IDAndString:
			off += types.IDAndStringSize
		case binaryinfo.IDAndInt:
			off += types.IDAndIntSize
		}
	}

	var ram uint32
	for i, e := range entries {
		s, ok := e.(binaryinfo.IDAndString)
		if !ok {
			continue
		}
		n := uint32(len(s.Value()))
		if s.Placement() == binaryinfo.PlacementData {
			p.ramOffsets[i] = ram
			ram += n
			continue
		}
		p.rodata[i] = off
		off += n
	}
	off = align4(off)

	p.mapping = off
	off += 2 * binaryinfo.MappingEntrySize

	p.dataLen = align4(ram)
	if p.dataLen > cfg.RAMSize {
		return nil, fmt.Errorf("initialised data needs %d bytes but RAM holds %d", p.dataLen, cfg.RAMSize)
	}
	p.sidata = off
	off += p.dataLen

	p.total = off
	return p, nil
}

// emit writes the sections in flash order, checking each lands where planned.
func emit(img *Image, entries []binaryinfo.Entry, p *plan, cfg Config) ([]byte, error) {
	w := &sectionWriter{}
	w.buf.Grow(int(p.total))

	w.write(cfg.Boot2)

	if err := w.seek(p.header, "header"); err != nil {
		return nil, err
	}
	w.put(img.Header.Wire())

	if err := w.seek(p.table, ".bi_entries"); err != nil {
		return nil, err
	}
	for _, addr := range img.EntryAddrs {
		w.put(addr)
	}

	for i, e := range entries {
		if err := w.seek(p.records[i], "entry record"); err != nil {
			return nil, err
		}
		switch v := e.(type) {
		case binaryinfo.IDAndString:
			w.put(v.Encode(img.ValueAddrs[i]))
		case binaryinfo.IDAndInt:
			w.put(v.Encode())
		}
	}

	for i, e := range entries {
		off, ok := p.rodata[i]
		if !ok {
			continue
		}
		if err := w.seek(off, ".rodata"); err != nil {
			return nil, err
		}
		w.write([]byte(e.(binaryinfo.IDAndString).Value()))
	}

	if err := w.seek(p.mapping, "mapping table"); err != nil {
		return nil, err
	}
	for _, m := range img.Mapping {
		w.put(m.Wire())
	}

	data := make([]byte, p.dataLen)
	for i, off := range p.ramOffsets {
		copy(data[off:], entries[i].(binaryinfo.IDAndString).Value())
	}
	if err := w.seek(p.sidata, ".data"); err != nil {
		return nil, err
	}
	w.write(data)

	if w.err != nil {
		return nil, fmt.Errorf("failed to write image: %w", w.err)
	}
	if uint32(w.buf.Len()) != p.total {
		return nil, fmt.Errorf("image is %d bytes, planned %d", w.buf.Len(), p.total)
	}
	return w.buf.Bytes(), nil
}

// sectionWriter appends little-endian values and zero padding to a buffer.
// The first write error sticks.
type sectionWriter struct {
	buf bytes.Buffer
	err error
}

func (w *sectionWriter) put(v any) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(&w.buf, binary.LittleEndian, v)
}

func (w *sectionWriter) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.buf.Write(b)
}

// seek pads with zeros up to off. Moving backwards means two sections overlap.
func (w *sectionWriter) seek(off uint32, section string) error {
	cur := uint32(w.buf.Len())
	if cur > off {
		return fmt.Errorf("%s at offset 0x%X overlaps previous data ending at 0x%X", section, off, cur)
	}
	w.write(make([]byte, off-cur))
	return nil
}

func align4(v uint32) uint32 {
	return (v + 3) &^ 3
}
