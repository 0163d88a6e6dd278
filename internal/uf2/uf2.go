// Package uf2 converts flat flash images to and from the UF2 container the
// RP2040 boot ROM accepts over USB mass storage.
package uf2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

var (
	ErrInvalidMagic = errors.New("invalid UF2 magic")
	ErrNoBlocks     = errors.New("no main flash blocks in UF2 data")
)

// maxImageSpan bounds the flat image a decode may allocate. RP2040 boards
// address at most 16MB of flash.
const maxImageSpan = 16 << 20

// Image is a flat image recovered from UF2 blocks.
type Image struct {
	// Address of Data[0].
	Base uint32
	Data []byte
	// Zero when no block carried a family ID.
	FamilyID uint32
	Blocks   int
}

// IsUF2 reports whether data starts with a UF2 block header.
func IsUF2(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	return binary.LittleEndian.Uint32(data[0:4]) == types.UF2MagicStart0 &&
		binary.LittleEndian.Uint32(data[4:8]) == types.UF2MagicStart1
}

// Encode splits data loaded at base into one block per 256-byte page. The
// last page is zero padded.
func Encode(data []byte, base, family uint32) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	if base%types.UF2PageSize != 0 {
		return nil, fmt.Errorf("base address 0x%08X is not aligned to %d bytes", base, types.UF2PageSize)
	}
	if uint64(base)+uint64(len(data)) > 1<<32 {
		return nil, fmt.Errorf("image of %d bytes at 0x%08X exceeds the 32-bit address space", len(data), base)
	}

	numBlocks := (len(data) + types.UF2PageSize - 1) / types.UF2PageSize

	var buf bytes.Buffer
	buf.Grow(numBlocks * types.UF2BlockSize)

	for i := 0; i < numBlocks; i++ {
		block := types.UF2BlockT{
			MagicStart0: types.UF2MagicStart0,
			MagicStart1: types.UF2MagicStart1,
			Flags:       types.UF2FlagFamilyIDPresent,
			TargetAddr:  base + uint32(i*types.UF2PageSize),
			PayloadSize: types.UF2PageSize,
			BlockNo:     uint32(i),
			NumBlocks:   uint32(numBlocks),
			FamilyID:    family,
			MagicEnd:    types.UF2MagicEnd,
		}
		copy(block.Data[:types.UF2PageSize], data[i*types.UF2PageSize:])

		if err := binary.Write(&buf, binary.LittleEndian, &block); err != nil {
			return nil, fmt.Errorf("failed to write block %d: %w", i, err)
		}
	}

	return buf.Bytes(), nil
}

// Decode rebuilds the flat image described by UF2 data. Blocks flagged as
// not for main flash are skipped and gaps between blocks are zero filled.
func Decode(data []byte) (*Image, error) {
	if len(data)%types.UF2BlockSize != 0 {
		return nil, fmt.Errorf("UF2 data is %d bytes, not a multiple of %d", len(data), types.UF2BlockSize)
	}

	blocks := make([]types.UF2BlockT, 0, len(data)/types.UF2BlockSize)
	img := &Image{}
	var lo, hi uint64
	familySeen := false

	for off := 0; off < len(data); off += types.UF2BlockSize {
		var block types.UF2BlockT
		if err := binary.Read(bytes.NewReader(data[off:off+types.UF2BlockSize]), binary.LittleEndian, &block); err != nil {
			return nil, fmt.Errorf("failed to read block at offset %d: %w", off, err)
		}
		if block.MagicStart0 != types.UF2MagicStart0 || block.MagicStart1 != types.UF2MagicStart1 || block.MagicEnd != types.UF2MagicEnd {
			return nil, fmt.Errorf("%w in block at offset %d", ErrInvalidMagic, off)
		}
		if block.Flags&types.UF2FlagNotMainFlash != 0 {
			continue
		}
		if block.PayloadSize > types.UF2DataSize {
			return nil, fmt.Errorf("block %d payload of %d bytes exceeds %d", block.BlockNo, block.PayloadSize, types.UF2DataSize)
		}

		if block.Flags&types.UF2FlagFamilyIDPresent != 0 {
			if familySeen && block.FamilyID != img.FamilyID {
				return nil, fmt.Errorf("block %d has family 0x%08X, expected 0x%08X", block.BlockNo, block.FamilyID, img.FamilyID)
			}
			img.FamilyID = block.FamilyID
			familySeen = true
		}

		start := uint64(block.TargetAddr)
		end := start + uint64(block.PayloadSize)
		if len(blocks) == 0 || start < lo {
			lo = start
		}
		if end > hi {
			hi = end
		}
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}
	if hi > 1<<32 {
		return nil, fmt.Errorf("block data runs past the 32-bit address space")
	}
	if hi-lo > maxImageSpan {
		return nil, fmt.Errorf("blocks span %d bytes, more than %d", hi-lo, maxImageSpan)
	}

	img.Base = uint32(lo)
	img.Data = make([]byte, hi-lo)
	img.Blocks = len(blocks)
	for _, block := range blocks {
		copy(img.Data[uint64(block.TargetAddr)-lo:], block.Data[:block.PayloadSize])
	}

	return img, nil
}
