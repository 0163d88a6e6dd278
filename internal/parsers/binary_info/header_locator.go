package binaryinfo

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-binaryinfo/internal/interfaces"
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// BinaryInfoHeaderLocator scans an image for the discovery header
type BinaryInfoHeaderLocator struct {
	reader io.ReaderAt
	size   int64
}

// Ensure BinaryInfoHeaderLocator implements the BinaryInfoLocator interface
var _ interfaces.BinaryInfoLocator = (*BinaryInfoHeaderLocator)(nil)

// NewBinaryInfoHeaderLocator creates a locator over size bytes of reader.
func NewBinaryInfoHeaderLocator(reader io.ReaderAt, size int64) (*BinaryInfoHeaderLocator, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	if size < 0 {
		return nil, fmt.Errorf("size cannot be negative, got %d", size)
	}
	return &BinaryInfoHeaderLocator{reader: reader, size: size}, nil
}

// FindHeader returns the offset of the first header that starts, 4-byte
// aligned, in [start, start+length) and has both markers intact. A header
// with a damaged marker is treated as absent.
func (l *BinaryInfoHeaderLocator) FindHeader(start, length int64) (int64, error) {
	if start < 0 || length < 0 {
		return 0, fmt.Errorf("invalid search range: start %d, length %d", start, length)
	}
	if start%4 != 0 {
		start += 4 - start%4
	}

	end := start + length
	if end > l.size {
		end = l.size
	}

	// The last header candidate must fit entirely in the image.
	readEnd := end - 4 + types.BinaryInfoHeaderSize
	if readEnd > l.size {
		readEnd = l.size
	}
	if readEnd <= start {
		return 0, ErrHeaderNotFound
	}

	buf := make([]byte, readEnd-start)
	n, err := l.reader.ReadAt(buf, start)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read search range: %w", err)
	}
	buf = buf[:n]

	for off := 0; off+types.BinaryInfoHeaderSize <= len(buf) && start+int64(off) < end; off += 4 {
		if binary.LittleEndian.Uint32(buf[off:off+4]) != types.BinaryInfoMarkerStart {
			continue
		}
		if binary.LittleEndian.Uint32(buf[off+16:off+20]) != types.BinaryInfoMarkerEnd {
			continue
		}
		return start + int64(off), nil
	}

	return 0, ErrHeaderNotFound
}
