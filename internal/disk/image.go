package disk

import (
	"fmt"
	"os"
	"path/filepath"

	binaryinfo "github.com/deploymenttheory/go-binaryinfo/internal/parsers/binary_info"
	"github.com/deploymenttheory/go-binaryinfo/internal/uf2"
)

// Image formats
const (
	FormatBin = "bin"
	FormatUF2 = "uf2"
)

// ImageFile is a firmware image loaded from disk as a flat byte range
type ImageFile struct {
	Path   string
	Format string
	// Address of Data[0]
	Origin uint32
	Data   []byte
	// UF2 family ID, zero for flat binaries
	FamilyID uint32
	// Number of UF2 blocks, zero for flat binaries
	Blocks int
}

// OpenImage reads the image at path. UF2 files are recognised by their block
// magic and carry their own load address; flat binaries are assumed to be
// loaded at origin.
func OpenImage(path string, origin uint32) (*ImageFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("image file %s is empty", path)
	}

	img := &ImageFile{Path: path}

	if uf2.IsUF2(raw) {
		decoded, err := uf2.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode UF2: %w", err)
		}
		img.Format = FormatUF2
		img.Origin = decoded.Base
		img.Data = decoded.Data
		img.FamilyID = decoded.FamilyID
		img.Blocks = decoded.Blocks
		return img, nil
	}

	img.Format = FormatBin
	img.Origin = origin
	img.Data = raw
	return img, nil
}

// Size returns the length of the flat image
func (f *ImageFile) Size() int {
	return len(f.Data)
}

// Reader returns a binary info reader over the image
func (f *ImageFile) Reader() (*binaryinfo.ImageReader, error) {
	return binaryinfo.NewImageReader(f.Data, f.Origin)
}

// WriteImage writes data to path through a temporary file in the same
// directory, so readers never see a partial image.
func WriteImage(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set image permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move image into place: %w", err)
	}
	return nil
}
