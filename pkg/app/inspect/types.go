package inspect

import (
	"github.com/deploymenttheory/go-binaryinfo/internal/config"
)

// Request represents an image inspection request
type Request struct {
	ImagePath string
	// Bytes after the program start searched for the header; zero uses the
	// configured window. Negative scans the whole image.
	Window int64

	// Layout settings, defaults when nil
	Config *config.BinfoConfig
}

// Response holds everything read from an image
type Response struct {
	Image         ImageInfo      `json:"image" yaml:"image"`
	HeaderAddress uint32         `json:"header_address" yaml:"header_address"`
	EntriesStart  uint32         `json:"entries_start" yaml:"entries_start"`
	EntriesEnd    uint32         `json:"entries_end" yaml:"entries_end"`
	MappingTable  uint32         `json:"mapping_table" yaml:"mapping_table"`
	Mapping       []MappingRange `json:"mapping" yaml:"mapping"`
	Entries       []EntryResult  `json:"entries" yaml:"entries"`
}

// ImageInfo describes the file that was read
type ImageInfo struct {
	Path     string `json:"path" yaml:"path"`
	Format   string `json:"format" yaml:"format"`
	Origin   uint32 `json:"origin" yaml:"origin"`
	Size     int    `json:"size" yaml:"size"`
	FamilyID uint32 `json:"family_id,omitempty" yaml:"family_id,omitempty"`
}

// MappingRange is one mapping table entry
type MappingRange struct {
	Source    uint32 `json:"source" yaml:"source"`
	DestStart uint32 `json:"dest_start" yaml:"dest_start"`
	DestEnd   uint32 `json:"dest_end" yaml:"dest_end"`
}

// EntryResult is one decoded entry
type EntryResult struct {
	Address   uint32 `json:"address" yaml:"address"`
	DataType  string `json:"data_type" yaml:"data_type"`
	Tag       string `json:"tag" yaml:"tag"`
	ID        uint32 `json:"id" yaml:"id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Supported bool   `json:"supported" yaml:"supported"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	// Where a string value lives at run time and where it was read from
	ValueAddress uint32 `json:"value_address,omitempty" yaml:"value_address,omitempty"`
	LoadAddress  uint32 `json:"load_address,omitempty" yaml:"load_address,omitempty"`
}

// TranslateRequest asks where a run-time address is stored in an image
type TranslateRequest struct {
	ImagePath string
	Address   string
	Window    int64
	Config    *config.BinfoConfig
}

// TranslateResponse holds the result of an address translation
type TranslateResponse struct {
	Address     uint32 `json:"address" yaml:"address"`
	LoadAddress uint32 `json:"load_address" yaml:"load_address"`
	Offset      int    `json:"offset" yaml:"offset"`
	// image when the address is inside the image, mapping when translated
	Via string `json:"via" yaml:"via"`
}
