package build

import (
	"time"

	"github.com/deploymenttheory/go-binaryinfo/internal/config"
)

// Request represents an image build request
type Request struct {
	ManifestPath string
	OutPath      string
	// bin or uf2; empty picks from the output file extension
	Format       string
	StampBuildID bool

	// Layout settings, defaults when nil
	Config *config.BinfoConfig
}

// Response describes a built image
type Response struct {
	Manifest      string        `json:"manifest" yaml:"manifest"`
	Output        string        `json:"output" yaml:"output"`
	Format        string        `json:"format" yaml:"format"`
	Origin        uint32        `json:"origin" yaml:"origin"`
	ImageSize     int           `json:"image_size" yaml:"image_size"`
	FileSize      int           `json:"file_size" yaml:"file_size"`
	HeaderAddress uint32        `json:"header_address" yaml:"header_address"`
	EntriesStart  uint32        `json:"entries_start" yaml:"entries_start"`
	EntriesEnd    uint32        `json:"entries_end" yaml:"entries_end"`
	MappingTable  uint32        `json:"mapping_table" yaml:"mapping_table"`
	BuildID       string        `json:"build_id,omitempty" yaml:"build_id,omitempty"`
	Entries       []EntryResult `json:"entries" yaml:"entries"`
	BuildTime     time.Duration `json:"build_time" yaml:"build_time"`
}

// EntryResult summarises one linked entry
type EntryResult struct {
	Address   uint32 `json:"address" yaml:"address"`
	Tag       string `json:"tag" yaml:"tag"`
	ID        uint32 `json:"id" yaml:"id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Value     string `json:"value" yaml:"value"`
	Placement string `json:"placement,omitempty" yaml:"placement,omitempty"`
	// Run-time address of a string value
	ValueAddress uint32 `json:"value_address,omitempty" yaml:"value_address,omitempty"`
}
