package build

import (
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-binaryinfo/internal/disk"
	"github.com/deploymenttheory/go-binaryinfo/pkg/app"
)

// Validate validates a build request and fills in the output format
func (r *Request) Validate() error {
	if r.ManifestPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "manifest path is required", nil)
	}
	if r.OutPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "output path is required", nil)
	}
	if filepath.Clean(r.ManifestPath) == filepath.Clean(r.OutPath) {
		return app.NewError(app.ErrCodeInvalidInput, "output would overwrite the manifest", nil)
	}

	if r.Format == "" {
		r.Format = formatFromPath(r.OutPath)
	}
	switch r.Format {
	case disk.FormatBin, disk.FormatUF2:
	default:
		return app.NewError(app.ErrCodeInvalidInput, "format must be bin or uf2, got "+r.Format, nil)
	}

	return nil
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".uf2") {
		return disk.FormatUF2
	}
	return disk.FormatBin
}
