package build

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-binaryinfo/internal/config"
	"github.com/deploymenttheory/go-binaryinfo/internal/disk"
	"github.com/deploymenttheory/go-binaryinfo/internal/layout"
	"github.com/deploymenttheory/go-binaryinfo/internal/manifest"
	parser "github.com/deploymenttheory/go-binaryinfo/internal/parsers/binary_info"
	"github.com/deploymenttheory/go-binaryinfo/internal/uf2"
	"github.com/deploymenttheory/go-binaryinfo/pkg/app"
	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// BuildIDNamespace scopes the name-based UUIDs stamped into images
var BuildIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/deploymenttheory/go-binaryinfo/build-id"))

// BuildIDPrefix starts the build attribute that carries the build ID
const BuildIDPrefix = "build-id="

// Handle builds the image described by a manifest and writes it out
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx, cancel := ctx.WithTimeout(ctx.DefaultTimeout)
	defer cancel()

	ctx.Log("Building image", zap.String("manifest", req.ManifestPath), zap.String("format", req.Format))
	ctx.Progress("Reading manifest...", 5)

	// 2. Read manifest
	raw, err := os.ReadFile(req.ManifestPath)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "failed to read manifest", err)
	}
	m, err := manifest.Parse(raw)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "invalid manifest "+req.ManifestPath, err)
	}

	response := &Response{
		Manifest: req.ManifestPath,
		Output:   req.OutPath,
		Format:   req.Format,
	}

	if req.StampBuildID {
		response.BuildID = BuildID(raw).String()
		m.AddBuildAttribute(BuildIDPrefix + response.BuildID)
		ctx.Log("Stamped build ID", zap.String("build_id", response.BuildID))
	}

	// 3. Register and link
	reg := binaryinfo.NewRegistry()
	if _, err := m.Apply(reg); err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "failed to register entries", err)
	}

	lc, err := cfg.Layout()
	if err != nil {
		return nil, app.NewError(app.ErrCodeLayout, "invalid layout configuration", err)
	}

	if err := ctx.CheckTimeout("build"); err != nil {
		return nil, err
	}
	ctx.Progress("Linking...", 30)
	img, err := layout.Link(reg, lc)
	if err != nil {
		return nil, app.NewError(app.ErrCodeLayout, "failed to link image", err)
	}

	// 4. Read the result back the way a host tool would
	ctx.Progress("Verifying...", 60)
	if err := verify(img, lc); err != nil {
		return nil, app.NewError(app.ErrCodeLayout, "linked image does not read back", err)
	}

	// 5. Encode and write
	out := img.Bytes()
	if req.Format == disk.FormatUF2 {
		out, err = uf2.Encode(out, img.Origin, cfg.UF2Family)
		if err != nil {
			return nil, app.NewError(app.ErrCodeLayout, "failed to encode UF2", err)
		}
	}

	if err := ctx.CheckTimeout("build"); err != nil {
		return nil, err
	}
	ctx.Progress("Writing image...", 80)
	if err := disk.WriteImage(req.OutPath, out); err != nil {
		return nil, app.NewError(app.ErrCodeImageAccess, "failed to write "+req.OutPath, err)
	}

	response.Origin = img.Origin
	response.ImageSize = img.Size()
	response.FileSize = len(out)
	response.HeaderAddress = img.Symbols.Header
	response.EntriesStart = img.Header.EntriesStart()
	response.EntriesEnd = img.Header.EntriesEnd()
	response.MappingTable = img.Header.MappingTable()
	response.Entries = entryResults(img)
	response.BuildTime = time.Since(startTime)

	ctx.Progress("Complete", 100)
	ctx.Log("Build completed",
		zap.String("output", req.OutPath),
		zap.Int("entries", len(response.Entries)),
		zap.Duration("elapsed", response.BuildTime))

	return response, nil
}

// BuildID returns the name-based UUID of a manifest. Identical manifests get
// identical IDs.
func BuildID(data []byte) uuid.UUID {
	return uuid.NewSHA1(BuildIDNamespace, data)
}

func verify(img *layout.Image, lc layout.Config) error {
	reader, err := parser.NewImageReader(img.Bytes(), img.Origin)
	if err != nil {
		return err
	}
	report, err := reader.Read(lc.ProgramOffset, lc.SearchWindow)
	if err != nil {
		return err
	}
	if report.HeaderAddress != img.Symbols.Header {
		return fmt.Errorf("header found at 0x%08X, linked at 0x%08X", report.HeaderAddress, img.Symbols.Header)
	}
	if len(report.Entries) != len(img.Entries) {
		return fmt.Errorf("read %d entries, linked %d", len(report.Entries), len(img.Entries))
	}
	return nil
}

func entryResults(img *layout.Image) []EntryResult {
	results := make([]EntryResult, 0, len(img.Entries))
	for i, e := range img.Entries {
		r := EntryResult{
			Address: img.EntryAddrs[i],
			Tag:     binaryinfo.TagString(e.Tag()),
			ID:      e.ID(),
		}
		if info, ok := binaryinfo.LookupID(e.Tag(), e.ID()); ok {
			r.Name = info.Name
		}
		switch v := e.(type) {
		case binaryinfo.IDAndString:
			r.Value = v.Text()
			r.Placement = v.Placement().String()
			r.ValueAddress = img.ValueAddrs[i]
		case binaryinfo.IDAndInt:
			r.Value = fmt.Sprintf("0x%08X", v.Value())
		}
		results = append(results, r)
	}
	return results
}

// Watch builds once and then again every time the manifest changes, until
// ctx is cancelled. Each result is passed to report; build errors are
// reported rather than returned so that a bad edit does not stop the watch.
func Watch(ctx *app.Context, req *Request, report func(*Response, error)) error {
	if err := req.Validate(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory and filter.
	target := filepath.Clean(req.ManifestPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	report(Handle(ctx, req))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			ctx.Log("Manifest changed", zap.String("event", event.Op.String()))
			report(Handle(ctx, req))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				ctx.Warn("Watch events overflowed, rebuilding")
				report(Handle(ctx, req))
				continue
			}
			return fmt.Errorf("watch failed: %w", err)
		}
	}
}
