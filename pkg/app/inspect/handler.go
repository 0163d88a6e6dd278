package inspect

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-binaryinfo/internal/config"
	"github.com/deploymenttheory/go-binaryinfo/internal/disk"
	"github.com/deploymenttheory/go-binaryinfo/internal/interfaces"
	parser "github.com/deploymenttheory/go-binaryinfo/internal/parsers/binary_info"
	"github.com/deploymenttheory/go-binaryinfo/pkg/app"
	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// Handle reads the binary info out of an image
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx, cancel := ctx.WithTimeout(ctx.DefaultTimeout)
	defer cancel()

	ctx.Log("Inspecting image", zap.String("path", req.ImagePath))
	ctx.Progress("Reading image...", 10)

	f, reader, err := open(req.ImagePath, cfg)
	if err != nil {
		return nil, err
	}

	if err := ctx.CheckTimeout("inspect"); err != nil {
		return nil, err
	}
	ctx.Progress("Locating header...", 40)
	report, err := read(reader, cfg, req.Window)
	if err != nil {
		return nil, err
	}
	ctx.Log("Found header", zap.String("address", fmt.Sprintf("0x%08X", report.HeaderAddress)), zap.Int("entries", len(report.Entries)))

	response := &Response{
		Image: ImageInfo{
			Path:     f.Path,
			Format:   f.Format,
			Origin:   f.Origin,
			Size:     f.Size(),
			FamilyID: f.FamilyID,
		},
		HeaderAddress: report.HeaderAddress,
		EntriesStart:  report.Header.EntriesStart,
		EntriesEnd:    report.Header.EntriesEnd,
		MappingTable:  report.Header.MappingTable,
		Mapping:       make([]MappingRange, 0, len(report.Mapping)),
		Entries:       make([]EntryResult, 0, len(report.Entries)),
	}
	for _, m := range report.Mapping {
		response.Mapping = append(response.Mapping, MappingRange{Source: m.SourceAddrStart, DestStart: m.DestAddrStart, DestEnd: m.DestAddrEnd})
	}
	for _, e := range report.Entries {
		response.Entries = append(response.Entries, entryResult(e))
	}

	ctx.Progress("Complete", 100)
	return response, nil
}

// Translate resolves a run-time address to its location in the image
func Translate(ctx *app.Context, req *TranslateRequest) (*TranslateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}
	addr, _ := ParseAddress(req.Address)
	ctx, cancel := ctx.WithTimeout(ctx.DefaultTimeout)
	defer cancel()

	_, reader, err := open(req.ImagePath, cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.CheckTimeout("translate"); err != nil {
		return nil, err
	}
	report, err := read(reader, cfg, req.Window)
	if err != nil {
		return nil, err
	}

	response := &TranslateResponse{Address: addr, Via: "image"}
	if !reader.Contains(addr) {
		response.Via = "mapping"
	}

	mapping, err := reader.ReadMappingTable(report.Header.MappingTable)
	if err != nil {
		return nil, app.NewError(app.ErrCodeImageAccess, "failed to read mapping table", err)
	}
	load, err := reader.Resolve(addr, mapping)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("address 0x%08X is not stored in the image", addr), err)
	}
	response.LoadAddress = load
	response.Offset = int(load - reader.Origin())

	ctx.Log("Translated address", zap.String("via", response.Via))
	return response, nil
}

func open(path string, cfg *config.BinfoConfig) (*disk.ImageFile, *parser.ImageReader, error) {
	f, err := disk.OpenImage(path, cfg.FlashOrigin)
	if err != nil {
		return nil, nil, app.NewError(app.ErrCodeImageAccess, "failed to open image", err)
	}
	reader, err := f.Reader()
	if err != nil {
		return nil, nil, app.NewError(app.ErrCodeImageAccess, "failed to read image", err)
	}
	return f, reader, nil
}

func read(reader *parser.ImageReader, cfg *config.BinfoConfig, window int64) (*interfaces.BinaryInfoReport, error) {
	offset, length := cfg.ProgramOffset, cfg.SearchWindow
	switch {
	case window < 0:
		offset, length = 0, uint32(reader.Size())
	case window > 0:
		length = uint32(window)
	}

	report, err := reader.Read(offset, length)
	if errors.Is(err, parser.ErrHeaderNotFound) {
		return nil, app.NewError(app.ErrCodeHeaderNotFound,
			fmt.Sprintf("no binary info header in %d bytes from 0x%08X", length, reader.Origin()+offset), err)
	}
	if err != nil {
		return nil, app.NewError(app.ErrCodeImageAccess, "failed to read binary info", err)
	}
	return report, nil
}

func entryResult(e interfaces.BinaryInfoEntry) EntryResult {
	r := EntryResult{
		Address:   e.Address,
		DataType:  e.DataType.String(),
		Tag:       binaryinfo.TagString(e.Tag),
		ID:        e.ID,
		Supported: e.Supported,
	}
	if info, ok := binaryinfo.LookupID(e.Tag, e.ID); ok {
		r.Name = info.Name
	}
	switch e.DataType {
	case binaryinfo.DataTypeIDAndInt:
		r.Value = fmt.Sprintf("0x%08X", e.IntValue)
	case binaryinfo.DataTypeIDAndString:
		r.Value = e.StringValue
		r.ValueAddress = e.StringAddress
		r.LoadAddress = e.StringLoadAddress
	}
	return r
}
