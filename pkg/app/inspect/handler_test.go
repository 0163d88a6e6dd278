package inspect

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-binaryinfo/internal/config"
	"github.com/deploymenttheory/go-binaryinfo/internal/disk"
	"github.com/deploymenttheory/go-binaryinfo/internal/layout"
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
	"github.com/deploymenttheory/go-binaryinfo/internal/uf2"
	"github.com/deploymenttheory/go-binaryinfo/pkg/app"
	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

func buildTestImage(t *testing.T, format string) (string, *layout.Image) {
	t.Helper()
	reg := binaryinfo.NewRegistry()
	reg.Add(binaryinfo.ProgramName(binaryinfo.CString("blinky")))
	reg.Add(binaryinfo.ProgramFeature(binaryinfo.CString("Git hash abc123")).InData())
	reg.Add(binaryinfo.CustomInteger(binaryinfo.MakeTag('M', 'Y'), 0x42, 7))

	img, err := layout.Link(reg, layout.DefaultConfig())
	require.NoError(t, err)

	data := img.Bytes()
	if format == disk.FormatUF2 {
		data, err = uf2.Encode(data, img.Origin, types.UF2FamilyRP2040)
		require.NoError(t, err)
	}
	path := filepath.Join(t.TempDir(), "blinky."+format)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, img
}

func TestHandle(t *testing.T) {
	for _, format := range []string{disk.FormatBin, disk.FormatUF2} {
		t.Run(format, func(t *testing.T) {
			path, img := buildTestImage(t, format)

			resp, err := Handle(app.NewContext(), &Request{ImagePath: path})
			require.NoError(t, err)

			assert.Equal(t, format, resp.Image.Format)
			assert.Equal(t, img.Origin, resp.Image.Origin)
			assert.Equal(t, img.Symbols.Header, resp.HeaderAddress)
			assert.Equal(t, img.Header.EntriesStart(), resp.EntriesStart)
			require.Len(t, resp.Mapping, 1)
			assert.Equal(t, img.Symbols.Sdata, resp.Mapping[0].DestStart)

			require.Len(t, resp.Entries, 4)
			assert.Equal(t, "IdAndString", resp.Entries[0].DataType)
			assert.Equal(t, "RP", resp.Entries[0].Tag)
			assert.Equal(t, "program name", resp.Entries[0].Name)
			assert.Equal(t, "blinky", resp.Entries[0].Value)

			feature := resp.Entries[1]
			assert.Equal(t, "Git hash abc123", feature.Value)
			assert.Equal(t, img.Symbols.Sdata, feature.ValueAddress)
			assert.Equal(t, img.Symbols.Sidata, feature.LoadAddress)

			assert.Equal(t, "IdAndInt", resp.Entries[2].DataType)
			assert.Equal(t, "MY", resp.Entries[2].Tag)
			assert.Empty(t, resp.Entries[2].Name)
			assert.Equal(t, "0x00000007", resp.Entries[2].Value)

			assert.Equal(t, "binary end", resp.Entries[3].Name)
		})
	}
}

func TestHandle_Window(t *testing.T) {
	path, _ := buildTestImage(t, disk.FormatBin)

	// The header sits 0xC0 bytes into the program, past a 0x40 byte window.
	_, err := Handle(app.NewContext(), &Request{ImagePath: path, Window: 0x40})
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeHeaderNotFound, app.ErrorCode(err))

	resp, err := Handle(app.NewContext(), &Request{ImagePath: path, Window: -1})
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 4)
}

func TestHandle_Errors(t *testing.T) {
	dir := t.TempDir()
	blank := filepath.Join(dir, "blank.bin")
	require.NoError(t, os.WriteFile(blank, make([]byte, 1024), 0o644))

	tests := []struct {
		name     string
		request  *Request
		wantCode string
	}{
		{name: "no path", request: &Request{}, wantCode: app.ErrCodeInvalidInput},
		{name: "missing file", request: &Request{ImagePath: filepath.Join(dir, "missing.bin")}, wantCode: app.ErrCodeImageAccess},
		{name: "no header", request: &Request{ImagePath: blank}, wantCode: app.ErrCodeHeaderNotFound},
		{name: "huge window", request: &Request{ImagePath: blank, Window: 1 << 33}, wantCode: app.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Handle(app.NewContext(), tt.request)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, app.ErrorCode(err))
		})
	}
}

func TestHandle_FlashOriginFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.FlashOrigin = 0x10100000
	cfg.RAMOrigin = 0x20000000

	lc, err := cfg.Layout()
	require.NoError(t, err)
	reg := binaryinfo.NewRegistry()
	reg.Add(binaryinfo.ProgramName(binaryinfo.CString("moved")))
	img, err := layout.Link(reg, lc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "moved.bin")
	require.NoError(t, os.WriteFile(path, img.Bytes(), 0o644))

	resp, err := Handle(app.NewContext(), &Request{ImagePath: path, Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x101001C0), resp.HeaderAddress)
	assert.Equal(t, "moved", resp.Entries[0].Value)
}

func TestTranslate(t *testing.T) {
	path, img := buildTestImage(t, disk.FormatBin)

	tests := []struct {
		name     string
		address  string
		wantLoad uint32
		wantVia  string
		wantCode string
	}{
		{name: "RAM string", address: "0x20000000", wantLoad: img.Symbols.Sidata, wantVia: "mapping"},
		{name: "RAM string offset", address: "0x20000004", wantLoad: img.Symbols.Sidata + 4, wantVia: "mapping"},
		{name: "flash address", address: "0x100001C0", wantLoad: 0x100001C0, wantVia: "image"},
		{name: "decimal", address: "268435904", wantLoad: 0x100001C0, wantVia: "image"},
		{name: "past data end", address: "0x20000200", wantCode: app.ErrCodeInvalidInput},
		{name: "not a number", address: "ram", wantCode: app.ErrCodeInvalidInput},
		{name: "too large", address: "0x100000000", wantCode: app.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Translate(app.NewContext(), &TranslateRequest{ImagePath: path, Address: tt.address})
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, app.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLoad, resp.LoadAddress)
			assert.Equal(t, tt.wantVia, resp.Via)
			assert.Equal(t, int(tt.wantLoad-img.Origin), resp.Offset)
		})
	}
}

func TestTranslate_HugeWindow(t *testing.T) {
	path, _ := buildTestImage(t, disk.FormatBin)

	_, err := Translate(app.NewContext(), &TranslateRequest{ImagePath: path, Address: "0x20000000", Window: 1 << 32})
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeInvalidInput, app.ErrorCode(err))
}

func TestHandle_Timeout(t *testing.T) {
	path, _ := buildTestImage(t, disk.FormatBin)

	expiredContext := func(t *testing.T) *app.Context {
		ctx := app.NewContext()
		expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		t.Cleanup(cancel)
		ctx.Context = expired
		return ctx
	}

	_, err := Handle(expiredContext(t), &Request{ImagePath: path})
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeTimeout, app.ErrorCode(err))

	_, err = Translate(expiredContext(t), &TranslateRequest{ImagePath: path, Address: "0x20000000"})
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeTimeout, app.ErrorCode(err))
}
