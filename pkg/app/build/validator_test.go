package build

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deploymenttheory/go-binaryinfo/pkg/app"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		request    Request
		wantErr    bool
		wantFormat string
	}{
		{name: "bin from extension", request: Request{ManifestPath: "m.yaml", OutPath: "out.bin"}, wantFormat: "bin"},
		{name: "uf2 from extension", request: Request{ManifestPath: "m.yaml", OutPath: "out.UF2"}, wantFormat: "uf2"},
		{name: "unknown extension is bin", request: Request{ManifestPath: "m.yaml", OutPath: "out.img"}, wantFormat: "bin"},
		{name: "explicit format wins", request: Request{ManifestPath: "m.yaml", OutPath: "out.bin", Format: "uf2"}, wantFormat: "uf2"},
		{name: "missing manifest", request: Request{OutPath: "out.bin"}, wantErr: true},
		{name: "missing output", request: Request{ManifestPath: "m.yaml"}, wantErr: true},
		{name: "output is manifest", request: Request{ManifestPath: "./m.yaml", OutPath: "m.yaml"}, wantErr: true},
		{name: "bad format", request: Request{ManifestPath: "m.yaml", OutPath: "out.bin", Format: "hex"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, app.ErrCodeInvalidInput, app.ErrorCode(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantFormat, tt.request.Format)
		})
	}
}
