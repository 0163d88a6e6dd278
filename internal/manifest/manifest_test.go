package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

const fullManifest = `
program:
  name: blinky
  version: 1.0.0
  build_date: Jan  1 2024
  url: https://example.com/blinky
  description: blinks the LED
  features:
    - uart stdout
    - usb stdout
  build_attributes:
    - Release
sdk_version: 1.5.1
pico_board: pico
boot2: boot2_w25q080
entries:
  - tag: MY
    id: 0x1234
    int: 42
  - tag: MY
    id: 0x1235
    string: hello
    placement: data
`

func TestParse_ApplyOrder(t *testing.T) {
	m, err := Parse([]byte(fullManifest))
	require.NoError(t, err)

	reg := binaryinfo.NewRegistry()
	addrs, err := m.Apply(reg)
	require.NoError(t, err)
	require.Len(t, addrs, 13)
	assert.Equal(t, 13, reg.Len())

	want := []struct {
		tag   uint16
		id    uint32
		value string
	}{
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramName, "blinky\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramVersionString, "1.0.0\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramBuildDateString, "Jan  1 2024\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramURL, "https://example.com/blinky\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramDescription, "blinks the LED\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramFeature, "uart stdout\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramFeature, "usb stdout\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDProgramBuildAttribute, "Release\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDSDKVersion, "1.5.1\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDPicoBoard, "pico\x00"},
		{binaryinfo.TagRaspberryPi, binaryinfo.IDBoot2Name, "boot2_w25q080\x00"},
	}
	for i, w := range want {
		e, ok := reg.Lookup(addrs[i])
		require.True(t, ok)
		s, ok := e.(binaryinfo.IDAndString)
		require.True(t, ok, "entry %d", i)
		assert.Equal(t, w.tag, s.Tag(), "entry %d", i)
		assert.Equal(t, w.id, s.ID(), "entry %d", i)
		assert.Equal(t, w.value, s.Value(), "entry %d", i)
		assert.Equal(t, binaryinfo.PlacementFlash, s.Placement(), "entry %d", i)
	}

	e, _ := reg.Lookup(addrs[11])
	n, ok := e.(binaryinfo.IDAndInt)
	require.True(t, ok)
	assert.Equal(t, binaryinfo.MakeTag('M', 'Y'), n.Tag())
	assert.Equal(t, uint32(0x1234), n.ID())
	assert.Equal(t, uint32(42), n.Value())

	e, _ = reg.Lookup(addrs[12])
	s, ok := e.(binaryinfo.IDAndString)
	require.True(t, ok)
	assert.Equal(t, uint32(0x1235), s.ID())
	assert.Equal(t, "hello\x00", s.Value())
	assert.Equal(t, binaryinfo.PlacementData, s.Placement())
}

func TestApply_ProgramPlacement(t *testing.T) {
	m, err := Parse([]byte("program:\n  name: blinky\n  features: [a]\n  placement: data\nsdk_version: 1.5.1\n"))
	require.NoError(t, err)

	reg := binaryinfo.NewRegistry()
	_, err = m.Apply(reg)
	require.NoError(t, err)

	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, binaryinfo.PlacementData, entries[0].(binaryinfo.IDAndString).Placement())
	assert.Equal(t, binaryinfo.PlacementData, entries[1].(binaryinfo.IDAndString).Placement())
	assert.Equal(t, binaryinfo.PlacementFlash, entries[2].(binaryinfo.IDAndString).Placement())
}

func TestApply_KeepsExistingTerminator(t *testing.T) {
	m := &Manifest{Program: Program{Name: "blinky\x00"}}
	reg := binaryinfo.NewRegistry()
	_, err := m.Apply(reg)
	require.NoError(t, err)
	assert.Equal(t, "blinky\x00", reg.Entries()[0].(binaryinfo.IDAndString).Value())
}

func TestAddBuildAttribute(t *testing.T) {
	m := &Manifest{Program: Program{Name: "blinky", BuildAttributes: []string{"Release"}}}
	m.AddBuildAttribute("build-id=1234")

	reg := binaryinfo.NewRegistry()
	_, err := m.Apply(reg)
	require.NoError(t, err)

	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "build-id=1234\x00", entries[2].(binaryinfo.IDAndString).Value())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{name: "empty document", manifest: ""},
		{name: "invalid yaml", manifest: "program: [\n"},
		{name: "missing name", manifest: "program:\n  version: 1.0\n"},
		{name: "unknown key", manifest: "program:\n  name: x\n  colour: red\n"},
		{name: "bad program placement", manifest: "program:\n  name: x\n  placement: sram\n"},
		{name: "tag too long", manifest: "program:\n  name: x\nentries:\n  - tag: ABC\n    id: 1\n    int: 1\n"},
		{name: "no value", manifest: "program:\n  name: x\nentries:\n  - tag: MY\n    id: 1\n"},
		{name: "both values", manifest: "program:\n  name: x\nentries:\n  - tag: MY\n    id: 1\n    int: 1\n    string: a\n"},
		{name: "placed integer", manifest: "program:\n  name: x\nentries:\n  - tag: MY\n    id: 1\n    int: 1\n    placement: data\n"},
		{name: "well-known id", manifest: "program:\n  name: x\nentries:\n  - tag: RP\n    id: 0x02031c86\n    string: y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullManifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "blinky", m.Program.Name)
	assert.Equal(t, []string{"uart stdout", "usb stdout"}, m.Program.Features)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply_NilRegistry(t *testing.T) {
	m := &Manifest{Program: Program{Name: "x"}}
	_, err := m.Apply(nil)
	assert.Error(t, err)
}
