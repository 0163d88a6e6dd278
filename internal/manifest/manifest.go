// Package manifest describes the binary info of a program in YAML and
// registers it as entries.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

// Manifest is the YAML document read by binfo build.
//
//	program:
//	  name: blinky
//	  version: 1.0.0
//	  features: [uart stdout]
//	  placement: data
//	sdk_version: 1.5.1
//	pico_board: pico
//	entries:
//	  - tag: MY
//	    id: 0x1234
//	    string: hello
type Manifest struct {
	Program    Program `yaml:"program"`
	SDKVersion string  `yaml:"sdk_version,omitempty"`
	PicoBoard  string  `yaml:"pico_board,omitempty"`
	Boot2Name  string  `yaml:"boot2,omitempty"`
	Entries    []Entry `yaml:"entries,omitempty"`
}

// Program holds the Raspberry Pi defined program facts.
type Program struct {
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version,omitempty"`
	BuildDate       string   `yaml:"build_date,omitempty"`
	URL             string   `yaml:"url,omitempty"`
	Description     string   `yaml:"description,omitempty"`
	Features        []string `yaml:"features,omitempty"`
	BuildAttributes []string `yaml:"build_attributes,omitempty"`
	// Placement of the program strings, flash (default) or data.
	Placement string `yaml:"placement,omitempty"`
}

// Entry is a custom IdAndString or IdAndInt entry. Exactly one of String
// and Int is set.
type Entry struct {
	Tag       string  `yaml:"tag"`
	ID        uint32  `yaml:"id"`
	String    *string `yaml:"string,omitempty"`
	Int       *uint32 `yaml:"int,omitempty"`
	Placement string  `yaml:"placement,omitempty"`
}

// Parse decodes a manifest and validates it. Unknown keys are errors.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Validate checks the manifest can be turned into entries
func (m *Manifest) Validate() error {
	if m.Program.Name == "" {
		return fmt.Errorf("program.name is required")
	}
	if _, err := parsePlacement(m.Program.Placement); err != nil {
		return fmt.Errorf("program.placement: %w", err)
	}
	for i, e := range m.Entries {
		if err := e.validate(); err != nil {
			return fmt.Errorf("entries[%d]: %w", i, err)
		}
	}
	return nil
}

func (e Entry) validate() error {
	tag, err := binaryinfo.ParseTag(e.Tag)
	if err != nil {
		return err
	}
	if (e.String == nil) == (e.Int == nil) {
		return fmt.Errorf("exactly one of string and int must be set")
	}
	if _, err := parsePlacement(e.Placement); err != nil {
		return err
	}
	if e.Int != nil && e.Placement != "" {
		return fmt.Errorf("placement only applies to string entries")
	}
	if tag == binaryinfo.TagRaspberryPi {
		if info, ok := binaryinfo.LookupID(tag, e.ID); ok {
			return fmt.Errorf("id 0x%08X is the Raspberry Pi %s, use the program section", e.ID, info.Name)
		}
	}
	return nil
}

func parsePlacement(s string) (binaryinfo.Placement, error) {
	switch s {
	case "", "flash":
		return binaryinfo.PlacementFlash, nil
	case "data":
		return binaryinfo.PlacementData, nil
	default:
		return 0, fmt.Errorf("unknown placement %q, expected flash or data", s)
	}
}

func place(e binaryinfo.IDAndString, p binaryinfo.Placement) binaryinfo.IDAndString {
	if p == binaryinfo.PlacementData {
		return e.InData()
	}
	return e
}

// Apply registers the manifest's entries in reg in a fixed order: program
// name, version, build date, url, description, features, build attributes,
// sdk version, board, boot2 and then custom entries in file order. Strings
// are NUL terminated on the way in.
func (m *Manifest) Apply(reg *binaryinfo.Registry) ([]binaryinfo.Addr, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	programPlacement, _ := parsePlacement(m.Program.Placement)
	var addrs []binaryinfo.Addr
	addString := func(e binaryinfo.IDAndString, p binaryinfo.Placement) {
		addrs = append(addrs, reg.Add(place(e, p)))
	}
	optional := func(value string, build func(string) binaryinfo.IDAndString) {
		if value != "" {
			addString(build(binaryinfo.CString(value)), programPlacement)
		}
	}

	optional(m.Program.Name, binaryinfo.ProgramName)
	optional(m.Program.Version, binaryinfo.ProgramVersionString)
	optional(m.Program.BuildDate, binaryinfo.ProgramBuildDateString)
	optional(m.Program.URL, binaryinfo.ProgramURL)
	optional(m.Program.Description, binaryinfo.ProgramDescription)
	for _, f := range m.Program.Features {
		optional(f, binaryinfo.ProgramFeature)
	}
	for _, a := range m.Program.BuildAttributes {
		optional(a, binaryinfo.ProgramBuildAttribute)
	}

	// These describe the SDK and board rather than the program and stay in flash.
	if m.SDKVersion != "" {
		addString(binaryinfo.SDKVersion(binaryinfo.CString(m.SDKVersion)), binaryinfo.PlacementFlash)
	}
	if m.PicoBoard != "" {
		addString(binaryinfo.PicoBoard(binaryinfo.CString(m.PicoBoard)), binaryinfo.PlacementFlash)
	}
	if m.Boot2Name != "" {
		addString(binaryinfo.Boot2Name(binaryinfo.CString(m.Boot2Name)), binaryinfo.PlacementFlash)
	}

	for _, e := range m.Entries {
		tag, _ := binaryinfo.ParseTag(e.Tag)
		if e.Int != nil {
			addrs = append(addrs, reg.Add(binaryinfo.CustomInteger(tag, e.ID, *e.Int)))
			continue
		}
		p, _ := parsePlacement(e.Placement)
		addString(binaryinfo.CustomString(tag, e.ID, binaryinfo.CString(*e.String)), p)
	}

	return addrs, nil
}

// AddBuildAttribute appends a build attribute after any already listed
func (m *Manifest) AddBuildAttribute(attr string) {
	m.Program.BuildAttributes = append(m.Program.BuildAttributes, attr)
}
