package binaryinfo

import (
	"fmt"

	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// TagRaspberryPi is the tag of all Raspberry Pi specified IDs. Use MakeTag to
// create your own tag for custom entries.
const TagRaspberryPi = types.TagRaspberryPi

// Raspberry Pi specified IDs.
const (
	IDProgramName            = types.IDRPProgramName
	IDProgramVersionString   = types.IDRPProgramVersionString
	IDProgramBuildDateString = types.IDRPProgramBuildDateString
	IDBinaryEnd              = types.IDRPBinaryEnd
	IDProgramURL             = types.IDRPProgramURL
	IDProgramDescription     = types.IDRPProgramDescription
	IDProgramFeature         = types.IDRPProgramFeature
	IDProgramBuildAttribute  = types.IDRPProgramBuildAttribute
	IDSDKVersion             = types.IDRPSDKVersion
	IDPicoBoard              = types.IDRPPicoBoard
	IDBoot2Name              = types.IDRPBoot2Name
)

// MakeTag creates a tag from two ASCII letters.
//
// c1 is stored in the low byte, so a tag made from 'R', 'P' reads "RP" when
// the little-endian field is dumped.
func MakeTag(c1, c2 byte) uint16 {
	return uint16(c2)<<8 | uint16(c1)
}

// TagString returns the two letters of a tag in MakeTag argument order.
func TagString(tag uint16) string {
	return string([]byte{byte(tag), byte(tag >> 8)})
}

// ParseTag is the inverse of TagString.
func ParseTag(s string) (uint16, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("tag must be exactly two ASCII characters, got %q", s)
	}
	for i := 0; i < 2; i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return 0, fmt.Errorf("tag character %d is not printable ASCII: 0x%02X", i, s[i])
		}
	}
	return MakeTag(s[0], s[1]), nil
}

// IDInfo describes one well-known ID.
type IDInfo struct {
	Tag        uint16
	ID         uint32
	Name       string
	DataType   DataType
	Repeatable bool
}

// WellKnownIDs lists the Raspberry Pi specified IDs in the order picotool
// prints them.
var WellKnownIDs = []IDInfo{
	{TagRaspberryPi, IDProgramName, "program name", DataTypeIDAndString, false},
	{TagRaspberryPi, IDProgramVersionString, "version", DataTypeIDAndString, false},
	{TagRaspberryPi, IDProgramBuildDateString, "build date", DataTypeIDAndString, false},
	{TagRaspberryPi, IDBinaryEnd, "binary end", DataTypeIDAndInt, false},
	{TagRaspberryPi, IDProgramURL, "url", DataTypeIDAndString, false},
	{TagRaspberryPi, IDProgramDescription, "description", DataTypeIDAndString, false},
	{TagRaspberryPi, IDProgramFeature, "feature", DataTypeIDAndString, true},
	{TagRaspberryPi, IDProgramBuildAttribute, "build attribute", DataTypeIDAndString, true},
	{TagRaspberryPi, IDSDKVersion, "sdk version", DataTypeIDAndString, false},
	{TagRaspberryPi, IDPicoBoard, "pico board", DataTypeIDAndString, false},
	{TagRaspberryPi, IDBoot2Name, "boot2 name", DataTypeIDAndString, false},
}

// LookupID returns the well-known ID matching tag and id.
func LookupID(tag uint16, id uint32) (IDInfo, bool) {
	for _, info := range WellKnownIDs {
		if info.Tag == tag && info.ID == id {
			return info, true
		}
	}
	return IDInfo{}, false
}
