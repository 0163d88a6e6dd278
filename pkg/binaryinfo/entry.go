package binaryinfo

import (
	"strings"

	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// DataType selects the concrete layout of an entry. Readers dispatch on it.
type DataType = types.DataType

const (
	DataTypeRaw                          = types.DataTypeRaw
	DataTypeSizedData                    = types.DataTypeSizedData
	DataTypeBinaryInfoListZeroTerminated = types.DataTypeBinaryInfoListZeroTerminated
	DataTypeBson                         = types.DataTypeBson
	DataTypeIDAndInt                     = types.DataTypeIDAndInt
	DataTypeIDAndString                  = types.DataTypeIDAndString
	DataTypeBlockDevice                  = types.DataTypeBlockDevice
	DataTypePinsWithFunction             = types.DataTypePinsWithFunction
	DataTypePinsWithName                 = types.DataTypePinsWithName
	DataTypePinsWithNames                = types.DataTypePinsWithNames
)

// Placement says which region of the image holds a string value.
type Placement uint8

const (
	// PlacementFlash keeps the value in read-only data, addressed in flash.
	PlacementFlash Placement = iota
	// PlacementData keeps the value in initialised data. It is addressed in
	// RAM and found in the image through the mapping table.
	PlacementData
)

func (p Placement) String() string {
	switch p {
	case PlacementFlash:
		return "flash"
	case PlacementData:
		return "data"
	default:
		return "unknown"
	}
}

// Entry is one metadata fact. The set of implementations is closed:
// IDAndString and IDAndInt.
type Entry interface {
	DataType() DataType
	Tag() uint16
	ID() uint32
	entry()
}

// Common is the header every entry starts with.
type Common struct {
	dataType DataType
	tag      uint16
}

// DataType returns the layout selector of the entry
func (c Common) DataType() DataType { return c.dataType }

// Tag returns the namespace of the entry ID
func (c Common) Tag() uint16 { return c.tag }

// Wire returns the on-image form of the header
func (c Common) Wire() types.EntryCommonT {
	return types.EntryCommonT{DataType: c.dataType, Tag: c.tag}
}

// IDAndString is an entry holding an ID and a NUL-terminated string.
type IDAndString struct {
	Common
	id        uint32
	value     string
	placement Placement
}

func (e IDAndString) entry() {}

// ID returns the fact this entry describes
func (e IDAndString) ID() uint32 { return e.id }

// Value returns the string exactly as given to the constructor, terminator included
func (e IDAndString) Value() string { return e.value }

// Text returns the value up to its terminator
func (e IDAndString) Text() string {
	if i := strings.IndexByte(e.value, 0); i >= 0 {
		return e.value[:i]
	}
	return e.value
}

// Placement returns where the value will be stored
func (e IDAndString) Placement() Placement { return e.placement }

// InData returns a copy of e whose value is stored in initialised RAM data.
func (e IDAndString) InData() IDAndString {
	e.placement = PlacementData
	return e
}

// Encode returns the on-image form of the entry with its value at valueAddr.
func (e IDAndString) Encode(valueAddr uint32) types.IDAndStringT {
	return types.IDAndStringT{Common: e.Wire(), ID: e.id, Value: valueAddr}
}

// IDAndInt is an entry holding an ID and a 32-bit integer.
type IDAndInt struct {
	Common
	id    uint32
	value uint32
}

func (e IDAndInt) entry() {}

// ID returns the fact this entry describes
func (e IDAndInt) ID() uint32 { return e.id }

// Value returns the integer value
func (e IDAndInt) Value() uint32 { return e.value }

// Encode returns the on-image form of the entry.
func (e IDAndInt) Encode() types.IDAndIntT {
	return types.IDAndIntT{Common: e.Wire(), ID: e.id, Value: e.value}
}

// CString returns s with a trailing NUL byte, adding one only if s lacks it.
func CString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// CustomString creates an IdAndString entry. value must be NUL-terminated.
func CustomString(tag uint16, id uint32, value string) IDAndString {
	return IDAndString{
		Common: Common{dataType: DataTypeIDAndString, tag: tag},
		id:     id,
		value:  value,
	}
}

// CustomInteger creates an IdAndInt entry.
func CustomInteger(tag uint16, id uint32, value uint32) IDAndInt {
	return IDAndInt{
		Common: Common{dataType: DataTypeIDAndInt, tag: tag},
		id:     id,
		value:  value,
	}
}

// ProgramName creates an entry containing the program name.
//
// The given string must be NUL-terminated.
func ProgramName(name string) IDAndString {
	return CustomString(TagRaspberryPi, IDProgramName, name)
}

// ProgramVersionString creates an entry containing the program version.
//
// The given string must be NUL-terminated.
func ProgramVersionString(version string) IDAndString {
	return CustomString(TagRaspberryPi, IDProgramVersionString, version)
}

// ProgramBuildDateString creates an entry containing the build date and time.
//
// The given string must be NUL-terminated.
func ProgramBuildDateString(date string) IDAndString {
	return CustomString(TagRaspberryPi, IDProgramBuildDateString, date)
}

// ProgramURL creates an entry containing a URL related to the program.
//
// The given string must be NUL-terminated.
func ProgramURL(url string) IDAndString {
	return CustomString(TagRaspberryPi, IDProgramURL, url)
}

// ProgramDescription creates an entry containing a description of the program.
//
// The given string must be NUL-terminated.
func ProgramDescription(description string) IDAndString {
	return CustomString(TagRaspberryPi, IDProgramDescription, description)
}

// ProgramFeature creates an entry naming a program feature. A program may
// have several.
//
// The given string must be NUL-terminated.
func ProgramFeature(feature string) IDAndString {
	return CustomString(TagRaspberryPi, IDProgramFeature, feature)
}

// ProgramBuildAttribute creates an entry containing a build attribute, such
// as whether this was a debug or release build. A program may have several.
//
// The given string must be NUL-terminated.
func ProgramBuildAttribute(attribute string) IDAndString {
	return CustomString(TagRaspberryPi, IDProgramBuildAttribute, attribute)
}

// SDKVersion creates an entry containing the SDK version used.
//
// The given string must be NUL-terminated.
func SDKVersion(version string) IDAndString {
	return CustomString(TagRaspberryPi, IDSDKVersion, version)
}

// PicoBoard creates an entry naming the board the program targets.
//
// The given string must be NUL-terminated.
func PicoBoard(board string) IDAndString {
	return CustomString(TagRaspberryPi, IDPicoBoard, board)
}

// Boot2Name creates an entry naming the boot2 bootloader used.
//
// The given string must be NUL-terminated.
func Boot2Name(name string) IDAndString {
	return CustomString(TagRaspberryPi, IDBoot2Name, name)
}

// BinaryEnd creates an entry holding the address one past the end of the binary.
func BinaryEnd(end uint32) IDAndInt {
	return CustomInteger(TagRaspberryPi, IDBinaryEnd, end)
}
