package inspect

import (
	"math"
	"strconv"

	"github.com/deploymenttheory/go-binaryinfo/pkg/app"
)

// Validate validates an inspection request
func (r *Request) Validate() error {
	if r.ImagePath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "image path is required", nil)
	}
	if r.Window > math.MaxUint32 {
		return app.NewError(app.ErrCodeInvalidInput, "search window is larger than the address space", nil)
	}
	return nil
}

// Validate validates a translation request
func (r *TranslateRequest) Validate() error {
	if r.ImagePath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "image path is required", nil)
	}
	if r.Window > math.MaxUint32 {
		return app.NewError(app.ErrCodeInvalidInput, "search window is larger than the address space", nil)
	}
	if _, err := ParseAddress(r.Address); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid address "+strconv.Quote(r.Address), err)
	}
	return nil
}

// ParseAddress parses a 32-bit address in decimal, or hex with a 0x prefix
func ParseAddress(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
