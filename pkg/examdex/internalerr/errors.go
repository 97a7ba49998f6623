package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrMissingSentinel  = errors.New("missing answer block sentinel")
	ErrUnknownDimension = errors.New("unknown tag dimension")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrNoData           = errors.New("no data")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
