package header

import "errors"

// Header errors
var (
	ErrInvalidHeader  = errors.New("invalid header")
	ErrInvalidKeyword = errors.New("invalid keyword")
	ErrInvalidValue   = errors.New("invalid value")
	ErrMissingKeyword = errors.New("missing keyword")
)
