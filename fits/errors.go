package fits

import (
	"errors"
	"io"

	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/tile"
)

// Common errors
var (
	ErrInvalidHeader          = header.ErrInvalidHeader
	ErrInvalidKeyword         = header.ErrInvalidKeyword
	ErrInvalidValue           = header.ErrInvalidValue
	ErrMissingKeyword         = header.ErrMissingKeyword
	ErrInvalidBitpix          = dtype.ErrInvalidBitpix
	ErrUnexpectedEOF          = io.ErrUnexpectedEOF
	ErrUnsupportedCompression = tile.ErrUnsupportedCompression
	ErrDecompression          = tile.ErrDecompression
	ErrUnsupportedExtension   = errors.New("unsupported extension")
	ErrColumnNotFound         = errors.New("column not found")
	ErrChecksum               = errors.New("checksum mismatch")
	ErrIO                     = errors.New("i/o error")
)
