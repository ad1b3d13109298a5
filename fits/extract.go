package fits

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/block"
	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// ExtractHDU returns a standalone FITS stream holding the HDU at index.
// The primary HDU is re-serialized as is; an extension is preceded by a
// data-less primary header (BITPIX = 8, NAXIS = 0).
func ExtractHDU(buf []byte, list *HDUList, index int) ([]byte, error) {
	hdu := list.Get(index)
	if hdu == nil {
		return nil, fmt.Errorf("%w: HDU index %d out of range (file has %d HDUs)", ErrInvalidValue, index, list.Len())
	}
	data, err := dataBytes(buf, hdu)
	if err != nil {
		return nil, err
	}

	var out []byte
	if index > 0 {
		primary, err := BuildPrimaryHeader(dtype.Uint8, nil)
		if err != nil {
			return nil, err
		}
		hdr, err := SerializeHeader(primary)
		if err != nil {
			return nil, err
		}
		out = hdr
	}
	hdr, err := SerializeHeader(hdu.Cards)
	if err != nil {
		return nil, err
	}
	out = append(out, hdr...)
	return append(out, block.Padded(data, block.DataPad)...), nil
}
