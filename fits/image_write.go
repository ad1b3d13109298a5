package fits

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/block"
	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// SerializeImage encodes pixels big-endian and zero-pads the result to a
// block boundary. Empty data yields an empty slice.
func SerializeImage(data ImageData) []byte {
	return block.Padded(data.encode(), block.DataPad)
}

// EncodePixels is SerializeImage for a plain slice.
func EncodePixels[T Scalar](pixels []T) []byte {
	return SerializeImage(Pixels[T](pixels))
}

// BuildImageHDU serializes a complete image HDU: header followed by padded
// data. The result is a primary HDU unless AsExtension is given.
func BuildImageHDU(bitpix int, naxes []int, data ImageData, opts ...HDUOption) ([]byte, error) {
	if err := checkImageData(bitpix, naxes, data); err != nil {
		return nil, err
	}
	o := newHDUOptions(opts)
	cards, err := imageCards(bitpix, naxes, o)
	if err != nil {
		return nil, err
	}
	return assembleHDU(cards, data.encode(), o)
}

// BuildImageHDUWithScaling stores physical values as raw pixels of type
// bitpix using raw = (physical - bzero) / bscale. BSCALE and BZERO cards
// are written unless the scaling is the identity.
func BuildImageHDUWithScaling(bitpix int, naxes []int, physical []float64, bscale, bzero float64, opts ...HDUOption) ([]byte, error) {
	raw, err := ReverseScaling(physical, bscale, bzero, bitpix)
	if err != nil {
		return nil, err
	}
	if err := checkImageData(bitpix, naxes, raw); err != nil {
		return nil, err
	}
	o := newHDUOptions(opts)
	cards, err := imageCards(bitpix, naxes, o)
	if err != nil {
		return nil, err
	}
	if bscale != 1 || bzero != 0 {
		cards = append(cards,
			NewCard("BSCALE", Float(bscale), ""),
			NewCard("BZERO", Float(bzero), ""),
		)
	}
	return assembleHDU(cards, raw.encode(), o)
}

func checkImageData(bitpix int, naxes []int, data ImageData) error {
	if !dtype.ValidBitpix(bitpix) {
		return fmt.Errorf("%w: %d", ErrInvalidBitpix, bitpix)
	}
	if data.Bitpix() != bitpix {
		return fmt.Errorf("%w: data has BITPIX %d, header says %d", ErrInvalidValue, data.Bitpix(), bitpix)
	}
	if want := pixelCount(naxes); data.Len() != want {
		return fmt.Errorf("%w: data has %d pixels, axes %v need %d", ErrInvalidValue, data.Len(), naxes, want)
	}
	return nil
}

func imageCards(bitpix int, naxes []int, o *hduOptions) ([]Card, error) {
	if o.extension {
		return BuildExtensionHeader(ExtImage, bitpix, naxes, 0, 1)
	}
	return BuildPrimaryHeader(bitpix, naxes)
}

// assembleHDU appends the optional cards, stamps checksums when asked and
// writes header plus zero-padded data.
func assembleHDU(cards []Card, data []byte, o *hduOptions) ([]byte, error) {
	if o.extName != "" {
		cards = append(cards, NewCard("EXTNAME", String(o.extName), ""))
	}
	cards = append(cards, o.cards...)
	if o.checksum {
		var err error
		if cards, err = StampChecksum(cards, data); err != nil {
			return nil, err
		}
	}

	hdr, err := SerializeHeader(cards)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(hdr)+block.PaddedLen(len(data)))
	copy(out, hdr)
	block.PadData(out[len(hdr):], data)
	return out, nil
}
