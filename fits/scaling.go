package fits

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// ScalingOf returns BSCALE and BZERO from cards, defaulting to 1 and 0.
func ScalingOf(cards Cards) (bscale, bzero float64) {
	bscale, bzero = 1, 0
	if v, ok := cards.Float("BSCALE"); ok {
		bscale = v
	}
	if v, ok := cards.Float("BZERO"); ok {
		bzero = v
	}
	return bscale, bzero
}

// BlankOf returns the integer BLANK value from cards.
func BlankOf(cards Cards) (int64, bool) {
	return cards.Int("BLANK")
}

// ApplyScaling converts stored values to physical values:
// BZERO + BSCALE * raw.
func ApplyScaling(data ImageData, bscale, bzero float64) []float64 {
	out := data.Float64s()
	for i, v := range out {
		out[i] = bzero + bscale*v
	}
	return out
}

// BlankMask marks undefined pixels: integer pixels equal to blank (when
// hasBlank) and NaN float pixels. It returns nil when no pixel is undefined.
func BlankMask(data ImageData, blank int64, hasBlank bool) []bool {
	return data.blankMask(blank, hasBlank)
}

// ReadImagePhysical reads an image and applies BSCALE/BZERO. Undefined
// pixels are NaN.
func ReadImagePhysical(buf []byte, hdu *HDU) ([]float64, error) {
	raw, err := ReadImage(buf, hdu)
	if err != nil {
		return nil, err
	}
	bscale, bzero := ScalingOf(hdu.Cards)
	blank, hasBlank := BlankOf(hdu.Cards)
	physical := ApplyScaling(raw, bscale, bzero)
	for i, undefined := range BlankMask(raw, blank, hasBlank) {
		if undefined {
			physical[i] = math.NaN()
		}
	}
	return physical, nil
}

// ReverseScaling converts physical values back to stored values of type
// bitpix: (physical - BZERO) / BSCALE, rounded to nearest and clamped for
// integer types.
func ReverseScaling(physical []float64, bscale, bzero float64, bitpix int) (ImageData, error) {
	switch bitpix {
	case dtype.Uint8:
		return unscale[uint8](physical, bscale, bzero), nil
	case dtype.Int16:
		return unscale[int16](physical, bscale, bzero), nil
	case dtype.Int32:
		return unscale[int32](physical, bscale, bzero), nil
	case dtype.Int64:
		return unscale[int64](physical, bscale, bzero), nil
	case dtype.Float32:
		return unscale[float32](physical, bscale, bzero), nil
	case dtype.Float64:
		return unscale[float64](physical, bscale, bzero), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidBitpix, bitpix)
}

func unscale[T Scalar](physical []float64, bscale, bzero float64) Pixels[T] {
	out := make(Pixels[T], len(physical))
	for i, v := range physical {
		out[i] = dtype.FromFloat64[T]((v - bzero) / bscale)
	}
	return out
}
