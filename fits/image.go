package fits

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// Scalar is the set of Go types FITS pixels and numeric columns decode to.
type Scalar = dtype.Scalar

// ImageData is decoded pixel data. The concrete type is Pixels[T] for the
// T matching the HDU's BITPIX.
type ImageData interface {
	// Bitpix returns the BITPIX code of the pixel type.
	Bitpix() int

	// Len returns the number of pixels.
	Len() int

	// Float64s returns the pixels widened to float64.
	Float64s() []float64

	encode() []byte
	slice(i, j int) ImageData
	gather(indices []int) ImageData
	blankMask(blank int64, hasBlank bool) []bool
}

// Pixels is a flat pixel array in FITS order (axis 1 varies fastest).
type Pixels[T Scalar] []T

func (p Pixels[T]) Bitpix() int { return dtype.BitpixOf[T]() }

func (p Pixels[T]) Len() int { return len(p) }

func (p Pixels[T]) Float64s() []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = float64(v)
	}
	return out
}

func (p Pixels[T]) encode() []byte { return dtype.Encode([]T(p)) }

func (p Pixels[T]) slice(i, j int) ImageData { return p[i:j:j] }

func (p Pixels[T]) gather(indices []int) ImageData {
	out := make(Pixels[T], len(indices))
	for k, idx := range indices {
		out[k] = p[idx]
	}
	return out
}

func (p Pixels[T]) blankMask(blank int64, hasBlank bool) []bool {
	isFloat := dtype.IsFloat(p.Bitpix())
	if !isFloat && !hasBlank {
		return nil
	}
	bv := T(blank)
	mask := make([]bool, len(p))
	found := false
	for i, v := range p {
		if isFloat {
			mask[i] = math.IsNaN(float64(v))
		} else {
			mask[i] = v == bv
		}
		found = found || mask[i]
	}
	if !found {
		return nil
	}
	return mask
}

// decodePixels decodes big-endian raw bytes as pixels of type bitpix.
func decodePixels(raw []byte, bitpix int) (ImageData, error) {
	switch bitpix {
	case dtype.Uint8:
		return Pixels[uint8](dtype.Decode[uint8](raw)), nil
	case dtype.Int16:
		return Pixels[int16](dtype.Decode[int16](raw)), nil
	case dtype.Int32:
		return Pixels[int32](dtype.Decode[int32](raw)), nil
	case dtype.Int64:
		return Pixels[int64](dtype.Decode[int64](raw)), nil
	case dtype.Float32:
		return Pixels[float32](dtype.Decode[float32](raw)), nil
	case dtype.Float64:
		return Pixels[float64](dtype.Decode[float64](raw)), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidBitpix, bitpix)
}

// ImageShape returns the pixel type and axis lengths of an image HDU. For
// compressed images these describe the uncompressed image.
func ImageShape(hdu *HDU) (bitpix int, naxes []int, err error) {
	switch info := hdu.Info.(type) {
	case PrimaryInfo:
		return info.Bitpix, info.Naxes, nil
	case ImageInfo:
		return info.Bitpix, info.Naxes, nil
	case CompressedImageInfo:
		return info.ZBitpix, info.ZNaxes, nil
	}
	return 0, nil, fmt.Errorf("%w: %s HDU is not an image", ErrInvalidHeader, hdu.Info.Kind())
}

func pixelCount(naxes []int) int {
	if len(naxes) == 0 {
		return 0
	}
	n, ok := product(naxes)
	if !ok {
		return 0
	}
	return n
}

// dataBytes returns the unpadded data segment of hdu.
func dataBytes(buf []byte, hdu *HDU) ([]byte, error) {
	end := hdu.DataStart + hdu.DataLen
	if hdu.DataStart < 0 || end > len(buf) {
		return nil, fmt.Errorf("fits: data segment [%d, %d) exceeds %d-byte buffer: %w",
			hdu.DataStart, end, len(buf), ErrUnexpectedEOF)
	}
	return buf[hdu.DataStart:end], nil
}

func isCompressed(hdu *HDU) bool {
	_, ok := hdu.Info.(CompressedImageInfo)
	return ok
}

// ReadImage decodes the whole data array of an image HDU. Compressed
// images are decompressed. An HDU without data yields empty pixels of the
// right type.
func ReadImage(buf []byte, hdu *HDU) (ImageData, error) {
	if isCompressed(hdu) {
		return ReadTiledImage(buf, hdu)
	}
	bitpix, _, err := ImageShape(hdu)
	if err != nil {
		return nil, err
	}
	if hdu.DataLen == 0 {
		return decodePixels(nil, bitpix)
	}
	raw, err := dataBytes(buf, hdu)
	if err != nil {
		return nil, err
	}
	return decodePixels(raw, bitpix)
}

// ReadImageSection decodes count pixels starting at flat pixel index start.
func ReadImageSection(buf []byte, hdu *HDU, start, count int) (ImageData, error) {
	bitpix, naxes, err := ImageShape(hdu)
	if err != nil {
		return nil, err
	}
	bpv, err := dtype.BytesPerValue(bitpix)
	if err != nil {
		return nil, err
	}
	if start < 0 || count < 0 {
		return nil, fmt.Errorf("%w: section start %d count %d", ErrInvalidValue, start, count)
	}
	end, ok := checkedAdd(start, count)
	if !ok {
		return nil, fmt.Errorf("%w: section start %d count %d", ErrInvalidValue, start, count)
	}
	if total := pixelCount(naxes); end > total {
		return nil, fmt.Errorf("fits: section [%d, %d) exceeds %d pixels: %w", start, end, total, ErrUnexpectedEOF)
	}

	if isCompressed(hdu) {
		img, err := ReadTiledImage(buf, hdu)
		if err != nil {
			return nil, err
		}
		if end > img.Len() {
			return nil, fmt.Errorf("fits: section [%d, %d) exceeds %d decoded pixels: %w", start, end, img.Len(), ErrUnexpectedEOF)
		}
		return img.slice(start, end), nil
	}

	off := hdu.DataStart + start*bpv
	stop := off + count*bpv
	if stop > len(buf) {
		return nil, fmt.Errorf("fits: section bytes [%d, %d) exceed %d-byte buffer: %w", off, stop, len(buf), ErrUnexpectedEOF)
	}
	return decodePixels(buf[off:stop], bitpix)
}

// ReadImageRows decodes n rows of NAXIS1 pixels starting at row start.
// Rows run over all axes after the first.
func ReadImageRows(buf []byte, hdu *HDU, start, n int) (ImageData, error) {
	_, naxes, err := ImageShape(hdu)
	if err != nil {
		return nil, err
	}
	if len(naxes) < 2 {
		return nil, fmt.Errorf("%w: image needs at least 2 axes for row slicing", ErrInvalidHeader)
	}
	if start < 0 || n < 0 {
		return nil, fmt.Errorf("%w: rows start %d count %d", ErrInvalidValue, start, n)
	}
	rowLen := naxes[0]
	rows := pixelCount(naxes[1:])
	end, ok := checkedAdd(start, n)
	if !ok {
		return nil, fmt.Errorf("%w: rows start %d count %d", ErrInvalidValue, start, n)
	}
	if end > rows {
		return nil, fmt.Errorf("fits: rows [%d, %d) exceed %d rows: %w", start, end, rows, ErrUnexpectedEOF)
	}
	return ReadImageSection(buf, hdu, start*rowLen, n*rowLen)
}

// Range is a half-open interval [Start, End) along one axis.
type Range struct {
	Start int
	End   int
}

// ReadImageRegion decodes the sub-array selected by one range per axis.
// Output is in FITS order with the first axis varying fastest. Any empty
// range yields empty pixels.
func ReadImageRegion(buf []byte, hdu *HDU, ranges []Range) (ImageData, error) {
	bitpix, naxes, err := ImageShape(hdu)
	if err != nil {
		return nil, err
	}
	bpv, err := dtype.BytesPerValue(bitpix)
	if err != nil {
		return nil, err
	}
	indices, err := regionIndices(naxes, ranges)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return decodePixels(nil, bitpix)
	}

	if isCompressed(hdu) {
		img, err := ReadTiledImage(buf, hdu)
		if err != nil {
			return nil, err
		}
		if last := indices[len(indices)-1]; last >= img.Len() {
			return nil, fmt.Errorf("fits: pixel %d exceeds %d decoded pixels: %w", last, img.Len(), ErrUnexpectedEOF)
		}
		return img.gather(indices), nil
	}

	raw := make([]byte, 0, len(indices)*bpv)
	for _, idx := range indices {
		off := hdu.DataStart + idx*bpv
		if off+bpv > len(buf) {
			return nil, fmt.Errorf("fits: pixel %d at offset %d exceeds %d-byte buffer: %w", idx, off, len(buf), ErrUnexpectedEOF)
		}
		raw = append(raw, buf[off:off+bpv]...)
	}
	return decodePixels(raw, bitpix)
}

// regionIndices returns the flat pixel indices selected by ranges, in
// output order. The last index is the largest.
func regionIndices(naxes []int, ranges []Range) ([]int, error) {
	if len(ranges) != len(naxes) {
		return nil, fmt.Errorf("%w: %d ranges for %d axes", ErrInvalidValue, len(ranges), len(naxes))
	}
	sub := make([]int, len(naxes))
	for i, r := range ranges {
		if r.Start < 0 || r.Start > r.End || r.End > naxes[i] {
			return nil, fmt.Errorf("%w: range [%d, %d) on axis %d of length %d", ErrInvalidValue, r.Start, r.End, i+1, naxes[i])
		}
		sub[i] = r.End - r.Start
	}
	total := pixelCount(sub)
	if total == 0 {
		return nil, nil
	}

	strides := make([]int, len(naxes))
	s := 1
	for i, d := range naxes {
		strides[i] = s
		s *= d
	}

	indices := make([]int, 0, total)
	idx := make([]int, len(naxes))
	for range total {
		flat := 0
		for d := range idx {
			flat += (ranges[d].Start + idx[d]) * strides[d]
		}
		indices = append(indices, flat)

		for d := range idx {
			idx[d]++
			if idx[d] < sub[d] {
				break
			}
			idx[d] = 0
		}
	}
	return indices, nil
}

// ReadImageInto decodes the pixels of an image HDU into dst, converting to
// T. dst must hold exactly one element per pixel.
func ReadImageInto[T float32 | float64](buf []byte, hdu *HDU, dst []T) error {
	if isCompressed(hdu) {
		img, err := ReadTiledImage(buf, hdu)
		if err != nil {
			return err
		}
		if len(dst) != img.Len() {
			return fmt.Errorf("%w: destination holds %d values, image has %d", ErrInvalidValue, len(dst), img.Len())
		}
		for i, v := range img.Float64s() {
			dst[i] = T(v)
		}
		return nil
	}

	bitpix, _, err := ImageShape(hdu)
	if err != nil {
		return err
	}
	bpv, err := dtype.BytesPerValue(bitpix)
	if err != nil {
		return err
	}
	npix := hdu.DataLen / bpv
	if len(dst) != npix {
		return fmt.Errorf("%w: destination holds %d values, image has %d", ErrInvalidValue, len(dst), npix)
	}
	if npix == 0 {
		return nil
	}
	raw, err := dataBytes(buf, hdu)
	if err != nil {
		return err
	}

	switch bitpix {
	case dtype.Uint8:
		convertInto[uint8](dst, raw)
	case dtype.Int16:
		convertInto[int16](dst, raw)
	case dtype.Int32:
		convertInto[int32](dst, raw)
	case dtype.Int64:
		convertInto[int64](dst, raw)
	case dtype.Float32:
		convertInto[float32](dst, raw)
	case dtype.Float64:
		convertInto[float64](dst, raw)
	}
	return nil
}

func convertInto[S Scalar, T float32 | float64](dst []T, raw []byte) {
	for i, v := range dtype.Decode[S](raw) {
		dst[i] = T(v)
	}
}
