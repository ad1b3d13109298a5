package fits

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/binary"
	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/heap"
	"github.com/robert-malhotra/go-fits/internal/tile"
)

// Column names of the tile-compression convention.
const (
	compressedDataColumn = "COMPRESSED_DATA"
	zscaleColumn         = "ZSCALE"
	zzeroColumn          = "ZZERO"
)

// tiledImage walks the rows of a compressed image, one tile per row.
type tiledImage struct {
	buf        []byte
	dataStart  int
	table      *binaryTable
	heap       *heap.Heap
	data       BinaryColumn
	scale      *BinaryColumn
	zero       *BinaryColumn
	dec        tile.Decoder
	bitpix     int
	quantized  bool
	tilePixels int
	total      int
}

// ReadTiledImage decompresses a tile-compressed image. Quantized float
// images (ZSCALE and ZZERO columns present) are restored as
// zero + scale * value per tile.
func ReadTiledImage(buf []byte, hdu *HDU) (ImageData, error) {
	info, ok := hdu.Info.(CompressedImageInfo)
	if !ok {
		return nil, fmt.Errorf("%w: %s HDU is not a compressed image", ErrInvalidHeader, hdu.Info.Kind())
	}
	total := pixelCount(info.ZNaxes)
	if total == 0 {
		return decodePixels(nil, info.ZBitpix)
	}
	if !dtype.ValidBitpix(info.ZBitpix) {
		return nil, fmt.Errorf("%w: ZBITPIX %d", ErrInvalidBitpix, info.ZBitpix)
	}

	t, err := binaryTableOf(buf, hdu)
	if err != nil {
		return nil, err
	}
	img := &tiledImage{
		buf:       buf,
		dataStart: hdu.DataStart,
		table:     t,
		heap:      heap.New(buf, hdu.DataStart+t.naxis1*t.naxis2, hdu.DataStart+hdu.DataLen),
		bitpix:    info.ZBitpix,
		total:     total,
	}
	if err := img.locateColumns(); err != nil {
		return nil, err
	}
	img.quantized = dtype.IsFloat(info.ZBitpix) && img.scale != nil && img.zero != nil
	img.tilePixels, ok = product(info.ZTile)
	if !ok {
		return nil, fmt.Errorf("%w: tile size %v overflows", ErrInvalidHeader, info.ZTile)
	}

	img.dec, err = tile.New(info.ZCmpType, tile.Params{
		Bitpix:     info.ZBitpix,
		Quantized:  img.quantized,
		TilePixels: img.tilePixels,
		Blocksize:  info.Blocksize,
		Bytepix:    info.Bytepix,
	})
	if err != nil {
		return nil, err
	}
	if img.dec.Name() == "RICE_1" && dtype.IsFloat(info.ZBitpix) && !img.quantized {
		return nil, fmt.Errorf("%w: RICE_1 cannot hold unquantized ZBITPIX %d", ErrInvalidBitpix, info.ZBitpix)
	}

	switch info.ZBitpix {
	case dtype.Uint8:
		return assembleTiles[uint8](img)
	case dtype.Int16:
		return assembleTiles[int16](img)
	case dtype.Int32:
		return assembleTiles[int32](img)
	case dtype.Int64:
		return assembleTiles[int64](img)
	case dtype.Float32:
		return assembleTiles[float32](img)
	default:
		return assembleTiles[float64](img)
	}
}

func (img *tiledImage) locateColumns() error {
	found := false
	for i := range img.table.columns {
		c := &img.table.columns[i]
		switch c.Name {
		case compressedDataColumn:
			if c.Type != TypeVarP && c.Type != TypeVarQ {
				return fmt.Errorf("%w: %s column has type %s", ErrInvalidHeader, compressedDataColumn, c.Type)
			}
			img.data, found = *c, true
		case zscaleColumn:
			img.scale = c
		case zzeroColumn:
			img.zero = c
		}
	}
	if !found {
		return fmt.Errorf("%w: no %s column", ErrInvalidHeader, compressedDataColumn)
	}
	return nil
}

// tileBytes returns the compressed bytes of the tile in row.
func (img *tiledImage) tileBytes(row int) ([]byte, error) {
	at := img.dataStart + row*img.table.naxis1 + img.data.Offset
	var (
		d   heap.Descriptor
		err error
	)
	if img.data.Type == TypeVarQ {
		d, err = heap.ParseQ(img.buf[at:])
	} else {
		d, err = heap.ParseP(img.buf[at:])
	}
	if err != nil {
		return nil, err
	}
	return img.heap.Slice(d, 1)
}

// rowScalar reads a per-tile E or D value such as ZSCALE.
func (img *tiledImage) rowScalar(row int, col *BinaryColumn) (float64, error) {
	at := img.dataStart + row*img.table.naxis1 + col.Offset
	switch col.Type {
	case TypeDouble:
		return binary.Float64(img.buf[at:]), nil
	case TypeFloat:
		return float64(binary.Float32(img.buf[at:])), nil
	}
	return 0, fmt.Errorf("%w: %s column has type %s", ErrInvalidHeader, col.Name, col.Type)
}

func assembleTiles[T Scalar](img *tiledImage) (ImageData, error) {
	out := make(Pixels[T], 0, img.total)
	for row := 0; row < img.table.naxis2 && len(out) < img.total; row++ {
		src, err := img.tileBytes(row)
		if err != nil {
			return nil, fmt.Errorf("fits: tile %d: %w", row, err)
		}
		npix := min(img.tilePixels, img.total-len(out))
		t, err := img.dec.Decode(src, npix)
		if err != nil {
			return nil, fmt.Errorf("fits: tile %d: %w", row, err)
		}
		n := min(t.Len(), npix)

		switch {
		case img.quantized:
			scale, err := img.rowScalar(row, img.scale)
			if err != nil {
				return nil, err
			}
			zero, err := img.rowScalar(row, img.zero)
			if err != nil {
				return nil, err
			}
			for i := range n {
				out = append(out, T(zero+scale*float64(t.Int(i))))
			}
		case dtype.IsFloat(img.bitpix):
			out = append(out, dtype.Decode[T](t.Data[:n*t.Width])...)
		default:
			for i := range n {
				out = append(out, T(t.Int(i)))
			}
		}
	}
	return out, nil
}
