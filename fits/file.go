package fits

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Magic numbers of the wrappers Open understands.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// File is a FITS stream loaded into memory together with its HDU list.
type File struct {
	path string
	buf  []byte
	hdus *HDUList
}

// Open reads and parses the FITS file at path. Gzip, xz and zstd
// wrapped files are inflated first unless WithDecompression(false) is
// given.
func Open(path string, opts ...OpenOption) (*File, error) {
	o := defaultOpenOptions()
	for _, opt := range opts {
		opt(o)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if o.decompress {
		if raw, err = decompress(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	hdus, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f := &File{path: path, buf: raw, hdus: hdus}

	if o.verifyChecksum {
		for i, h := range hdus.All() {
			if !VerifyDatasum(raw, h) {
				return nil, fmt.Errorf("%s: HDU %d: %w: DATASUM", path, i, ErrChecksum)
			}
			if !VerifyChecksum(raw, h) {
				return nil, fmt.Errorf("%s: HDU %d: %w: CHECKSUM", path, i, ErrChecksum)
			}
		}
	}
	return f, nil
}

// decompress inflates raw when it starts with a known compression magic
// and returns it unchanged otherwise.
func decompress(raw []byte) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch {
	case bytes.HasPrefix(raw, gzipMagic):
		r, err = gzip.NewReader(bytes.NewReader(raw))
	case bytes.HasPrefix(raw, xzMagic):
		r, err = xz.NewReader(bytes.NewReader(raw))
	case bytes.HasPrefix(raw, zstdMagic):
		var d *zstd.Decoder
		if d, err = zstd.NewReader(nil); err != nil {
			break
		}
		defer d.Close()
		var out []byte
		if out, err = d.DecodeAll(raw, nil); err == nil {
			return out, nil
		}
	default:
		return raw, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	return out, nil
}

// WriteFile writes a serialized FITS stream to path.
func WriteFile(path string, buf []byte) error {
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Bytes returns the (decompressed) FITS stream. It must not be modified.
func (f *File) Bytes() []byte {
	return f.buf
}

// HDUs returns the parsed HDU list.
func (f *File) HDUs() *HDUList {
	return f.hdus
}

func (f *File) hdu(index int) (*HDU, error) {
	h := f.hdus.Get(index)
	if h == nil {
		return nil, fmt.Errorf("%w: HDU index %d out of range (file has %d HDUs)", ErrInvalidValue, index, f.hdus.Len())
	}
	return h, nil
}

// ReadImage decodes the image in HDU index.
func (f *File) ReadImage(index int) (ImageData, error) {
	h, err := f.hdu(index)
	if err != nil {
		return nil, err
	}
	return ReadImage(f.buf, h)
}

// ReadColumn decodes the named column of the binary or ASCII table in HDU
// index.
func (f *File) ReadColumn(index int, name string) (ColumnData, error) {
	h, err := f.hdu(index)
	if err != nil {
		return nil, err
	}
	if h.Info.Kind() == KindASCIITable {
		return ReadASCIIColumnByName(f.buf, h, name)
	}
	return ReadBinaryColumnByName(f.buf, h, name)
}

// Extract returns HDU index as a standalone FITS stream.
func (f *File) Extract(index int) ([]byte, error) {
	return ExtractHDU(f.buf, f.hdus, index)
}
