package fits

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-fits/internal/block"
	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
	"github.com/robert-malhotra/go-fits/internal/tile"
)

// Kind identifies the shape of an HDU.
type Kind int

const (
	KindPrimary Kind = iota
	KindImage
	KindASCIITable
	KindBinaryTable
	KindRandomGroups
	KindCompressedImage
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "Primary"
	case KindImage:
		return "IMAGE"
	case KindASCIITable:
		return "TABLE"
	case KindBinaryTable:
		return "BINTABLE"
	case KindRandomGroups:
		return "Random Groups"
	case KindCompressedImage:
		return "Compressed IMAGE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// HDUInfo describes the data layout of one HDU. The concrete type is one
// of PrimaryInfo, ImageInfo, ASCIITableInfo, BinaryTableInfo,
// RandomGroupsInfo or CompressedImageInfo.
type HDUInfo interface {
	Kind() Kind
	isHDUInfo()
}

// PrimaryInfo describes a primary array.
type PrimaryInfo struct {
	Bitpix int
	Naxes  []int
}

// ImageInfo describes an IMAGE extension.
type ImageInfo struct {
	Bitpix int
	Naxes  []int
}

// ASCIITableInfo describes a TABLE extension.
type ASCIITableInfo struct {
	Naxis1  int // row width in characters
	Naxis2  int // number of rows
	TFields int
}

// BinaryTableInfo describes a BINTABLE extension.
type BinaryTableInfo struct {
	Naxis1  int // row width in bytes
	Naxis2  int // number of rows
	PCount  int // heap size in bytes
	TFields int
}

// RandomGroupsInfo describes a random-groups primary array. Naxes holds
// NAXIS2 onwards; NAXIS1 is always zero.
type RandomGroupsInfo struct {
	Bitpix int
	Naxes  []int
	PCount int
	GCount int
}

// CompressedImageInfo describes a tile-compressed image stored in a
// BINTABLE.
type CompressedImageInfo struct {
	ZBitpix   int
	ZNaxes    []int
	ZCmpType  string
	ZTile     []int
	Blocksize int // Rice pixels per block
	Bytepix   int // Rice bytes per pixel
	Naxis1    int
	Naxis2    int
	PCount    int
	TFields   int
}

func (PrimaryInfo) Kind() Kind         { return KindPrimary }
func (ImageInfo) Kind() Kind           { return KindImage }
func (ASCIITableInfo) Kind() Kind      { return KindASCIITable }
func (BinaryTableInfo) Kind() Kind     { return KindBinaryTable }
func (RandomGroupsInfo) Kind() Kind    { return KindRandomGroups }
func (CompressedImageInfo) Kind() Kind { return KindCompressedImage }

func (PrimaryInfo) isHDUInfo()         {}
func (ImageInfo) isHDUInfo()           {}
func (ASCIITableInfo) isHDUInfo()      {}
func (BinaryTableInfo) isHDUInfo()     {}
func (RandomGroupsInfo) isHDUInfo()    {}
func (CompressedImageInfo) isHDUInfo() {}

// HDU locates one Header/Data Unit in the buffer it was parsed from.
// Offsets are absolute.
type HDU struct {
	Info        HDUInfo
	HeaderStart int
	DataStart   int
	DataLen     int
	Cards       Cards
}

// Name returns the EXTNAME of the HDU, or "" when it has none.
func (h *HDU) Name() string {
	name, _ := h.Cards.Text("EXTNAME")
	return name
}

// HeaderLen returns the padded header length in bytes.
func (h *HDU) HeaderLen() int {
	return h.DataStart - h.HeaderStart
}

// End returns the offset just past the padded data segment.
func (h *HDU) End() int {
	return h.DataStart + block.PaddedLen(h.DataLen)
}

// HDUList is the ordered sequence of HDUs in a buffer. Index 0 is always
// the primary HDU.
type HDUList struct {
	hdus []*HDU
}

// Primary returns the primary HDU.
func (l *HDUList) Primary() *HDU {
	return l.hdus[0]
}

// Get returns the HDU at index, or nil when out of range.
func (l *HDUList) Get(index int) *HDU {
	if index < 0 || index >= len(l.hdus) {
		return nil
	}
	return l.hdus[index]
}

// FindByName returns the first HDU whose EXTNAME equals name, or nil.
func (l *HDUList) FindByName(name string) *HDU {
	for _, h := range l.hdus {
		if v, ok := h.Cards.Text("EXTNAME"); ok && v == name {
			return h
		}
	}
	return nil
}

// Len returns the number of HDUs.
func (l *HDUList) Len() int {
	return len(l.hdus)
}

// All returns the HDUs in file order. The slice must not be modified.
func (l *HDUList) All() []*HDU {
	return l.hdus
}

// Parse walks buf and returns every HDU it holds. A header that fails to
// parse after the first HDU ends the walk; data segments must be present in
// full, but the zero padding after the last one may be missing.
func Parse(buf []byte) (*HDUList, error) {
	if len(buf) < block.Size {
		return nil, fmt.Errorf("fits: %d bytes is less than one block: %w", len(buf), ErrUnexpectedEOF)
	}

	var hdus []*HDU
	offset := 0
	for len(buf)-offset >= block.Size {
		rest := buf[offset:]
		first := len(hdus) == 0

		hlen, err := header.ByteLen(rest)
		if err != nil {
			if !first {
				break
			}
			return nil, err
		}
		cards, err := header.ParseBlocks(rest[:hlen])
		if err != nil {
			if !first {
				break
			}
			return nil, err
		}

		primary := first && len(cards) > 0 && cards[0].Keyword == "SIMPLE"
		if first && !primary {
			return nil, fmt.Errorf("%w: first HDU must be primary", ErrInvalidHeader)
		}

		info, err := describeHDU(cards, primary)
		if err != nil {
			if !first {
				break
			}
			return nil, err
		}
		dataLen, err := dataByteLen(cards, primary)
		if err != nil {
			if !first {
				break
			}
			return nil, err
		}

		dataStart := offset + hlen
		if dataLen > len(buf)-dataStart {
			return nil, fmt.Errorf("fits: HDU %d needs %d data bytes at offset %d: %w",
				len(hdus), dataLen, dataStart, ErrUnexpectedEOF)
		}

		hdus = append(hdus, &HDU{
			Info:        info,
			HeaderStart: offset,
			DataStart:   dataStart,
			DataLen:     dataLen,
			Cards:       cards,
		})
		offset = dataStart + block.PaddedLen(dataLen)
	}

	if len(hdus) == 0 {
		return nil, fmt.Errorf("%w: no valid HDUs found", ErrInvalidHeader)
	}
	return &HDUList{hdus: hdus}, nil
}

// dataByteLen computes the size of the data segment described by cards.
func dataByteLen(cards Cards, primary bool) (int, error) {
	bitpix, err := cards.RequireInt("BITPIX")
	if err != nil {
		return 0, err
	}
	bpv, err := dtype.BytesPerValue(int(bitpix))
	if err != nil {
		return 0, err
	}
	dims, err := readAxes(cards, "NAXIS")
	if err != nil {
		return 0, err
	}
	if len(dims) == 0 {
		return 0, nil
	}

	if primary && isRandomGroups(cards, dims) {
		pcount, err := cards.RequireCount("PCOUNT")
		if err != nil {
			return 0, err
		}
		gcount, err := cards.RequireCount("GCOUNT")
		if err != nil {
			return 0, err
		}
		n, ok := product(dims[1:])
		n, ok2 := checkedAdd(n, pcount)
		n, ok3 := checkedMul(n, gcount)
		n, ok4 := checkedMul(n, bpv)
		if !ok || !ok2 || !ok3 || !ok4 {
			return 0, fmt.Errorf("%w: random groups size overflow", ErrInvalidHeader)
		}
		return n, nil
	}

	pcount, gcount := 0, 1
	if !primary {
		if v, ok := cards.Int("PCOUNT"); ok {
			pcount = int(v)
		}
		if v, ok := cards.Int("GCOUNT"); ok && v != 0 {
			gcount = int(v)
		}
		if pcount < 0 || gcount < 0 {
			return 0, fmt.Errorf("%w: PCOUNT = %d, GCOUNT = %d", ErrInvalidValue, pcount, gcount)
		}
	}

	n, ok := product(dims)
	n, ok2 := checkedMul(n, bpv)
	n, ok3 := checkedAdd(n, pcount)
	n, ok4 := checkedMul(n, gcount)
	if !ok || !ok2 || !ok3 || !ok4 {
		return 0, fmt.Errorf("%w: data size overflow", ErrInvalidHeader)
	}
	return n, nil
}

func isRandomGroups(cards Cards, dims []int) bool {
	groups, _ := cards.Bool("GROUPS")
	return len(dims) > 0 && dims[0] == 0 && groups
}

// describeHDU extracts the HDUInfo for one header.
func describeHDU(cards Cards, primary bool) (HDUInfo, error) {
	if primary {
		bitpix, err := requireBitpix(cards, "BITPIX")
		if err != nil {
			return nil, err
		}
		naxes, err := readAxes(cards, "NAXIS")
		if err != nil {
			return nil, err
		}
		if isRandomGroups(cards, naxes) {
			pcount, err := cards.RequireCount("PCOUNT")
			if err != nil {
				return nil, err
			}
			gcount, err := cards.RequireCount("GCOUNT")
			if err != nil {
				return nil, err
			}
			return RandomGroupsInfo{Bitpix: bitpix, Naxes: naxes[1:], PCount: pcount, GCount: gcount}, nil
		}
		return PrimaryInfo{Bitpix: bitpix, Naxes: naxes}, nil
	}

	xtension, ok := cards.Text("XTENSION")
	if !ok {
		return nil, fmt.Errorf("%w: XTENSION", ErrMissingKeyword)
	}
	typ, err := extensionType(xtension)
	if err != nil {
		return nil, err
	}

	switch typ {
	case ExtImage:
		bitpix, err := requireBitpix(cards, "BITPIX")
		if err != nil {
			return nil, err
		}
		naxes, err := readAxes(cards, "NAXIS")
		if err != nil {
			return nil, err
		}
		return ImageInfo{Bitpix: bitpix, Naxes: naxes}, nil

	case ExtASCIITable:
		v, err := requireCounts(cards, "NAXIS1", "NAXIS2", "TFIELDS")
		if err != nil {
			return nil, err
		}
		return ASCIITableInfo{Naxis1: v[0], Naxis2: v[1], TFields: v[2]}, nil
	}

	v, err := requireCounts(cards, "NAXIS1", "NAXIS2", "PCOUNT", "TFIELDS")
	if err != nil {
		return nil, err
	}
	bt := BinaryTableInfo{Naxis1: v[0], Naxis2: v[1], PCount: v[2], TFields: v[3]}
	if z, _ := cards.Bool("ZIMAGE"); z {
		return describeCompressed(cards, bt)
	}
	return bt, nil
}

// describeCompressed reads the Z keywords of a tile-compressed image.
func describeCompressed(cards Cards, bt BinaryTableInfo) (HDUInfo, error) {
	zbitpix, err := cards.RequireInt("ZBITPIX")
	if err != nil {
		return nil, err
	}
	znaxes, err := readAxes(cards, "ZNAXIS")
	if err != nil {
		return nil, err
	}
	zcmptype, ok := cards.Text("ZCMPTYPE")
	if !ok {
		return nil, fmt.Errorf("%w: ZCMPTYPE", ErrMissingKeyword)
	}

	ztile := make([]int, len(znaxes))
	for i := range ztile {
		def := 1
		if i == 0 {
			def = znaxes[0]
		}
		ztile[i] = def
		if v, ok := cards.Int(fmt.Sprintf("ZTILE%d", i+1)); ok {
			ztile[i] = int(v)
		}
	}

	blocksize, bytepix := tile.DefaultBlocksize, 4
	if v, ok := cards.Int("ZVAL1"); ok {
		blocksize = int(v)
	}
	if v, ok := cards.Int("ZVAL2"); ok {
		bytepix = int(v)
	}
	// some writers store BYTEPIX in ZVAL1 and BLOCKSIZE in ZVAL2
	if blocksize < 16 && bytepix > 8 {
		blocksize, bytepix = bytepix, blocksize
	}

	return CompressedImageInfo{
		ZBitpix:   int(zbitpix),
		ZNaxes:    znaxes,
		ZCmpType:  zcmptype,
		ZTile:     ztile,
		Blocksize: blocksize,
		Bytepix:   bytepix,
		Naxis1:    bt.Naxis1,
		Naxis2:    bt.Naxis2,
		PCount:    bt.PCount,
		TFields:   bt.TFields,
	}, nil
}

// requireCounts returns the non-negative values of keywords, in order.
func requireCounts(cards Cards, keywords ...string) ([]int, error) {
	out := make([]int, len(keywords))
	for i, kw := range keywords {
		v, err := cards.RequireCount(kw)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func product(dims []int) (int, bool) {
	n := 1
	for _, d := range dims {
		var ok bool
		if n, ok = checkedMul(n, d); !ok {
			return 0, false
		}
	}
	return n, true
}

func checkedMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

func checkedAdd(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}
