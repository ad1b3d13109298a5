package fits

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/binary"
	"github.com/robert-malhotra/go-fits/internal/block"
)

const (
	checksumPlaceholder = "0000000000000000"
	checksumComment     = "HDU checksum"
	datasumComment      = "data unit checksum"
)

// ChecksumBlocks returns the 32-bit ones'-complement sum of block-aligned
// data. It panics if len(data) is not a multiple of BlockSize.
func ChecksumBlocks(data []byte) uint32 {
	return binary.Checksum(data)
}

// EncodeChecksum renders sum in the 16-character CHECKSUM form. With
// complement set, ^sum is encoded.
func EncodeChecksum(sum uint32, complement bool) string {
	enc := binary.EncodeChecksum(sum, complement)
	return string(enc[:])
}

// DecodeChecksum is the inverse of EncodeChecksum. Strings shorter than 16
// bytes are padded with '0'.
func DecodeChecksum(ascii string, complement bool) uint32 {
	var raw [16]byte
	for i := range raw {
		raw[i] = '0'
	}
	copy(raw[:], ascii)
	return binary.DecodeChecksum(raw, complement)
}

// StampChecksum returns a copy of cards with DATASUM and CHECKSUM set for
// an HDU whose unpadded data is data. Existing CHECKSUM and DATASUM cards
// are replaced; the new ones are appended at the end.
func StampChecksum(cards []Card, data []byte) ([]Card, error) {
	datasum := uint32(0)
	if len(data) > 0 {
		datasum = binary.Checksum(block.Padded(data, block.DataPad))
	}

	out := Cards(cards).Without("CHECKSUM", "DATASUM")
	out = append(out,
		NewCard("DATASUM", String(strconv.FormatUint(uint64(datasum), 10)), datasumComment),
		NewCard("CHECKSUM", String(checksumPlaceholder), checksumComment),
	)

	hdr, err := SerializeHeader(out)
	if err != nil {
		return nil, err
	}
	sum := binary.Add(binary.Checksum(hdr), datasum)
	out[len(out)-1].Value = String(EncodeChecksum(sum, true))
	return out, nil
}

// StampHDUs re-serializes every HDU in list with fresh DATASUM and
// CHECKSUM cards and returns the new stream.
func StampHDUs(buf []byte, list *HDUList) ([]byte, error) {
	var out []byte
	for i, h := range list.All() {
		data, err := dataBytes(buf, h)
		if err != nil {
			return nil, fmt.Errorf("fits: HDU %d: %w", i, err)
		}
		cards, err := StampChecksum(h.Cards, data)
		if err != nil {
			return nil, fmt.Errorf("fits: HDU %d: %w", i, err)
		}
		hdr, err := SerializeHeader(cards)
		if err != nil {
			return nil, fmt.Errorf("fits: HDU %d: %w", i, err)
		}
		out = append(out, hdr...)
		out = append(out, block.Padded(data, block.DataPad)...)
	}
	return out, nil
}

// VerifyChecksum reports whether the whole HDU sums to negative zero. An
// HDU without a CHECKSUM card verifies trivially.
func VerifyChecksum(buf []byte, hdu *HDU) bool {
	if _, ok := hdu.Cards.Find("CHECKSUM"); !ok {
		return true
	}
	if hdu.HeaderStart < 0 || hdu.DataStart > len(buf) {
		return false
	}
	data, ok := paddedData(buf, hdu)
	if !ok {
		return false
	}
	sum := binary.Checksum(buf[hdu.HeaderStart:hdu.DataStart])
	sum = binary.Accumulate(sum, data)
	return sum == 0 || sum == 0xFFFFFFFF
}

// VerifyDatasum compares the DATASUM card against the data. An HDU without
// DATASUM verifies trivially; an unparsable value never does.
func VerifyDatasum(buf []byte, hdu *HDU) bool {
	c, ok := hdu.Cards.Find("DATASUM")
	if !ok {
		return true
	}
	var text string
	switch v := c.Value.(type) {
	case String:
		text = strings.TrimSpace(string(v))
	case Integer:
		text = strconv.FormatInt(int64(v), 10)
	default:
		return false
	}
	want, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return false
	}
	if _, ok := paddedData(buf, hdu); !ok {
		return false
	}
	return ComputeDatasum(buf, hdu) == uint32(want)
}

// ComputeDatasum returns the checksum of the padded data segment of hdu.
// Missing trailing padding counts as zeros.
func ComputeDatasum(buf []byte, hdu *HDU) uint32 {
	if hdu.DataLen == 0 {
		return 0
	}
	data, ok := paddedData(buf, hdu)
	if !ok {
		return 0
	}
	return binary.Checksum(data)
}

// paddedData returns the data segment of hdu including its zero padding.
// Padding cut off at the end of buf is supplied; a short data segment is
// reported with ok == false.
func paddedData(buf []byte, hdu *HDU) ([]byte, bool) {
	if hdu.DataLen == 0 {
		return nil, true
	}
	raw, err := dataBytes(buf, hdu)
	if err != nil {
		return nil, false
	}
	if end := hdu.DataStart + block.PaddedLen(hdu.DataLen); end <= len(buf) {
		return buf[hdu.DataStart:end], true
	}
	return block.Padded(raw, block.DataPad), true
}
