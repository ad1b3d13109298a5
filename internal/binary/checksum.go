package binary

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/block"
)

// Accumulate adds the 32-bit ones'-complement sum of data to sum.
//
// data is treated as a sequence of big-endian 32-bit words split into high
// and low 16-bit halves, each summed separately with end-around carry.
// The length of data must be a multiple of the FITS block size.
func Accumulate(sum uint32, data []byte) uint32 {
	if len(data)%block.Size != 0 {
		panic(fmt.Sprintf("binary: checksum input is %d bytes, not a multiple of %d", len(data), block.Size))
	}

	for off := 0; off < len(data); off += block.Size {
		sum = accumulateBlock(sum, data[off:off+block.Size])
	}
	return sum
}

// accumulateBlock folds the carries after each block so the 32-bit halves
// cannot overflow.
func accumulateBlock(sum uint32, data []byte) uint32 {
	hi := sum >> 16
	lo := sum & 0xFFFF
	for i := 0; i+3 < len(data); i += 4 {
		hi += uint32(data[i])<<8 | uint32(data[i+1])
		lo += uint32(data[i+2])<<8 | uint32(data[i+3])
	}
	return fold(hi, lo)
}

// Checksum returns the ones'-complement sum of data starting from zero.
func Checksum(data []byte) uint32 {
	return Accumulate(0, data)
}

// Add combines two ones'-complement sums.
func Add(a, b uint32) uint32 {
	s := uint64(a) + uint64(b)
	return uint32(s&0xFFFFFFFF + s>>32)
}

func fold(hi, lo uint32) uint32 {
	hicarry := hi >> 16
	locarry := lo >> 16
	for hicarry != 0 || locarry != 0 {
		hi = hi&0xFFFF + locarry
		lo = lo&0xFFFF + hicarry
		hicarry = hi >> 16
		locarry = lo >> 16
	}
	return hi<<16 + lo
}

const encodeOffset = 0x30

func excluded(c byte) bool {
	return (c >= 0x3a && c <= 0x40) || (c >= 0x5b && c <= 0x60)
}

// EncodeChecksum renders sum as the 16-character ASCII form stored in the
// CHECKSUM keyword. When complement is set the bitwise complement of sum is
// encoded, which is what gets written so the HDU sums to negative zero.
func EncodeChecksum(sum uint32, complement bool) [16]byte {
	value := sum
	if complement {
		value = ^sum
	}

	var asc [16]byte
	for i := 0; i < 4; i++ {
		b := byte(value >> (24 - 8*uint(i)))
		quotient := b/4 + encodeOffset
		remainder := b % 4

		ch := [4]byte{quotient, quotient, quotient, quotient}
		ch[0] += remainder

		for adjusted := true; adjusted; {
			adjusted = false
			for k := 0; k < 4; k += 2 {
				if excluded(ch[k]) || excluded(ch[k+1]) {
					ch[k]++
					ch[k+1]--
					adjusted = true
				}
			}
		}

		for j := 0; j < 4; j++ {
			asc[4*j+i] = ch[j]
		}
	}

	var out [16]byte
	for i := range out {
		out[i] = asc[(i+15)%16]
	}
	return out
}

// DecodeChecksum reverses EncodeChecksum.
func DecodeChecksum(ascii [16]byte, complement bool) uint32 {
	var c [16]uint32
	for i := range c {
		c[i] = uint32(ascii[(i+1)%16]) - encodeOffset
	}

	var hi, lo uint32
	for i := 0; i < 16; i += 4 {
		hi += c[i]<<8 + c[i+1]
		lo += c[i+2]<<8 + c[i+3]
	}
	sum := fold(hi, lo)
	if complement {
		return ^sum
	}
	return sum
}
