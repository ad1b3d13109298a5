// Package tile implements the codecs used by tile-compressed images.
//
// A compressed image is stored as a binary table with one row per tile. The
// COMPRESSED_DATA column holds a P descriptor pointing at the tile's bytes in
// the table heap; ZCMPTYPE names the codec that produced them.
//
// # Supported Codecs
//
//   - RICE_1: Rice entropy coding of first differences via [Rice]. The
//     stream begins with a seed pixel of BYTEPIX bytes followed by blocks of
//     BLOCKSIZE pixels, each introduced by a split parameter.
//
//   - GZIP_1: DEFLATE compression via [Gzip]. Streams may carry a gzip
//     header, a zlib header, or be raw DEFLATE.
//
//   - GZIP_2: as GZIP_1, with the sample bytes shuffled before compression.
//     [Unshuffle] restores them after inflating.
//
// Names are matched by substring. PLIO_1 and HCOMPRESS_1 are rejected with
// [ErrUnsupportedCompression].
//
// # Decoded Tiles
//
// Every decoder returns a [Tile]: big-endian signed samples of a fixed
// width. Rice always yields 4-byte samples. GZIP yields the natural width of
// ZBITPIX, except that quantized floats and some 8/16-bit producers store
// 4-byte integers. Callers convert samples to the output pixel type with
// [Tile.Int] or, for unquantized floats, by decoding [Tile.Data] directly.
//
// Usage:
//
//	dec, err := tile.New("RICE_1", tile.Params{Bitpix: 16, TilePixels: 100, Blocksize: 32, Bytepix: 2})
//	t, err := dec.Decode(compressed, 100)
//	for i := 0; i < t.Len(); i++ {
//		v := t.Int(i)
//	}
package tile
