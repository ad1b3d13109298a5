// Package fits reads and writes FITS (Flexible Image Transport System) data.
//
// The package works on in-memory byte buffers. [Parse] walks a buffer and
// returns an [HDUList] describing every Header/Data Unit; the read functions
// take the same buffer plus an [HDU] and decode its data on demand. Writers
// produce new block-padded buffers and never modify their input.
//
// # HDU Kinds
//
// Each HDU carries an [HDUInfo] describing its shape:
//
//   - [PrimaryInfo]: the primary array (SIMPLE = T)
//   - [RandomGroupsInfo]: a primary array with GROUPS = T and NAXIS1 = 0
//   - [ImageInfo]: an IMAGE extension
//   - [ASCIITableInfo]: a TABLE extension
//   - [BinaryTableInfo]: a BINTABLE extension
//   - [CompressedImageInfo]: a BINTABLE with ZIMAGE = T holding tiles
//
// # Data Types
//
// Pixel and column values map to Go types by BITPIX or TFORM:
//
//	BITPIX | Go type | TFORM
//	-------|---------|------
//	8      | uint8   | B
//	16     | int16   | I
//	32     | int32   | J
//	64     | int64   | K
//	-32    | float32 | E
//	-64    | float64 | D
//
// Images are returned as [Pixels] of the matching type behind the
// [ImageData] interface; callers switch on the concrete type.
//
// # Usage
//
//	list, err := fits.Parse(buf)
//	img, err := fits.ReadImage(buf, list.Primary())
//	if px, ok := img.(fits.Pixels[int16]); ok {
//		fmt.Println(px[0])
//	}
//
//	col, err := fits.ReadBinaryColumnByName(buf, list.FindByName("EVENTS"), "TIME")
//
// [Open] adds a file layer that reads a whole file into memory, optionally
// inflating gzip, xz or zstd wrappers and verifying checksums.
package fits
