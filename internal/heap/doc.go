// Package heap implements the binary-table heap used for variable-length data.
//
// A FITS binary table may carry a heap after its fixed-width rows. Columns
// declared with a P or Q TFORM store, per row, a descriptor pointing into
// that heap:
//
//	TFORM | Descriptor          | Size
//	------|---------------------|-----
//	rPt   | int32 count, offset | 8
//	rQt   | int64 count, offset | 16
//
// The heap starts at data start + NAXIS1*NAXIS2 unless THEAP says otherwise,
// and its length is PCOUNT bytes. A [Heap] is a view over that region of the
// caller's buffer; it never copies and resolves descriptors with explicit
// bounds checks.
//
// Usage:
//
//	desc, err := heap.ParseP(rowBytes[colOffset:])
//	h := heap.New(buf, heapStart, dataEnd)
//	payload, err := h.Slice(desc, 1)
package heap
