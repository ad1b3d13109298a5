package binary

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestReaderReadUint8(t *testing.T) {
	r := NewReader([]byte{0x42, 0xFF, 0x00})

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
	if r.Pos() != 2 {
		t.Errorf("expected position 2, got %d", r.Pos())
	}
}

func TestReaderBigEndianIntegers(t *testing.T) {
	data := []byte{
		0x01, 0x02, // int16
		0xFF, 0xFF, 0xFF, 0xFE, // int32 -2
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, // int64 256
	}
	r := NewReader(data)

	v16, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if v16 != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v16)
	}

	v32, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v32 != -2 {
		t.Errorf("expected -2, got %d", v32)
	}

	v64, err := r.ReadInt64()
	if err != nil {
		t.Fatalf("ReadInt64 failed: %v", err)
	}
	if v64 != 256 {
		t.Errorf("expected 256, got %d", v64)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected nothing remaining, got %d", r.Remaining())
	}
}

func TestReaderFloats(t *testing.T) {
	w := NewWriter(16)
	w.WriteFloat32(1.5)
	w.WriteFloat64(-math.Pi)

	r := NewReader(w.Bytes())
	f32, err := r.ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if f32 != 1.5 {
		t.Errorf("expected 1.5, got %v", f32)
	}
	f64, err := r.ReadFloat64()
	if err != nil {
		t.Fatalf("ReadFloat64 failed: %v", err)
	}
	if f64 != -math.Pi {
		t.Errorf("expected -Pi, got %v", f64)
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})

	if _, err := r.ReadInt32(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if r.Pos() != 0 {
		t.Errorf("failed read moved position to %d", r.Pos())
	}
	if err := r.Skip(3); err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if _, err := r.ReadUint8(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF at end, got %v", err)
	}
}

func TestReaderAt(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 0, 0x7F, 0xFF})
	v, err := r.At(4).ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if v != math.MaxInt16 {
		t.Errorf("expected %d, got %d", math.MaxInt16, v)
	}
	if _, err := r.At(10).ReadBytes(1); err == nil {
		t.Errorf("expected error reading past end")
	}
}

func TestFreeFunctions(t *testing.T) {
	b := make([]byte, 8)

	PutInt16(b, -300)
	if Int16(b) != -300 {
		t.Errorf("Int16 round trip: got %d", Int16(b))
	}
	PutInt32(b, math.MinInt32)
	if Int32(b) != math.MinInt32 {
		t.Errorf("Int32 round trip: got %d", Int32(b))
	}
	PutInt64(b, math.MaxInt64)
	if Int64(b) != math.MaxInt64 {
		t.Errorf("Int64 round trip: got %d", Int64(b))
	}
	if b[0] != 0x7F || b[7] != 0xFF {
		t.Errorf("expected big-endian layout, got %x", b)
	}
	PutFloat32(b, 2.25)
	if Float32(b) != 2.25 {
		t.Errorf("Float32 round trip: got %v", Float32(b))
	}
	PutFloat64(b, 1e300)
	if Float64(b) != 1e300 {
		t.Errorf("Float64 round trip: got %v", Float64(b))
	}
}
