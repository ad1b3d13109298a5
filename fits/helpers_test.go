package fits

import (
	"bytes"
	"testing"
)

// concat joins serialized HDUs into one stream.
func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func mustBuild(t *testing.T, b []byte, err error) []byte {
	t.Helper()
	if err != nil {
		t.Fatalf("building HDU failed: %v", err)
	}
	return b
}

func mustParse(t *testing.T, buf []byte) *HDUList {
	t.Helper()
	list, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return list
}

func mustHeader(t *testing.T, cards []Card) []byte {
	t.Helper()
	hdr, err := SerializeHeader(cards)
	if err != nil {
		t.Fatalf("SerializeHeader failed: %v", err)
	}
	return hdr
}

// emptyPrimary returns a data-less primary HDU.
func emptyPrimary(t *testing.T) []byte {
	t.Helper()
	cards, err := BuildPrimaryHeader(8, nil)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader failed: %v", err)
	}
	return mustHeader(t, cards)
}

func equalSlices[T comparable](t *testing.T, name string, got, want []T) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d values, want %d", name, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: expected %v, got %v", name, i, want[i], got[i])
		}
	}
}
