package header

import (
	"errors"
	"testing"
)

func TestCardsLookups(t *testing.T) {
	cs := Cards{
		NewCard("NAXIS", Integer(2), ""),
		NewCard("BSCALE", Integer(2), ""),
		NewCard("BZERO", Float(32768), ""),
		NewCard("EXTNAME", String("  SCI  "), ""),
		NewCard("GROUPS", Logical(true), ""),
		NewCard("NEG", Integer(-1), ""),
		NewCard("NAXIS", Integer(9), ""),
	}

	if v, ok := cs.Int("NAXIS"); !ok || v != 2 {
		t.Errorf("Int(NAXIS) = %d, %v; want first occurrence 2", v, ok)
	}
	if _, ok := cs.Int("BZERO"); ok {
		t.Errorf("Int should not accept a real value")
	}
	if v, ok := cs.Float("BSCALE"); !ok || v != 2 {
		t.Errorf("Float(BSCALE) = %v, %v; integers should be accepted", v, ok)
	}
	if v, ok := cs.Float("BZERO"); !ok || v != 32768 {
		t.Errorf("Float(BZERO) = %v, %v", v, ok)
	}
	if v, ok := cs.Text("EXTNAME"); !ok || v != "SCI" {
		t.Errorf("Text(EXTNAME) = %q, %v", v, ok)
	}
	if v, ok := cs.Bool("GROUPS"); !ok || !v {
		t.Errorf("Bool(GROUPS) = %v, %v", v, ok)
	}
	if _, ok := cs.Find("MISSING"); ok {
		t.Errorf("Find(MISSING) should fail")
	}
}

func TestCardsRequire(t *testing.T) {
	cs := Cards{NewCard("NAXIS1", Integer(10), ""), NewCard("NEG", Integer(-3), "")}

	if _, err := cs.RequireInt("NAXIS2"); !errors.Is(err, ErrMissingKeyword) {
		t.Errorf("expected ErrMissingKeyword, got %v", err)
	}
	if n, err := cs.RequireCount("NAXIS1"); err != nil || n != 10 {
		t.Errorf("RequireCount(NAXIS1) = %d, %v", n, err)
	}
	if _, err := cs.RequireCount("NEG"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for negative count, got %v", err)
	}
}

func TestCardsWithout(t *testing.T) {
	cs := Cards{
		NewCard("SIMPLE", Logical(true), ""),
		NewCard("CHECKSUM", String("x"), ""),
		NewCard("DATASUM", String("0"), ""),
		NewCard("NAXIS", Integer(0), ""),
	}
	out := cs.Without("CHECKSUM", "DATASUM")
	if len(out) != 2 || out[0].Keyword != "SIMPLE" || out[1].Keyword != "NAXIS" {
		t.Errorf("unexpected result %v", out)
	}
	if len(cs) != 4 {
		t.Errorf("Without modified its receiver")
	}
}
