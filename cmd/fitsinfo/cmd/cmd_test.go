package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmatencio/s3c/gLog"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-fits/fits"
)

func TestMain(m *testing.M) {
	gLog.Init(io.Discard, io.Discard, io.Discard, io.Discard, io.Discard, io.Discard)
	os.Exit(m.Run())
}

// sampleFile writes a primary image, an IMAGE extension and a BINTABLE
// extension to a temporary file.
func sampleFile(t *testing.T) string {
	t.Helper()
	primary, err := fits.BuildImageHDU(16, []int{3, 2}, fits.Pixels[int16]{1, 2, 3, 4, 5, 6},
		fits.WithCards(fits.NewCard("TELESCOP", fits.String("HST"), "telescope")))
	if err != nil {
		t.Fatalf("BuildImageHDU failed: %v", err)
	}
	sci, err := fits.BuildImageHDU(-64, []int{2}, fits.Pixels[float64]{1.5, -2.5},
		fits.AsExtension(), fits.WithExtName("SCI"))
	if err != nil {
		t.Fatalf("BuildImageHDU failed: %v", err)
	}
	cols := []fits.BinaryColumn{fits.NewBinaryColumn("ID", 1, fits.TypeInt)}
	events, err := fits.SerializeBinaryTableHDU(cols, []fits.ColumnData{fits.Column[int32]{7, 8, 9}}, 3,
		fits.WithExtName("EVENTS"))
	if err != nil {
		t.Fatalf("SerializeBinaryTableHDU failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sample.fits")
	if err := fits.WriteFile(path, bytes.Join([][]byte{primary, sci, events}, nil)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestInfoText(t *testing.T) {
	path := sampleFile(t)
	var out bytes.Buffer
	if err := info(&out, []string{path}, "text", false); err != nil {
		t.Fatalf("info failed: %v", err)
	}

	want := []string{
		"HDU 0: Primary",
		"  BITPIX: 16",
		"  NAXIS: 2",
		"  Dimensions: [3, 2]",
		"  Data size: 12 bytes",
		"HDU 1: IMAGE extension (EXTNAME: SCI)",
		"  BITPIX: -64",
		"  Data size: 16 bytes",
		"HDU 2: BINTABLE extension (EXTNAME: EVENTS)",
		"  Columns: 1",
		"  Rows: 3",
		"  Row width: 4 bytes",
	}
	got := out.String()
	for _, line := range want {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("output missing %q:\n%s", line, got)
		}
	}
	if strings.Contains(got, "Header cards:") {
		t.Errorf("cards listed without verbose")
	}
	if strings.Contains(got, "Heap size") {
		t.Errorf("heap size reported for a table without heap")
	}
}

func TestInfoVerboseAndMultipleFiles(t *testing.T) {
	a, b := sampleFile(t), sampleFile(t)
	var out bytes.Buffer
	if err := info(&out, []string{a, b}, "text", true); err != nil {
		t.Fatalf("info failed: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, a+":\n") {
		t.Errorf("expected output to start with the first path, got %q", got[:min(len(got), 80)])
	}
	if !strings.Contains(got, "\n"+b+":\n") {
		t.Errorf("second path header missing")
	}
	if !strings.Contains(got, "    TELESCOP = 'HST' / telescope\n") {
		t.Errorf("verbose output missing TELESCOP card:\n%s", got)
	}
	if strings.Contains(got, "    END") {
		t.Errorf("END card should not be listed")
	}
}

func TestInfoYAML(t *testing.T) {
	path := sampleFile(t)
	var out bytes.Buffer
	if err := info(&out, []string{path}, "yaml", true); err != nil {
		t.Fatalf("info failed: %v", err)
	}

	var got fileSummary
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v\n%s", err, out.String())
	}
	if got.Path != path || len(got.HDUs) != 3 {
		t.Fatalf("unexpected summary %+v", got)
	}

	primary := got.HDUs[0]
	if primary.Kind != "Primary" || primary.Bitpix != 16 || primary.DataSize != 12 {
		t.Errorf("unexpected primary summary %+v", primary)
	}
	if len(primary.Dimensions) != 2 || primary.Dimensions[0] != 3 || primary.Dimensions[1] != 2 {
		t.Errorf("unexpected dimensions %v", primary.Dimensions)
	}
	if primary.Cards["TELESCOP"] != "'HST'" {
		t.Errorf("TELESCOP = %q", primary.Cards["TELESCOP"])
	}

	events := got.HDUs[2]
	if events.Kind != "BINTABLE" || events.Name != "EVENTS" || events.Rows != 3 || events.Columns != 1 {
		t.Errorf("unexpected table summary %+v", events)
	}
	if events.DataStart <= events.HeaderStart || events.DataStart%fits.BlockSize != 0 {
		t.Errorf("unexpected offsets %d/%d", events.HeaderStart, events.DataStart)
	}
}

func TestInfoErrors(t *testing.T) {
	path := sampleFile(t)
	if err := info(io.Discard, []string{path}, "xml", false); err == nil {
		t.Errorf("expected error for unknown format")
	}
	missing := filepath.Join(t.TempDir(), "missing.fits")
	if err := info(io.Discard, []string{missing}, "text", false); !errors.Is(err, fits.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestFormatDims(t *testing.T) {
	tests := []struct {
		in   []int
		want string
	}{
		{nil, "[]"},
		{[]int{7}, "[7]"},
		{[]int{100, 200}, "[100, 200]"},
	}
	for _, tt := range tests {
		if got := formatDims(tt.in); got != tt.want {
			t.Errorf("formatDims(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestExtract(t *testing.T) {
	path := sampleFile(t)
	dst := filepath.Join(t.TempDir(), "sci.fits")

	var out bytes.Buffer
	if err := extract(&out, path, 1, dst); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Extracted HDU 1 to '"+dst+"' (") {
		t.Errorf("unexpected message %q", out.String())
	}

	f, err := fits.Open(dst)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if f.HDUs().Len() != 2 {
		t.Fatalf("expected 2 HDUs, got %d", f.HDUs().Len())
	}
	data, err := f.ReadImage(1)
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	pix, ok := data.(fits.Pixels[float64])
	if !ok || len(pix) != 2 || pix[0] != 1.5 || pix[1] != -2.5 {
		t.Errorf("unexpected pixels %v", data)
	}

	if err := extract(io.Discard, path, 5, dst); !errors.Is(err, fits.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for index 5, got %v", err)
	}
	if err := extract(io.Discard, "", 0, dst); err == nil {
		t.Errorf("expected error for missing input")
	}
}

func TestVerifyAndStamp(t *testing.T) {
	path := sampleFile(t)

	var out bytes.Buffer
	if err := verify(&out, path); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(out.String(), "HDU 0: CHECKSUM absent, DATASUM absent\n") {
		t.Errorf("unexpected verify output %q", out.String())
	}

	stamped := filepath.Join(t.TempDir(), "stamped.fits")
	out.Reset()
	if err := stamp(&out, path, stamped); err != nil {
		t.Fatalf("stamp failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Stamped 3 HDUs to '"+stamped+"'") {
		t.Errorf("unexpected stamp output %q", out.String())
	}

	out.Reset()
	if err := verify(&out, stamped); err != nil {
		t.Fatalf("verify of stamped file failed: %v", err)
	}
	if got := strings.Count(out.String(), "CHECKSUM ok, DATASUM ok"); got != 3 {
		t.Errorf("expected 3 verified HDUs, got %d:\n%s", got, out.String())
	}

	if _, err := fits.Open(stamped, fits.WithChecksumVerification()); err != nil {
		t.Errorf("Open with checksum verification failed: %v", err)
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	path := sampleFile(t)
	stamped := filepath.Join(t.TempDir(), "stamped.fits")
	if err := stamp(io.Discard, path, stamped); err != nil {
		t.Fatalf("stamp failed: %v", err)
	}

	f, err := fits.Open(stamped)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	buf := append([]byte(nil), f.Bytes()...)
	buf[f.HDUs().Get(1).DataStart] ^= 0xFF
	if err := fits.WriteFile(stamped, buf); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var out bytes.Buffer
	err = verify(&out, stamped)
	if !errors.Is(err, fits.ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
	if !strings.Contains(out.String(), "HDU 1: CHECKSUM FAILED, DATASUM FAILED\n") {
		t.Errorf("unexpected verify output %q", out.String())
	}
	if !strings.Contains(out.String(), "HDU 2: CHECKSUM ok, DATASUM ok\n") {
		t.Errorf("untouched HDU should still verify: %q", out.String())
	}
}

func TestRootCommand(t *testing.T) {
	path := sampleFile(t)
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"verify", path})
	defer RootCmd.SetArgs(nil)

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "HDU 2: CHECKSUM absent, DATASUM absent") {
		t.Errorf("unexpected output %q", out.String())
	}

	RootCmd.SetArgs([]string{"extract", path, "x", filepath.Join(t.TempDir(), "o.fits")})
	if err := RootCmd.Execute(); err == nil || !strings.Contains(err.Error(), "invalid HDU index: 'x'") {
		t.Errorf("expected invalid index error, got %v", err)
	}
}
