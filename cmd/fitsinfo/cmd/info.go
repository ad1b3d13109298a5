package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-fits/fits"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.fits>...",
	Short: "Print a summary of every HDU",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return info(cmd.OutOrStdout(), args, viper.GetString("output"), viper.GetBool("verbose"))
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	viper.BindPFlag("output", infoCmd.Flags().Lookup("output"))
}

func info(w io.Writer, paths []string, format string, verbose bool) error {
	for i, path := range paths {
		f, err := fits.Open(path)
		if err != nil {
			gLog.Error.Printf("Error opening %s: %v", path, err)
			return err
		}
		gLog.Info.Printf("%s: %d HDUs", path, f.HDUs().Len())

		switch format {
		case "yaml":
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(fileSummary{Path: path, HDUs: summarize(f.HDUs(), verbose)}); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
		case "text", "":
			if len(paths) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s:\n", path)
			}
			io.WriteString(w, formatInfo(f.HDUs(), verbose))
		default:
			return fmt.Errorf("unknown output format %q (want text or yaml)", format)
		}
	}
	return nil
}

// formatInfo renders the text summary of every HDU, separated by blank
// lines.
func formatInfo(list *fits.HDUList, verbose bool) string {
	var b strings.Builder
	for i, h := range list.All() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatHDU(i, h))
		if verbose {
			b.WriteString(formatCards(h.Cards))
		}
	}
	return b.String()
}

func formatHDU(index int, h *fits.HDU) string {
	var b strings.Builder
	label := ""
	if name := h.Name(); name != "" {
		label = fmt.Sprintf(" (EXTNAME: %s)", name)
	}

	switch info := h.Info.(type) {
	case fits.PrimaryInfo:
		fmt.Fprintf(&b, "HDU %d: Primary\n", index)
		writeImage(&b, info.Bitpix, info.Naxes, h.DataLen)
	case fits.ImageInfo:
		fmt.Fprintf(&b, "HDU %d: IMAGE extension%s\n", index, label)
		writeImage(&b, info.Bitpix, info.Naxes, h.DataLen)
	case fits.ASCIITableInfo:
		fmt.Fprintf(&b, "HDU %d: TABLE extension%s\n", index, label)
		fmt.Fprintf(&b, "  Columns: %d\n", info.TFields)
		fmt.Fprintf(&b, "  Rows: %d\n", info.Naxis2)
		fmt.Fprintf(&b, "  Row width: %d bytes\n", info.Naxis1)
		fmt.Fprintf(&b, "  Data size: %d bytes\n", h.DataLen)
	case fits.BinaryTableInfo:
		fmt.Fprintf(&b, "HDU %d: BINTABLE extension%s\n", index, label)
		writeTable(&b, info.TFields, info.Naxis1, info.Naxis2, info.PCount)
	case fits.CompressedImageInfo:
		fmt.Fprintf(&b, "HDU %d: Compressed IMAGE extension%s\n", index, label)
		fmt.Fprintf(&b, "  ZBITPIX: %d\n", info.ZBitpix)
		fmt.Fprintf(&b, "  ZNAXIS: %d\n", len(info.ZNaxes))
		if len(info.ZNaxes) > 0 {
			fmt.Fprintf(&b, "  Dimensions: %s\n", formatDims(info.ZNaxes))
		}
		fmt.Fprintf(&b, "  Compression: %s\n", info.ZCmpType)
		fmt.Fprintf(&b, "  Tile: %s\n", formatDims(info.ZTile))
		writeTable(&b, info.TFields, info.Naxis1, info.Naxis2, info.PCount)
	case fits.RandomGroupsInfo:
		fmt.Fprintf(&b, "HDU %d: Random Groups\n", index)
		fmt.Fprintf(&b, "  BITPIX: %d\n", info.Bitpix)
		fmt.Fprintf(&b, "  Axes: %s\n", formatDims(info.Naxes))
		fmt.Fprintf(&b, "  PCOUNT: %d\n", info.PCount)
		fmt.Fprintf(&b, "  GCOUNT: %d\n", info.GCount)
		fmt.Fprintf(&b, "  Data size: %d bytes\n", h.DataLen)
	}
	return b.String()
}

func writeImage(b *strings.Builder, bitpix int, naxes []int, dataLen int) {
	fmt.Fprintf(b, "  BITPIX: %d\n", bitpix)
	fmt.Fprintf(b, "  NAXIS: %d\n", len(naxes))
	if len(naxes) > 0 {
		fmt.Fprintf(b, "  Dimensions: %s\n", formatDims(naxes))
	}
	fmt.Fprintf(b, "  Data size: %d bytes\n", dataLen)
}

func writeTable(b *strings.Builder, tfields, naxis1, naxis2, pcount int) {
	fmt.Fprintf(b, "  Columns: %d\n", tfields)
	fmt.Fprintf(b, "  Rows: %d\n", naxis2)
	fmt.Fprintf(b, "  Row width: %d bytes\n", naxis1)
	fmt.Fprintf(b, "  Data size: %d bytes\n", naxis1*naxis2)
	if pcount > 0 {
		fmt.Fprintf(b, "  Heap size: %d bytes\n", pcount)
	}
}

// formatDims renders axis lengths as "[100, 200]".
func formatDims(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatCards(cards fits.Cards) string {
	var b strings.Builder
	b.WriteString("  Header cards:\n")
	for _, c := range cards {
		if c.IsEnd() {
			continue
		}
		switch {
		case c.Value != nil && c.Comment != "":
			fmt.Fprintf(&b, "    %s = %s / %s\n", c.Keyword, c.Value, c.Comment)
		case c.Value != nil:
			fmt.Fprintf(&b, "    %s = %s\n", c.Keyword, c.Value)
		case c.Comment != "":
			fmt.Fprintf(&b, "    %s %s\n", c.Keyword, c.Comment)
		case !c.IsBlank():
			fmt.Fprintf(&b, "    %s\n", c.Keyword)
		}
	}
	return b.String()
}

type fileSummary struct {
	Path string       `yaml:"path"`
	HDUs []hduSummary `yaml:"hdus"`
}

type hduSummary struct {
	Index       int               `yaml:"index"`
	Kind        string            `yaml:"kind"`
	Name        string            `yaml:"extname,omitempty"`
	Bitpix      int               `yaml:"bitpix,omitempty"`
	Dimensions  []int             `yaml:"dimensions,omitempty"`
	Compression string            `yaml:"compression,omitempty"`
	Columns     int               `yaml:"columns,omitempty"`
	Rows        int               `yaml:"rows,omitempty"`
	RowWidth    int               `yaml:"row_width,omitempty"`
	HeapSize    int               `yaml:"heap_size,omitempty"`
	HeaderStart int               `yaml:"header_start"`
	DataStart   int               `yaml:"data_start"`
	DataSize    int               `yaml:"data_size"`
	Cards       map[string]string `yaml:"cards,omitempty"`
}

func summarize(list *fits.HDUList, verbose bool) []hduSummary {
	out := make([]hduSummary, 0, list.Len())
	for i, h := range list.All() {
		s := hduSummary{
			Index:       i,
			Kind:        h.Info.Kind().String(),
			Name:        h.Name(),
			HeaderStart: h.HeaderStart,
			DataStart:   h.DataStart,
			DataSize:    h.DataLen,
		}
		switch info := h.Info.(type) {
		case fits.PrimaryInfo:
			s.Bitpix, s.Dimensions = info.Bitpix, info.Naxes
		case fits.ImageInfo:
			s.Bitpix, s.Dimensions = info.Bitpix, info.Naxes
		case fits.RandomGroupsInfo:
			s.Bitpix, s.Dimensions = info.Bitpix, info.Naxes
		case fits.ASCIITableInfo:
			s.Columns, s.Rows, s.RowWidth = info.TFields, info.Naxis2, info.Naxis1
		case fits.BinaryTableInfo:
			s.Columns, s.Rows, s.RowWidth, s.HeapSize = info.TFields, info.Naxis2, info.Naxis1, info.PCount
		case fits.CompressedImageInfo:
			s.Bitpix, s.Dimensions, s.Compression = info.ZBitpix, info.ZNaxes, info.ZCmpType
			s.Columns, s.Rows, s.RowWidth, s.HeapSize = info.TFields, info.Naxis2, info.Naxis1, info.PCount
		}
		if verbose {
			s.Cards = make(map[string]string)
			for _, c := range h.Cards {
				if c.Value != nil {
					s.Cards[c.Keyword] = c.Value.String()
				}
			}
		}
		out = append(out, s)
	}
	return out
}
