package cmd

import (
	"fmt"
	"io"

	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-fits/fits"
)

var stampCmd = &cobra.Command{
	Use:   "stamp <input.fits> <output.fits>",
	Short: "Write a copy with fresh CHECKSUM and DATASUM keywords in every HDU",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return stamp(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	RootCmd.AddCommand(stampCmd)
}

func stamp(w io.Writer, input, output string) error {
	f, err := fits.Open(input)
	if err != nil {
		gLog.Error.Printf("Error opening %s: %v", input, err)
		return err
	}
	out, err := fits.StampHDUs(f.Bytes(), f.HDUs())
	if err != nil {
		return err
	}
	if err := fits.WriteFile(output, out); err != nil {
		gLog.Error.Printf("Error writing %s: %v", output, err)
		return err
	}
	fmt.Fprintf(w, "Stamped %d HDUs to '%s' (%d bytes)\n", f.HDUs().Len(), output, len(out))
	return nil
}
