package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-fits/fits"
)

var extractCmd = &cobra.Command{
	Use:   "extract <input.fits> <hdu_index> <output.fits>",
	Short: "Extract a single HDU to a new FITS file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil || index < 0 {
			return fmt.Errorf("invalid HDU index: '%s'", args[1])
		}
		return extract(cmd.OutOrStdout(), args[0], index, args[2])
	},
}

func init() {
	RootCmd.AddCommand(extractCmd)
}

func extract(w io.Writer, input string, index int, output string) error {
	switch {
	case input == "":
		return fmt.Errorf("%s", missingInput)
	case output == "":
		return fmt.Errorf("%s", missingOutput)
	}

	f, err := fits.Open(input)
	if err != nil {
		gLog.Error.Printf("Error opening %s: %v", input, err)
		return err
	}
	out, err := f.Extract(index)
	if err != nil {
		return err
	}
	if err := fits.WriteFile(output, out); err != nil {
		gLog.Error.Printf("Error writing %s: %v", output, err)
		return err
	}
	gLog.Info.Printf("Extracted HDU %d of %s", index, input)
	fmt.Fprintf(w, "Extracted HDU %d to '%s' (%d bytes)\n", index, output, len(out))
	return nil
}
