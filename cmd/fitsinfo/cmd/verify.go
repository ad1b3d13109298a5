package cmd

import (
	"fmt"
	"io"

	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-fits/fits"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file.fits>",
	Short: "Check the CHECKSUM and DATASUM keywords of every HDU",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return verify(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}

func verify(w io.Writer, path string) error {
	f, err := fits.Open(path)
	if err != nil {
		gLog.Error.Printf("Error opening %s: %v", path, err)
		return err
	}

	failed := 0
	for i, h := range f.HDUs().All() {
		checksum := status(h, "CHECKSUM", fits.VerifyChecksum(f.Bytes(), h))
		datasum := status(h, "DATASUM", fits.VerifyDatasum(f.Bytes(), h))
		if checksum == "FAILED" || datasum == "FAILED" {
			failed++
			gLog.Warning.Printf("%s: HDU %d failed verification", path, i)
		}
		fmt.Fprintf(w, "HDU %d: CHECKSUM %s, DATASUM %s\n", i, checksum, datasum)
	}
	if failed > 0 {
		return fmt.Errorf("%s: %d HDU(s) failed verification: %w", path, failed, fits.ErrChecksum)
	}
	return nil
}

func status(h *fits.HDU, keyword string, ok bool) string {
	if _, present := h.Cards.Find(keyword); !present {
		return "absent"
	}
	if ok {
		return "ok"
	}
	return "FAILED"
}
