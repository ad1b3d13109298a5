// Command fitsinfo inspects, extracts, verifies and checksums FITS files.
package main

import "github.com/robert-malhotra/go-fits/cmd/fitsinfo/cmd"

func main() {
	cmd.Execute()
}
