package fits

// HDUOption configures the HDU builders.
type HDUOption func(*hduOptions)

type hduOptions struct {
	extName   string
	cards     []Card
	extension bool
	checksum  bool
}

func newHDUOptions(opts []HDUOption) *hduOptions {
	o := &hduOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithExtName adds an EXTNAME card.
func WithExtName(name string) HDUOption {
	return func(o *hduOptions) {
		o.extName = name
	}
}

// WithCards appends extra cards after the mandatory keywords.
// Multiple WithCards options accumulate.
func WithCards(cards ...Card) HDUOption {
	return func(o *hduOptions) {
		o.cards = append(o.cards, cards...)
	}
}

// AsExtension builds an IMAGE extension (PCOUNT = 0, GCOUNT = 1) instead of
// a primary array. Table builders always produce extensions.
func AsExtension() HDUOption {
	return func(o *hduOptions) {
		o.extension = true
	}
}

// WithChecksum stamps DATASUM and CHECKSUM on the built HDU.
func WithChecksum() HDUOption {
	return func(o *hduOptions) {
		o.checksum = true
	}
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	decompress     bool
	verifyChecksum bool
}

func defaultOpenOptions() *openOptions {
	return &openOptions{
		decompress: true,
	}
}

// WithDecompression controls whether gzip, xz and zstd wrapped files are
// inflated on open. Enabled by default.
func WithDecompression(enabled bool) OpenOption {
	return func(o *openOptions) {
		o.decompress = enabled
	}
}

// WithChecksumVerification makes Open fail with ErrChecksum when any HDU
// carrying CHECKSUM or DATASUM does not verify.
func WithChecksumVerification() OpenOption {
	return func(o *openOptions) {
		o.verifyChecksum = true
	}
}
