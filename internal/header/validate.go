package header

import "fmt"

// Kind identifies which mandatory keyword set a header must carry.
type Kind int

const (
	KindPrimary Kind = iota
	KindImage
	KindASCIITable
	KindBinaryTable
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindImage:
		return "IMAGE"
	case KindASCIITable:
		return "TABLE"
	case KindBinaryTable:
		return "BINTABLE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DetectKind looks for SIMPLE or XTENSION anywhere in cards so that
// misordered headers are still classified and then rejected by Validate.
func DetectKind(cards []Card) (Kind, bool) {
	cs := Cards(cards)
	if _, ok := cs.Find("SIMPLE"); ok {
		return KindPrimary, true
	}
	xt, ok := cs.Text("XTENSION")
	if !ok {
		return 0, false
	}
	switch xt {
	case "IMAGE":
		return KindImage, true
	case "TABLE":
		return KindASCIITable, true
	case "BINTABLE":
		return KindBinaryTable, true
	}
	return 0, false
}

// Validate checks the mandatory keywords and their positions for kind.
func Validate(kind Kind, cards []Card) error {
	cs := Cards(cards)
	switch kind {
	case KindPrimary:
		simple, err := cs.requireAt(0, "SIMPLE")
		if err != nil {
			return err
		}
		if v, ok := simple.Value.(Logical); !ok || !bool(v) {
			return fmt.Errorf("%w: SIMPLE must be T", ErrInvalidHeader)
		}
		if _, err := cs.requireAt(1, "BITPIX"); err != nil {
			return err
		}
		_, err = cs.requireAt(2, "NAXIS")
		return err

	case KindImage:
		if err := cs.requireXtension("IMAGE"); err != nil {
			return err
		}
		if _, err := cs.requireAt(1, "BITPIX"); err != nil {
			return err
		}
		if _, err := cs.requireAt(2, "NAXIS"); err != nil {
			return err
		}
		return cs.requirePresent("PCOUNT", "GCOUNT")

	case KindASCIITable, KindBinaryTable:
		if err := cs.requireXtension(kind.String()); err != nil {
			return err
		}
		if err := cs.requireIntAt(1, "BITPIX", 8); err != nil {
			return err
		}
		if err := cs.requireIntAt(2, "NAXIS", 2); err != nil {
			return err
		}
		return cs.requirePresent("NAXIS1", "NAXIS2", "PCOUNT", "GCOUNT", "TFIELDS")
	}
	return fmt.Errorf("%w: unknown header kind %d", ErrInvalidHeader, int(kind))
}

func (cs Cards) requireAt(index int, keyword string) (Card, error) {
	if index >= len(cs) || cs[index].Keyword != keyword {
		return Card{}, fmt.Errorf("%w: %s", ErrMissingKeyword, keyword)
	}
	return cs[index], nil
}

func (cs Cards) requireXtension(want string) error {
	c, err := cs.requireAt(0, "XTENSION")
	if err != nil {
		return err
	}
	if s, ok := c.Value.(String); !ok || trimString(s) != want {
		return fmt.Errorf("%w: XTENSION must be '%s'", ErrInvalidHeader, want)
	}
	return nil
}

func (cs Cards) requireIntAt(index int, keyword string, want int64) error {
	c, err := cs.requireAt(index, keyword)
	if err != nil {
		return err
	}
	if v, ok := c.Value.(Integer); !ok || int64(v) != want {
		return fmt.Errorf("%w: %s must be %d", ErrInvalidHeader, keyword, want)
	}
	return nil
}

func (cs Cards) requirePresent(keywords ...string) error {
	for _, kw := range keywords {
		if _, ok := cs.Find(kw); !ok {
			return fmt.Errorf("%w: %s", ErrMissingKeyword, kw)
		}
	}
	return nil
}
