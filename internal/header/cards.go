package header

import (
	"fmt"
	"strings"
)

// Cards is an ordered header card sequence with keyword lookups.
// Lookups return the first card carrying the keyword.
type Cards []Card

// Find returns the first card with the given keyword.
func (cs Cards) Find(keyword string) (Card, bool) {
	for _, c := range cs {
		if c.Keyword == keyword {
			return c, true
		}
	}
	return Card{}, false
}

// Int returns the value of an integer-valued keyword.
func (cs Cards) Int(keyword string) (int64, bool) {
	c, ok := cs.Find(keyword)
	if !ok {
		return 0, false
	}
	v, ok := c.Value.(Integer)
	return int64(v), ok
}

// Float returns the value of a real- or integer-valued keyword.
func (cs Cards) Float(keyword string) (float64, bool) {
	c, ok := cs.Find(keyword)
	if !ok {
		return 0, false
	}
	switch v := c.Value.(type) {
	case Float:
		return float64(v), true
	case Integer:
		return float64(v), true
	}
	return 0, false
}

// Text returns the value of a string-valued keyword with surrounding
// spaces removed.
func (cs Cards) Text(keyword string) (string, bool) {
	c, ok := cs.Find(keyword)
	if !ok {
		return "", false
	}
	v, ok := c.Value.(String)
	return trimString(v), ok
}

// Bool returns the value of a logical keyword.
func (cs Cards) Bool(keyword string) (bool, bool) {
	c, ok := cs.Find(keyword)
	if !ok {
		return false, false
	}
	v, ok := c.Value.(Logical)
	return bool(v), ok
}

// RequireInt returns the integer value of keyword, or ErrMissingKeyword
// when it is absent or not an integer.
func (cs Cards) RequireInt(keyword string) (int64, error) {
	v, ok := cs.Int(keyword)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingKeyword, keyword)
	}
	return v, nil
}

// RequireCount is RequireInt for sizes and counts; negative values are
// rejected with ErrInvalidValue.
func (cs Cards) RequireCount(keyword string) (int, error) {
	v, err := cs.RequireInt(keyword)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s = %d", ErrInvalidValue, keyword, v)
	}
	return int(v), nil
}

// Without returns a copy of cs with every card named in keywords removed.
func (cs Cards) Without(keywords ...string) Cards {
	out := make(Cards, 0, len(cs))
next:
	for _, c := range cs {
		for _, kw := range keywords {
			if c.Keyword == kw {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

func trimString(s String) string {
	return strings.TrimSpace(string(s))
}
