package header

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/block"
)

// KeywordSize is the width of the keyword slot at the start of a card.
const KeywordSize = 8

// Card is one parsed 80-byte header record.
type Card struct {
	// Keyword is the card name without trailing spaces.
	Keyword string

	// Value is nil when the card has no value indicator or the field
	// could not be parsed.
	Value Value

	// Comment holds the text after " /" for valued cards, or the free
	// text of commentary cards. Empty when absent.
	Comment string
}

// NewCard creates a valued card.
func NewCard(keyword string, value Value, comment string) Card {
	return Card{Keyword: keyword, Value: value, Comment: comment}
}

// IsEnd reports whether c is the END card.
func (c Card) IsEnd() bool {
	return c.Keyword == "END"
}

// IsBlank reports whether the keyword slot is all spaces.
func (c Card) IsBlank() bool {
	return c.Keyword == ""
}

// IsCommentary reports whether c is a COMMENT, HISTORY or blank card.
func (c Card) IsCommentary() bool {
	return c.Keyword == "COMMENT" || c.Keyword == "HISTORY" || c.IsBlank()
}

func validKeywordByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == ' ' || b == '-' || b == '_'
}

// ParseCard decodes one 80-byte card.
func ParseCard(raw []byte) (Card, error) {
	if len(raw) != block.CardSize {
		return Card{}, fmt.Errorf("%w: card is %d bytes", ErrInvalidHeader, len(raw))
	}

	for _, b := range raw[:KeywordSize] {
		if !validKeywordByte(b) {
			return Card{}, fmt.Errorf("%w: %q", ErrInvalidKeyword, raw[:KeywordSize])
		}
	}

	card := Card{Keyword: strings.TrimRight(string(raw[:KeywordSize]), " ")}
	if card.IsEnd() {
		return card, nil
	}

	text := raw[KeywordSize:]
	if !card.IsCommentary() && raw[8] == '=' && raw[9] == ' ' {
		field := raw[10:]
		if v, comment, ok := ParseValue(field); ok {
			card.Value = v
			card.Comment = comment
			return card, nil
		}
		card.Comment = commentOfEmptyValue(field)
		return card, nil
	}

	card.Comment = strings.TrimRight(string(text), " ")
	return card, nil
}

// commentOfEmptyValue extracts the comment from a value field that holds
// no parsable value, such as "          / undefined".
func commentOfEmptyValue(field []byte) string {
	idx := bytes.Index(field, []byte(" /"))
	if idx < 0 {
		return ""
	}
	return commentAfter(field[idx+2:])
}

// FormatCard renders c as an 80-byte card image.
func FormatCard(c Card) [block.CardSize]byte {
	var buf [block.CardSize]byte
	for i := range buf {
		buf[i] = ' '
	}

	kw := c.Keyword
	if len(kw) > KeywordSize {
		kw = kw[:KeywordSize]
	}
	copy(buf[:KeywordSize], kw)

	if c.Value != nil {
		buf[8] = '='
		buf[9] = ' '
		field := FormatValue(c.Value)
		if c.Comment != "" {
			insertComment(&field, c.Comment)
		}
		copy(buf[10:], field[:])
		return buf
	}

	comment := c.Comment
	if len(comment) > block.CardSize-KeywordSize {
		comment = comment[:block.CardSize-KeywordSize]
	}
	copy(buf[KeywordSize:], comment)
	return buf
}

// insertComment writes "/ comment" one byte after the value content, which
// ends at byte 20 for fixed-format values or after the closing quote.
// The comment is dropped when fewer than three bytes remain.
func insertComment(field *[ValueFieldSize]byte, comment string) {
	contentEnd := 20
	if end := bytes.LastIndexFunc(field[:], func(r rune) bool { return r != ' ' }) + 1; end > contentEnd {
		contentEnd = end
	}
	if field[0] == '\'' {
		i := 1
		for i < ValueFieldSize {
			if field[i] == '\'' {
				if i+1 < ValueFieldSize && field[i+1] == '\'' {
					i += 2
					continue
				}
				i++
				break
			}
			i++
		}
		contentEnd = i
	}

	sep := contentEnd + 1
	if sep+3 >= ValueFieldSize {
		return
	}
	field[sep] = '/'
	field[sep+1] = ' '
	copy(field[sep+2:], comment)
}

// EndCard returns the END card image.
func EndCard() [block.CardSize]byte {
	return FormatCard(Card{Keyword: "END"})
}
