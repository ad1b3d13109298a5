package header

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/block"
)

var endKeyword = []byte("END     ")

// ParseBlocks parses cards from consecutive 2880-byte blocks up to and
// including the END card. Trailing bytes shorter than a block are ignored.
// String values ending in '&' absorb the CONTINUE cards that follow them.
func ParseBlocks(data []byte) (Cards, error) {
	if len(data) < block.Size {
		return nil, fmt.Errorf("header: %w", io.ErrUnexpectedEOF)
	}

	var cards Cards
	limit := len(data) / block.Size * block.Size
	for off := 0; off < limit; off += block.CardSize {
		card, err := ParseCard(data[off : off+block.CardSize])
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", off/block.CardSize, err)
		}
		cards = append(cards, card)
		if card.IsEnd() {
			return mergeContinue(cards), nil
		}
	}
	return nil, fmt.Errorf("header: no END card: %w", io.ErrUnexpectedEOF)
}

// ByteLen returns the length of the header at the start of data, rounded to
// whole blocks, by locating the END keyword without parsing values.
func ByteLen(data []byte) (int, error) {
	if len(data) < block.Size {
		return 0, fmt.Errorf("header: %w", io.ErrUnexpectedEOF)
	}
	limit := len(data) / block.Size * block.Size
	for off := 0; off < limit; off += block.CardSize {
		if bytes.Equal(data[off:off+KeywordSize], endKeyword) {
			return (off/block.Size + 1) * block.Size, nil
		}
	}
	return 0, fmt.Errorf("header: no END card: %w", io.ErrUnexpectedEOF)
}

func mergeContinue(cards Cards) Cards {
	for i := 0; i < len(cards); i++ {
		s, ok := cards[i].Value.(String)
		if !ok || !strings.HasSuffix(string(s), "&") {
			continue
		}

		var sb strings.Builder
		sb.WriteString(strings.TrimSuffix(string(s), "&"))

		j := i + 1
		for j < len(cards) && cards[j].Keyword == "CONTINUE" {
			piece := continueString(cards[j])
			j++
			if !strings.HasSuffix(piece, "&") {
				sb.WriteString(piece)
				break
			}
			sb.WriteString(strings.TrimSuffix(piece, "&"))
		}

		cards[i].Value = String(sb.String())
		cards = append(cards[:i+1], cards[j:]...)
	}
	return cards
}

// continueString extracts the string carried by a CONTINUE card, either as a
// parsed value or as quoted free text after the keyword.
func continueString(c Card) string {
	if s, ok := c.Value.(String); ok {
		return string(s)
	}
	text := strings.TrimLeft(c.Comment, " ")
	if strings.HasPrefix(text, "'") {
		s, _ := parseQuoted([]byte(text))
		return s
	}
	return text
}

// Serialize validates the mandatory keywords for the HDU kind the cards
// describe, then renders them followed by END, padded with spaces to a
// block boundary. END cards in the input are not written twice.
func Serialize(cards []Card) ([]byte, error) {
	if kind, ok := DetectKind(cards); ok {
		if err := Validate(kind, cards); err != nil {
			return nil, err
		}
	}

	cards = splitLongStrings(cards)

	n := 0
	for _, c := range cards {
		if !c.IsEnd() {
			n++
		}
	}
	buf := make([]byte, block.PaddedLen((n+1)*block.CardSize))
	for i := range buf {
		buf[i] = block.HeaderPad
	}

	off := 0
	for _, c := range cards {
		if c.IsEnd() {
			continue
		}
		img := FormatCard(c)
		copy(buf[off:], img[:])
		off += block.CardSize
	}
	end := EndCard()
	copy(buf[off:], end[:])
	return buf, nil
}

// maxStringField is the number of escaped string bytes that fit between the
// quotes of one card.
const maxStringField = ValueFieldSize - 2

// splitLongStrings rewrites string values too long for one card as an
// '&'-terminated head followed by CONTINUE cards.
func splitLongStrings(cards []Card) []Card {
	var out []Card
	for i, c := range cards {
		s, ok := c.Value.(String)
		if !ok || c.Keyword == "CONTINUE" || escapedLen(string(s)) <= maxStringField {
			if out != nil {
				out = append(out, c)
			}
			continue
		}
		if out == nil {
			out = append(make([]Card, 0, len(cards)+4), cards[:i]...)
		}

		head := maxStringField - 1
		if c.Comment != "" && head-len(c.Comment)-3 >= 8 {
			head -= len(c.Comment) + 3
		}
		first, rest := splitEscaped(string(s), head)
		out = append(out, Card{Keyword: c.Keyword, Value: String(first + "&"), Comment: c.Comment})
		for rest != "" {
			var piece string
			if escapedLen(rest) <= maxStringField {
				piece, rest = rest, ""
			} else {
				piece, rest = splitEscaped(rest, maxStringField-1)
				piece += "&"
			}
			out = append(out, Card{Keyword: "CONTINUE", Comment: "  '" + strings.ReplaceAll(piece, "'", "''") + "'"})
		}
	}
	if out == nil {
		return cards
	}
	return out
}

// escapedLen is the length of s with quotes doubled.
func escapedLen(s string) int {
	return len(s) + strings.Count(s, "'")
}

// splitEscaped returns the longest prefix of s whose escaped form fits in
// width bytes, and the remainder.
func splitEscaped(s string, width int) (string, string) {
	n := 0
	for i := 0; i < len(s); i++ {
		w := 1
		if s[i] == '\'' {
			w = 2
		}
		if n+w > width {
			return s[:i], s[i:]
		}
		n += w
	}
	return s, ""
}
