package parser

import (
	"strings"

	"github.com/shapestone/shape-ws/internal/tokenizer"
)

// MaxHeadersLength caps the byte length of a header block.
const MaxHeadersLength = 64 * 1024

// Headers maps header names to values. Names keep the exact case they
// arrived with; when a name repeats, the last value wins. A value that
// arrived folded across physical lines holds a single '\n' between the
// folded parts.
type Headers map[string]string

// ParseHeaders consumes header lines until a bare CRLF and returns the
// parsed headers together with the number of bytes consumed, including
// the terminating CRLF.
//
// Grammar:
//
//	headers := (header)* CRLF
//	header  := name ":" OWS value CRLF (fold)*
//	fold    := (SP | HT)+ value CRLF
//
// A fold continues the previous value; the folded parts are joined
// with a single '\n'. Optional whitespace after the colon is skipped;
// an empty value is permitted.
func ParseHeaders(data []byte) (Headers, int, error) {
	if len(data) > MaxHeadersLength {
		return nil, 0, &HeadersTooLongError{Length: len(data)}
	}

	tok := tokenizer.New(string(data), "headers")
	headers := make(Headers, 8)

	for {
		next, err := tok.Peek()
		if err != nil {
			return nil, 0, err
		}
		if next.Kind == tokenizer.KindEOF {
			return nil, 0, &ExpectedHeaderEndMarkerError{Data: remaining(tok, data)}
		}
		if next.Kind == tokenizer.KindNewline {
			if err := tok.SkipString("\r\n"); err != nil {
				return nil, 0, &ExpectedHeaderEndMarkerError{Data: remaining(tok, data)}
			}
			return headers, tok.Pos(), nil
		}

		name, err := tok.ReadStringUntil(":")
		if err != nil {
			return nil, 0, &ExpectedHeaderNameEndError{Data: remaining(tok, data)}
		}
		if err := tok.SkipString(":"); err != nil {
			return nil, 0, err
		}
		tok.SkipAnyOf(tokenizer.KindSpace, tokenizer.KindTab)

		value, err := readHeaderValue(tok, name, data)
		if err != nil {
			return nil, 0, err
		}
		headers[internHeaderName(name)] = value
	}
}

// readHeaderValue reads a value up to CRLF and absorbs any fold lines
// that follow it.
func readHeaderValue(tok *tokenizer.Tokenizer, name string, data []byte) (string, error) {
	part, err := tok.ReadStringUntil("\r\n")
	if err != nil {
		return "", &ExpectedHeaderValueEndError{Name: name, Data: remaining(tok, data)}
	}
	if err := tok.SkipString("\r\n"); err != nil {
		return "", err
	}

	var folded strings.Builder
	folded.WriteString(part)
	for {
		next, err := tok.Peek()
		if err != nil {
			return "", err
		}
		if next.Kind != tokenizer.KindSpace && next.Kind != tokenizer.KindTab {
			return folded.String(), nil
		}
		tok.SkipAnyOf(tokenizer.KindSpace, tokenizer.KindTab)
		part, err = tok.ReadStringUntil("\r\n")
		if err != nil {
			return "", &ExpectedHeaderValueEndError{Name: name, Data: remaining(tok, data)}
		}
		if err := tok.SkipString("\r\n"); err != nil {
			return "", err
		}
		folded.WriteByte('\n')
		folded.WriteString(part)
	}
}

func remaining(tok *tokenizer.Tokenizer, data []byte) string {
	return string(data[tok.Pos():])
}
