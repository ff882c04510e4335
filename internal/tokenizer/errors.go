package tokenizer

import (
	"fmt"
	"strings"
)

// ExpectedTokenError is returned by Expect and ExpectExact when the
// consumed token does not match. The tokenizer has advanced past the
// consumed token either way.
type ExpectedTokenError struct {
	Expected Token
	Actual   Token
	Location Location
}

func (e *ExpectedTokenError) Error() string {
	return fmt.Sprintf("tokenizer: expected %s, got %s at %s", e.Expected, e.Actual, e.Location)
}

// ExpectedStringError is returned by SkipString when the source at the
// current position does not start with the expected string. Actual
// holds at most len(Expected) bytes of the remaining source.
type ExpectedStringError struct {
	Expected string
	Actual   string
	Location Location
}

func (e *ExpectedStringError) Error() string {
	return fmt.Sprintf("tokenizer: expected %q, got %q at %s", e.Expected, e.Actual, e.Location)
}

// ExpectedEndMarkerError is returned by ReadStringUntil when none of
// the end markers occur before the end of the source.
type ExpectedEndMarkerError struct {
	Markers  []string
	Location Location
}

func (e *ExpectedEndMarkerError) Error() string {
	quoted := make([]string, len(e.Markers))
	for i, m := range e.Markers {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	return fmt.Sprintf("tokenizer: expected one of %s before end of source at %s",
		strings.Join(quoted, ", "), e.Location)
}

// LexError reports input the lexer cannot tokenize: a lone CR, an
// unterminated string, a malformed number, or an unknown lead byte.
// Snippet holds at most 64 bytes of source starting at the offending
// position.
type LexError struct {
	Msg      string
	Snippet  string
	Location Location
}

func (e *LexError) Error() string {
	return fmt.Sprintf("tokenizer: %s at %s: %q", e.Msg, e.Location, e.Snippet)
}
