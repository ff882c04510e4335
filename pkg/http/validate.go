package http

import (
	"bytes"
	"io"
)

// Validate checks that input is a syntactically valid HTTP/1.1 message:
// a well-formed start line, a header block terminated by a bare CRLF,
// and the structural invariants (request path starting with '/',
// status in [100, 599]). Returns nil if valid, or the typed parse
// error identifying the problem.
func Validate(input string) error {
	data := []byte(input)
	if DetectMessageType(data) == "response" {
		_, err := UnmarshalResponse(data)
		return err
	}
	_, err := UnmarshalRequest(data)
	return err
}

// ValidateReader reads all data from r and validates it as an HTTP/1.1
// message. See Validate for the validation semantics.
func ValidateReader(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	return Validate(buf.String())
}
