package http

import (
	"github.com/shapestone/shape-ws/internal/parser"
	"github.com/shapestone/shape-ws/internal/tokenizer"
)

// MaxHeadersLength caps the byte length of a header block.
const MaxHeadersLength = parser.MaxHeadersLength

// Parse error types, surfaced from the underlying parser so callers
// can match them with errors.As.
type (
	// HeadersTooLongError reports a header block over MaxHeadersLength.
	HeadersTooLongError = parser.HeadersTooLongError
	// ExpectedHeaderNameEndError reports a header name missing its colon.
	ExpectedHeaderNameEndError = parser.ExpectedHeaderNameEndError
	// ExpectedHeaderValueEndError reports a header value missing its CRLF.
	ExpectedHeaderValueEndError = parser.ExpectedHeaderValueEndError
	// ExpectedHeaderEndMarkerError reports a header block missing the bare CRLF.
	ExpectedHeaderEndMarkerError = parser.ExpectedHeaderEndMarkerError
	// InvalidProtocolError reports a protocol field not starting with "HTTP/".
	InvalidProtocolError = parser.InvalidProtocolError
	// InvalidStatusError reports a status field outside [100, 599].
	InvalidStatusError = parser.InvalidStatusError
	// InvalidPathError reports a request path not starting with '/'.
	InvalidPathError = parser.InvalidPathError
	// ExpectedTokenError reports a token of the wrong shape or value.
	ExpectedTokenError = tokenizer.ExpectedTokenError
	// Location is a position in the parsed source.
	Location = tokenizer.Location
)
