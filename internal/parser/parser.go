// Package parser implements an HTTP/1.1 message parser on top of the
// character tokenizer. It parses request lines, status lines and header
// blocks (including obsolete line folding) into structured values, and
// reports failures as typed errors carrying source locations.
package parser

import (
	"strconv"
	"strings"

	"github.com/shapestone/shape-ws/internal/tokenizer"
)

// Request is a parsed HTTP/1.1 request. Path is guaranteed non-empty
// and starting with '/'.
type Request struct {
	Method  string
	Path    string
	Proto   string
	Headers Headers
}

// Response is a parsed HTTP/1.1 response. Status is guaranteed to be
// in [100, 599]. Body is the raw remainder of the input after the
// header block; it aliases the input buffer.
type Response struct {
	Proto   string
	Status  int
	Reason  string
	Headers Headers
	Body    []byte
}

// ParseRequest parses "<METHOD> <path> <protocol>\r\n" followed by a
// header block. Only GET is accepted as a method; anything else
// produces a *tokenizer.ExpectedTokenError naming GET as expected.
func ParseRequest(data []byte) (*Request, error) {
	tok := tokenizer.New(string(data), "request")

	method, err := tok.ExpectExact(tokenizer.Token{Kind: tokenizer.KindUpperSymbol, Str: "GET"})
	if err != nil {
		return nil, err
	}
	if _, err := tok.Expect(tokenizer.KindSpace); err != nil {
		return nil, err
	}

	path, err := tok.ReadStringUntil(" ")
	if err != nil {
		return nil, err
	}
	if path == "" || path[0] != '/' {
		return nil, &InvalidPathError{Path: path}
	}
	if err := tok.SkipString(" "); err != nil {
		return nil, err
	}

	proto, err := tok.ReadStringUntil("\r\n")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(proto, "HTTP/") {
		return nil, &InvalidProtocolError{Protocol: proto}
	}
	if err := tok.SkipString("\r\n"); err != nil {
		return nil, err
	}

	headers, _, err := ParseHeaders(data[tok.Pos():])
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:  internMethod(method.Token.Str),
		Path:    path,
		Proto:   internProtocol(proto),
		Headers: headers,
	}, nil
}

// ParseResponse parses "<protocol> <status> <message>\r\n" followed by
// a header block; the remaining input is the body. The reason phrase
// may be absent ("HTTP/1.1 200\r\n").
func ParseResponse(data []byte) (*Response, error) {
	tok := tokenizer.New(string(data), "response")

	proto, err := tok.ReadStringUntil(" ")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(proto, "HTTP/") {
		return nil, &InvalidProtocolError{Protocol: proto}
	}
	if err := tok.SkipString(" "); err != nil {
		return nil, err
	}

	statusText, err := tok.ReadStringUntil(" ", "\r\n")
	if err != nil {
		return nil, err
	}
	status, convErr := strconv.Atoi(statusText)
	if convErr != nil || status < 100 || status > 599 {
		return nil, &InvalidStatusError{Status: statusText}
	}

	reason := ""
	if tok.SkipString(" ") == nil {
		reason, err = tok.ReadStringUntil("\r\n")
		if err != nil {
			return nil, err
		}
	}
	if err := tok.SkipString("\r\n"); err != nil {
		return nil, err
	}

	headers, consumed, err := ParseHeaders(data[tok.Pos():])
	if err != nil {
		return nil, err
	}
	body := data[tok.Pos()+consumed:]

	return &Response{
		Proto:   internProtocol(proto),
		Status:  status,
		Reason:  reason,
		Headers: headers,
		Body:    body,
	}, nil
}
