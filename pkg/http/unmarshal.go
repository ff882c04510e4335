package http

import (
	"bytes"
	"fmt"

	"github.com/shapestone/shape-ws/internal/parser"
)

// Unmarshal parses the HTTP wire-format data and stores the result in
// v.
//
// v must be a *Request or *Response. The function auto-detects the
// message type based on whether data starts with "HTTP/" (response) or
// not (request).
func Unmarshal(data []byte, v interface{}) error {
	if v == nil {
		return fmt.Errorf("http: Unmarshal(nil)")
	}

	if u, ok := v.(Unmarshaler); ok {
		return u.UnmarshalHTTP(data)
	}

	isResp := bytes.HasPrefix(data, []byte("HTTP/"))

	switch target := v.(type) {
	case *Request:
		if isResp {
			return fmt.Errorf("http: data appears to be a response but target is *Request")
		}
		return unmarshalRequest(data, target)

	case *Response:
		if !isResp {
			return fmt.Errorf("http: data appears to be a request but target is *Response")
		}
		return unmarshalResponse(data, target)

	default:
		return fmt.Errorf("http: Unmarshal unsupported type %T (expected *Request or *Response)", v)
	}
}

// UnmarshalRequest parses HTTP wire-format data as a request.
func UnmarshalRequest(data []byte) (*Request, error) {
	req := &Request{}
	if err := unmarshalRequest(data, req); err != nil {
		return nil, err
	}
	return req, nil
}

// UnmarshalResponse parses HTTP wire-format data as a response.
func UnmarshalResponse(data []byte) (*Response, error) {
	resp := &Response{}
	if err := unmarshalResponse(data, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ParseHeaders parses a header block and returns the headers together
// with the number of bytes consumed, including the terminating CRLF.
func ParseHeaders(data []byte) (Headers, int, error) {
	headers, consumed, err := parser.ParseHeaders(data)
	if err != nil {
		return nil, 0, err
	}
	return Headers(headers), consumed, nil
}

// DetectMessageType returns "request" or "response" based on the data
// prefix. Data starting with "HTTP/" is detected as a response;
// everything else as a request.
func DetectMessageType(data []byte) string {
	if bytes.HasPrefix(data, []byte("HTTP/")) {
		return "response"
	}
	return "request"
}

func unmarshalRequest(data []byte, target *Request) error {
	req, err := parser.ParseRequest(data)
	if err != nil {
		return err
	}
	target.Method = req.Method
	target.Path = req.Path
	target.Proto = req.Proto
	target.Headers = Headers(req.Headers)
	return nil
}

func unmarshalResponse(data []byte, target *Response) error {
	resp, err := parser.ParseResponse(data)
	if err != nil {
		return err
	}
	target.Proto = resp.Proto
	target.StatusCode = resp.Status
	target.Reason = resp.Reason
	target.Headers = Headers(resp.Headers)
	target.Body = resp.Body
	return nil
}
