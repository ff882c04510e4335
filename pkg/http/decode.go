package http

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Decoder reads HTTP messages from an input stream in HTTP/1.1 wire
// format. A single Decoder is not safe for concurrent use; create one
// per goroutine or serialize access externally.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads the next HTTP message and stores it in v.
// v must be a *Request or *Response.
func (dec *Decoder) Decode(v interface{}) error {
	prefix, err := dec.r.Peek(5)
	if err != nil {
		return fmt.Errorf("http: decode: %w", err)
	}

	isResponse := bytes.HasPrefix(prefix, []byte("HTTP/"))

	switch target := v.(type) {
	case *Request:
		if isResponse {
			return fmt.Errorf("http: data appears to be a response but target is *Request")
		}
		req, err := dec.DecodeRequest()
		if err != nil {
			return err
		}
		*target = *req
		return nil
	case *Response:
		if !isResponse {
			return fmt.Errorf("http: data appears to be a request but target is *Response")
		}
		resp, err := dec.DecodeResponse()
		if err != nil {
			return err
		}
		*target = *resp
		return nil
	default:
		return fmt.Errorf("http: Decode unsupported type %T", v)
	}
}

// DecodeRequest reads the next HTTP request from the stream.
func (dec *Decoder) DecodeRequest() (*Request, error) {
	head, err := dec.readHead()
	if err != nil {
		return nil, err
	}
	return UnmarshalRequest(head)
}

// DecodeResponse reads the next HTTP response from the stream. When
// the headers carry a Content-Length, that many body bytes are read
// from the stream; without one the body is empty.
func (dec *Decoder) DecodeResponse() (*Response, error) {
	head, err := dec.readHead()
	if err != nil {
		return nil, err
	}
	resp, err := UnmarshalResponse(head)
	if err != nil {
		return nil, err
	}
	if n := resp.Headers.ContentLength(); n > 0 {
		body := make([]byte, n)
		if _, err := io.ReadFull(dec.r, body); err != nil {
			return nil, fmt.Errorf("http: decode response body: %w", err)
		}
		resp.Body = body
	}
	return resp, nil
}

// readHead reads lines up to and including the blank CRLF line that
// terminates the header block.
func (dec *Decoder) readHead() ([]byte, error) {
	var head []byte
	for {
		line, err := dec.r.ReadBytes('\n')
		head = append(head, line...)
		if err != nil {
			return nil, fmt.Errorf("http: decode: %w", err)
		}
		if bytes.Equal(line, []byte("\r\n")) && len(head) > 2 {
			return head, nil
		}
	}
}
