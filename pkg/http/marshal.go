package http

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// bufPool pools []byte slices for the marshal fast path.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// Marshal returns the HTTP/1.1 wire-format encoding of v.
//
// v must be a *Request or *Response. For responses with a body,
// Content-Length is set automatically when absent. Headers are written
// in sorted name order so the output is deterministic; a value that
// holds fold newlines is written back as folded continuation lines.
func Marshal(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("http: Marshal(nil)")
	}

	if m, ok := v.(Marshaler); ok {
		return m.MarshalHTTP()
	}

	bp := bufPool.Get().(*[]byte)
	buf := (*bp)[:0]

	var err error
	switch msg := v.(type) {
	case *Request:
		buf, err = appendRequest(buf, msg)
	case *Response:
		buf, err = appendResponse(buf, msg)
	default:
		*bp = buf
		bufPool.Put(bp)
		return nil, fmt.Errorf("http: Marshal unsupported type %T (expected *Request or *Response)", v)
	}

	if err != nil {
		*bp = buf
		bufPool.Put(bp)
		return nil, err
	}

	result := make([]byte, len(buf))
	copy(result, buf)
	*bp = buf
	bufPool.Put(bp)
	return result, nil
}

// SerializeHeaders returns the wire form of the headers: one
// "name: value\r\n" line per entry in sorted name order, terminated by
// a bare CRLF. Values containing '\n' are folded back into obsolete
// continuation lines.
func SerializeHeaders(h Headers) []byte {
	return appendHeaders(nil, h)
}

func appendRequest(buf []byte, req *Request) ([]byte, error) {
	if req.Path == "" || req.Path[0] != '/' {
		return buf, &InvalidPathError{Path: req.Path}
	}
	method := req.Method
	if method == "" {
		method = MethodGet
	}
	proto := req.Proto
	if proto == "" {
		proto = ProtoHTTP11
	}

	buf = append(buf, method...)
	buf = append(buf, ' ')
	buf = append(buf, req.Path...)
	buf = append(buf, ' ')
	buf = append(buf, proto...)
	buf = append(buf, '\r', '\n')
	buf = appendHeaders(buf, req.Headers)
	return buf, nil
}

func appendResponse(buf []byte, resp *Response) ([]byte, error) {
	if resp.StatusCode < 100 || resp.StatusCode > 599 {
		return buf, &InvalidStatusError{Status: strconv.Itoa(resp.StatusCode)}
	}
	proto := resp.Proto
	if proto == "" {
		proto = ProtoHTTP11
	}

	buf = append(buf, proto...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(resp.StatusCode), 10)
	buf = append(buf, ' ')
	buf = append(buf, resp.Reason...)
	buf = append(buf, '\r', '\n')

	headers := resp.Headers
	if len(resp.Body) > 0 && !headers.Has("Content-Length") {
		headers = headers.Clone()
		if headers == nil {
			headers = make(Headers, 1)
		}
		headers["Content-Length"] = strconv.Itoa(len(resp.Body))
	}
	buf = appendHeaders(buf, headers)
	buf = append(buf, resp.Body...)
	return buf, nil
}

func appendHeaders(buf []byte, h Headers) []byte {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		buf = append(buf, name...)
		buf = append(buf, ':', ' ')
		buf = appendHeaderValue(buf, h[name])
		buf = append(buf, '\r', '\n')
	}
	return append(buf, '\r', '\n')
}

// appendHeaderValue writes a header value, turning each '\n' a parsed
// fold left behind into "\r\n " so the value round-trips through
// ParseHeaders.
func appendHeaderValue(buf []byte, value string) []byte {
	for i := 0; i < len(value); i++ {
		if value[i] == '\n' {
			buf = append(buf, '\r', '\n', ' ')
			continue
		}
		buf = append(buf, value[i])
	}
	return buf
}
