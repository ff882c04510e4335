package http

import (
	"strings"
	"testing"
)

func TestMarshal_Request(t *testing.T) {
	req := &Request{
		Method: MethodGet,
		Path:   "/index.html",
		Proto:  ProtoHTTP11,
		Headers: Headers{
			"Host": "example.com",
		},
	}
	data, err := Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := "GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"
	if string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}

func TestMarshal_RequestDefaultsMethodAndProto(t *testing.T) {
	data, err := Marshal(&Request{Path: "/"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "GET / HTTP/1.1\r\n") {
		t.Errorf("Marshal() = %q, want GET / HTTP/1.1 start line", data)
	}
}

func TestMarshal_RequestInvalidPath(t *testing.T) {
	_, err := Marshal(&Request{Method: MethodGet, Path: "index.html"})
	if err == nil {
		t.Fatal("Marshal() error = nil, want invalid path error")
	}
}

func TestMarshal_Response(t *testing.T) {
	resp := &Response{
		Proto:      ProtoHTTP11,
		StatusCode: 200,
		Reason:     "OK",
		Headers:    Headers{"Content-Type": "text/html"},
		Body:       []byte("<p>hi</p>"),
	}
	data, err := Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nContent-Length: 9\r\nContent-Type: text/html\r\n\r\n<p>hi</p>"
	if string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}

func TestMarshal_ResponseKeepsExplicitContentLength(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Reason:     "OK",
		Headers:    Headers{"Content-Length": "4"},
		Body:       []byte("data"),
	}
	data, err := Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Count(string(data), "Content-Length") != 1 {
		t.Errorf("Marshal() = %q, want a single Content-Length header", data)
	}
}

func TestMarshal_ResponseInvalidStatus(t *testing.T) {
	_, err := Marshal(&Response{StatusCode: 42})
	if err == nil {
		t.Fatal("Marshal() error = nil, want invalid status error")
	}
}

func TestMarshal_UnsupportedType(t *testing.T) {
	_, err := Marshal("not a message")
	if err == nil {
		t.Fatal("Marshal() error = nil, want unsupported type error")
	}
}

func TestSerializeHeaders_SortedAndTerminated(t *testing.T) {
	h := Headers{"B": "2", "A": "1"}
	got := string(SerializeHeaders(h))
	want := "A: 1\r\nB: 2\r\n\r\n"
	if got != want {
		t.Errorf("SerializeHeaders() = %q, want %q", got, want)
	}
}

func TestSerializeHeaders_Empty(t *testing.T) {
	if got := string(SerializeHeaders(nil)); got != "\r\n" {
		t.Errorf("SerializeHeaders(nil) = %q, want CRLF", got)
	}
}
