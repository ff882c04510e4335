package parser

// String interning for common HTTP tokens. Parsed substrings share the
// input's backing array; returning the canonical constant instead lets
// the input buffer be collected after parsing.

var methods = map[string]string{
	"GET": "GET", "POST": "POST",
}

var protocols = map[string]string{
	"HTTP/1.0": "HTTP/1.0", "HTTP/1.1": "HTTP/1.1",
}

var headerNames = map[string]string{
	"Accept":                 "Accept",
	"Accept-Encoding":        "Accept-Encoding",
	"Cache-Control":          "Cache-Control",
	"Connection":             "Connection",
	"Content-Length":         "Content-Length",
	"Content-Type":           "Content-Type",
	"Date":                   "Date",
	"ETag":                   "ETag",
	"Host":                   "Host",
	"If-None-Match":          "If-None-Match",
	"Origin":                 "Origin",
	"Sec-WebSocket-Accept":   "Sec-WebSocket-Accept",
	"Sec-WebSocket-Key":      "Sec-WebSocket-Key",
	"Sec-WebSocket-Protocol": "Sec-WebSocket-Protocol",
	"Sec-WebSocket-Version":  "Sec-WebSocket-Version",
	"Server":                 "Server",
	"Upgrade":                "Upgrade",
	"User-Agent":             "User-Agent",
}

func internMethod(s string) string {
	if m, ok := methods[s]; ok {
		return m
	}
	return s
}

func internProtocol(s string) string {
	if p, ok := protocols[s]; ok {
		return p
	}
	return s
}

func internHeaderName(s string) string {
	if n, ok := headerNames[s]; ok {
		return n
	}
	return s
}
