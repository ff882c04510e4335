package websocket

import (
	"net"
	"strings"

	"github.com/shapestone/shape-ws/pkg/http"
)

// Dial connects to a WebSocket endpoint given as [scheme://]host[/path],
// performs the client-side upgrade and verifies the server's accept
// value. Caller-supplied headers are sent with the upgrade request; a
// caller-provided Host header is preserved. The returned session is a
// client-side session, which masks the fragments it builds itself.
func Dial(url string, extra http.Headers) (*Session, error) {
	req, key, err := BuildUpgradeRequest(url, extra)
	if err != nil {
		return nil, err
	}

	conn, err := net.Dial("tcp", withDefaultPort(http.HostFromURL(url)))
	if err != nil {
		return nil, err
	}

	if err := http.NewEncoder(conn).Encode(req); err != nil {
		conn.Close()
		return nil, err
	}
	resp, err := http.NewDecoder(conn).DecodeResponse()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if resp.StatusCode != 101 {
		conn.Close()
		return nil, ErrNotSwitching
	}
	if !VerifyAccept(key, resp.Headers.Get("Sec-WebSocket-Accept")) {
		conn.Close()
		return nil, ErrAcceptMismatch
	}

	return NewSession(conn, true), nil
}

// withDefaultPort appends ":80" when host carries no port.
func withDefaultPort(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return host + ":80"
}
