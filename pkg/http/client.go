package http

import (
	"net"
	"strings"
	"time"
)

// DefaultClientTimeout bounds dialing and the whole exchange for the
// default client.
const DefaultClientTimeout = 30 * time.Second

// DefaultClient is the client used by Get.
var DefaultClient = &Client{Timeout: DefaultClientTimeout}

// Client is a minimal HTTP/1.1 client over plain TCP: one connection,
// one request, one response.
type Client struct {
	Timeout time.Duration
}

// Get sends a GET request for the given URL ([scheme://]host[/path])
// and returns the parsed response. Caller-supplied headers are sent as
// given; a Host header is added from the URL unless the caller already
// set one.
func (c *Client) Get(url string, headers Headers) (*Response, error) {
	host := HostFromURL(url)
	if headers == nil {
		headers = make(Headers, 1)
	} else {
		headers = headers.Clone()
	}
	if !headers.Has("Host") {
		headers.Set("Host", host)
	}
	req := &Request{
		Method:  MethodGet,
		Path:    PathFromURL(url),
		Proto:   ProtoHTTP11,
		Headers: headers,
	}

	conn, err := net.DialTimeout("tcp", withDefaultPort(host), c.Timeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if c.Timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.Timeout))
	}

	if err := NewEncoder(conn).Encode(req); err != nil {
		return nil, err
	}
	return NewDecoder(conn).DecodeResponse()
}

// Get sends a GET request using the default client.
func Get(url string) (*Response, error) {
	return DefaultClient.Get(url, nil)
}

// withDefaultPort appends ":80" when host carries no port.
func withDefaultPort(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return host + ":80"
}
