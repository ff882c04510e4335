package server

import (
	"bytes"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/shapestone/shape-ws/pkg/http"
	"github.com/shapestone/shape-ws/pkg/websocket"
)

const (
	// readChunkSize is the size of one socket read.
	readChunkSize = 64 * 1024
	// initialBufferSize is the starting reservation of a connection's
	// accumulation buffer.
	initialBufferSize = 4 * 1024
	// maxRequestSize bounds one request head.
	maxRequestSize = 64 * 1024
)

// errPeerClosed marks a connection the peer closed cleanly between
// requests.
var errPeerClosed = errors.New("server: peer closed connection")

// errRequestTooLarge marks a request head over maxRequestSize bytes.
var errRequestTooLarge = errors.New("server: request exceeds read limit")

var doubleCRLF = []byte("\r\n\r\n")

// connBuffers holds a connection's reusable buffers: the growing
// accumulation buffer and the fixed read chunk. Both are recycled
// through a pool; a connection owns them exclusively from assignment
// until teardown.
type connBuffers struct {
	acc   []byte
	chunk []byte
}

var buffersPool = sync.Pool{
	New: func() interface{} {
		return &connBuffers{
			acc:   make([]byte, 0, initialBufferSize),
			chunk: make([]byte, readChunkSize),
		}
	},
}

// Conn is one accepted connection: the socket, its buffers, and a
// UUID used in boundary logging. Handlers receive it to write
// responses or to upgrade to a WebSocket session.
type Conn struct {
	id       string
	raw      net.Conn
	buffers  *connBuffers
	upgraded bool
}

func newConn(raw net.Conn) *Conn {
	return &Conn{
		id:      uuid.NewString(),
		raw:     raw,
		buffers: buffersPool.Get().(*connBuffers),
	}
}

// ID returns the connection's UUID.
func (c *Conn) ID() string { return c.id }

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr { return c.raw.RemoteAddr() }

func (c *Conn) close() {
	c.raw.Close()
	if c.buffers != nil {
		c.buffers.acc = c.buffers.acc[:0]
		buffersPool.Put(c.buffers)
		c.buffers = nil
	}
}

// readRequest accumulates socket reads until the buffer contains an
// empty line terminating a request head. The scan covers the whole
// accumulated buffer, so a CRLFCRLF split across reads is found. A
// clean peer close before any bytes yields errPeerClosed.
func (c *Conn) readRequest() ([]byte, error) {
	c.buffers.acc = c.buffers.acc[:0]
	for {
		if len(c.buffers.acc) > maxRequestSize {
			return nil, errRequestTooLarge
		}

		n, err := c.raw.Read(c.buffers.chunk)
		if n > 0 {
			searchFrom := len(c.buffers.acc) - 3
			if searchFrom < 0 {
				searchFrom = 0
			}
			c.buffers.acc = append(c.buffers.acc, c.buffers.chunk[:n]...)
			if bytes.Contains(c.buffers.acc[searchFrom:], doubleCRLF) {
				return c.buffers.acc, nil
			}
		}
		if err != nil {
			if err == io.EOF && len(c.buffers.acc) == 0 {
				return nil, errPeerClosed
			}
			return nil, err
		}
		if n == 0 {
			return nil, errPeerClosed
		}
	}
}

// WriteResponse serializes resp and sends it entirely.
func (c *Conn) WriteResponse(resp *http.Response) error {
	data, err := http.Marshal(resp)
	if err != nil {
		return err
	}
	return c.writeAll(data)
}

// UpgradeWebSocket verifies the WebSocket upgrade preconditions of
// req. On failure it answers 400 Bad Request with an empty body and
// returns the precondition error. On success it writes the 101
// Switching Protocols response and returns a server-side session; the
// dispatcher will not read HTTP from this connection again.
func (c *Conn) UpgradeWebSocket(req *http.Request) (*websocket.Session, error) {
	key, err := websocket.CheckUpgrade(req)
	if err != nil {
		if werr := c.WriteResponse(&http.Response{
			Proto:      http.ProtoHTTP11,
			StatusCode: 400,
			Reason:     "Bad Request",
		}); werr != nil {
			return nil, werr
		}
		return nil, err
	}

	if err := c.writeAll(websocket.UpgradeResponse(key)); err != nil {
		return nil, err
	}
	c.upgraded = true
	return websocket.NewSession(c.raw, false), nil
}

// Upgraded reports whether the connection has switched protocols.
func (c *Conn) Upgraded() bool { return c.upgraded }

func (c *Conn) writeAll(data []byte) error {
	for len(data) > 0 {
		n, err := c.raw.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
