package websocket

import (
	"crypto/rand"
	"errors"
	"io"
	"net"
)

// SessionBufferSize is the size of a session's receive buffer and of
// its serialization scratch buffer.
const SessionBufferSize = 128 * 1024

// ErrFragmentTooLarge is returned when an incoming fragment does not
// fit the session's receive buffer.
var ErrFragmentTooLarge = errors.New("websocket: fragment exceeds receive buffer")

// ErrConnectionClosed is returned when the peer closes the connection
// before a complete fragment has been read, whether between fragments
// or mid-fragment.
var ErrConnectionClosed = errors.New("websocket: connection closed")

// Session is a WebSocket connection after a completed upgrade, usable
// from either side. On the client side the fragments the session
// builds itself (WriteText, WriteBinary, WriteClose and automatic
// Pongs) are masked; on the server side they are not. Write sends a
// caller-built fragment with whatever masking it carries.
//
// A Session owns its buffers and is not safe for concurrent use.
type Session struct {
	conn    net.Conn
	client  bool
	readBuf []byte
	pending []byte
	scratch []byte
}

// NewSession wraps an upgraded connection. client selects the masking
// convention for fragments the session originates.
func NewSession(conn net.Conn, client bool) *Session {
	return &Session{
		conn:    conn,
		client:  client,
		readBuf: make([]byte, SessionBufferSize),
		scratch: make([]byte, SessionBufferSize),
	}
}

// Conn returns the underlying connection.
func (s *Session) Conn() net.Conn { return s.conn }

// Read returns the next fragment. The fragment's payload aliases the
// session's receive buffer and is valid until the next Read.
func (s *Session) Read() (Fragment, error) {
	for {
		if len(s.pending) > 0 {
			frag, rest, err := ParseFragment(s.pending)
			if err == nil {
				s.pending = rest
				return frag, nil
			}
			if err != ErrFragmentTooShort && err != ErrPayloadTruncated {
				return Fragment{}, err
			}
		}

		// Compact the unparsed tail to the front and read more.
		n := copy(s.readBuf, s.pending)
		s.pending = s.readBuf[:n]
		if n == len(s.readBuf) {
			return Fragment{}, ErrFragmentTooLarge
		}
		m, err := s.conn.Read(s.readBuf[n:])
		if m == 0 {
			if err == nil || err == io.EOF {
				return Fragment{}, ErrConnectionClosed
			}
			return Fragment{}, err
		}
		s.pending = s.readBuf[:n+m]
	}
}

// Write serializes frag into the session's scratch buffer and sends
// the whole encoding before returning. When frag.Masked is set the
// fragment payload is mutated in place by masking.
func (s *Session) Write(frag *Fragment) error {
	out, err := SerializeFragment(s.scratch, frag)
	if err != nil {
		return err
	}
	for len(out) > 0 {
		n, err := s.conn.Write(out)
		if err != nil {
			return err
		}
		out = out[n:]
	}
	return nil
}

// WriteText sends a final text fragment, masked on the client side.
func (s *Session) WriteText(payload []byte) error {
	return s.writeData(TextData(payload))
}

// WriteBinary sends a final binary fragment, masked on the client side.
func (s *Session) WriteBinary(payload []byte) error {
	return s.writeData(BinaryData(payload))
}

// WriteClose sends a close fragment, masked on the client side.
func (s *Session) WriteClose(payload []byte) error {
	return s.writeData(CloseData(payload))
}

func (s *Session) writeData(data Data) error {
	frag := Fragment{Data: data, Final: true}
	if s.client {
		key, err := randomMaskKey()
		if err != nil {
			return err
		}
		frag.Masked = true
		frag.MaskKey = key
	}
	return s.Write(&frag)
}

// Serve runs the receive loop: one fragment per turn, dispatched to
// handler. Close fragments end the loop; Ping fragments are answered
// with a Pong (masked with a fresh random key on the client side)
// which is sent entirely before the loop continues. A peer close ends
// the loop without error.
func (s *Session) Serve(handler func(Fragment) error) error {
	for {
		frag, err := s.Read()
		if err != nil {
			if err == ErrConnectionClosed {
				return nil
			}
			return err
		}
		switch data := frag.Data.(type) {
		case CloseData:
			return nil
		case PingData:
			if err := s.pong(data); err != nil {
				return err
			}
		default:
			if handler != nil {
				if err := handler(frag); err != nil {
					return err
				}
			}
		}
	}
}

func (s *Session) pong(ping PingData) error {
	return s.writeData(PongData(ping))
}

func randomMaskKey() ([4]byte, error) {
	var key [4]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return key, err
	}
	return key, nil
}
