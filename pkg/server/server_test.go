package server

import (
	"net"
	"testing"
	"time"

	"github.com/shapestone/shape-ws/pkg/http"
	"github.com/shapestone/shape-ws/pkg/websocket"
)

// startServer runs srv on an ephemeral port and returns its address.
func startServer(t *testing.T, srv *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go srv.Serve(ln)
	return ln.Addr().String()
}

func newTestServer() *Server {
	srv := New(&Config{Workers: 8})
	srv.Register(PathMatcher("/hello"), func(c *Conn, req *http.Request) error {
		return c.WriteResponse(&http.Response{
			Proto:      http.ProtoHTTP11,
			StatusCode: 200,
			Reason:     "OK",
			Headers:    http.Headers{"Content-Type": "text/plain"},
			Body:       []byte("hello"),
		})
	})
	srv.Register(PathMatcher("/ws"), func(c *Conn, req *http.Request) error {
		session, err := c.UpgradeWebSocket(req)
		if err != nil {
			return nil
		}
		return session.Serve(func(frag websocket.Fragment) error {
			switch data := frag.Data.(type) {
			case websocket.TextData:
				return session.WriteText(data)
			case websocket.BinaryData:
				return session.WriteBinary(data)
			}
			return nil
		})
	})
	return srv
}

func TestServer_SimpleRequest(t *testing.T) {
	addr := startServer(t, newTestServer())

	resp, err := (&http.Client{Timeout: 2 * time.Second}).Get("http://"+addr+"/hello", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("Body = %q, want hello", resp.Body)
	}
}

func TestServer_NotFound(t *testing.T) {
	addr := startServer(t, newTestServer())

	resp, err := (&http.Client{Timeout: 2 * time.Second}).Get("http://"+addr+"/missing", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
	if len(resp.Body) != 0 {
		t.Errorf("Body = %q, want empty", resp.Body)
	}
}

func TestServer_FirstMatcherWins(t *testing.T) {
	srv := New(&Config{Workers: 2})
	srv.Register(PrefixMatcher("/"), func(c *Conn, req *http.Request) error {
		return c.WriteResponse(&http.Response{StatusCode: 200, Reason: "first"})
	})
	srv.Register(PathMatcher("/x"), func(c *Conn, req *http.Request) error {
		return c.WriteResponse(&http.Response{StatusCode: 200, Reason: "second"})
	})
	addr := startServer(t, srv)

	resp, err := (&http.Client{Timeout: 2 * time.Second}).Get("http://"+addr+"/x", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.Reason != "first" {
		t.Errorf("Reason = %q, want first (registration order wins)", resp.Reason)
	}
}

func TestServer_TwoRequestsOneConnection(t *testing.T) {
	addr := startServer(t, newTestServer())

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	enc := http.NewEncoder(conn)
	dec := http.NewDecoder(conn)
	for i := 0; i < 2; i++ {
		req := &http.Request{
			Method:  http.MethodGet,
			Path:    "/hello",
			Proto:   http.ProtoHTTP11,
			Headers: http.Headers{"Host": "test"},
		}
		if err := enc.Encode(req); err != nil {
			t.Fatalf("request %d: Encode() error = %v", i, err)
		}
		resp, err := dec.DecodeResponse()
		if err != nil {
			t.Fatalf("request %d: DecodeResponse() error = %v", i, err)
		}
		if string(resp.Body) != "hello" {
			t.Errorf("request %d: Body = %q, want hello", i, resp.Body)
		}
	}
}

func TestServer_RequestHeadSplitAcrossWrites(t *testing.T) {
	addr := startServer(t, newTestServer())

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// The terminating CRLFCRLF straddles the two writes.
	wire := "GET /hello HTTP/1.1\r\nHost: test\r\n\r\n"
	conn.Write([]byte(wire[:len(wire)-2]))
	time.Sleep(20 * time.Millisecond)
	conn.Write([]byte(wire[len(wire)-2:]))

	resp, err := http.NewDecoder(conn).DecodeResponse()
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}

func TestServer_MalformedRequestClosesWithoutResponse(t *testing.T) {
	addr := startServer(t, newTestServer())

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("BOGUS\r\n\r\n"))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if n, _ := conn.Read(buf); n != 0 {
		t.Errorf("read %d bytes after malformed request, want connection closed with no response", n)
	}
}

func TestServer_WebSocketEcho(t *testing.T) {
	addr := startServer(t, newTestServer())

	session, err := websocket.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer session.Conn().Close()

	if err := session.WriteText([]byte("echo me")); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	frag, err := session.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(frag.Data.Payload()) != "echo me" {
		t.Errorf("echo = %q, want echo me", frag.Data.Payload())
	}

	if err := session.WriteClose(nil); err != nil {
		t.Fatalf("WriteClose() error = %v", err)
	}
}

func TestServer_FailedUpgradeGets400(t *testing.T) {
	addr := startServer(t, newTestServer())

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// Missing Sec-WebSocket-Key and friends.
	req := &http.Request{
		Method:  http.MethodGet,
		Path:    "/ws",
		Proto:   http.ProtoHTTP11,
		Headers: http.Headers{"Host": "test"},
	}
	if err := http.NewEncoder(conn).Encode(req); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	resp, err := http.NewDecoder(conn).DecodeResponse()
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", resp.StatusCode)
	}
	if len(resp.Body) != 0 {
		t.Errorf("Body = %q, want empty", resp.Body)
	}
}

func TestPathMatcher(t *testing.T) {
	m := PathMatcher("/a")
	if !m(&http.Request{Path: "/a"}) {
		t.Error("PathMatcher(/a) rejected /a")
	}
	if m(&http.Request{Path: "/a/b"}) {
		t.Error("PathMatcher(/a) accepted /a/b")
	}
}

func TestPrefixMatcher(t *testing.T) {
	m := PrefixMatcher("/static/")
	if !m(&http.Request{Path: "/static/app.css"}) {
		t.Error("PrefixMatcher(/static/) rejected /static/app.css")
	}
	if m(&http.Request{Path: "/other"}) {
		t.Error("PrefixMatcher(/static/) accepted /other")
	}
}
