package websocket

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func sessionPair(t *testing.T) (client, server *Session) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
	})
	return NewSession(clientConn, true), NewSession(serverConn, false)
}

func TestSession_TextExchange(t *testing.T) {
	client, server := sessionPair(t)

	done := make(chan error, 1)
	go func() {
		done <- client.WriteText([]byte("hello server"))
	}()

	frag, err := server.Read()
	if err != nil {
		t.Fatalf("server Read() error = %v", err)
	}
	text, ok := frag.Data.(TextData)
	if !ok {
		t.Fatalf("Data type = %T, want TextData", frag.Data)
	}
	if string(text) != "hello server" {
		t.Errorf("payload = %q, want hello server", []byte(text))
	}
	if !frag.Masked {
		t.Error("client fragment arrived unmasked")
	}
	if err := <-done; err != nil {
		t.Fatalf("client WriteText() error = %v", err)
	}
}

func TestSession_ServerDoesNotMask(t *testing.T) {
	client, server := sessionPair(t)

	go server.WriteText([]byte("from server"))

	frag, err := client.Read()
	if err != nil {
		t.Fatalf("client Read() error = %v", err)
	}
	if frag.Masked {
		t.Error("server fragment arrived masked")
	}
	if string(frag.Data.Payload()) != "from server" {
		t.Errorf("payload = %q, want from server", frag.Data.Payload())
	}
}

func TestSession_ServeAnswersPingWithPong(t *testing.T) {
	client, server := sessionPair(t)

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(nil)
	}()

	pingPayload := []byte("ping!")
	if err := client.Write(&Fragment{Data: PingData(bytes.Clone(pingPayload)), Final: true}); err != nil {
		t.Fatalf("client Write(ping) error = %v", err)
	}

	frag, err := client.Read()
	if err != nil {
		t.Fatalf("client Read() error = %v", err)
	}
	pong, ok := frag.Data.(PongData)
	if !ok {
		t.Fatalf("Data type = %T, want PongData", frag.Data)
	}
	if !bytes.Equal(pong, pingPayload) {
		t.Errorf("pong payload = %q, want %q", []byte(pong), pingPayload)
	}
	if frag.Masked {
		t.Error("server pong arrived masked")
	}

	if err := client.WriteClose(nil); err != nil {
		t.Fatalf("client WriteClose() error = %v", err)
	}
	select {
	case err := <-serveDone:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil after close", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not exit after a close fragment")
	}
}

func TestSession_ClientPongIsMasked(t *testing.T) {
	client, server := sessionPair(t)

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- client.Serve(nil)
	}()

	if err := server.Write(&Fragment{Data: PingData([]byte("hi")), Final: true}); err != nil {
		t.Fatalf("server Write(ping) error = %v", err)
	}

	frag, err := server.Read()
	if err != nil {
		t.Fatalf("server Read() error = %v", err)
	}
	if _, ok := frag.Data.(PongData); !ok {
		t.Fatalf("Data type = %T, want PongData", frag.Data)
	}
	if !frag.Masked {
		t.Error("client pong arrived unmasked")
	}
	if string(frag.Data.Payload()) != "hi" {
		t.Errorf("pong payload = %q, want hi", frag.Data.Payload())
	}

	server.WriteClose(nil)
	select {
	case <-serveDone:
	case <-time.After(time.Second):
		t.Fatal("client Serve() did not exit after close")
	}
}

func TestSession_ServeDispatchesData(t *testing.T) {
	client, server := sessionPair(t)

	var got []byte
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(func(frag Fragment) error {
			got = bytes.Clone(frag.Data.Payload())
			return nil
		})
	}()

	if err := client.WriteBinary([]byte{1, 2, 3}); err != nil {
		t.Fatalf("client WriteBinary() error = %v", err)
	}
	if err := client.WriteClose(nil); err != nil {
		t.Fatalf("client WriteClose() error = %v", err)
	}

	select {
	case err := <-serveDone:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not exit")
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("handler payload = %v, want [1 2 3]", got)
	}
}

func TestSession_ReadAcrossSplitWrites(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	server := NewSession(serverConn, false)

	wire := []byte{0x81, 0x05, 'h', 'e', 'l', 'l', 'o'}
	go func() {
		// Deliver the fragment in two writes to exercise buffering.
		clientConn.Write(wire[:3])
		clientConn.Write(wire[3:])
	}()

	frag, err := server.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(frag.Data.Payload()) != "hello" {
		t.Errorf("payload = %q, want hello", frag.Data.Payload())
	}
}

func TestSession_ReadTwoFragmentsFromOneWrite(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	server := NewSession(serverConn, false)

	wire := []byte{0x81, 0x01, 'a', 0x82, 0x01, 0x07}
	go clientConn.Write(wire)

	first, err := server.Read()
	if err != nil {
		t.Fatalf("first Read() error = %v", err)
	}
	if _, ok := first.Data.(TextData); !ok {
		t.Errorf("first Data type = %T, want TextData", first.Data)
	}

	second, err := server.Read()
	if err != nil {
		t.Fatalf("second Read() error = %v", err)
	}
	if _, ok := second.Data.(BinaryData); !ok {
		t.Errorf("second Data type = %T, want BinaryData", second.Data)
	}
}

func TestSession_ReadAfterPeerClose(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()
	server := NewSession(serverConn, false)

	clientConn.Close()

	if _, err := server.Read(); err == nil {
		t.Error("Read() error = nil after peer close, want error")
	}
}
