// Command shape-ws-server runs a sample server on the dispatcher: a
// hit counter, a static file handler with an ETag cache, and a
// WebSocket echo endpoint.
//
// Usage: shape-ws-server <port>
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shapestone/shape-ws/pkg/http"
	"github.com/shapestone/shape-ws/pkg/server"
	"github.com/shapestone/shape-ws/pkg/websocket"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <port>\n", os.Args[0])
		os.Exit(1)
	}
	port, err := strconv.Atoi(os.Args[1])
	if err != nil || port < 1 || port > 65535 {
		fmt.Fprintf(os.Stderr, "invalid port %q\n", os.Args[1])
		os.Exit(1)
	}

	srv := server.New(&server.Config{Addr: ":" + os.Args[1]})

	var hits atomic.Int64
	srv.Register(server.PathMatcher("/counter"), func(c *server.Conn, req *http.Request) error {
		n := hits.Add(1)
		body := []byte(fmt.Sprintf("<span>%d</span>", n))
		return c.WriteResponse(&http.Response{
			Proto:      http.ProtoHTTP11,
			StatusCode: 200,
			Reason:     "OK",
			Headers:    http.Headers{"Content-Type": "text/html"},
			Body:       body,
		})
	})

	static := newStaticHandler("static")
	srv.Register(server.PrefixMatcher("/static/"), static.serve)

	srv.Register(server.PathMatcher("/ws"), func(c *server.Conn, req *http.Request) error {
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

	log.Printf("listening on :%d", port)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "bind failed: %v\n", err)
		os.Exit(1)
	}
}

// staticHandler serves files under a root directory with an ETag cache
// keyed by filename. The cache is shared across connections and
// guarded by a mutex.
type staticHandler struct {
	root string

	mu    sync.Mutex
	etags map[string]string
}

func newStaticHandler(root string) *staticHandler {
	return &staticHandler{root: root, etags: make(map[string]string)}
}

func (h *staticHandler) serve(c *server.Conn, req *http.Request) error {
	rel := strings.TrimPrefix(req.Path, "/static/")
	file := path.Join(h.root, path.Clean("/"+rel))

	data, err := os.ReadFile(file)
	if err != nil {
		return c.WriteResponse(&http.Response{
			Proto:      http.ProtoHTTP11,
			StatusCode: 404,
			Reason:     "Not Found",
		})
	}

	etag := h.etag(file, data)
	if req.Headers.Get("If-None-Match") == etag {
		return c.WriteResponse(&http.Response{
			Proto:      http.ProtoHTTP11,
			StatusCode: 304,
			Reason:     "Not Modified",
			Headers:    http.Headers{"ETag": etag},
		})
	}

	return c.WriteResponse(&http.Response{
		Proto:      http.ProtoHTTP11,
		StatusCode: 200,
		Reason:     "OK",
		Headers: http.Headers{
			"Content-Type": contentType(file),
			"ETag":         etag,
		},
		Body: data,
	})
}

func (h *staticHandler) etag(file string, data []byte) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if etag, ok := h.etags[file]; ok {
		return etag
	}
	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`
	h.etags[file] = etag
	return etag
}

func contentType(file string) string {
	switch path.Ext(file) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
