// Package server implements the connection dispatcher: an accept loop
// feeding a bounded worker pool, a per-connection HTTP request loop, a
// matcher-based handler table, and the upgrade path into a WebSocket
// session.
//
// The handler table is installed before the accept loop starts and is
// immutable afterwards, so concurrent readers need no synchronization.
// Network errors are logged at the connection boundary and tear the
// connection down; they never crash the server.
package server

import (
	"errors"
	"log"
	"net"

	"github.com/shapestone/shape-ws/pkg/http"
)

// Matcher is a predicate over a parsed request, used for routing.
type Matcher func(*http.Request) bool

// Handler handles one request on a connection. A handler that upgrades
// the connection runs the WebSocket session before returning; the
// dispatcher does not read further HTTP requests from an upgraded
// connection.
type Handler func(*Conn, *http.Request) error

// registeredHandler pairs a matcher with its handler. Registration
// order is evaluation order; the first match wins.
type registeredHandler struct {
	match  Matcher
	handle Handler
}

// Config holds the dispatcher configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// Workers bounds the number of connections served in parallel.
	Workers int
}

// DefaultWorkers is the worker pool size when Config.Workers is zero.
const DefaultWorkers = 1000

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:    ":8080",
		Workers: DefaultWorkers,
	}
}

// Server dispatches connections to registered handlers.
type Server struct {
	config   Config
	handlers []registeredHandler
	notFound Handler
}

// New creates a server with the given configuration.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Server{config: cfg, notFound: writeNotFound}
}

// Register appends a matcher/handler pair to the handler table. All
// registration must happen before ListenAndServe or Serve is called.
func (s *Server) Register(match Matcher, handle Handler) {
	s.handlers = append(s.handlers, registeredHandler{match: match, handle: handle})
}

// SetNotFound replaces the handler used when no matcher accepts a
// request. The default writes an empty 404 response.
func (s *Server) SetNotFound(handle Handler) {
	s.notFound = handle
}

// ListenAndServe binds the configured address and serves connections
// until the listener fails permanently.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections from ln indefinitely, handing each one to
// the worker pool. Transient accept failures are logged and the loop
// continues; a closed listener ends the loop.
func (s *Server) Serve(ln net.Listener) error {
	workers := make(chan struct{}, s.config.Workers)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Printf("server: accept: %v", err)
			continue
		}
		workers <- struct{}{}
		go func() {
			defer func() { <-workers }()
			s.handleConn(conn)
		}()
	}
}

// handleConn runs the per-connection request loop: read a full
// request head, parse, route, respond, and either continue with the
// next request or hand the connection over to a WebSocket session.
func (s *Server) handleConn(raw net.Conn) {
	c := newConn(raw)
	defer c.close()

	for {
		data, err := c.readRequest()
		if err != nil {
			if !errors.Is(err, errPeerClosed) {
				log.Printf("server: conn %s: read: %v", c.ID(), err)
			}
			return
		}

		req, err := http.UnmarshalRequest(data)
		if err != nil {
			// Malformed HTTP: close without a response, since parsing
			// failed before we knew what was asked.
			log.Printf("server: conn %s: parse: %v", c.ID(), err)
			return
		}

		if err := s.route(req)(c, req); err != nil {
			log.Printf("server: conn %s: handler: %v", c.ID(), err)
			return
		}
		if c.upgraded {
			return
		}
	}
}

func (s *Server) route(req *http.Request) Handler {
	for _, rh := range s.handlers {
		if rh.match(req) {
			return rh.handle
		}
	}
	return s.notFound
}

// writeNotFound is the default 404 handler: empty body.
func writeNotFound(c *Conn, _ *http.Request) error {
	return c.WriteResponse(&http.Response{
		Proto:      http.ProtoHTTP11,
		StatusCode: 404,
		Reason:     "Not Found",
	})
}

// PathMatcher returns a matcher accepting requests whose path equals
// path exactly.
func PathMatcher(path string) Matcher {
	return func(req *http.Request) bool { return req.Path == path }
}

// PrefixMatcher returns a matcher accepting requests whose path starts
// with prefix.
func PrefixMatcher(prefix string) Matcher {
	return func(req *http.Request) bool {
		return len(req.Path) >= len(prefix) && req.Path[:len(prefix)] == prefix
	}
}
