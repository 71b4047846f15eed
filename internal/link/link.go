// Package link pushes steering commands to a controller over TCP.
//
// The device side listens; the controller (typically a laptop driving the
// rig) connects. Only one controller is served at a time: each new
// connection replaces the previous one, so a restarted controller picks up
// the stream immediately. Every command is one text line, "x,y,depth\n".
package link

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":6000"

var (
	// ErrNoClient is returned by Send while no controller is connected.
	ErrNoClient = errors.New("no client connected")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("link closed")
)

// Logger receives connection events. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// Liner is anything that renders itself as one command line.
// guidance.Command satisfies it.
type Liner interface {
	Line() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sends connection events to l.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWriteTimeout bounds each Send. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

// Server accepts controller connections and fans commands out to the
// latest one. It is safe for concurrent use.
type Server struct {
	addr         string
	logger       Logger
	writeTimeout time.Duration

	mu     sync.Mutex
	ln     net.Listener
	conn   net.Conn
	closed bool
}

// New returns an unstarted server for addr. An empty addr means DefaultAddr.
func New(addr string, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:         addr,
		logger:       discardLogger{},
		writeTimeout: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the listening socket. Serve calls it if needed; calling it
// first lets the caller learn the bound address via Addr.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until ctx is cancelled or Close is called. It
// returns nil in both cases and the accept error otherwise.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return ErrClosed
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-stop:
		}
	}()

	s.logger.Printf("link: waiting for controller on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.setNoDelay(conn)
		s.replace(conn)
		s.logger.Printf("link: controller connected from %s", conn.RemoteAddr())
	}
}

// setNoDelay disables Nagle so each command line leaves immediately.
func (s *Server) setNoDelay(conn net.Conn) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if err := tc.SetNoDelay(true); err != nil {
		s.logger.Printf("link: no-delay on %s: %v", conn.RemoteAddr(), err)
	}
}

// replace installs conn as the active client and closes the previous one.
func (s *Server) replace(conn net.Conn) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	old := s.conn
	s.conn = conn
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// Connected reports whether a controller is attached.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Send writes cmd as one line to the current controller. A failed write
// drops the controller; the next connection takes its place.
func (s *Server) Send(cmd Liner) error {
	return s.SendLine(cmd.Line())
}

// SendLine writes line plus a newline to the current controller.
func (s *Server) SendLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.conn == nil {
		return ErrNoClient
	}

	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if _, err := s.conn.Write([]byte(line + "\n")); err != nil {
		s.logger.Printf("link: dropping controller %s: %v", s.conn.RemoteAddr(), err)
		s.conn.Close()
		s.conn = nil
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Close stops the listener and disconnects the controller. It is safe to
// call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	if s.ln != nil {
		if lerr := s.ln.Close(); err == nil {
			err = lerr
		}
		s.ln = nil
	}
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
