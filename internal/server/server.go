// Package server wires the protocol, command, and store packages into the
// accept loop and per-connection loop: one goroutine per accepted
// connection, a single listener goroutine, and a store shared by reference
// across every handler.
package server

import (
	"bufio"
	"net"

	"github.com/pouchkv/pouchkv/internal/command"
	"github.com/pouchkv/pouchkv/internal/config"
	"github.com/pouchkv/pouchkv/internal/logging"
	"github.com/pouchkv/pouchkv/internal/metrics"
	"github.com/pouchkv/pouchkv/internal/protocol"
	"github.com/pouchkv/pouchkv/internal/store"
)

// Server owns the listener, the shared store, and the dependencies every
// connection handler needs.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	log     *logging.Logger
	metrics *metrics.Metrics
}

// New constructs a Server ready to Serve.
func New(cfg *config.Config, st *store.Store, log *logging.Logger, m *metrics.Metrics) *Server {
	return &Server{cfg: cfg, store: st, log: log, metrics: m}
}

// Serve runs the accept loop on an already-bound listener until the listener
// is closed or the process is killed. Each accepted connection is handled
// in its own goroutine; a spawn failure class does not apply on this
// runtime (goroutine creation does not fail the way OS thread creation
// can), so every accepted connection is always dispatched.
func (s *Server) Serve(listener net.Listener) error {
	s.log.Infof("listening on %s", listener.Addr())
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.log.Errorf("accept failed: %v", err)
			return err
		}
		if s.metrics != nil {
			s.metrics.ConnectionsTotal.Inc()
		}
		go s.handleConnection(conn)
	}
}

// handleConnection drives one connection's read-dispatch-write loop until
// a clean disconnect, a transport error, or a non-transport protocol error
// forces the connection closed. No attempt is made to resynchronize a
// desynced cursor; any such error just ends the connection.
func (s *Server) handleConnection(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	log := s.log.With("remote", remote)
	defer func() {
		log.Debugf("connection closed")
		conn.Close()
	}()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)
	cursor := protocol.NewArrayCursor()

	for {
		frame, ok, err := protocol.ReadFrame(reader, true)
		if err != nil {
			log.Errorf("transport error reading frame: %v", err)
			return
		}
		if !ok {
			log.Debugf("clean disconnect")
			return
		}

		switch frame.Type {
		case protocol.FrameArray:
			cursor.StartNewArray(frame.Size)
			continue
		case protocol.FrameBulkString:
			if !s.dispatchCommand(reader, writer, cursor, frame.Size, log) {
				return
			}
		default:
			log.Errorf("expected array or bulk string to start a command, got %v", frame.Type)
			return
		}
	}
}

// dispatchCommand reads the command-name bulk string already announced by
// frame (a BulkString header), looks up its handler, runs it, and reports
// whether the connection should keep reading (true) or be closed (false).
func (s *Server) dispatchCommand(reader *bufio.Reader, writer *bufio.Writer, cursor *protocol.ArrayCursor, nameSize int, log *logging.Logger) bool {
	nameBytes, err := protocol.ReadBulkBody(reader, nameSize)
	if err != nil {
		log.Errorf("malformed command name: %v", err)
		return false
	}
	if err := cursor.Decrement(); err != nil {
		log.Errorf("cursor error on command name: %v", err)
		return false
	}

	name := string(nameBytes)
	handler, err := command.Lookup(name)
	if err != nil {
		log.Errorf("unsupported command %q: %v", name, err)
		if s.metrics != nil {
			s.metrics.CommandsTotal.WithLabelValues("unknown").Inc()
		}
		return false
	}

	if s.metrics != nil {
		s.metrics.CommandsTotal.WithLabelValues(name).Inc()
	}

	ctx := &command.Context{
		Reader: reader,
		Writer: writer,
		Store:  s.store,
		Config: s.cfg,
		Cursor: cursor,
	}
	if err := handler(ctx); err != nil {
		log.Errorf("command %q failed: %v", name, err)
		if s.metrics != nil {
			s.metrics.CommandErrors.WithLabelValues(name).Inc()
		}
		return false
	}
	return true
}
