// Package replica implements the client side of the initial
// primary/replica dialogue: four fixed request/response steps run once at
// startup when the server is configured as a replica.
package replica

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/pouchkv/pouchkv/internal/logging"
	"github.com/pouchkv/pouchkv/internal/protocol"
)

// ErrHandshakeMismatch is wrapped around any reply that does not match what
// a given handshake step expects.
var ErrHandshakeMismatch = errors.New("handshake mismatch")

const dialTimeout = 5 * time.Second

// Handshake connects to a primary at host:port, performs the PING /
// REPLCONF listening-port / REPLCONF capa / PSYNC dialogue, and returns
// once the primary's FULLRESYNC line has been read (the replication stream
// that follows is out of scope).
func Handshake(host string, primaryPort uint16, ownPort uint16, log *logging.Logger) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", primaryPort))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "dial primary %s", addr)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(dialTimeout)); err != nil {
		return errors.Wrap(err, "set handshake read deadline")
	}

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	log.Infof("sending PING to primary %s", addr)
	if err := sendAndExpect(reader, writer, log,
		"*1\r\n$4\r\nPING\r\n", "PONG"); err != nil {
		return err
	}

	log.Infof("sending REPLCONF listening-port %d", ownPort)
	portStr := fmt.Sprintf("%d", ownPort)
	listeningPort := fmt.Sprintf("*3\r\n$8\r\nREPLCONF\r\n$14\r\nlistening-port\r\n$%d\r\n%s\r\n", len(portStr), portStr)
	if err := sendAndExpect(reader, writer, log, listeningPort, "OK"); err != nil {
		return err
	}

	log.Infof("sending REPLCONF capa psync2")
	if err := sendAndExpect(reader, writer, log,
		"*3\r\n$8\r\nREPLCONF\r\n$4\r\ncapa\r\n$6\r\npsync2\r\n", "OK"); err != nil {
		return err
	}

	log.Infof("sending PSYNC")
	if _, err := writer.WriteString("*3\r\n$5\r\nPSYNC\r\n$1\r\n?\r\n$2\r\n-1\r\n"); err != nil {
		return errors.Wrap(err, "write PSYNC")
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "flush PSYNC")
	}

	response, err := receiveSimpleString(reader)
	if err != nil {
		return errors.Wrap(err, "read PSYNC response")
	}
	log.Infof("received handshake completion response: %s", response)

	return nil
}

// sendAndExpect writes raw (already-framed) bytes, flushes, reads the next
// simple string reply, and fails with ErrHandshakeMismatch if it does not
// equal expected.
func sendAndExpect(reader *bufio.Reader, writer *bufio.Writer, log *logging.Logger, raw, expected string) error {
	if _, err := writer.WriteString(raw); err != nil {
		return errors.Wrap(err, "write handshake request")
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "flush handshake request")
	}

	got, err := receiveSimpleString(reader)
	if err != nil {
		return err
	}
	if got != expected {
		return errors.Wrapf(ErrHandshakeMismatch, "expected %q, got %q", expected, got)
	}
	log.Debugf("handshake step ok: got %q as expected", got)
	return nil
}

// receiveSimpleString reads one frame and requires it to be a SimpleString.
func receiveSimpleString(reader *bufio.Reader) (string, error) {
	frame, ok, err := protocol.ReadFrame(reader, false)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("connection closed before handshake reply")
	}
	switch frame.Type {
	case protocol.FrameSimpleString:
		return frame.Text, nil
	case protocol.FrameError:
		return "", errors.New(frame.Text)
	default:
		return "", errors.New("expected simple string reply")
	}
}
