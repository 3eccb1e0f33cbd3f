package protocol

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformed wraps any framing violation: a missing CRLF, a non-ASCII
// size, a size that overflows, or a type byte where a bulk string was
// required. The connection loop treats it as fatal for the connection.
var ErrMalformed = errors.New("malformed RESP input")

func malformed(reason string) error {
	return errors.Wrap(ErrMalformed, reason)
}

// ConsumeCRLF reads exactly two bytes from r and requires them to be CR LF.
func ConsumeCRLF(r *bufio.Reader) error {
	var crlf [2]byte
	if _, err := io.ReadFull(r, crlf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return malformed("expected CRLF, got EOF")
		}
		return err
	}
	if crlf[0] != '\r' || crlf[1] != '\n' {
		return malformed("expected CRLF terminator")
	}
	return nil
}

// ReadUntilCRLF accumulates bytes from r until it sees a CRLF pair, which is
// discarded from the returned slice. If max > 0 and more than max bytes are
// read before the terminator, it fails with ErrMalformed. EOF before CRLF is
// also malformed, since every RESP line must be terminated.
func ReadUntilCRLF(r *bufio.Reader, max int) ([]byte, error) {
	var out []byte
	count := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, malformed("missing CRLF before EOF")
			}
			return nil, err
		}
		count++
		if b == '\n' && len(out) > 0 && out[len(out)-1] == '\r' {
			return out[:len(out)-1], nil
		}
		out = append(out, b)
		// The CR of the terminator does not count towards max.
		if max > 0 && count > max && !(count == max+1 && b == '\r') {
			return nil, malformed("line exceeds maximum length before CRLF")
		}
	}
}

// ReadSize consumes ASCII digits up to a CRLF (bounded to 10 bytes by
// default) and parses them as a non-negative integer.
func ReadSize(r *bufio.Reader) (int, error) {
	line, err := ReadUntilCRLF(r, 10)
	if err != nil {
		return 0, err
	}
	for _, c := range line {
		if c < '0' || c > '9' {
			return 0, malformed("invalid size: " + string(line))
		}
	}
	n, err := strconv.Atoi(string(line))
	if err != nil || n < 0 {
		return 0, malformed("invalid size: " + string(line))
	}
	return n, nil
}
