// Package command implements the RESP command dispatcher: it turns a
// decoded command-name bulk string into a handler call, keeping the
// connection's ArrayCursor consistent as each handler consumes its
// arguments.
package command

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"

	"github.com/pouchkv/pouchkv/internal/config"
	"github.com/pouchkv/pouchkv/internal/protocol"
	"github.com/pouchkv/pouchkv/internal/store"
)

// ErrUnsupportedCommand is returned by Dispatch when the command name is not
// in the registry.
var ErrUnsupportedCommand = errors.New("unsupported command")

// Context is the per-connection state a Handler needs: the buffered
// reader/writer pair, the shared store, the server's Config, and the
// ArrayCursor tracking how many arguments remain in the enclosing array.
type Context struct {
	Reader *bufio.Reader
	Writer *bufio.Writer
	Store  *store.Store
	Config *config.Config
	Cursor *protocol.ArrayCursor
}

// Handler consumes whatever arguments its command declares (decrementing
// Cursor once per argument, including ones it reads but doesn't use),
// writes exactly one response, and flushes.
type Handler func(ctx *Context) error

var registry = map[string]Handler{
	"PING":     ping,
	"ECHO":     echo,
	"SET":      set,
	"GET":      get,
	"INFO":     info,
	"REPLCONF": replconf,
	"PSYNC":    psync,
}

// Lookup resolves a command name case-insensitively and returns
// ErrUnsupportedCommand for anything not registered.
func Lookup(name string) (Handler, error) {
	h, ok := registry[strings.ToUpper(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedCommand, "command %q", name)
	}
	return h, nil
}

// readBulkStringArg reads one mandatory bulk-string frame, its body, the
// trailing CRLF, and decrements the cursor for it. It is the shared
// plumbing behind nearly every handler's argument reads.
func readBulkStringArg(ctx *Context) ([]byte, error) {
	frame, ok, err := protocol.ReadFrame(ctx.Reader, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("expected bulk string argument, got EOF")
	}
	if frame.Type == protocol.FrameError {
		return nil, errors.New(frame.Text)
	}
	if frame.Type != protocol.FrameBulkString {
		return nil, errors.Wrap(protocol.ErrMalformed, "expected bulk string argument")
	}
	body, err := protocol.ReadBulkBody(ctx.Reader, frame.Size)
	if err != nil {
		return nil, err
	}
	if err := ctx.Cursor.Decrement(); err != nil {
		return nil, err
	}
	return body, nil
}
