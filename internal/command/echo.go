package command

import "github.com/pouchkv/pouchkv/internal/protocol"

// echo reads one bulk-string argument and streams it back framed the same
// way it arrived: "$<N>\r\n<payload>\r\n".
func echo(ctx *Context) error {
	payload, err := readBulkStringArg(ctx)
	if err != nil {
		return err
	}
	return protocol.WriteBulkString(ctx.Writer, payload)
}
