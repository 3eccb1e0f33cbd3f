package command

import "github.com/pouchkv/pouchkv/internal/protocol"

// ping replies +PONG\r\n unconditionally; PING takes no arguments.
func ping(ctx *Context) error {
	return protocol.WriteSimpleString(ctx.Writer, "PONG")
}
