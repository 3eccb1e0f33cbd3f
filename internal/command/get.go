package command

import "github.com/pouchkv/pouchkv/internal/protocol"

// get implements GET key: a bulk-string reply on a hit, or the null bulk
// string "$-1\r\n" when the key is absent or expired.
func get(ctx *Context) error {
	key, err := readBulkStringArg(ctx)
	if err != nil {
		return err
	}

	value, ok := ctx.Store.Get(string(key))
	if !ok {
		return protocol.WriteNullBulkString(ctx.Writer)
	}
	return protocol.WriteBulkString(ctx.Writer, value)
}
