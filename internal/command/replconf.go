package command

import "github.com/pouchkv/pouchkv/internal/protocol"

// replconf drains any number of option/value bulk-string pairs without
// interpreting them and replies +OK\r\n.
func replconf(ctx *Context) error {
	for ctx.Cursor.ExpectsMore() {
		if _, err := readBulkStringArg(ctx); err != nil {
			return err
		}
	}
	return protocol.WriteSimpleString(ctx.Writer, "OK")
}
