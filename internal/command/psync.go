package command

import (
	"encoding/hex"

	"github.com/pouchkv/pouchkv/internal/protocol"
)

// emptyRDB is the canonical empty RDB snapshot Redis sends as the stub
// full-resync payload.
var emptyRDB = mustHex("524544495330303131fa0972656469732d76657205372e322e30fa0a72656469732d62697473c040fa056374696d65c26d08bc65fa08757365642d6d656dc2b0c41000fa08616f662d62617365c000fff06e3bfec0ff5aa2")

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// psync drains its (ignored) replication-id and offset arguments, then
// replies with FULLRESYNC followed by the synthetic empty RDB snapshot
// framed as a raw blob with no trailing CRLF.
func psync(ctx *Context) error {
	for ctx.Cursor.ExpectsMore() {
		if _, err := readBulkStringArg(ctx); err != nil {
			return err
		}
	}

	if err := protocol.WriteSimpleString(ctx.Writer, "FULLRESYNC "+ctx.Config.Role.ID+" 0"); err != nil {
		return err
	}
	return protocol.WriteRawBlob(ctx.Writer, emptyRDB)
}
