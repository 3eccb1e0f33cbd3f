package command

import (
	"strings"

	"github.com/pouchkv/pouchkv/internal/config"
	"github.com/pouchkv/pouchkv/internal/protocol"
)

// info implements INFO [section]. Only the "replication" section is
// understood, and is reported regardless of which section name (or none)
// is given, since no other section exists to report.
func info(ctx *Context) error {
	if ctx.Cursor.ExpectsMore() {
		if _, err := readBulkStringArg(ctx); err != nil {
			return err
		}
	}

	switch ctx.Config.Role.Kind {
	case config.RolePrimary:
		payload := strings.Join([]string{
			"role:master",
			"master_replid:" + ctx.Config.Role.ID,
			"master_repl_offset:0",
		}, "\r\n")
		return protocol.WriteBulkString(ctx.Writer, []byte(payload))
	default:
		return protocol.WriteBulkString(ctx.Writer, []byte("role:slave"))
	}
}
