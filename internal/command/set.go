package command

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pouchkv/pouchkv/internal/protocol"
)

// set implements SET key value [PX ms | EX seconds].
func set(ctx *Context) error {
	key, err := readBulkStringArg(ctx)
	if err != nil {
		return err
	}
	value, err := readBulkStringArg(ctx)
	if err != nil {
		return err
	}

	var multiplier uint32
	var haveTTL bool

	if ctx.Cursor.ExpectsMore() {
		unit, err := readBulkStringArg(ctx)
		if err != nil {
			return err
		}
		switch strings.ToUpper(string(unit)) {
		case "PX":
			multiplier = 1
		case "EX":
			multiplier = 1000
		default:
			return errors.Errorf("unsupported SET option %q", unit)
		}

		ttlArg, err := readBulkStringArg(ctx)
		if err != nil {
			return err
		}
		ttl, err := strconv.ParseUint(string(ttlArg), 10, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid TTL %q", ttlArg)
		}
		multiplier *= uint32(ttl)
		haveTTL = true
	}

	if haveTTL {
		ctx.Store.SetExpiring(string(key), value, multiplier)
	} else {
		ctx.Store.Set(string(key), value)
	}

	return protocol.WriteSimpleString(ctx.Writer, "OK")
}
