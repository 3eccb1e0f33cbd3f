package command

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouchkv/pouchkv/internal/config"
	"github.com/pouchkv/pouchkv/internal/protocol"
	"github.com/pouchkv/pouchkv/internal/store"
)

// newTestContext builds a Context reading from input, writing into a
// buffer the caller can inspect, with a fresh store and the given role.
func newTestContext(t *testing.T, input string, role config.Role) (*Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ctx := &Context{
		Reader: bufio.NewReader(bytes.NewReader([]byte(input))),
		Writer: bufio.NewWriter(&out),
		Store:  store.New(),
		Config: &config.Config{Role: role},
		Cursor: protocol.NewArrayCursor(),
	}
	return ctx, &out
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	h, err := Lookup("ping")
	require.NoError(t, err)
	assert.NotNil(t, h)

	h, err = Lookup("PiNg")
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestLookupUnknownCommand(t *testing.T) {
	_, err := Lookup("NOPE")
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}

func TestPingRepliesPong(t *testing.T) {
	ctx, out := newTestContext(t, "", config.Role{})
	require.NoError(t, ping(ctx))
	ctx.Writer.Flush()
	assert.Equal(t, "+PONG\r\n", out.String())
}

func TestEchoRepliesSamePayload(t *testing.T) {
	ctx, out := newTestContext(t, "$5\r\nhello\r\n", config.Role{})
	ctx.Cursor.StartNewArray(1)
	require.NoError(t, echo(ctx))
	ctx.Writer.Flush()
	assert.Equal(t, "$5\r\nhello\r\n", out.String())
	assert.True(t, ctx.Cursor.Empty())
}

func TestSetThenGetRoundTrip(t *testing.T) {
	ctx, out := newTestContext(t, "$3\r\nfoo\r\n$3\r\nbar\r\n", config.Role{})
	ctx.Cursor.StartNewArray(2)
	require.NoError(t, set(ctx))
	ctx.Writer.Flush()
	assert.Equal(t, "+OK\r\n", out.String())

	value, ok := ctx.Store.Get("foo")
	require.True(t, ok)
	assert.Equal(t, "bar", string(value))
}

func TestSetWithPXOption(t *testing.T) {
	ctx, out := newTestContext(t, "$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nPX\r\n$3\r\n100\r\n", config.Role{})
	ctx.Cursor.StartNewArray(4)
	require.NoError(t, set(ctx))
	ctx.Writer.Flush()
	assert.Equal(t, "+OK\r\n", out.String())
	assert.True(t, ctx.Cursor.Empty())

	_, ok := ctx.Store.Get("foo")
	assert.True(t, ok)
}

func TestSetWithUnknownOptionFails(t *testing.T) {
	ctx, _ := newTestContext(t, "$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nXX\r\n$3\r\n100\r\n", config.Role{})
	ctx.Cursor.StartNewArray(4)
	assert.Error(t, set(ctx))
}

func TestGetOnMissingKeyRepliesNullBulk(t *testing.T) {
	ctx, out := newTestContext(t, "$3\r\nfoo\r\n", config.Role{})
	ctx.Cursor.StartNewArray(1)
	require.NoError(t, get(ctx))
	ctx.Writer.Flush()
	assert.Equal(t, "$-1\r\n", out.String())
}

func TestInfoAsPrimaryReportsReplid(t *testing.T) {
	ctx, out := newTestContext(t, "", config.Role{Kind: config.RolePrimary, ID: "abc123"})
	require.NoError(t, info(ctx))
	ctx.Writer.Flush()
	assert.Contains(t, out.String(), "role:master")
	assert.Contains(t, out.String(), "master_replid:abc123")
}

func TestInfoAsPrimaryIgnoresUnknownSectionArgument(t *testing.T) {
	ctx, out := newTestContext(t, "$10\r\neverything\r\n", config.Role{Kind: config.RolePrimary, ID: "abc123"})
	ctx.Cursor.StartNewArray(1)
	require.NoError(t, info(ctx))
	ctx.Writer.Flush()
	assert.Contains(t, out.String(), "role:master")
}

func TestInfoAsReplicaReportsSlaveRole(t *testing.T) {
	ctx, out := newTestContext(t, "", config.Role{Kind: config.RoleReplica})
	require.NoError(t, info(ctx))
	ctx.Writer.Flush()
	assert.Equal(t, "$10\r\nrole:slave\r\n", out.String())
}

func TestReplconfDrainsAllPairsAndRepliesOK(t *testing.T) {
	ctx, out := newTestContext(t, "$14\r\nlistening-port\r\n$5\r\n12345\r\n", config.Role{})
	ctx.Cursor.StartNewArray(2)
	require.NoError(t, replconf(ctx))
	ctx.Writer.Flush()
	assert.Equal(t, "+OK\r\n", out.String())
	assert.True(t, ctx.Cursor.Empty())
}

func TestPsyncRepliesFullresyncThenRawBlob(t *testing.T) {
	ctx, out := newTestContext(t, "$1\r\n?\r\n$2\r\n-1\r\n", config.Role{Kind: config.RolePrimary, ID: "replid0123456789"})
	ctx.Cursor.StartNewArray(2)
	require.NoError(t, psync(ctx))
	ctx.Writer.Flush()
	assert.Contains(t, out.String(), "+FULLRESYNC replid0123456789 0\r\n")
	assert.True(t, ctx.Cursor.Empty())
}
