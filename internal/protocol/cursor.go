package protocol

import "github.com/pkg/errors"

// ErrCursorEmpty is returned by Decrement when no array is currently open.
var ErrCursorEmpty = errors.New("command outside array")

// ArrayCursor tracks, per connection, how many elements remain owed by the
// array currently being read. It is a stack rather than a single counter so
// nested arrays can be represented, even though the current command set
// never produces them.
type ArrayCursor struct {
	remaining []int
}

// NewArrayCursor returns an empty cursor.
func NewArrayCursor() *ArrayCursor {
	return &ArrayCursor{}
}

// StartNewArray pushes a new array of n elements still to be consumed.
func (c *ArrayCursor) StartNewArray(n int) {
	c.remaining = append(c.remaining, n)
}

// Decrement consumes one element of the innermost open array. It pops the
// top entry and pushes it back only if it is still positive after the
// decrement. Calling Decrement with no array open is an error.
func (c *ArrayCursor) Decrement() error {
	if len(c.remaining) == 0 {
		return ErrCursorEmpty
	}
	top := len(c.remaining) - 1
	n := c.remaining[top] - 1
	if n > 0 {
		c.remaining[top] = n
		return nil
	}
	c.remaining = c.remaining[:top]
	return nil
}

// ExpectsMore reports whether the innermost open array still owes elements.
func (c *ArrayCursor) ExpectsMore() bool {
	if len(c.remaining) == 0 {
		return false
	}
	return c.remaining[len(c.remaining)-1] > 0
}

// Empty reports whether no array is currently open, i.e. we are between
// top-level commands.
func (c *ArrayCursor) Empty() bool {
	return len(c.remaining) == 0
}
