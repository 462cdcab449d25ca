package core

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorCheck(t *testing.T) {
	c := NewCursor(make([]byte, 8))

	assert.NoError(t, c.Check(0, 8))
	assert.NoError(t, c.Check(8, 0))
	assert.NoError(t, c.Check(4, 4))
	assert.ErrorIs(t, c.Check(5, 4), ErrTruncated)
	assert.ErrorIs(t, c.Check(9, 0), ErrTruncated)
	assert.ErrorIs(t, c.Check(-1, 1), ErrTruncated)
	assert.ErrorIs(t, c.Check(0, -1), ErrTruncated)
}

func TestCursorReads(t *testing.T) {
	buf := []byte{
		0x01,
		0x02, 0x03,
		0x0a, 0x00, 0x00, 0x01,
		0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	}
	c := NewCursor(buf)

	v8, err := c.Uint8(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), v8)

	v16, err := c.Uint16(1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v16)

	v32, err := c.Uint32(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0a000001), v32)

	addr, err := c.Addr(3)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), addr)

	mac, err := c.MAC(7)
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mac.String())

	_, err = c.Uint32(10)
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = c.MAC(8)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestCursorAdvance(t *testing.T) {
	c := NewCursor(make([]byte, 10))

	next, err := c.Advance(4)
	require.NoError(t, err)
	assert.Equal(t, 4, next.Offset())
	assert.Equal(t, 6, next.Remaining())
	assert.Equal(t, 0, c.Offset(), "advancing must not modify the original cursor")
	assert.Equal(t, 4, c.Distance(next))

	end, err := next.Advance(6)
	require.NoError(t, err)
	assert.Equal(t, 0, end.Remaining())

	_, err = next.Advance(7)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestCursorTrim(t *testing.T) {
	c := NewCursor(make([]byte, 40))

	trimmed, err := c.Trim(16)
	require.NoError(t, err)
	assert.Equal(t, 24, trimmed.Remaining())
	assert.Equal(t, 40, c.Remaining())
	assert.ErrorIs(t, trimmed.Check(20, 8), ErrTruncated)

	_, err = trimmed.Trim(25)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestCursorClip(t *testing.T) {
	c := NewCursor(make([]byte, 20))
	inner, err := c.Advance(4)
	require.NoError(t, err)

	clipped := inner.Clip(6)
	assert.Equal(t, 6, clipped.Remaining())
	assert.ErrorIs(t, clipped.Check(4, 4), ErrTruncated)

	// Clipping beyond the limit never widens the view.
	assert.Equal(t, 16, inner.Clip(100).Remaining())
	assert.Equal(t, 0, inner.Clip(-3).Remaining())
}

func TestCursorBytesCapped(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6}
	c := NewCursor(buf).Clip(4)

	b, err := c.Bytes(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, b)
	assert.Equal(t, 3, cap(b), "slices must not reach past the snapshot limit")

	rest := c.Rest()
	assert.Equal(t, []byte{1, 2, 3, 4}, rest)
	assert.Equal(t, 4, cap(rest))
}
