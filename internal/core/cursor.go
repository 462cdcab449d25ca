package core

import (
	"encoding/binary"
	"net"
	"net/netip"
)

// Cursor is a bounds-checked view into a captured frame.
//
// base is the position the cursor reads from, limit is the snapshot limit:
// the first index not guaranteed to hold captured data. Cursors are values;
// narrowing or advancing one never changes another.
type Cursor struct {
	buf   []byte
	base  int
	limit int
}

// NewCursor returns a cursor over the whole captured buffer.
func NewCursor(buf []byte) Cursor {
	return Cursor{buf: buf, base: 0, limit: len(buf)}
}

// Check reports ErrTruncated unless [off, off+size) relative to the cursor
// lies inside the snapshot limit.
func (c Cursor) Check(off, size int) error {
	if off < 0 || size < 0 {
		return ErrTruncated
	}
	// base ≤ limit always holds, so this cannot overflow for sane offsets.
	if off > c.limit-c.base || size > c.limit-c.base-off {
		return ErrTruncated
	}
	return nil
}

// Uint8 reads one byte at off.
func (c Cursor) Uint8(off int) (uint8, error) {
	if err := c.Check(off, 1); err != nil {
		return 0, err
	}
	return c.buf[c.base+off], nil
}

// Uint16 reads a big-endian 16-bit value at off.
func (c Cursor) Uint16(off int) (uint16, error) {
	if err := c.Check(off, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(c.buf[c.base+off:]), nil
}

// Uint32 reads a big-endian 32-bit value at off.
func (c Cursor) Uint32(off int) (uint32, error) {
	if err := c.Check(off, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(c.buf[c.base+off:]), nil
}

// Addr reads an IPv4 address at off.
func (c Cursor) Addr(off int) (netip.Addr, error) {
	if err := c.Check(off, 4); err != nil {
		return netip.Addr{}, err
	}
	return netip.AddrFrom4([4]byte(c.buf[c.base+off : c.base+off+4])), nil
}

// MAC reads a 6-byte hardware address at off.
func (c Cursor) MAC(off int) (net.HardwareAddr, error) {
	if err := c.Check(off, 6); err != nil {
		return nil, err
	}
	return net.HardwareAddr(c.buf[c.base+off : c.base+off+6 : c.base+off+6]), nil
}

// Bytes returns n bytes at off. The slice aliases the capture buffer and is
// capped so it cannot be extended past the snapshot limit.
func (c Cursor) Bytes(off, n int) ([]byte, error) {
	if err := c.Check(off, n); err != nil {
		return nil, err
	}
	start := c.base + off
	return c.buf[start : start+n : start+n], nil
}

// Rest returns every captured byte from the cursor to the snapshot limit.
func (c Cursor) Rest() []byte {
	return c.buf[c.base:c.limit:c.limit]
}

// Advance moves the cursor forward by n bytes. Landing exactly on the limit is allowed.
func (c Cursor) Advance(n int) (Cursor, error) {
	if err := c.Check(0, n); err != nil {
		return c, err
	}
	c.base += n
	return c, nil
}

// Trim lowers the snapshot limit by n bytes.
func (c Cursor) Trim(n int) (Cursor, error) {
	if n < 0 || n > c.limit-c.base {
		return c, ErrTruncated
	}
	c.limit -= n
	return c, nil
}

// Clip lowers the snapshot limit to base+n when that is below the current limit.
// A negative n clips to the base.
func (c Cursor) Clip(n int) Cursor {
	if n < 0 {
		n = 0
	}
	if n < c.limit-c.base {
		c.limit = c.base + n
	}
	return c
}

// Remaining returns the number of captured bytes left before the limit.
func (c Cursor) Remaining() int {
	return c.limit - c.base
}

// Offset returns the cursor position within the capture buffer.
func (c Cursor) Offset() int {
	return c.base
}

// Distance returns how many bytes other lies ahead of c. Both cursors must
// come from the same buffer.
func (c Cursor) Distance(other Cursor) int {
	return other.base - c.base
}
