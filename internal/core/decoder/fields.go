package decoder

import (
	"net"
	"net/netip"

	"firestige.xyz/ospfdump/internal/core"
)

// fields reads a group of header fields and remembers the first failed
// bounds check. After a failure every read returns a zero value without
// touching the buffer, so callers check err once per group, before printing.
type fields struct {
	c   core.Cursor
	err error
}

func (f *fields) u8(off int) uint8 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.Uint8(off)
	f.err = err
	return v
}

func (f *fields) u16(off int) uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.Uint16(off)
	f.err = err
	return v
}

func (f *fields) u32(off int) uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.Uint32(off)
	f.err = err
	return v
}

func (f *fields) addr(off int) netip.Addr {
	if f.err != nil {
		return netip.Addr{}
	}
	v, err := f.c.Addr(off)
	f.err = err
	return v
}

func (f *fields) mac(off int) net.HardwareAddr {
	if f.err != nil {
		return nil
	}
	v, err := f.c.MAC(off)
	f.err = err
	return v
}
