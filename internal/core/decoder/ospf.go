package decoder

import (
	"net/netip"
	"strings"

	"firestige.xyz/ospfdump/internal/core"
)

const (
	ospfHeaderLen = 24
	ospfMD5Len    = 16

	ospfAuthNone   = 0
	ospfAuthSimple = 1
	ospfAuthMD5    = 2

	ospfTypeUMD   = 0
	ospfTypeHello = 1
	ospfTypeDD    = 2
	ospfTypeLSR   = 3
	ospfTypeLSU   = 4
	ospfTypeLSAck = 5
)

var ospfTypeNames = core.Tokens{
	{Value: ospfTypeUMD, Label: "UMD"},
	{Value: ospfTypeHello, Label: "Hello"},
	{Value: ospfTypeDD, Label: "Database Description"},
	{Value: ospfTypeLSR, Label: "LS-Request"},
	{Value: ospfTypeLSU, Label: "LS-Update"},
	{Value: ospfTypeLSAck, Label: "LS-Ack"},
}

var ospfAuthNames = core.Tokens{
	{Value: ospfAuthNone, Label: "none"},
	{Value: ospfAuthSimple, Label: "simple"},
	{Value: ospfAuthMD5, Label: "MD5"},
}

// ospf prints one OSPF packet. length is the IP payload length. Any
// truncation inside the packet collapses into a single marker after
// whatever was already printed.
func (s *dissection) ospf(c core.Cursor, length int) {
	if err := s.ospfPacket(c, length); err != nil {
		s.truncated(" [|ospf]")
	}
}

func (s *dissection) ospfPacket(c core.Cursor, length int) error {
	authType, err := c.Uint16(14)
	if err != nil {
		return err
	}
	// the MD5 digest trails the packet and is not covered by its length.
	if authType == ospfAuthMD5 {
		length -= ospfMD5Len
		if length < 0 {
			return core.ErrTruncated
		}
		if c, err = c.Trim(ospfMD5Len); err != nil {
			return err
		}
	}

	f := fields{c: c}
	version := f.u8(0)
	typ := f.u8(1)
	if f.err != nil {
		return f.err
	}
	if !ospfTypeNames.Has(uint32(typ)) {
		s.printf("OSPFv%d unknown LS-Type %d length: %d", version, typ, length)
		return nil
	}
	s.printf("OSPFv%d %s length: %d", version, ospfTypeNames.Lookup(uint32(typ), ""), length)
	if s.opts.Verbose == 0 {
		return nil
	}

	declared, err := c.Uint16(2)
	if err != nil {
		return err
	}
	if int(declared) != length {
		s.printf(" [len %d]", declared)
		return nil
	}

	routerID, err := c.Addr(4)
	if err != nil {
		return err
	}
	s.printf("\n\tRouter-ID: %s", routerID)

	area, err := c.Addr(8)
	if err != nil {
		return err
	}
	if area == netip.IPv4Unspecified() {
		s.printf(", Backbone Area")
	} else {
		s.printf(", Area %s", area)
	}

	s.printf(", Authentication Type: %s (%d)", ospfAuthNames.Lookup(uint32(authType), "unknown"), authType)
	switch authType {
	case ospfAuthNone:
	case ospfAuthSimple:
		passwd, err := c.Bytes(16, 8)
		if err != nil {
			return err
		}
		s.printf("\n\tSimple text password: %q", printable(passwd))
	case ospfAuthMD5:
		f := fields{c: c}
		keyID := f.u8(18)
		authLen := f.u8(19)
		seq := f.u32(20)
		if f.err != nil {
			return f.err
		}
		s.printf("\n\tKey-ID: %d, Auth-Length: %d, Crypto Sequence Number: 0x%08x", keyID, authLen, seq)
	default:
		return nil
	}

	if version != 2 {
		s.printf(" ospf [version %d]", version)
		return nil
	}
	return s.ospfV2(c, typ, length)
}

// printable renders a NUL-padded password field, replacing non-printable
// bytes with '.'.
func printable(b []byte) string {
	var sb strings.Builder
	for _, ch := range b {
		if ch == 0 {
			break
		}
		if ch < 0x20 || ch > 0x7e {
			ch = '.'
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}
