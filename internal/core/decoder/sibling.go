package decoder

import (
	"net"
	"net/netip"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/ospfdump/internal/core"
)

const (
	arpFixedLen   = 8
	pppoeHdrLen   = 6
	pppoeSession  = 0x00
	mplsEntryLen  = 4
	pppAddrCtrl   = 0xff03
	pppProtoIP    = 0x0021
	pppProtoIPv6  = 0x0057
	pppProtoMPLS  = 0x0281
	arpOpRequest  = 1
	arpOpReply    = 2
	arpOpRRequest = 3
	arpOpRReply   = 4
)

var pppoeCodeNames = core.Tokens{
	{Value: 0x09, Label: "PADI"},
	{Value: 0x07, Label: "PADO"},
	{Value: 0x19, Label: "PADR"},
	{Value: 0x65, Label: "PADS"},
	{Value: 0xa7, Label: "PADT"},
	{Value: pppoeSession, Label: "Session"},
}

var pppProtoNames = core.Tokens{
	{Value: pppProtoIP, Label: "IP"},
	{Value: pppProtoIPv6, Label: "IPv6"},
	{Value: pppProtoMPLS, Label: "MPLS"},
	{Value: 0x8021, Label: "IPCP"},
	{Value: 0x8057, Label: "IP6CP"},
	{Value: 0xc021, Label: "LCP"},
	{Value: 0xc023, Label: "PAP"},
	{Value: 0xc223, Label: "CHAP"},
}

func (s *dissection) arp(c core.Cursor, length, depth int) bool {
	if err := c.Check(0, arpFixedLen); err != nil {
		s.truncated("[|arp]")
		return true
	}
	var arp layers.ARP
	if err := arp.DecodeFromBytes(c.Rest(), gopacket.NilDecodeFeedback); err != nil {
		s.truncated("[|arp]")
		return true
	}
	if arp.Protocol != layers.EthernetTypeIPv4 || arp.HwAddressSize != 6 || arp.ProtAddressSize != 4 {
		s.printf("arp-#%d for proto #%d (%d) hardware #%d (%d)",
			arp.Operation, uint16(arp.Protocol), arp.ProtAddressSize, uint16(arp.AddrType), arp.HwAddressSize)
		return true
	}

	sha := net.HardwareAddr(arp.SourceHwAddress)
	tha := net.HardwareAddr(arp.DstHwAddress)
	spa := netip.AddrFrom4([4]byte(arp.SourceProtAddress))
	tpa := netip.AddrFrom4([4]byte(arp.DstProtAddress))
	switch arp.Operation {
	case arpOpRequest:
		s.printf("arp who-has %s tell %s", tpa, spa)
	case arpOpReply:
		s.printf("arp reply %s is-at %s", spa, sha)
	case arpOpRRequest:
		s.printf("rarp who-is %s tell %s", tha, sha)
	case arpOpRReply:
		s.printf("rarp reply %s at %s", tha, tpa)
	default:
		s.printf("arp-#%d", arp.Operation)
	}
	return true
}

func (s *dissection) decnet(c core.Cursor, length, depth int) bool {
	s.printf("DECnet length %d", length)
	return true
}

func (s *dissection) atalk(c core.Cursor, length, depth int) bool {
	if s.opts.Verbose > 0 {
		s.printf("et1 ")
	}
	s.printf("atalk length %d", length)
	return true
}

func (s *dissection) aarp(c core.Cursor, length, depth int) bool {
	s.printf("aarp length %d", length)
	return true
}

func (s *dissection) ipx(c core.Cursor, length, depth int) bool {
	if s.summary.EtherType == etherTypeIPX {
		s.printf("(NOV-ETHII) ")
	}
	s.printf("ipx length %d", length)
	return true
}

func (s *dissection) loopback(c core.Cursor, length, depth int) bool {
	s.printf("loopback")
	return true
}

// pppoe prints the 6-byte PPPoE header. Session frames carry PPP, which is
// printed one level deeper.
func (s *dissection) pppoe(c core.Cursor, length, depth int) bool {
	f := fields{c: c}
	verType := f.u8(0)
	code := f.u8(1)
	session := f.u16(2)
	payloadLen := int(f.u16(4))
	if f.err != nil {
		s.truncated("[|pppoe]")
		return true
	}
	if verType != 0x11 {
		s.printf("PPPoE ver %d type %d ", verType>>4, verType&0x0f)
	}
	s.printf("PPPoE %s", pppoeCodeNames.Lookup(uint32(code), "code 0x%02x"))
	if session != 0 {
		s.printf(" [ses 0x%x]", session)
	}
	if code != pppoeSession {
		s.printf(" length %d", payloadLen)
		return true
	}

	inner, err := c.Advance(pppoeHdrLen)
	if err != nil {
		s.truncated("[|pppoe]")
		return true
	}
	s.printf(" ")
	s.ppp(inner.Clip(payloadLen), payloadLen, depth+1)
	return true
}

func (s *dissection) pppFrame(c core.Cursor, length, depth int) bool {
	s.printf("ppp: ")
	s.ppp(c, length, depth+1)
	return true
}

// ppp prints a PPP frame, skipping an HDLC address/control pair when present.
func (s *dissection) ppp(c core.Cursor, length, depth int) {
	if ac, err := c.Uint16(0); err == nil && ac == pppAddrCtrl {
		c, _ = c.Advance(2)
		length -= 2
	}
	proto, err := c.Uint16(0)
	if err != nil {
		s.truncated("[|ppp]")
		return
	}
	inner, _ := c.Advance(2)
	length -= 2

	switch proto {
	case pppProtoIP:
		s.ipv4(inner, length, depth)
	case pppProtoIPv6:
		s.ipv6(inner, length, depth)
	case pppProtoMPLS:
		s.mpls(inner, length, depth)
	default:
		s.printf("%s length %d", pppProtoNames.Lookup(uint32(proto), "unknown-proto-0x%04x"), length)
	}
}

// mpls prints the label stack and guesses the payload from its first nibble
// once the bottom-of-stack entry is reached.
func (s *dissection) mpls(c core.Cursor, length, depth int) bool {
	for {
		entry, err := c.Uint32(0)
		if err != nil {
			s.truncated("[|MPLS]")
			return true
		}
		bottom := entry&0x100 != 0
		stack := ""
		if bottom {
			stack = "[S], "
		}
		s.printf("MPLS (label %d, exp %d, %sttl %d) ", entry>>12, (entry>>9)&0x7, stack, entry&0xff)
		c, _ = c.Advance(mplsEntryLen)
		length -= mplsEntryLen
		if bottom {
			break
		}
	}

	first, err := c.Uint8(0)
	if err != nil {
		return true
	}
	switch first >> 4 {
	case 4:
		s.ipv4(c, length, depth+1)
	case 6:
		s.ipv6(c, length, depth+1)
	}
	return true
}
