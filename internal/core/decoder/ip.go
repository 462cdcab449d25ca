package decoder

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/ospfdump/internal/core"
)

const (
	ipv4HeaderMinLen = 20
	ipv6HeaderLen    = 40

	ipProtocolOSPF = 89
	ipFragOffset   = 0x1fff
)

// ipv4 prints the IPv4 carrier line and hands protocol 89 to the OSPF
// dissector. The payload cursor is clipped to the IP total length so link
// padding is never read as OSPF data.
func (s *dissection) ipv4(c core.Cursor, length, depth int) bool {
	f := fields{c: c}
	vihl := f.u8(0)
	totalLen := int(f.u16(2))
	fragField := f.u16(6)
	proto := f.u8(9)
	src := f.addr(12)
	dst := f.addr(16)
	if f.err != nil {
		s.truncated("[|ip]")
		return true
	}

	if version := vihl >> 4; version != 4 {
		s.printf("IP%d", version)
		return true
	}
	hlen := int(vihl&0x0f) * 4
	if hlen < ipv4HeaderMinLen {
		s.printf("bad-hlen %d", hlen)
		return true
	}
	if totalLen < hlen {
		s.printf("bad-len %d", totalLen)
		return true
	}
	if totalLen > length {
		s.printf("truncated-ip - %d bytes missing! ", totalLen-length)
	}

	s.printf("IP %s > %s: ", src, dst)
	if frag := fragField & ipFragOffset; frag != 0 {
		s.printf("ip-proto-%d (frag offset %d)", proto, int(frag)*8)
		return true
	}

	payload, err := c.Advance(hlen)
	if err != nil {
		s.truncated("[|ip]")
		return true
	}
	payloadLen := totalLen - hlen
	payload = payload.Clip(payloadLen)

	switch proto {
	case ipProtocolOSPF:
		s.summary.OSPF = true
		s.ospf(payload, payloadLen)
	default:
		s.printf("ip-proto-%d %d", proto, payloadLen)
	}
	return true
}

func (s *dissection) ipv6(c core.Cursor, length, depth int) bool {
	if err := c.Check(0, ipv6HeaderLen); err != nil {
		s.truncated("[|ip6]")
		return true
	}
	var ip6 layers.IPv6
	if err := ip6.DecodeFromBytes(c.Rest(), gopacket.NilDecodeFeedback); err != nil {
		s.printf("IP6 bad header")
		return true
	}
	s.printf("IP6 %s > %s: %s %d", ip6.SrcIP, ip6.DstIP, ip6.NextHeader, ip6.Length)
	return true
}
