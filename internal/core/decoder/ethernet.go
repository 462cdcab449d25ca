package decoder

import (
	"net"

	"firestige.xyz/ospfdump/internal/core"
)

const (
	ethernetHeaderLen = 14
	etherMTU          = 1500
)

type frameInfo struct {
	src, dst      net.HardwareAddr
	etherType     uint16
	wireLen       int
	headerPrinted bool
}

// ether decodes the 14-byte Ethernet header and hands the payload to the
// LLC path (type/length ≤ 1500) or to the encapsulation table.
func (s *dissection) ether(c core.Cursor, wireLen int) {
	if c.Remaining() < ethernetHeaderLen {
		s.truncated("[|ether]")
		return
	}

	f := fields{c: c}
	dst := f.mac(0)
	src := f.mac(6)
	etherType := f.u16(12)
	if f.err != nil {
		s.truncated("[|ether]")
		return
	}
	s.frame = frameInfo{
		src:       src,
		dst:       dst,
		etherType: etherType,
		wireLen:   wireLen,
	}
	s.summary.EtherType = etherType

	if s.opts.PrintHeader {
		s.etherHeader()
	}

	payload, err := c.Advance(ethernetHeaderLen)
	if err != nil {
		s.truncated("[|ether]")
		return
	}
	length := wireLen - ethernetHeaderLen

	if etherType <= etherMTU {
		handled, extracted := s.llc(payload, length, 0)
		s.summary.Handled = handled
		if !handled {
			s.unhandled(payload, extracted)
		}
		return
	}

	handled, _ := s.dispatch(etherType, payload, length, 0)
	s.summary.Handled = handled
	if !handled {
		s.unhandled(payload, 0)
	}
}

func (s *dissection) etherHeader() {
	s.frame.headerPrinted = true
	f := s.frame
	if s.opts.Quiet {
		s.printf("%s %s %d: ", f.src, f.dst, f.wireLen)
		return
	}
	s.printf("%s %s %s %d: ", f.src, f.dst, etherProtoString(f.etherType), f.wireLen)
}

// unhandled is the default print for a payload no collaborator consumed.
func (s *dissection) unhandled(c core.Cursor, extracted uint16) {
	if !s.frame.headerPrinted {
		s.etherHeader()
	}
	if extracted != 0 {
		s.printf("(LLC %s) ", etherProtoString(extracted))
	}
	if !s.opts.HexDump && !s.opts.Quiet && !s.opts.SuppressDefaultPrint {
		s.hexdump(c.Rest())
	}
}

func etherProtoString(etherType uint16) string {
	if etherType <= etherMTU {
		return "802.3"
	}
	return etherTypeNames.Lookup(uint32(etherType), "0x%04x")
}
