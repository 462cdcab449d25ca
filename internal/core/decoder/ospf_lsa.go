package decoder

import (
	"net/netip"

	"firestige.xyz/ospfdump/internal/core"
)

const (
	lsaHeaderLen = 20

	lsaTypeRouter   = 1
	lsaTypeNetwork  = 2
	lsaTypeSumIP    = 3
	lsaTypeSumASBR  = 4
	lsaTypeASE      = 5
	lsaTypeGroup    = 6
	lsaTypeNSSA     = 7
	lsaTypeOpaqueLL = 9
	lsaTypeOpaqueAL = 10
	lsaTypeOpaqueDW = 11

	rlaFlagsOff  = 20
	rlaCountOff  = 22
	rlaLinksOff  = 24
	rlaLinkLen   = 12
	tosMetricLen = 4

	rlaTypeRouter  = 1
	rlaTypeTransit = 2
	rlaTypeStub    = 3
	rlaTypeVirtual = 4

	lsaMaskOff   = 20
	lsaMetricOff = 24
	aslaRecLen   = 12
	mclaRecLen   = 8

	optionTOS      = 0x01
	tosMask        = 0x7f000000
	tosShift       = 24
	metricMask     = 0x00ffffff
	aslaTypeE2     = 0x80000000
	lsInfinity     = 0x00ffffff
	mclaVertexRtr  = 1
	mclaVertexNet  = 2
	verboseBodyHex = 2
)

var lsaTypeNames = core.Tokens{
	{Value: lsaTypeRouter, Label: "Router"},
	{Value: lsaTypeNetwork, Label: "Network"},
	{Value: lsaTypeSumIP, Label: "Summary"},
	{Value: lsaTypeSumASBR, Label: "ASBR Summary"},
	{Value: lsaTypeASE, Label: "External"},
	{Value: lsaTypeGroup, Label: "Multicast Group"},
	{Value: lsaTypeNSSA, Label: "NSSA"},
	{Value: lsaTypeOpaqueLL, Label: "Link Local Opaque"},
	{Value: lsaTypeOpaqueAL, Label: "Area Local Opaque"},
	{Value: lsaTypeOpaqueDW, Label: "Domain Wide Opaque"},
}

var rlaFlagNames = core.Tokens{
	{Value: 0x01, Label: "ABR"},
	{Value: 0x02, Label: "ASBR"},
	{Value: 0x04, Label: "Virtual"},
	{Value: 0x08, Label: "W2"},
}

type lsaHeader struct {
	age      uint16
	options  uint8
	typ      uint8
	lsid     netip.Addr
	adv      netip.Addr
	seq      uint32
	checksum uint16
	length   uint16
}

// readLSAHeader reads the 20-byte LSA header at off. The whole header must
// be captured.
func readLSAHeader(c core.Cursor, off int) (lsaHeader, error) {
	if err := c.Check(off, lsaHeaderLen); err != nil {
		return lsaHeader{}, err
	}
	f := fields{c: c}
	h := lsaHeader{
		age:      f.u16(off),
		options:  f.u8(off + 2),
		typ:      f.u8(off + 3),
		lsid:     f.addr(off + 4),
		adv:      f.addr(off + 8),
		seq:      f.u32(off + 12),
		checksum: f.u16(off + 16),
		length:   f.u16(off + 18),
	}
	return h, f.err
}

func (s *dissection) printLSAHeader(h lsaHeader) {
	s.printf("\n\t  %s LSA (%d), LSA-ID: %s, Advertising Router: %s, seq 0x%08x, age %ds",
		lsaTypeNames.Lookup(uint32(h.typ), "unknown"), h.typ, h.lsid, h.adv, h.seq, h.age)
	s.printf("\n\t    Options: %s", ospfOptionNames.Bits(uint32(h.options), "none"))
}

// lsa prints one complete LSA at c and returns its declared length. A length
// shorter than the header cannot advance the walk and counts as truncation.
func (s *dissection) lsa(c core.Cursor) (int, error) {
	h, err := readLSAHeader(c, 0)
	if err != nil {
		return 0, err
	}
	s.printLSAHeader(h)

	length := int(h.length)
	if length < lsaHeaderLen {
		return 0, core.ErrTruncated
	}
	// the body never reads past the LSA's own end, whatever the packet says.
	body := c.Clip(length)
	return length, s.lsaBody(body, h, length)
}

func (s *dissection) lsaBody(c core.Cursor, h lsaHeader, end int) error {
	switch h.typ {
	case lsaTypeRouter:
		return s.routerLSA(c)
	case lsaTypeNetwork:
		return s.networkLSA(c, end)
	case lsaTypeSumIP, lsaTypeSumASBR:
		return s.summaryLSA(c, h, end)
	case lsaTypeASE, lsaTypeNSSA:
		return s.externalLSA(c, end)
	case lsaTypeGroup:
		return s.groupLSA(c, end)
	}
	if s.opts.Verbose >= verboseBodyHex {
		body, err := c.Advance(lsaHeaderLen)
		if err != nil {
			return err
		}
		s.hexdump(body.Rest())
	}
	return nil
}

func (s *dissection) routerLSA(c core.Cursor) error {
	flags, err := c.Uint8(rlaFlagsOff)
	if err != nil {
		return err
	}
	if flags == 0 {
		s.printf("\n\t    Router LSA Options: none")
	} else {
		s.printf("\n\t    Router LSA Options: %s", rlaFlagNames.Bits(uint32(flags), "unknown (%d)"))
	}

	count, err := c.Uint16(rlaCountOff)
	if err != nil {
		return err
	}
	off := rlaLinksOff
	for i := 0; i < int(count); i++ {
		f := fields{c: c}
		linkID := f.addr(off)
		linkData := f.addr(off + 4)
		linkType := f.u8(off + 8)
		tosCount := int(f.u8(off + 9))
		metric := f.u16(off + 10)
		if f.err != nil {
			return f.err
		}
		stride := rlaLinkLen + tosCount*tosMetricLen
		if err := c.Check(off, stride); err != nil {
			return err
		}

		switch linkType {
		case rlaTypeVirtual:
			s.printf("\n\t      Virtual Link: Neighbor-Router-ID: %s, Interface-IP: %s", linkID, linkData)
		case rlaTypeRouter:
			s.printf("\n\t      Neighbor-Router-ID: %s, Interface-IP: %s", linkID, linkData)
		case rlaTypeTransit:
			s.printf("\n\t      Neighbor-Network-ID: %s, Interface-IP: %s", linkID, linkData)
		case rlaTypeStub:
			s.printf("\n\t      Stub-Network: %s, mask: %s", linkID, linkData)
		default:
			s.printf("\n\t      unknown Router Links Type (%d)", linkType)
			return nil
		}

		s.printf(", tos 0, metric: %d", metric)
		for k := 0; k < tosCount; k++ {
			tosOff := off + rlaLinkLen + k*tosMetricLen
			f := fields{c: c}
			tos := f.u8(tosOff)
			tosMetric := f.u16(tosOff + 2)
			if f.err != nil {
				return f.err
			}
			s.printf(", tos %d, metric: %d", tos, tosMetric)
		}
		off += stride
	}
	return nil
}

func (s *dissection) networkLSA(c core.Cursor, end int) error {
	mask, err := c.Addr(lsaMaskOff)
	if err != nil {
		return err
	}
	s.printf("\n\t    mask %s rtrs", mask)
	for off := lsaMaskOff + 4; off < end; off += 4 {
		rtr, err := c.Addr(off)
		if err != nil {
			return err
		}
		s.printf(" %s", rtr)
	}
	return nil
}

func (s *dissection) summaryLSA(c core.Cursor, h lsaHeader, end int) error {
	mask, err := c.Addr(lsaMaskOff)
	if err != nil {
		return err
	}
	s.printf("\n\t    mask %s", mask)

	tm, err := c.Uint32(lsaMetricOff)
	if err != nil {
		return err
	}
	if h.options&optionTOS == 0 {
		s.printf(", metric: %d", tm&metricMask)
		return nil
	}
	for off := lsaMetricOff; off < end; off += 4 {
		tm, err := c.Uint32(off)
		if err != nil {
			return err
		}
		s.printf(", tos %d metric %d", (tm&tosMask)>>tosShift, tm&metricMask)
	}
	return nil
}

// externalLSA covers AS-external and NSSA LSAs, which share a layout.
func (s *dissection) externalLSA(c core.Cursor, end int) error {
	mask, err := c.Addr(lsaMaskOff)
	if err != nil {
		return err
	}
	s.printf("\n\t    mask %s", mask)
	if err := c.Check(lsaMetricOff, 4); err != nil {
		return err
	}

	for off := lsaMetricOff; off < end; off += aslaRecLen {
		tm, err := c.Uint32(off)
		if err != nil {
			return err
		}
		metricType := 1
		if tm&aslaTypeE2 != 0 {
			metricType = 2
		}
		s.printf(", type %d, tos %d metric:", metricType, (tm&tosMask)>>tosShift)
		if metric := tm & metricMask; metric == lsInfinity {
			s.printf(" infinite")
		} else {
			s.printf(" %d", metric)
		}

		forward, err := c.Addr(off + 4)
		if err != nil {
			return err
		}
		if !forward.IsUnspecified() {
			s.printf(", forward %s", forward)
		}
		tag, err := c.Addr(off + 8)
		if err != nil {
			return err
		}
		if !tag.IsUnspecified() {
			s.printf(", tag %s", tag)
		}
	}
	return nil
}

func (s *dissection) groupLSA(c core.Cursor, end int) error {
	for off := lsaHeaderLen; off < end; off += mclaRecLen {
		f := fields{c: c}
		vertexType := f.u32(off)
		vertexID := f.addr(off + 4)
		if f.err != nil {
			return f.err
		}
		switch vertexType {
		case mclaVertexRtr:
			s.printf("\n\t    Router Router-ID %s", vertexID)
		case mclaVertexNet:
			s.printf("\n\t    Network Designated Router %s", vertexID)
		default:
			s.printf("\n\t    unknown VertexType (%d)", vertexType)
		}
	}
	return nil
}
