package decoder

import (
	"firestige.xyz/ospfdump/internal/core"
)

// Offsets below are relative to the start of the OSPF header.
const (
	helloMaskOff     = 24
	helloIntervalOff = 28
	helloOptionsOff  = 30
	helloPriorityOff = 31
	helloDeadOff     = 32
	helloDROff       = 36
	helloBDROff      = 40
	helloNeighborOff = 44

	ddMTUOff     = 24
	ddOptionsOff = 26
	ddFlagsOff   = 27
	ddSeqOff     = 28
	ddLSAOff     = 32

	lsrOff    = 24
	lsrRecLen = 12

	lsuCountOff = 24
	lsuLSAOff   = 28

	lsackLSAOff = 24
)

var ospfOptionNames = core.Tokens{
	{Value: 0x01, Label: "TOS"},
	{Value: 0x02, Label: "External"},
	{Value: 0x04, Label: "Multicast"},
	{Value: 0x08, Label: "NSSA"},
	{Value: 0x10, Label: "Advertise External"},
	{Value: 0x20, Label: "Demand Circuit"},
	{Value: 0x40, Label: "Opaque"},
}

var ospfDDFlagNames = core.Tokens{
	{Value: 0x04, Label: "Init"},
	{Value: 0x02, Label: "More"},
	{Value: 0x01, Label: "Master"},
}

// ospfV2 prints the body of an OSPFv2 packet. end is the packet length
// declared in (and verified against) the header.
func (s *dissection) ospfV2(c core.Cursor, typ uint8, end int) error {
	switch typ {
	case ospfTypeUMD:
		return nil
	case ospfTypeHello:
		return s.ospfHello(c, end)
	case ospfTypeDD:
		return s.ospfDD(c)
	case ospfTypeLSR:
		return s.ospfLSR(c, end)
	case ospfTypeLSU:
		return s.ospfLSU(c)
	case ospfTypeLSAck:
		s.lsaHeaderList(c, lsackLSAOff)
		return nil
	}
	s.printf("v2 type (%d)", typ)
	return nil
}

func (s *dissection) ospfHello(c core.Cursor, end int) error {
	f := fields{c: c}
	mask := f.addr(helloMaskOff)
	interval := f.u16(helloIntervalOff)
	options := f.u8(helloOptionsOff)
	priority := f.u8(helloPriorityOff)
	dead := f.u32(helloDeadOff)
	if f.err != nil {
		return f.err
	}
	s.printf("\n\t  Hello Timer: %ds, Dead Timer %ds, mask: %s, Priority: %d", interval, dead, mask, priority)
	s.printf("\n\t  Options: %s", ospfOptionNames.Bits(uint32(options), "none"))

	dr, err := c.Addr(helloDROff)
	if err != nil {
		return err
	}
	if !dr.IsUnspecified() {
		s.printf("\n\t  Designated Router %s", dr)
	}
	bdr, err := c.Addr(helloBDROff)
	if err != nil {
		return err
	}
	if !bdr.IsUnspecified() {
		s.printf(", Backup Designated Router %s", bdr)
	}

	if helloNeighborOff < end {
		s.printf("\n\t  Neighbor List:")
	}
	for off := helloNeighborOff; off < end; off += 4 {
		neighbor, err := c.Addr(off)
		if err != nil {
			return err
		}
		s.printf("\n\t    %s", neighbor)
	}
	return nil
}

func (s *dissection) ospfDD(c core.Cursor) error {
	options, err := c.Uint8(ddOptionsOff)
	if err != nil {
		return err
	}
	s.printf("\n\t  Options: %s", ospfOptionNames.Bits(uint32(options), "none"))

	flags, err := c.Uint8(ddFlagsOff)
	if err != nil {
		return err
	}
	s.printf("\n\t  DD Flags: %s", ospfDDFlagNames.Bits(uint32(flags), "none"))

	f := fields{c: c}
	mtu := f.u16(ddMTUOff)
	seq := f.u32(ddSeqOff)
	if f.err != nil {
		return f.err
	}
	s.printf("\n\t  Interface MTU: %d, DD Sequence Number: 0x%08x", mtu, seq)

	s.lsaHeaderList(c, ddLSAOff)
	return nil
}

func (s *dissection) ospfLSR(c core.Cursor, end int) error {
	for off := lsrOff; off < end; off += lsrRecLen {
		f := fields{c: c}
		typ := f.u32(off)
		lsid := f.addr(off + 4)
		adv := f.addr(off + 8)
		if f.err != nil {
			return f.err
		}
		s.printf("\n\t  %s LSA (%d), LSA-ID: %s, Advertising Router: %s",
			lsaTypeNames.Lookup(typ, "unknown"), typ, lsid, adv)
	}
	return nil
}

// ospfLSU walks exactly the advertised number of LSAs, each advanced by its
// own declared length.
func (s *dissection) ospfLSU(c core.Cursor) error {
	count, err := c.Uint32(lsuCountOff)
	if err != nil {
		return err
	}
	plural := ""
	if count > 1 {
		plural = "s"
	}
	s.printf(", %d LSA%s", count, plural)

	lsa, err := c.Advance(lsuLSAOff)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		n, err := s.lsa(lsa)
		if err != nil {
			return err
		}
		if lsa, err = lsa.Advance(n); err != nil {
			return err
		}
	}
	return nil
}

// lsaHeaderList prints back-to-back LSA headers starting at off. The list
// carries no count; it ends at the first header that does not fit in the
// capture, silently.
func (s *dissection) lsaHeaderList(c core.Cursor, off int) {
	for {
		h, err := readLSAHeader(c, off)
		if err != nil {
			return
		}
		s.printLSAHeader(h)
		off += lsaHeaderLen
	}
}
