package decoder

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/ospfdump/internal/core"
)

const (
	llcSAPSNAP = 0xaa
	llcSAPSTP  = 0x42

	ouiEncapEther = 0x000000
	ouiCisco90    = 0x0000f8

	novellRawIPX = 0xffff
)

// llc decodes an 802.2 header. SNAP-encapsulated payloads with an Ethernet
// OUI go back through dispatch one level deeper. The second result is the
// type code found in the SNAP header, 0 when none was extracted.
func (s *dissection) llc(c core.Cursor, length, depth int) (bool, uint16) {
	if depth >= s.opts.EncapDepth() {
		s.truncated("[|llc]")
		return true, 0
	}

	// Novell "raw 802.3" carries IPX with no LLC header at all.
	if sap, err := c.Uint16(0); err == nil && sap == novellRawIPX {
		s.printf("(NOV-802.3) ")
		return s.ipx(c, length, depth), 0
	}

	var llc layers.LLC
	if err := llc.DecodeFromBytes(c.Rest(), gopacket.NilDecodeFeedback); err != nil {
		s.truncated("[|llc]")
		return true, 0
	}

	switch {
	case llc.DSAP == llcSAPSNAP && llc.SSAP == llcSAPSNAP:
		return s.snap(c, &llc, length, depth)
	case llc.DSAP == llcSAPSTP && llc.SSAP == llcSAPSTP:
		s.printf("802.1d STP, length %d", length)
		return true, 0
	}
	return false, 0
}

func (s *dissection) snap(c core.Cursor, llc *layers.LLC, length, depth int) (bool, uint16) {
	var snap layers.SNAP
	if err := snap.DecodeFromBytes(llc.Payload, gopacket.NilDecodeFeedback); err != nil {
		s.truncated("[|snap]")
		return true, 0
	}
	oui := uint32(snap.OrganizationalCode[0])<<16 |
		uint32(snap.OrganizationalCode[1])<<8 |
		uint32(snap.OrganizationalCode[2])
	if oui != ouiEncapEther && oui != ouiCisco90 {
		return false, 0
	}

	etherType := uint16(snap.Type)
	hdrLen := len(llc.Contents) + len(snap.Contents)
	inner, err := c.Advance(hdrLen)
	if err != nil {
		s.truncated("[|snap]")
		return true, 0
	}
	handled, _ := s.dispatch(etherType, inner, length-hdrLen, depth+1)
	return handled, etherType
}
