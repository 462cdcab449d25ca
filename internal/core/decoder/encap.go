package decoder

import (
	"firestige.xyz/ospfdump/internal/core"
)

const (
	etherTypeIP        = 0x0800
	etherTypeARP       = 0x0806
	etherTypeREVARP    = 0x8035
	etherTypeDN        = 0x6003
	etherTypeATALK     = 0x809b
	etherTypeAARP      = 0x80f3
	etherTypeIPX       = 0x8137
	etherTypeVLAN      = 0x8100
	etherTypeQinQ      = 0x88a8
	etherTypeQinQOld   = 0x9100
	etherTypePPPoED    = 0x8863
	etherTypePPPoES    = 0x8864
	etherTypePPP       = 0x880b
	etherTypeLoopback  = 0x9000
	etherTypeMPLS      = 0x8847
	etherTypeMPLSMulti = 0x8848
	etherTypeIPv6      = 0x86dd
	etherTypeLAT       = 0x6004
	etherTypeSCA       = 0x6007
	etherTypeMOPRC     = 0x6002
	etherTypeMOPDL     = 0x6001

	vlanHeaderLen = 4
)

var etherTypeNames = core.Tokens{
	{Value: etherTypeIP, Label: "ip"},
	{Value: etherTypeIPv6, Label: "ip6"},
	{Value: etherTypeARP, Label: "arp"},
	{Value: etherTypeREVARP, Label: "rarp"},
	{Value: etherTypeDN, Label: "decnet"},
	{Value: etherTypeATALK, Label: "atalk"},
	{Value: etherTypeAARP, Label: "aarp"},
	{Value: etherTypeIPX, Label: "ipx"},
	{Value: etherTypeVLAN, Label: "802.1Q"},
	{Value: etherTypeQinQ, Label: "802.1Q-QinQ"},
	{Value: etherTypeQinQOld, Label: "802.1Q-9100"},
	{Value: etherTypePPPoED, Label: "pppoe-d"},
	{Value: etherTypePPPoES, Label: "pppoe-s"},
	{Value: etherTypePPP, Label: "ppp"},
	{Value: etherTypeLoopback, Label: "loopback"},
	{Value: etherTypeMPLS, Label: "mpls"},
	{Value: etherTypeMPLSMulti, Label: "mpls-mc"},
	{Value: etherTypeLAT, Label: "lat"},
	{Value: etherTypeSCA, Label: "sca"},
	{Value: etherTypeMOPRC, Label: "moprc"},
	{Value: etherTypeMOPDL, Label: "mopdl"},
}

// encapHandler prints the payload of one encapsulated protocol. length is
// the remaining wire length and depth the current nesting level. It reports
// whether the payload was consumed.
type encapHandler func(s *dissection, c core.Cursor, length, depth int) bool

var defaultEncapTable map[uint16]encapHandler

func init() {
	// populated here: the handlers reach back into dispatch.
	defaultEncapTable = map[uint16]encapHandler{
		etherTypeIP:        (*dissection).ipv4,
		etherTypeIPv6:      (*dissection).ipv6,
		etherTypeARP:       (*dissection).arp,
		etherTypeREVARP:    (*dissection).arp,
		etherTypeDN:        (*dissection).decnet,
		etherTypeATALK:     (*dissection).atalk,
		etherTypeAARP:      (*dissection).aarp,
		etherTypeIPX:       (*dissection).ipx,
		etherTypePPPoED:    (*dissection).pppoe,
		etherTypePPPoES:    (*dissection).pppoe,
		etherTypePPP:       (*dissection).pppFrame,
		etherTypeLoopback:  (*dissection).loopback,
		etherTypeMPLS:      (*dissection).mpls,
		etherTypeMPLSMulti: (*dissection).mpls,
		etherTypeLAT:       unhandledEncap,
		etherTypeSCA:       unhandledEncap,
		etherTypeMOPRC:     unhandledEncap,
		etherTypeMOPDL:     unhandledEncap,
	}
}

func unhandledEncap(*dissection, core.Cursor, int, int) bool {
	return false
}

func isVLAN(etherType uint16) bool {
	return etherType == etherTypeVLAN || etherType == etherTypeQinQ || etherType == etherTypeQinQOld
}

// dispatch routes c by etherType and returns whether the payload was consumed
// and the last type code it acted on. VLAN tags are unwrapped in a loop; each
// tag counts one level against the configured depth.
func (s *dissection) dispatch(etherType uint16, c core.Cursor, length, depth int) (bool, uint16) {
	for {
		s.summary.EtherType = etherType
		if !isVLAN(etherType) {
			h, ok := s.table[etherType]
			if !ok {
				return false, etherType
			}
			return h(s, c, length, depth), etherType
		}

		if depth >= s.opts.EncapDepth() {
			s.truncated("[|vlan]")
			return true, etherType
		}
		depth++

		f := fields{c: c}
		tci := f.u16(0)
		inner := f.u16(2)
		if f.err != nil {
			s.truncated("[|vlan]")
			return true, etherType
		}
		cfi := ""
		if tci&0x1000 != 0 {
			cfi = " CFI"
		}
		s.printf("802.1Q vlan#%d P%d%s ", tci&0x0fff, tci>>13, cfi)

		next, err := c.Advance(vlanHeaderLen)
		if err != nil {
			s.truncated("[|vlan]")
			return true, etherType
		}
		c = next
		length -= vlanHeaderLen
		etherType = inner

		if etherType > etherMTU {
			continue
		}
		handled, extracted := s.llc(c, length, depth)
		if !handled {
			s.unhandled(c, extracted)
		}
		return true, extracted
	}
}

// LookupEtherType returns the type code printed as name, e.g. "ip" or "802.1Q".
func LookupEtherType(name string) (uint16, bool) {
	v, ok := etherTypeNames.Find(name)
	return uint16(v), ok
}

// EtherTypeName returns the printed name of a type code.
func EtherTypeName(etherType uint16) string {
	return etherProtoString(etherType)
}
