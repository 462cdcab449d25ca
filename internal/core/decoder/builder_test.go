package decoder

import (
	"bytes"
	"encoding/binary"
	"net"
	"strconv"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"firestige.xyz/ospfdump/internal/core"
)

var (
	srcMAC   = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	dstMAC   = net.HardwareAddr{0x01, 0x00, 0x5e, 0x00, 0x00, 0x05}
	routerIP = net.IP{10, 0, 0, 1}
	allSPF   = net.IP{224, 0, 0, 5}
)

const macs = "00:11:22:33:44:55 01:00:5e:00:00:05"

func serialize(t testing.TB, ls ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ls...))
	return buf.Bytes()
}

func ethernetLayer(etherType layers.EthernetType) *layers.Ethernet {
	return &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: etherType}
}

func ipv4Layer(proto layers.IPProtocol) *layers.IPv4 {
	return &layers.IPv4{Version: 4, TTL: 1, Protocol: proto, SrcIP: routerIP, DstIP: allSPF}
}

// ospfFrame wraps an OSPF packet in IPv4 and Ethernet.
func ospfFrame(t testing.TB, ospf []byte) []byte {
	t.Helper()
	return serialize(t, ethernetLayer(layers.EthernetTypeIPv4), ipv4Layer(layers.IPProtocolOSPF), gopacket.Payload(ospf))
}

// rawFrame builds an Ethernet frame by hand, without gopacket's padding.
func rawFrame(typeOrLen uint16, payload ...[]byte) []byte {
	b := append([]byte{}, dstMAC...)
	b = append(b, srcMAC...)
	b = binary.BigEndian.AppendUint16(b, typeOrLen)
	for _, p := range payload {
		b = append(b, p...)
	}
	return b
}

func u16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }
func ip4(a, b, c, d byte) []byte {
	return []byte{a, b, c, d}
}
func cat(parts ...[]byte) []byte { return bytes.Join(parts, nil) }

type ospfPacket struct {
	version  uint8 // 0 means 2
	typ      uint8
	area     []byte
	authType uint16
	authData []byte
	body     []byte
	length   int    // declared length, 0 means header + body
	trailer  []byte // appended after the declared packet, e.g. an MD5 digest
}

func (p ospfPacket) bytes() []byte {
	n := ospfHeaderLen + len(p.body)
	length := n
	if p.length != 0 {
		length = p.length
	}
	version := p.version
	if version == 0 {
		version = 2
	}
	b := make([]byte, n)
	b[0] = version
	b[1] = p.typ
	binary.BigEndian.PutUint16(b[2:], uint16(length))
	copy(b[4:], routerIP.To4())
	if p.area != nil {
		copy(b[8:], p.area)
	}
	binary.BigEndian.PutUint16(b[14:], p.authType)
	copy(b[16:24], p.authData)
	copy(b[24:], p.body)
	return append(b, p.trailer...)
}

// helloBody: mask 255.255.255.0, hello 10s, External, priority 1, dead 40s,
// DR 10.0.0.1, no BDR, one neighbor 10.0.0.2.
func helloBody() []byte {
	return cat(ip4(255, 255, 255, 0), u16(10), []byte{0x02, 0x01}, u32(40),
		ip4(10, 0, 0, 1), ip4(0, 0, 0, 0), ip4(10, 0, 0, 2))
}

const helloVerbose = "\n\t  Hello Timer: 10s, Dead Timer 40s, mask: 255.255.255.0, Priority: 1" +
	"\n\t  Options: External" +
	"\n\t  Designated Router 10.0.0.1" +
	"\n\t  Neighbor List:" +
	"\n\t    10.0.0.2"

// lsaBytes builds an LSA with age 10, sequence 0x80000001 and the given
// options. length 0 means header + body.
func lsaBytes(typ, options uint8, length int, body []byte) []byte {
	b := make([]byte, lsaHeaderLen, lsaHeaderLen+len(body))
	binary.BigEndian.PutUint16(b[0:], 10)
	b[2] = options
	b[3] = typ
	copy(b[4:], routerIP.To4())
	copy(b[8:], routerIP.To4())
	binary.BigEndian.PutUint32(b[12:], 0x80000001)
	if length == 0 {
		length = lsaHeaderLen + len(body)
	}
	binary.BigEndian.PutUint16(b[18:], uint16(length))
	return append(b, body...)
}

func lsaHeaderLine(name string, typ int, options string) string {
	return "\n\t  " + name + " LSA (" + strconv.Itoa(typ) + "), LSA-ID: 10.0.0.1, Advertising Router: 10.0.0.1, seq 0x80000001, age 10s" +
		"\n\t    Options: " + options
}

func lsuBody(count uint32, lsas ...[]byte) []byte {
	return cat(append([][]byte{u32(count)}, lsas...)...)
}

const ospfVerbosePrefix = "\n\tRouter-ID: 10.0.0.1, Backbone Area, Authentication Type: none (0)"

type result struct {
	out     string
	summary Summary
}

// dissect runs one dissection over data captured in full.
func dissect(t testing.TB, opts core.Options, data []byte) result {
	t.Helper()
	return dissectCapture(t, opts, data, len(data))
}

// dissectCapture runs one dissection over the first captured bytes of data.
func dissectCapture(t testing.TB, opts core.Options, data []byte, captured int) result {
	t.Helper()
	rec := core.CaptureRecord{
		Data:       data[:captured],
		CaptureLen: uint32(captured),
		WireLen:    uint32(len(data)),
	}
	require.NoError(t, rec.Validate())
	var buf bytes.Buffer
	sum := NewDissector(opts).Dissect(&buf, rec)
	return result{out: buf.String(), summary: sum}
}

func fullRecord(data []byte) core.CaptureRecord {
	return core.CaptureRecord{Data: data, CaptureLen: uint32(len(data)), WireLen: uint32(len(data))}
}

// recorder replaces the handler for one ether type and remembers what it saw.
type recorder struct {
	payload []byte
	length  int
	depth   int
	calls   int
}

func (r *recorder) install(d *Dissector, etherType uint16) {
	d.table[etherType] = func(s *dissection, c core.Cursor, length, depth int) bool {
		r.payload = c.Rest()
		r.length = length
		r.depth = depth
		r.calls++
		return true
	}
}
