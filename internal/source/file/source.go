// Package file reads captured frames from pcap and pcapng files.
package file

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/ospfdump/internal/core"
)

// StdinPath reads the capture from standard input.
const StdinPath = "-"

const pcapngMagic = 0x0a0d0d0a

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Source yields CaptureRecords from a savefile. Only Ethernet captures are
// accepted.
type Source struct {
	path   string
	closer io.Closer
	reader packetReader
}

// NewSource validates the path; the file is opened by Start.
func NewSource(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("capture file path is required")
	}
	return &Source{path: path}, nil
}

// NewReaderSource wraps an already open stream. The caller keeps ownership of r.
func NewReaderSource(r io.Reader) (*Source, error) {
	s := &Source{path: "(reader)"}
	if err := s.open(r); err != nil {
		return nil, err
	}
	return s, nil
}

// Start opens the file and reads its header.
func (s *Source) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.reader != nil {
		return nil
	}

	var r io.ReadCloser = os.Stdin
	if s.path != StdinPath {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("failed to open capture file %s: %w", s.path, err)
		}
		r = f
		s.closer = f
	}

	if err := s.open(r); err != nil {
		s.Stop()
		return fmt.Errorf("%s: %w", s.path, err)
	}
	return nil
}

func (s *Source) open(r io.Reader) error {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return fmt.Errorf("failed to read capture header: %w", err)
	}

	var reader packetReader
	if binary.BigEndian.Uint32(magic) == pcapngMagic {
		reader, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		reader, err = pcapgo.NewReader(br)
	}
	if err != nil {
		return fmt.Errorf("failed to parse capture header: %w", err)
	}

	if lt := reader.LinkType(); lt != layers.LinkTypeEthernet {
		return fmt.Errorf("%w: %s", core.ErrUnsupportedLinkType, lt)
	}
	s.reader = reader
	return nil
}

// ReadPacket returns the next frame, or io.EOF after the last one.
func (s *Source) ReadPacket() (core.CaptureRecord, error) {
	if s.reader == nil {
		return core.CaptureRecord{}, core.ErrSourceNotOpen
	}

	data, ci, err := s.reader.ReadPacketData()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return core.CaptureRecord{}, io.EOF
		}
		return core.CaptureRecord{}, fmt.Errorf("failed to read packet: %w", err)
	}

	wire := ci.Length
	if wire < len(data) {
		// some writers leave the original length at zero
		wire = len(data)
	}
	return core.CaptureRecord{
		Data:       data,
		Timestamp:  ci.Timestamp,
		CaptureLen: uint32(len(data)),
		WireLen:    uint32(wire),
	}, nil
}

// LinkType returns the capture's link type once started.
func (s *Source) LinkType() layers.LinkType {
	if s.reader == nil {
		return layers.LinkTypeEthernet
	}
	return s.reader.LinkType()
}

// Path returns the configured path.
func (s *Source) Path() string {
	return s.path
}

// Stop closes the file. Safe to call more than once.
func (s *Source) Stop() error {
	s.reader = nil
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
