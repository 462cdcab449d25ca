// Package console writes dissected frames to a text stream, one line per frame.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"firestige.xyz/ospfdump/internal/core"
	"firestige.xyz/ospfdump/internal/core/decoder"
)

// TimestampLayout prefixes every line.
const TimestampLayout = "15:04:05.000000"

// Sink prints each record as "<timestamp> <dissection>", followed by a dump
// of the whole frame when the dissector runs in hex-dump mode.
type Sink struct {
	mu sync.Mutex
	w  *bufio.Writer
	d  *decoder.Dissector
}

func NewSink(w io.Writer, d *decoder.Dissector) *Sink {
	return &Sink{
		w: bufio.NewWriter(w),
		d: d,
	}
}

// Send dissects rec and writes the line. The returned error is the write
// error of the underlying stream.
func (s *Sink) Send(rec core.CaptureRecord) (decoder.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "%s ", rec.Timestamp.Format(TimestampLayout))
	sum := s.d.Dissect(s.w, rec)
	if s.d.Options().HexDump {
		decoder.WriteHex(s.w, rec.Data)
	}
	s.w.WriteByte('\n')
	return sum, s.w.Flush()
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
