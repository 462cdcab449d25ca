package decoder

import (
	"fmt"
	"io"
)

// WriteHex dumps data as lines of 16 bytes in 2-byte groups, each line
// prefixed with a newline, a tab and the offset.
func WriteHex(w io.Writer, data []byte) {
	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(w, "\n\t0x%04x: ", i)
		line := data[i:min(i+16, len(data))]
		for j := 0; j < len(line); j += 2 {
			if j+1 < len(line) {
				fmt.Fprintf(w, " %02x%02x", line[j], line[j+1])
			} else {
				fmt.Fprintf(w, " %02x", line[j])
			}
		}
	}
}

func (s *dissection) hexdump(data []byte) {
	WriteHex(s.w, data)
}
