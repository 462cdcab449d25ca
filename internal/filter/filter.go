// Package filter selects frames by their outer EtherType before they reach
// the dissector.
package filter

import (
	"fmt"

	"golang.org/x/net/bpf"
)

// maxTypes is bounded by the 8-bit jump offsets of a classic BPF program.
const maxTypes = 255

// EtherTypeFilter accepts frames whose EtherType field, at offset 12, is in
// an allow-list. The list is compiled into a classic BPF program and run on
// the x/net/bpf virtual machine, so a frame too short to hold the field is
// rejected the same way a kernel filter would reject it.
type EtherTypeFilter struct {
	types []uint16
	prog  []bpf.Instruction
	vm    *bpf.VM
}

// New compiles an allow-list. An empty list accepts every frame.
func New(types []uint16) (*EtherTypeFilter, error) {
	f := &EtherTypeFilter{types: append([]uint16(nil), types...)}
	if len(types) == 0 {
		return f, nil
	}
	if len(types) > maxTypes {
		return nil, fmt.Errorf("too many ether types: %d (max %d)", len(types), maxTypes)
	}

	f.prog = compile(types)
	vm, err := bpf.NewVM(f.prog)
	if err != nil {
		return nil, fmt.Errorf("failed to load bpf program: %w", err)
	}
	f.vm = vm
	return f, nil
}

// compile lays the program out as
//
//	ldh [12]
//	jeq #t0, accept
//	...
//	jeq #tn, accept
//	ret #0
//	accept: ret #65535
func compile(types []uint16) []bpf.Instruction {
	n := len(types)
	prog := make([]bpf.Instruction, 0, n+3)
	prog = append(prog, bpf.LoadAbsolute{Off: 12, Size: 2})
	for i, t := range types {
		prog = append(prog, bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(t), SkipTrue: uint8(n - i)})
	}
	prog = append(prog,
		bpf.RetConstant{Val: 0},
		bpf.RetConstant{Val: 65535},
	)
	return prog
}

// Match reports whether the frame passes the filter.
func (f *EtherTypeFilter) Match(frame []byte) bool {
	if f.vm == nil {
		return true
	}
	n, err := f.vm.Run(frame)
	return err == nil && n > 0
}

// Assemble returns the raw program, e.g. for attaching to a live socket.
// An accept-all filter has no program.
func (f *EtherTypeFilter) Assemble() ([]bpf.RawInstruction, error) {
	if f.prog == nil {
		return nil, nil
	}
	return bpf.Assemble(f.prog)
}

// Types returns the allow-list.
func (f *EtherTypeFilter) Types() []uint16 {
	return append([]uint16(nil), f.types...)
}
