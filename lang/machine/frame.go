package machine

import (
	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/value"
)

// CallFrame is one activation record on the VM's call stack: the function
// being executed, its instruction pointer, and the base of its locals
// within the shared value stack (slot 0 is the callee itself).
type CallFrame struct {
	function  *value.Function
	chunk     *bytecode.Chunk
	ip        int
	slotsBase int
}

func (f *CallFrame) readByte() byte {
	b := f.chunk.ReadByte(f.ip)
	f.ip++
	return b
}

func (f *CallFrame) read24Bit() int {
	n := f.chunk.Read24Bit(f.ip)
	f.ip += 3
	return n
}
