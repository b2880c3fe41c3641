package bytecode

import (
	"fmt"
	"strings"

	"github.com/roguh/clox/lang/value"
)

// Disassemble renders every instruction in chunk, labelled with name.
func Disassemble(chunk *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		var line string
		line, offset = DisassembleInstruction(chunk, offset)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// DisassembleInstruction renders the single instruction at offset and
// returns the offset of the next instruction.
func DisassembleInstruction(chunk *Chunk, offset int) (string, int) {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(&b, "%4d ", chunk.Lines[offset])
	}

	op := Opcode(chunk.Code[offset])
	switch op {
	case OpReturn, OpNeg, OpNot, OpEqual, OpGreater, OpLess, OpAdd, OpSub,
		OpSize, OpBitAnd, OpBitOr, OpBitXor, OpBitNeg, OpMul, OpDiv,
		OpRemainder, OpExp, OpLeftShift, OpRightShift, OpPrint, OpPop, OpSwap,
		OpFalse, OpNil, OpTrue, OpNan, OpInf, OpInitArray, OpInsertArray,
		OpInitHashmap, OpInsertHashmap, OpSubscript, OpInvalid:
		return simpleInstruction(&b, op, offset)
	case OpConstant, OpDefineGlobal, OpGetGlobal, OpSetGlobal:
		return constantInstruction(&b, chunk, op, offset)
	case OpConstantLong, OpDefineGlobalLong, OpGetGlobalLong, OpSetGlobalLong:
		return constantLongInstruction(&b, chunk, op, offset)
	case OpGetLocal, OpSetLocal, OpCall:
		return byteInstruction(&b, chunk, op, offset)
	case OpGetLocalLong, OpSetLocalLong:
		return longByteInstruction(&b, chunk, op, offset)
	case OpJumpIfFalse, OpJump:
		return jumpInstruction(&b, chunk, op, 1, offset)
	case OpNegJump:
		return jumpInstruction(&b, chunk, op, -1, offset)
	default:
		fmt.Fprintf(&b, "unknown opcode %d\n", op)
		return b.String(), offset + 1
	}
}

func simpleInstruction(b *strings.Builder, op Opcode, offset int) (string, int) {
	b.WriteString(op.String())
	return b.String(), offset + 1
}

func byteInstruction(b *strings.Builder, chunk *Chunk, op Opcode, offset int) (string, int) {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-22s %4d", op, slot)
	return b.String(), offset + 2
}

func longByteInstruction(b *strings.Builder, chunk *Chunk, op Opcode, offset int) (string, int) {
	slot := chunk.Read24Bit(offset + 1)
	fmt.Fprintf(b, "%-22s %4d", op, slot)
	return b.String(), offset + 4
}

func jumpInstruction(b *strings.Builder, chunk *Chunk, op Opcode, sign, offset int) (string, int) {
	jump := chunk.Read24Bit(offset + 1)
	fmt.Fprintf(b, "%-22s %4d -> %d", op, offset, offset+3+1+sign*jump)
	return b.String(), offset + 4
}

func constantInstruction(b *strings.Builder, chunk *Chunk, op Opcode, offset int) (string, int) {
	addr := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-22s %4d '%s'", op, addr, value.Inspect(chunk.Constants[addr]))
	return b.String(), offset + 2
}

func constantLongInstruction(b *strings.Builder, chunk *Chunk, op Opcode, offset int) (string, int) {
	addr := chunk.Read24Bit(offset + 1)
	fmt.Fprintf(b, "%-22s %4d '%s'", op, addr, value.Inspect(chunk.Constants[addr]))
	return b.String(), offset + 4
}
