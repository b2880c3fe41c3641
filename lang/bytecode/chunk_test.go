package bytecode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/value"
)

func TestEmitConstantSwitchesToLongForm(t *testing.T) {
	c := bytecode.NewChunk()
	for i := 0; i < bytecode.MinSizeToLong-1; i++ {
		c.EmitConstant(value.IntValue(int32(i)), 1, 1)
	}
	// the 8th constant pushes the pool to exactly MinSizeToLong, which
	// writeConstant's post-add comparison treats as "no longer short"
	c.EmitConstant(value.IntValue(99), 1, 1)
	assert.Equal(t, byte(bytecode.OpConstantLong), c.Code[len(c.Code)-4])
}

func TestWriteShortOrLongPicksByOffsetMagnitude(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteShortOrLong(bytecode.OpGetLocal, bytecode.OpGetLocalLong, 3, 1, 1)
	assert.Equal(t, byte(bytecode.OpGetLocal), c.Code[0])

	c2 := bytecode.NewChunk()
	c2.WriteShortOrLong(bytecode.OpGetLocal, bytecode.OpGetLocalLong, 300, 1, 1)
	assert.Equal(t, byte(bytecode.OpGetLocalLong), c2.Code[0])
	assert.Equal(t, 300, c2.Read24Bit(1))
}

func TestJumpPatchingComputesForwardDistance(t *testing.T) {
	c := bytecode.NewChunk()
	at := c.EmitJump(bytecode.OpJump, 1, 1)
	c.WriteOp(bytecode.OpPop, 1, 1)
	c.PatchJump(at)
	assert.Equal(t, 1, c.Read24Bit(at))
}

func TestEmitLoopComputesBackwardDistance(t *testing.T) {
	c := bytecode.NewChunk()
	loopStart := len(c.Code)
	c.WriteOp(bytecode.OpPop, 1, 1)
	c.EmitLoop(loopStart, 1, 1)
	dist := c.Read24Bit(loopStart + 2)
	assert.Equal(t, (loopStart+2+3)-loopStart, dist)
}

func TestDisassembleRendersConstantsAndSimpleOps(t *testing.T) {
	c := bytecode.NewChunk()
	c.EmitConstant(value.IntValue(7), 1, 1)
	c.WriteOp(bytecode.OpReturn, 1, 5)

	out := bytecode.Disassemble(c, "test")
	require.True(t, strings.Contains(out, "== test =="))
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "'7'")
	assert.Contains(t, out, "OP_RETURN")
}

func TestDisassembleSharesLineMarkerOnSameLine(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteOp(bytecode.OpNil, 1, 1)
	c.WriteOp(bytecode.OpPop, 1, 2)
	out := bytecode.Disassemble(c, "t")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "   | ")
}
