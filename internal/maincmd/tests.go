package maincmd

import (
	"fmt"

	"github.com/mna/mainer"

	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/machine"
	"github.com/roguh/clox/lang/value"
)

// RunEmbeddedTests runs a handful of hand-built chunks through the
// disassembler and the VM and prints their results, for the '--tests' CLI
// mode. These are smoke tests, not a pass/fail suite: they exist so that a
// build can be sanity-checked without a source file to hand, the same role
// test/unit.c's testAll() plays in the original source (disassemble a few
// chunks built directly against the Chunk API, then interpret a few more
// and report what came out).
func RunEmbeddedTests(stdio mainer.Stdio) error {
	testReturnOnly(stdio)
	testConstants(stdio)
	testManyConstants(stdio)
	return testArithmeticRun(stdio)
}

func testReturnOnly(stdio mainer.Stdio) {
	chunk := bytecode.NewChunk()
	chunk.WriteOp(bytecode.OpReturn, 1, 1)
	fmt.Fprintln(stdio.Stdout, bytecode.Disassemble(chunk, "return only"))
}

func testConstants(stdio mainer.Stdio) {
	chunk := bytecode.NewChunk()
	chunk.EmitConstant(value.DoubleValue(3.14159265), 1, 1)
	chunk.EmitConstant(value.DoubleValue(2*3.14159265), 1, 1)
	chunk.EmitConstant(value.DoubleValue(3*3.14159265), 1, 1)
	chunk.WriteOp(bytecode.OpReturn, 1, 1)
	fmt.Fprintln(stdio.Stdout, bytecode.Disassemble(chunk, "three constants"))
}

func testManyConstants(stdio mainer.Stdio) {
	chunk := bytecode.NewChunk()
	for i := 0; i < bytecode.MinSizeToLong+1; i++ {
		chunk.EmitConstant(value.DoubleValue(float64(i)+3.14159265), 1, 1)
	}
	chunk.WriteOp(bytecode.OpReturn, 1, 1)
	fmt.Fprintln(stdio.Stdout, bytecode.Disassemble(chunk, "many constants (expect an OP_CONSTANT_LONG)"))
}

func testArithmeticRun(stdio mainer.Stdio) error {
	chunk := bytecode.NewChunk()
	for _, op := range []bytecode.Opcode{bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv} {
		chunk.EmitConstant(value.DoubleValue(3.14159265), 1, 1)
		chunk.EmitConstant(value.DoubleValue(3.14159265), 1, 1)
		chunk.WriteOp(op, 1, 1)
		chunk.WriteOp(bytecode.OpPrint, 1, 1)
	}
	chunk.WriteOp(bytecode.OpNil, 1, 1)
	chunk.WriteOp(bytecode.OpReturn, 1, 1)

	fn := &value.Function{Name: "<embedded test>", Arity: 0, Chunk: chunk}
	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr
	err := vm.Run(fn)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, "execution result: ok")
	return nil
}
