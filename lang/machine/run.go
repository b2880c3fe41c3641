package machine

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/value"
)

// run is the fetch-decode-execute loop. It always operates on the
// top-of-callstack frame; callValue/call push and OP_RETURN pops, and the
// loop re-reads vm.frames[vm.frameCount-1] after either.
func (vm *VM) run() error {
	frame := &vm.frames[vm.frameCount-1]

	for {
		if vm.DebugTrace {
			vm.traceStack()
			line, _ := bytecode.DisassembleInstruction(frame.chunk, frame.ip)
			fmt.Fprintln(vm.stdout(), line)
		}

		op := bytecode.Opcode(frame.readByte())
		switch op {
		case bytecode.OpInvalid:
			return vm.runtimeError("Unexpected null instruction!")

		case bytecode.OpReturn:
			result := vm.pop()
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.sp = frame.slotsBase
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case bytecode.OpPrint:
			if vm.sp > 0 {
				fmt.Fprintln(vm.stdout(), value.Print(vm.pop()))
			}

		case bytecode.OpCall:
			argCount := int(frame.readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case bytecode.OpSubscript:
			key := vm.pop()
			if err := vm.subscript(key); err != nil {
				return err
			}

		case bytecode.OpSwap:
			if vm.sp > 0 {
				a := vm.pop()
				b := vm.pop()
				vm.push(a)
				vm.push(b)
			}

		case bytecode.OpPop:
			if vm.sp > 0 {
				vm.pop()
			}

		case bytecode.OpDefineGlobal, bytecode.OpDefineGlobalLong:
			name := vm.readGlobalName(frame, op == bytecode.OpDefineGlobalLong)
			vm.globals.Add(value.ObjValue(name), vm.pop())

		case bytecode.OpSetGlobal, bytecode.OpSetGlobalLong:
			name := vm.readGlobalName(frame, op == bytecode.OpSetGlobalLong)
			if !vm.globals.Set(value.ObjValue(name), vm.peek(0)) {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case bytecode.OpGetGlobal, bytecode.OpGetGlobalLong:
			name := vm.readGlobalName(frame, op == bytecode.OpGetGlobalLong)
			val, notFound := vm.globals.Get(value.ObjValue(name))
			if notFound {
				err := vm.runtimeError("Undefined variable '%s'.", name.Chars)
				rerr := err.(*RuntimeError)
				rerr.Hint = vm.didYouMeanHint()
				return rerr
			}
			vm.push(val)

		case bytecode.OpSetLocal:
			slot := int(frame.readByte())
			vm.stack[frame.slotsBase+slot] = vm.peek(0)
		case bytecode.OpSetLocalLong:
			slot := frame.read24Bit()
			vm.stack[frame.slotsBase+slot] = vm.peek(0)

		case bytecode.OpGetLocal:
			slot := int(frame.readByte())
			vm.push(vm.stack[frame.slotsBase+slot])
		case bytecode.OpGetLocalLong:
			slot := frame.read24Bit()
			vm.push(vm.stack[frame.slotsBase+slot])

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.BoolValue(value.Equal(a, b)))

		case bytecode.OpJump:
			offset := frame.read24Bit()
			frame.ip += offset
		case bytecode.OpNegJump:
			offset := frame.read24Bit()
			frame.ip -= offset
		case bytecode.OpJumpIfFalse:
			offset := frame.read24Bit()
			if isFalsey(vm.peek(0)) {
				frame.ip += offset
			}

		case bytecode.OpInitArray:
			vm.push(value.ObjValue(vm.track(value.NewArray(16))))
		case bytecode.OpInsertArray:
			v := vm.pop()
			arr := vm.peek(0).AsObj().(*value.Array)
			arr.Insert(v)

		case bytecode.OpInitHashmap:
			vm.push(value.ObjValue(vm.track(value.NewHashmapObj(8))))
		case bytecode.OpInsertHashmap:
			v := vm.pop()
			key := vm.pop()
			hm := vm.peek(0).AsObj().(*value.HashmapObj)
			hm.Map.Add(key, v)

		case bytecode.OpConstant:
			vm.push(frame.chunk.Constants[frame.readByte()])
		case bytecode.OpConstantLong:
			vm.push(frame.chunk.Constants[frame.read24Bit()])

		case bytecode.OpNot:
			vm.push(value.BoolValue(isFalsey(vm.pop())))
		case bytecode.OpBitNeg:
			vm.push(value.IntValue(^vm.pop().AsInt()))

		case bytecode.OpSize:
			if err := vm.size(); err != nil {
				return err
			}

		case bytecode.OpGreater:
			b, a := vm.pop(), vm.pop()
			vm.push(value.BoolValue(numLess(b, a)))
		case bytecode.OpLess:
			b, a := vm.pop(), vm.pop()
			vm.push(value.BoolValue(numLess(a, b)))

		case bytecode.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OpNeg:
			v := vm.pop()
			vm.push(arith(value.IntValue(-1), v, mulOp))
		case bytecode.OpSub:
			b, a := vm.pop(), vm.pop()
			vm.push(arith(a, b, subOp))
		case bytecode.OpMul:
			b, a := vm.pop(), vm.pop()
			vm.push(arith(a, b, mulOp))
		case bytecode.OpDiv:
			b, a := vm.pop(), vm.pop()
			if b.IsZero() || (b.Kind == value.Int && b.AsInt() == 0) {
				_ = a
				vm.push(value.DoubleValue(math.Inf(1)))
				fmt.Fprintln(vm.stderr(), "ERROR: Ignoring division by zero! Returning infinity.")
				break
			}
			vm.push(arith(a, b, divOp))

		case bytecode.OpBitAnd:
			b, a := vm.pop().AsInt(), vm.pop().AsInt()
			vm.push(value.IntValue(a & b))
		case bytecode.OpBitOr:
			b, a := vm.pop().AsInt(), vm.pop().AsInt()
			vm.push(value.IntValue(a | b))
		case bytecode.OpBitXor:
			b, a := vm.pop().AsInt(), vm.pop().AsInt()
			vm.push(value.IntValue(a ^ b))
		case bytecode.OpLeftShift:
			b, a := vm.pop().AsInt(), vm.pop().AsInt()
			vm.push(value.IntValue(a << uint(b)))
		case bytecode.OpRightShift:
			b, a := uint32(vm.pop().AsInt()), uint32(vm.pop().AsInt())
			vm.push(value.IntValue(int32(a >> b)))

		case bytecode.OpRemainder:
			b, a := vm.pop().AsDouble(), vm.pop().AsDouble()
			vm.push(value.DoubleValue(math.Mod(a, b)))
		case bytecode.OpExp:
			b, a := vm.pop().AsDouble(), vm.pop().AsDouble()
			vm.push(value.DoubleValue(math.Pow(a, b)))

		case bytecode.OpNil:
			vm.push(value.NilValue)
		case bytecode.OpFalse:
			vm.push(value.False)
		case bytecode.OpTrue:
			vm.push(value.True)
		case bytecode.OpInf:
			vm.push(value.DoubleValue(math.Inf(1)))
		case bytecode.OpNan:
			vm.push(value.DoubleValue(math.NaN()))

		default:
			return vm.runtimeError("Unexpected opcode %v", op)
		}
	}
}

func (vm *VM) readGlobalName(frame *CallFrame, long bool) *value.String {
	var idx int
	if long {
		idx = frame.read24Bit()
	} else {
		idx = int(frame.readByte())
	}
	return frame.chunk.Constants[idx].AsObj().(*value.String)
}

func (vm *VM) traceStack() {
	fmt.Fprint(vm.stdout(), "[ ")
	for i := 0; i < vm.sp; i++ {
		fmt.Fprint(vm.stdout(), value.Inspect(vm.stack[i]))
		if i < vm.sp-1 {
			fmt.Fprint(vm.stdout(), " ")
		}
	}
	fmt.Fprintln(vm.stdout(), " ]")
}

// didYouMeanHint lists the currently-defined global names, sorted for
// stable output, as a hint appended to an undefined-variable error.
func (vm *VM) didYouMeanHint() string {
	names := make([]string, 0, vm.globals.Len())
	vm.globals.Iter(func(_ int, k, _ value.Value) {
		if s, ok := value.AsStringBytes(k); ok {
			names = append(names, s)
		}
	})
	if len(names) == 0 {
		return ""
	}
	slices.Sort(names)
	hint := "Did you mean one of: "
	for i, n := range names {
		if i > 0 {
			hint += ", "
		}
		hint += n
	}
	return hint
}
