// Package machine implements the stack-based virtual machine that executes
// compiled bytecode: the value stack, call frames, the fetch-decode-execute
// loop, native function dispatch and string interning.
package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/compiler"
	"github.com/roguh/clox/lang/value"
)

const framesMax = 256
const stackMax = framesMax * 256

// VM owns every heap-allocated object, the globals table, the interned
// string table, and the operand/frame stacks for one interpreter session.
// Its lifetime spans one program (REPL lines reuse the same *VM so that
// `var` declarations accumulate across lines, as the original interpreter's
// single process-wide vm does).
type VM struct {
	stack []value.Value
	sp    int

	frames     []CallFrame
	frameCount int

	globals *value.Hashmap
	strings *value.Hashmap
	objects value.Obj

	Stdout io.Writer
	Stderr io.Writer

	DebugTrace bool
}

// New returns a VM with its globals table initialized and every native
// function registered. Stdout/Stderr default to os.Stdout/os.Stderr when
// left nil.
func New() *VM {
	vm := &VM{
		stack:   make([]value.Value, stackMax),
		frames:  make([]CallFrame, framesMax),
		globals: value.NewHashmap(512),
		strings: value.NewHashmap(1024),
	}
	registerNatives(vm)
	return vm
}

func (vm *VM) stdout() io.Writer {
	if vm.Stdout != nil {
		return vm.Stdout
	}
	return os.Stdout
}

func (vm *VM) stderr() io.Writer {
	if vm.Stderr != nil {
		return vm.Stderr
	}
	return os.Stderr
}

func (vm *VM) track(o value.Obj) value.Obj {
	o.SetNext(vm.objects)
	vm.objects = o
	return o
}

// intern returns the canonical *value.String for s, creating and tracking a
// new one on first sight. Every string value the VM ever produces or loads
// a constant pool through passes through here, so that two strings with
// identical byte content are always the same object (spec invariant 4).
func (vm *VM) intern(s string) *value.String {
	hash := hashStringFNV(s)
	if existing := vm.strings.GetStr(s, hash); existing != nil {
		return existing
	}
	str := vm.track(value.NewString(s)).(*value.String)
	vm.strings.Add(value.ObjValue(str), value.NilValue)
	return str
}

// hashStringFNV mirrors value.HashValue's string hashing so intern's
// GetStr lookup key matches what the Hashmap stores internally.
func hashStringFNV(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

// internConstants walks fn's constant pool (recursively, through any
// nested function constants) replacing every *value.String constant with
// its canonical interned object, so that literal strings compiled in
// separate places still compare/hash as the same object once loaded.
func (vm *VM) internConstants(fn *value.Function) {
	chunk, ok := fn.Chunk.(*bytecode.Chunk)
	if !ok {
		return
	}
	for i, c := range chunk.Constants {
		switch o := c.AsObj().(type) {
		case *value.String:
			if c.IsObject() {
				chunk.Constants[i] = value.ObjValue(vm.intern(o.Chars))
			}
		case *value.Function:
			vm.internConstants(o)
		}
	}
}

// Interpret compiles and runs src, reusing vm's globals/string table (so a
// sequence of Interpret calls against the same VM behaves like successive
// lines typed at a REPL).
func (vm *VM) Interpret(src []byte) error {
	fn, err := compiler.Compile(src)
	if err != nil {
		return err
	}
	return vm.Run(fn)
}

// Run executes a compiled top-level function to completion.
func (vm *VM) Run(fn *value.Function) error {
	vm.internConstants(fn)
	vm.sp = 0
	vm.frameCount = 0
	vm.push(value.ObjValue(fn))
	if err := vm.call(fn, 0); err != nil {
		return err
	}
	return vm.run()
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(offset int) value.Value {
	return vm.stack[vm.sp-1-offset]
}

func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frameCount = 0
}

func isFalsey(v value.Value) bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// call pushes a new frame to invoke fn with the argCount arguments already
// sitting on top of the stack (with fn itself just below them).
func (vm *VM) call(fn *value.Function, argCount int) error {
	if fn.Arity >= 0 && argCount != fn.Arity {
		return vm.runtimeError("%s() expected %d arguments but got %d.", fnName(fn), fn.Arity, argCount)
	}
	if vm.frameCount == framesMax {
		return vm.runtimeError("Stack overflow.")
	}
	chunk, _ := fn.Chunk.(*bytecode.Chunk)
	vm.frames[vm.frameCount] = CallFrame{
		function:  fn,
		chunk:     chunk,
		slotsBase: vm.sp - argCount - 1,
	}
	vm.frameCount++
	return nil
}

func fnName(fn *value.Function) string {
	if fn.Name == "" {
		return "<script>"
	}
	return fn.Name
}

func (vm *VM) callValue(callee value.Value, argCount int) error {
	if callee.IsObject() {
		switch fn := callee.AsObj().(type) {
		case *value.Function:
			return vm.call(fn, argCount)
		case *value.Native:
			if fn.Arity >= 0 && argCount != fn.Arity {
				return vm.runtimeError("%s() expected %d arguments but got %d.", fn.Name, fn.Arity, argCount)
			}
			args := vm.stack[vm.sp-argCount : vm.sp]
			result, err := fn.Fn(args)
			if err != nil {
				return vm.runtimeError("%s", err.Error())
			}
			vm.sp -= argCount + 1
			vm.push(result)
			return nil
		}
	}
	return vm.runtimeError("Can only call functions and classes.")
}

// runtimeError formats msg, resets the operand stack, and returns a
// *RuntimeError carrying the per-frame backtrace of the call stack as it
// stood at the point of failure.
func (vm *VM) runtimeError(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	frames := make([]BacktraceFrame, vm.frameCount)
	for i := vm.frameCount - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		ip := fr.ip - 1
		line, col := 0, 0
		if fr.chunk != nil && ip >= 0 && ip < len(fr.chunk.Lines) {
			line, col = fr.chunk.Line(ip), fr.chunk.Column(ip)
		}
		frames[vm.frameCount-1-i] = BacktraceFrame{Line: line, Column: col, Function: fnName(fr.function)}
	}
	vm.resetStack()
	return &RuntimeError{Message: msg, Backtrace: frames}
}
