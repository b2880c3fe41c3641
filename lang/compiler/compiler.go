// Package compiler implements the single-pass Pratt parser that compiles
// source text directly to bytecode, with no intermediate AST.
package compiler

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/scanner"
	"github.com/roguh/clox/lang/token"
	"github.com/roguh/clox/lang/value"
)

// FunctionType distinguishes the implicit top-level script compiler from a
// compiler invoked for a nested `fun` body; only the latter may contain a
// `return` with a value and is itself a callable value.
type FunctionType int

const (
	TypeGlobal FunctionType = iota
	TypeFunction
)

// Local is a declared name together with the scope depth at which it
// becomes readable. A depth of -1 means "declared but not yet
// initialized" — reading it in its own initializer is an error.
type Local struct {
	name  token.Token
	depth int
}

const maxLocals = 1024
const maxArguments = 255

// Compiler holds the parse/codegen state for one function body (or the
// top-level script). Nested `fun` declarations push a child Compiler
// whose enclosing field chains back to the function that contains them;
// there are no closures, so a child never reads its enclosing locals.
// parserState is the scanner-driven token cursor and error-reporting
// state shared by every Compiler in a nested-function chain: there is
// exactly one token stream per compilation, however many function
// bodies it contains.
type parserState struct {
	scanner *scanner.Scanner

	cur, prev   token.Token
	hadError    bool
	panicMode   bool
	diagnostics []string
}

type Compiler struct {
	*parserState

	function  *value.Function
	chunk     *bytecode.Chunk
	ftype     FunctionType
	enclosing *Compiler

	locals     []Local
	scopeDepth int

	// names caches identifierConstant's result per spelling within this
	// function's chunk, so repeated references to the same global/field
	// name share one constant-pool slot instead of growing the pool once
	// per occurrence.
	names *swiss.Map[string, int]
}

func newCompiler(enclosing *Compiler, ftype FunctionType, name string) *Compiler {
	var ps *parserState
	if enclosing != nil {
		ps = enclosing.parserState
	}
	c := &Compiler{
		parserState: ps,
		enclosing:   enclosing,
		ftype:       ftype,
		function:    &value.Function{Name: name},
		names:       swiss.NewMap[string, int](8),
	}
	c.chunk = bytecode.NewChunk()
	c.function.Chunk = c.chunk
	// slot 0 is reserved for the callee itself, mirroring how OP_CALL
	// leaves the callee under its arguments on the stack.
	c.locals = append(c.locals, Local{depth: 0})
	return c
}

// Compile compiles src as a top-level script and returns the resulting
// function (whose Chunk is a *bytecode.Chunk), or a non-nil error
// aggregating every diagnostic produced. No chunk is ever returned
// alongside a non-nil error: a compile-fatal program hands nothing to the
// VM.
func Compile(src []byte) (*value.Function, error) {
	fn, _, err := compile(src, false)
	return fn, err
}

// CompileDebug behaves like Compile but also returns the disassembly of
// the top-level script's chunk, for the `-d`/`--dis` CLI mode. Nested
// function bodies appear only as `<fn name>` constants; their own chunks
// are not disassembled.
func CompileDebug(src []byte) (*value.Function, []string, error) {
	return compile(src, true)
}

func compile(src []byte, debugPrint bool) (*value.Function, []string, error) {
	c := newCompiler(nil, TypeGlobal, "<top_level>")
	c.parserState = &parserState{scanner: scanner.New(src)}
	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	c.consume(token.EOF, "Expect end of expression.")
	var dumps []string
	fn := c.end(debugPrint, &dumps)
	if c.hadError {
		return nil, dumps, compileError{diagnostics: c.diagnostics}
	}
	return fn, dumps, nil
}

type compileError struct{ diagnostics []string }

func (e compileError) Error() string {
	s := ""
	for i, d := range e.diagnostics {
		if i > 0 {
			s += "\n"
		}
		s += d
	}
	return s
}

// Diagnostics returns the individual compile diagnostics of err, if err
// was produced by this package.
func Diagnostics(err error) []string {
	if ce, ok := err.(compileError); ok {
		return ce.diagnostics
	}
	return nil
}

func (c *Compiler) currentChunk() *bytecode.Chunk { return c.chunk }

func (c *Compiler) errorAt(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	var context string
	switch tok.Kind {
	case token.EOF:
		context = " at end of input"
	case token.ERROR:
		context = ""
	default:
		context = fmt.Sprintf(" at %s", tok.Lexeme)
	}
	c.diagnostics = append(c.diagnostics, fmt.Sprintf("[%d:%d] Error%s: %s", tok.Line, tok.Column, context, msg))
}

func (c *Compiler) error(msg string)         { c.errorAt(c.prev, msg) }
func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.cur, msg) }

func (c *Compiler) advance() {
	c.prev = c.cur
	for {
		c.cur = c.scanner.Scan()
		if c.cur.Kind != token.ERROR {
			break
		}
		c.errorAtCurrent(c.cur.Lexeme)
	}
}

func (c *Compiler) consume(kind token.Kind, msg string) {
	if c.cur.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *Compiler) check(kind token.Kind) bool { return c.cur.Kind == kind }

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) emitByte(b byte) {
	c.currentChunk().WriteByte(b, c.prev.Line, c.prev.Column)
}

func (c *Compiler) emitOp(op bytecode.Opcode) {
	c.currentChunk().WriteOp(op, c.prev.Line, c.prev.Column)
}

func (c *Compiler) emitOps(a, b bytecode.Opcode) {
	c.emitOp(a)
	c.emitOp(b)
}

func (c *Compiler) emitReturn() {
	c.emitOp(bytecode.OpNil)
	c.emitOp(bytecode.OpReturn)
}

func (c *Compiler) emitConstant(v value.Value) int {
	return c.currentChunk().EmitConstant(v, c.prev.Line, c.prev.Column)
}

func (c *Compiler) makeConstant(v value.Value) int {
	return c.currentChunk().AddConstant(v)
}

func (c *Compiler) emitJump(op bytecode.Opcode) int {
	return c.currentChunk().EmitJump(op, c.prev.Line, c.prev.Column)
}

func (c *Compiler) patchJump(offset int) {
	dist := len(c.currentChunk().Code) - offset - 3
	if dist < 0 {
		c.error("Negative jump!")
	}
	if dist > 1<<24 {
		c.error("Too much jump!")
	}
	c.currentChunk().PatchJump(offset)
}

func (c *Compiler) emitLoop(loopStart int) {
	offset := (len(c.currentChunk().Code) + 1 + 3) - loopStart
	if offset > 1<<24 {
		c.error("Too much jump!")
	}
	c.currentChunk().EmitLoop(loopStart, c.prev.Line, c.prev.Column)
}

// end finalizes the current function, emitting the implicit trailing
// `nil; return`, optionally recording its disassembly into *dump, and
// pops back to the enclosing compiler (if any).
func (c *Compiler) end(debugPrint bool, dump *[]string) *value.Function {
	c.emitReturn()
	fn := c.function
	if debugPrint {
		name := fn.Name
		if name == "" {
			name = "<script>"
		}
		*dump = append(*dump, bytecode.Disassemble(c.chunk, name))
		if names := c.internedNames(); len(names) > 0 {
			*dump = append(*dump, "; interned names: "+strings.Join(names, ", "))
		}
	}
	return fn
}

// internedNames returns the spellings cached by identifierConstant, sorted
// for deterministic disassembly/test output regardless of the swiss map's
// iteration order.
func (c *Compiler) internedNames() []string {
	byName := make(map[string]int, c.names.Count())
	c.names.Iter(func(name string, idx int) bool {
		byName[name] = idx
		return false
	})
	names := maps.Keys(byName)
	slices.Sort(names)
	return names
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitOp(bytecode.OpPop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// identifierConstant interns name's spelling as a string constant (used
// to name globals), caching per spelling within this chunk.
func (c *Compiler) identifierConstant(name token.Token) int {
	if idx, ok := c.names.Get(name.Lexeme); ok {
		return idx
	}
	idx := c.makeConstant(value.ObjValue(value.NewString(name.Lexeme)))
	c.names.Put(name.Lexeme, idx)
	return idx
}

func identifiersEqual(a, b token.Token) bool { return a.Lexeme == b.Lexeme }

func (c *Compiler) addLocal(name token.Token) {
	if len(c.locals) >= maxLocals {
		c.error("Too many local variables.")
		return
	}
	c.locals = append(c.locals, Local{name: name, depth: -1})
}

func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.prev
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.depth != -1 && local.depth < c.scopeDepth {
			break
		}
		if identifiersEqual(name, local.name) {
			c.error("A variable exists with this name in this scope.")
		}
	}
	c.addLocal(name)
}

// parseVariable consumes an identifier, declares it, and returns the
// constant-pool index of its name (only meaningful for globals; locals
// return 0 and are addressed by slot instead).
func (c *Compiler) parseVariable(errMsg string) int {
	c.consume(token.IDENTIFIER, errMsg)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.prev)
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

func (c *Compiler) defineVariable(global int) {
	if c.scopeDepth == 0 {
		c.currentChunk().WriteShortOrLong(bytecode.OpDefineGlobal, bytecode.OpDefineGlobalLong, global, c.prev.Line, c.prev.Column)
	} else {
		c.markInitialized()
	}
}

// resolveLocal walks locals from the top (innermost) down, returning the
// slot index of name, or -1 if it is not a local in scope.
func (c *Compiler) resolveLocal(name token.Token) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := c.locals[i]
		if identifiersEqual(name, local.name) {
			if local.depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}
