package compiler

import (
	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/token"
	"github.com/roguh/clox/lang/value"
)

// block compiles declarations until the closing brace (or EOF, so a
// malformed program can't spin the parser forever waiting for a brace
// that will never arrive).
func (c *Compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

// compileFunction compiles a `fun` body as a nested Compiler sharing the
// parent's token stream, and leaves the resulting Function pushed as a
// constant on the enclosing chunk.
func (c *Compiler) compileFunction(ftype FunctionType) {
	fc := newCompiler(c, ftype, c.prev.Lexeme)
	fc.beginScope()
	fc.consume(token.LEFT_PAREN, "Expect '(' after function definition.")
	if !fc.check(token.RIGHT_PAREN) {
		for {
			fc.function.Arity++
			constant := fc.parseVariable("Expect parameter name.")
			fc.defineVariable(constant)
			if !fc.match(token.COMMA) {
				break
			}
		}
	}
	fc.consume(token.RIGHT_PAREN, "Expect ')' after function definition.")
	fc.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	fc.block()
	fn := fc.end(false, &[]string{})

	c.emitOp(bytecode.OpConstant)
	c.emitByte(byte(c.makeConstant(value.ObjValue(fn))))
}

func funDeclaration(c *Compiler) {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.compileFunction(TypeFunction)
	c.defineVariable(global)
}

func varDeclaration(c *Compiler) {
	global := c.parseVariable("Expect variable name.")
	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration")
	c.defineVariable(global)
}

func printStatement(c *Compiler) {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after print.")
	c.emitOp(bytecode.OpPrint)
}

func returnStatement(c *Compiler) {
	if c.ftype == TypeGlobal {
		c.error("Can't return from top-level code.")
	}
	if c.match(token.SEMICOLON) {
		c.emitReturn()
	} else {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after return.")
		c.emitOp(bytecode.OpReturn)
	}
}

func whileStatement(c *Compiler) {
	loopStart := len(c.currentChunk().Code)
	c.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after 'while'.")
	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	c.emitLoop(loopStart)
	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop)
}

func expressionStatement(c *Compiler) {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(bytecode.OpPop)
}

func forStatement(c *Compiler) {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")
	switch {
	case c.match(token.SEMICOLON):
		// no initializer
	case c.match(token.VAR):
		varDeclaration(c)
	default:
		expressionStatement(c)
	}

	loopStart := len(c.currentChunk().Code)
	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emitOp(bytecode.OpPop)
	}

	if !c.match(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(bytecode.OpJump)
		incrementStart := len(c.currentChunk().Code)
		c.expression()
		c.emitOp(bytecode.OpPop)
		c.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")
		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)
	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(bytecode.OpPop)
	}
	c.endScope()
}

func ifStatement(c *Compiler) {
	c.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after 'if'.")

	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	elseJump := c.emitJump(bytecode.OpJump)

	c.patchJump(thenJump)
	c.emitOp(bytecode.OpPop)
	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		printStatement(c)
	case c.match(token.IF):
		ifStatement(c)
	case c.match(token.WHILE):
		whileStatement(c)
	case c.match(token.FOR):
		forStatement(c)
	case c.match(token.RETURN):
		returnStatement(c)
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		expressionStatement(c)
	}
}

// synchronize discards tokens after a parse error until a likely
// statement boundary, so one mistake reports one diagnostic instead of a
// cascade of follow-on errors.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.cur.Kind != token.EOF {
		if c.prev.Kind == token.SEMICOLON {
			return
		}
		switch c.cur.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		default:
			c.advance()
		}
	}
}

func (c *Compiler) declaration() {
	switch {
	case c.match(token.VAR):
		varDeclaration(c)
	case c.match(token.FUN):
		funDeclaration(c)
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}
