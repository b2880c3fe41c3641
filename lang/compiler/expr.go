package compiler

import (
	"strconv"
	"strings"

	"github.com/roguh/clox/lang/bytecode"
	"github.com/roguh/clox/lang/token"
	"github.com/roguh/clox/lang/value"
)

func binary(c *Compiler, canAssign bool) {
	opKind := c.prev.Kind
	rule := getRule(opKind)
	c.parsePrecedence(rule.precedence + 1)

	switch opKind {
	case token.PLUS:
		c.emitOp(bytecode.OpAdd)
	case token.MINUS:
		c.emitOp(bytecode.OpSub)
	case token.STAR:
		c.emitOp(bytecode.OpMul)
	case token.SLASH:
		c.emitOp(bytecode.OpDiv)
	case token.STAR_STAR:
		c.emitOp(bytecode.OpExp)
	case token.REMAINDER:
		c.emitOp(bytecode.OpRemainder)
	case token.BITAND:
		c.emitOp(bytecode.OpBitAnd)
	case token.BITOR:
		c.emitOp(bytecode.OpBitOr)
	case token.BITXOR:
		c.emitOp(bytecode.OpBitXor)
	case token.LESS_LESS:
		c.emitOp(bytecode.OpLeftShift)
	case token.GREAT_GREAT:
		c.emitOp(bytecode.OpRightShift)
	case token.EQUAL_EQUAL:
		c.emitOp(bytecode.OpEqual)
	case token.GREAT:
		c.emitOp(bytecode.OpGreater)
	case token.LESS:
		c.emitOp(bytecode.OpLess)
	case token.BANG_EQUAL:
		c.emitOps(bytecode.OpEqual, bytecode.OpNot)
	case token.GREAT_EQUAL:
		c.emitOps(bytecode.OpLess, bytecode.OpNot)
	case token.LESS_EQUAL:
		c.emitOps(bytecode.OpGreater, bytecode.OpNot)
	}
}

func unary(c *Compiler, canAssign bool) {
	opKind := c.prev.Kind
	c.parsePrecedence(PrecUnary)
	switch opKind {
	case token.MINUS:
		c.emitOp(bytecode.OpNeg)
	case token.PLUS:
		// no-op
	case token.SIZE:
		c.emitOp(bytecode.OpSize)
	case token.BITNEG:
		c.emitOp(bytecode.OpBitNeg)
	case token.BANG:
		c.emitOp(bytecode.OpNot)
	}
}

func literal(c *Compiler, canAssign bool) {
	switch c.prev.Kind {
	case token.FALSE:
		c.emitOp(bytecode.OpFalse)
	case token.NIL:
		c.emitOp(bytecode.OpNil)
	case token.TRUE:
		c.emitOp(bytecode.OpTrue)
	case token.NAN:
		c.emitOp(bytecode.OpNan)
	case token.INF:
		c.emitOp(bytecode.OpInf)
	}
}

// stringLiteral copies the source bytes between the quotes verbatim: a
// backslash in source escapes the following byte from being mistaken for
// the closing quote, but no escape sequence is ever interpreted — `\n`
// in source yields the two bytes `\` and `n` in the value.
func stringLiteral(c *Compiler, canAssign bool) {
	lexeme := c.prev.Lexeme
	body := lexeme[1 : len(lexeme)-1]
	c.emitConstant(value.ObjValue(value.NewString(body)))
}

func grouping(c *Compiler, canAssign bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect end ')' after expression.")
}

func number(c *Compiler, canAssign bool) {
	f, _ := strconv.ParseFloat(c.prev.Lexeme, 64)
	c.emitConstant(value.DoubleValue(f))
}

func integer(c *Compiler, canAssign bool) {
	n, _ := strconv.ParseInt(c.prev.Lexeme, 10, 32)
	c.emitConstant(value.IntValue(int32(n)))
}

func hexnumber(c *Compiler, canAssign bool) {
	digits := strings.TrimPrefix(strings.TrimPrefix(c.prev.Lexeme, "0x"), "0X")
	n, _ := strconv.ParseUint(digits, 16, 32)
	c.emitConstant(value.IntValue(int32(n)))
}

func and_(c *Compiler, canAssign bool) {
	// AND short-circuits: if the left side is false, skip the right side
	// and leave the false value as the expression's result.
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func or_(c *Compiler, canAssign bool) {
	// OR short-circuits: if the left side is true, skip the right side.
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func argumentList(c *Compiler) int {
	argCount := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if argCount == maxArguments {
				c.error("Can't have more than 255 arguments.")
			}
			argCount++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return argCount
}

func call(c *Compiler, canAssign bool) {
	argCount := argumentList(c)
	c.emitOp(bytecode.OpCall)
	c.emitByte(byte(argCount))
}

func arrayLiteral(c *Compiler, canAssign bool) {
	c.emitOp(bytecode.OpInitArray)
	for !(c.check(token.RIGHT_SQUARE) || c.check(token.EOF)) {
		c.expression()
		if !c.check(token.RIGHT_SQUARE) {
			c.consume(token.COMMA, "Expect ',' after array element")
		} else {
			c.match(token.COMMA) // optional trailing comma
		}
		c.emitOp(bytecode.OpInsertArray)
	}
	c.consume(token.RIGHT_SQUARE, "Expect ']' at end of array.")
}

// subscript pushes either a single indexed value or a slice. `[e]` is a
// plain index; any use of `:` turns the bracket contents into a 1- or
// 2-element bounds array (an omitted start is pushed as 0, an omitted end
// is left out) carried on the stack below the indexed value via
// OP_SWAP, so both forms reach the VM through the same OP_SUBSCRIPT.
func subscript(c *Compiler, canAssign bool) {
	isSlice := false
	if c.match(token.COLON) {
		c.emitConstant(value.IntValue(0))
		isSlice = true
	} else {
		c.expression()
	}
	if c.match(token.COLON) {
		isSlice = true
	}
	if isSlice {
		c.emitOp(bytecode.OpInitArray)
		c.emitOp(bytecode.OpSwap)
		c.emitOp(bytecode.OpInsertArray)
	}
	for !(c.check(token.RIGHT_SQUARE) || c.check(token.EOF)) {
		c.expression()
		c.emitOp(bytecode.OpInsertArray)
		if !c.check(token.RIGHT_SQUARE) {
			c.consume(token.COLON, "Expect ':' in array slice.")
		}
	}
	c.consume(token.RIGHT_SQUARE, "Expect ']' after array subscript or slice.")
	c.emitOp(bytecode.OpSubscript)
}

func hashmapLiteral(c *Compiler, canAssign bool) {
	c.emitOp(bytecode.OpInitHashmap)
	for !(c.check(token.RIGHT_BRACE) || c.check(token.EOF)) {
		c.expression()
		c.consume(token.COLON, "Expect ':' after hashmap key")
		c.expression()
		if !c.check(token.RIGHT_BRACE) {
			c.consume(token.COMMA, "Expect ',' after hashmap element")
		} else {
			c.match(token.COMMA)
		}
		c.emitOp(bytecode.OpInsertHashmap)
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' at end of hashmap.")
}

// compoundOps maps a compound-assignment token to the arithmetic opcode
// it lowers to after the current value and the right-hand side are both
// on the stack.
var compoundOps = map[token.Kind]bytecode.Opcode{
	token.PLUS_EQUAL:        bytecode.OpAdd,
	token.MINUS_EQUAL:       bytecode.OpSub,
	token.STAR_EQUAL:        bytecode.OpMul,
	token.SLASH_EQUAL:       bytecode.OpDiv,
	token.STAR_STAR_EQUAL:   bytecode.OpExp,
	token.REMAINDER_EQUAL:   bytecode.OpRemainder,
	token.BITAND_EQUAL:      bytecode.OpBitAnd,
	token.BITOR_EQUAL:       bytecode.OpBitOr,
	token.BITXOR_EQUAL:      bytecode.OpBitXor,
	token.LESS_LESS_EQUAL:   bytecode.OpLeftShift,
	token.GREAT_GREAT_EQUAL: bytecode.OpRightShift,
}

func isAssignToken(kind token.Kind) bool {
	if kind == token.EQUAL {
		return true
	}
	_, ok := compoundOps[kind]
	return ok
}

// namedVariable compiles a bare variable reference, or (when canAssign and
// the next token is `=` or a compound-assign form) an assignment to it.
// Compound forms load the current value, evaluate the right-hand side
// once, apply the arithmetic op, and store the result — `x OP= e` has the
// same effect as `x = x OP e` with `e` evaluated exactly once.
func namedVariable(c *Compiler, name token.Token, canAssign bool) {
	offset := c.resolveLocal(name)

	var getOp, getOpLong, setOp, setOpLong bytecode.Opcode
	if offset != -1 {
		getOp, getOpLong = bytecode.OpGetLocal, bytecode.OpGetLocalLong
		setOp, setOpLong = bytecode.OpSetLocal, bytecode.OpSetLocalLong
	} else {
		offset = c.identifierConstant(name)
		getOp, getOpLong = bytecode.OpGetGlobal, bytecode.OpGetGlobalLong
		setOp, setOpLong = bytecode.OpSetGlobal, bytecode.OpSetGlobalLong
	}

	if canAssign && isAssignToken(c.cur.Kind) {
		c.advance()
		opKind := c.prev.Kind
		if opKind != token.EQUAL {
			c.currentChunk().WriteShortOrLong(getOp, getOpLong, offset, c.prev.Line, c.prev.Column)
		}
		c.expression()
		if op, ok := compoundOps[opKind]; ok {
			c.emitOp(op)
		}
		c.currentChunk().WriteShortOrLong(setOp, setOpLong, offset, c.prev.Line, c.prev.Column)
		return
	}

	c.currentChunk().WriteShortOrLong(getOp, getOpLong, offset, c.prev.Line, c.prev.Column)
}

func variable(c *Compiler, canAssign bool) {
	namedVariable(c, c.prev, canAssign)
}
