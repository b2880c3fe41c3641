package compiler

import "github.com/roguh/clox/lang/token"

// parseFn is a prefix or infix parsing routine. canAssign is true only
// when the expression being parsed sits at or below assignment
// precedence, i.e. it may legally be an assignment target.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is indexed by token.Kind. Deliberately absent: an infix rule for
// token.EQUAL. bare assignment is never a binary operator — namedVariable
// already special-cases `=` (and every compound-assign form) for
// identifiers, and any other use of `=` falls through to
// parsePrecedence's final "Invalid assignment target" check. Giving `=`
// an infix rule here would let `1 = 2` silently consume the right-hand
// side as if it combined with the left, leaving the stack unbalanced —
// preserved as a closed question, not reproduced.
var rules = map[token.Kind]parseRule{
	token.NAN:           {literal, nil, PrecNone},
	token.INF:           {literal, nil, PrecNone},
	token.LEFT_PAREN:    {grouping, call, PrecCall},
	token.LEFT_BRACE:    {hashmapLiteral, nil, PrecNone},
	token.LEFT_SQUARE:   {arrayLiteral, subscript, PrecCall},
	token.MINUS:         {unary, binary, PrecTerm},
	token.PLUS:          {unary, binary, PrecTerm},
	token.SIZE:          {unary, nil, PrecNone},
	token.BITAND:        {nil, binary, PrecBitAnd},
	token.BITOR:         {nil, binary, PrecBitOr},
	token.BITXOR:        {nil, binary, PrecBitXor},
	token.BITNEG:        {unary, nil, PrecNone},
	token.BANG:          {unary, nil, PrecNone},
	token.SLASH:         {nil, binary, PrecFactor},
	token.REMAINDER:     {nil, binary, PrecFactor},
	token.STAR:          {nil, binary, PrecFactor},
	token.STAR_STAR:     {nil, binary, PrecExponential},
	token.GREAT:         {nil, binary, PrecComparison},
	token.LESS:          {nil, binary, PrecComparison},
	token.BANG_EQUAL:    {nil, binary, PrecEquality},
	token.EQUAL_EQUAL:   {nil, binary, PrecEquality},
	token.GREAT_EQUAL:   {nil, binary, PrecComparison},
	token.LESS_EQUAL:    {nil, binary, PrecComparison},
	token.LESS_LESS:     {nil, binary, PrecShift},
	token.GREAT_GREAT:   {nil, binary, PrecShift},
	token.IDENTIFIER:    {variable, nil, PrecNone},
	token.STRING:        {stringLiteral, nil, PrecNone},
	token.NUMBER:        {number, nil, PrecNone},
	token.INTEGER:       {integer, nil, PrecNone},
	token.HEXINT:        {hexnumber, nil, PrecNone},
	token.AND:           {nil, and_, PrecAnd},
	token.FALSE:         {literal, nil, PrecNone},
	token.NIL:           {literal, nil, PrecNone},
	token.OR:            {nil, or_, PrecOr},
	token.TRUE:          {literal, nil, PrecNone},
}

// ruleIndex is the table getRule reads. It is set from rules in init
// because rules' entries (binary, call, ...) themselves call getRule, and
// reading rules there directly would be an initialization cycle.
var ruleIndex map[token.Kind]parseRule

func init() { ruleIndex = rules }

func getRule(kind token.Kind) parseRule {
	if r, ok := ruleIndex[kind]; ok {
		return r
	}
	return parseRule{precedence: PrecNone}
}

func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefix := getRule(c.prev.Kind).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := precedence <= PrecAssignment
	prefix(c, canAssign)

	for precedence <= getRule(c.cur.Kind).precedence {
		c.advance()
		infix := getRule(c.prev.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) expression() {
	// Vaughan Pratt's top-down operator precedence parsing: parse an
	// expression starting at the lowest precedence level.
	c.parsePrecedence(PrecAssignment)
}
