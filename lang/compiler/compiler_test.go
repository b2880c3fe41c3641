package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguh/clox/lang/compiler"
)

func disassemble(t *testing.T, src string) string {
	t.Helper()
	_, dumps, err := compiler.CompileDebug([]byte(src))
	require.NoError(t, err)
	return strings.Join(dumps, "\n")
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	out := disassemble(t, "print 1 + 2 * 3;")
	assert.Contains(t, out, "OP_MUL")
	assert.Contains(t, out, "OP_ADD")
	assert.Contains(t, out, "OP_PRINT")
}

func TestCompileVarDeclarationDefinesGlobal(t *testing.T) {
	out := disassemble(t, "var a = 1;")
	assert.Contains(t, out, "OP_DEFINE_GLOBAL")
}

func TestCompileLocalsUseSlotOps(t *testing.T) {
	out := disassemble(t, "{ var a = 1; print a; }")
	assert.Contains(t, out, "OP_GET_LOCAL")
	assert.NotContains(t, out, "OP_GET_GLOBAL")
}

func TestCompileCompoundAssignmentLowersToGetOpSet(t *testing.T) {
	out := disassemble(t, "var a = 1; a += 2;")
	assert.Contains(t, out, "OP_GET_GLOBAL")
	assert.Contains(t, out, "OP_ADD")
	assert.Contains(t, out, "OP_SET_GLOBAL")
}

func TestCompileIfElseEmitsJumps(t *testing.T) {
	out := disassemble(t, "if (true) { print 1; } else { print 2; }")
	assert.Contains(t, out, "OP_JUMP_IF_FALSE")
	assert.Contains(t, out, "OP_JUMP ")
}

func TestCompileWhileEmitsNegJump(t *testing.T) {
	out := disassemble(t, "while (false) { print 1; }")
	assert.Contains(t, out, "OP_NEG_JUMP")
}

func TestCompileForDesugarsToWhileShapedJumps(t *testing.T) {
	out := disassemble(t, "for (var i = 0; i < 10; i = i + 1) print i;")
	assert.Contains(t, out, "OP_JUMP_IF_FALSE")
	assert.Contains(t, out, "OP_NEG_JUMP")
}

func TestCompileAndOrShortCircuit(t *testing.T) {
	out := disassemble(t, "print true and false; print true or false;")
	assert.Contains(t, out, "OP_JUMP_IF_FALSE")
}

func TestCompileFunctionDeclarationEmitsCallAndReturn(t *testing.T) {
	out := disassemble(t, "fun f(a, b) { return a + b; } print f(1, 2);")
	assert.Contains(t, out, "OP_CALL")
	assert.Contains(t, out, "OP_RETURN")
}

func TestCompileArrayAndHashmapLiterals(t *testing.T) {
	out := disassemble(t, `var a = [1, 2, 3]; var m = {"x": 1};`)
	assert.Contains(t, out, "OP_INIT_ARRAY")
	assert.Contains(t, out, "OP_INSERT_ARRAY")
	assert.Contains(t, out, "OP_INIT_HASHMAP")
	assert.Contains(t, out, "OP_INSERT_HASHMAP")
}

func TestCompileSliceEmitsSwapAndSubscript(t *testing.T) {
	out := disassemble(t, "var a = [1,2,3]; print a[1:2];")
	assert.Contains(t, out, "OP_SWAP")
	assert.Contains(t, out, "OP_SUBSCRIPT")
}

func TestCompileReturnAtTopLevelIsError(t *testing.T) {
	_, err := compiler.Compile([]byte("return 1;"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't return from top-level code")
}

func TestCompileDuplicateLocalInSameScopeIsError(t *testing.T) {
	_, err := compiler.Compile([]byte("{ var a = 1; var a = 2; }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A variable exists with this name in this scope")
}

func TestCompileReadOwnInitializerIsError(t *testing.T) {
	_, err := compiler.Compile([]byte("{ var a = a; }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't read local variable in its own initializer")
}

func TestCompileInvalidAssignmentTargetIsError(t *testing.T) {
	_, err := compiler.Compile([]byte("1 = 2;"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid assignment target")
}

func TestCompileMissingSemicolonReportsPositionedError(t *testing.T) {
	_, err := compiler.Compile([]byte("var a = 1\n"))
	require.Error(t, err)
	assert.Regexp(t, `^\[\d+:\d+\] Error`, err.Error())
}

func TestCompileUnterminatedStringSurfacesAsCompileError(t *testing.T) {
	_, err := compiler.Compile([]byte(`print "abc;`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unterminated string")
}
