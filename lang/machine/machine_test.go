package machine_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguh/clox/lang/machine"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	vm := machine.New()
	var out bytes.Buffer
	vm.Stdout = &out
	err := vm.Interpret([]byte(src))
	return out.String(), err
}

func TestInterpretArithmeticPrecedence(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpretMixedIntDoubleWidensCorrectly(t *testing.T) {
	out, err := run(t, "print 1 + 2.5;")
	require.NoError(t, err)
	assert.Equal(t, "3.5\n", out)
}

func TestInterpretMixedIntDoubleComparison(t *testing.T) {
	out, err := run(t, "print 5 < 3.0; print 2 < 3.0;")
	require.NoError(t, err)
	assert.Equal(t, "false\ntrue\n", out)
}

func TestInterpretNegatingADouble(t *testing.T) {
	out, err := run(t, "print -3.14;")
	require.NoError(t, err)
	assert.Equal(t, "-3.14\n", out)
}

func TestInterpretExponentOfTwoInts(t *testing.T) {
	out, err := run(t, "print 2 ** 10;")
	require.NoError(t, err)
	assert.Equal(t, "1024\n", out)
}

func TestInterpretRemainderOfTwoInts(t *testing.T) {
	out, err := run(t, "print 7 % 2;")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, err := run(t, `
		var a = "ab"; var b = "cd";
		print a + b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "abcd\n", out)
}

func TestInterpretForLoopAccumulates(t *testing.T) {
	out, err := run(t, `
		var s = 0;
		for (var i = 0; i < 10; i = i + 1) s = s + i;
		print s;
	`)
	require.NoError(t, err)
	assert.Equal(t, "45\n", out)
}

func TestInterpretRecursiveFibonacci(t *testing.T) {
	out, err := run(t, `
		fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); }
		print fib(10);
	`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestInterpretHashmapSubscriptAndSize(t *testing.T) {
	out, err := run(t, `
		var m = {"a": 1, "b": 2};
		print m["a"] + m["b"];
		print #m;
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n2\n", out)
}

func TestInterpretArraySliceAndNegativeIndex(t *testing.T) {
	out, err := run(t, `
		var a = [10,20,30,40];
		print a[1:3];
		print a[-1];
	`)
	require.NoError(t, err)
	assert.Equal(t, "[20, 30]\n40\n", out)
}

func TestInterpretArrayOutOfBoundsIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var a = [10,20,30,40];
		print a[99];
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR: Array index 99 out of bounds")
}

func TestInterpretDivisionByZeroYieldsInfinity(t *testing.T) {
	out, err := run(t, "print 1.0 / 0.0;")
	require.NoError(t, err)
	assert.Equal(t, "inf\n", out)
}

func TestInterpretUndefinedVariableHintsGlobals(t *testing.T) {
	_, err := run(t, "var known = 1; print unknown;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'unknown'")
	assert.Contains(t, err.Error(), "Did you mean one of:")
	assert.Contains(t, err.Error(), "known")
}

func TestInterpretArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, "fun f(a, b) { return a + b; } f(1);")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 arguments but got 1")
}

func TestInterpretCallOnNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, "var x = 1; x();")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes")
}

func TestInterpretCompoundAssignmentMatchesExpandedForm(t *testing.T) {
	outA, errA := run(t, "var x = 10; x += 5; print x;")
	outB, errB := run(t, "var x = 10; x = x + 5; print x;")
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, outB, outA)
}

func TestInterpretArrayConcatenation(t *testing.T) {
	out, err := run(t, "print [1,2] + [3,4];")
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3, 4]\n", out)
}

func TestInterpretNativeMathFunctions(t *testing.T) {
	out, err := run(t, "print sqrt(16.0); print pow(2.0, 10.0);")
	require.NoError(t, err)
	assert.Equal(t, "4\n1024\n", out)
}

func TestInterpretComplexArithmetic(t *testing.T) {
	out, err := run(t, "print cabs(3.0 + 4.0*I);")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestInterpretGlobalsIntrospection(t *testing.T) {
	// globals() returns the VM's own globals table, which also holds every
	// registered native (matching vm.c's defineNative, which populates the
	// same vm.globals a user `var` does) — so the right check is that
	// declaring two more globals grows the count by exactly two, not that
	// the total count is 2.
	vm := machine.New()
	var before, after bytes.Buffer

	vm.Stdout = &before
	require.NoError(t, vm.Interpret([]byte("print #globals();")))

	vm.Stdout = &after
	require.NoError(t, vm.Interpret([]byte("var a = 1; var b = 2; print #globals();")))

	var n0, n1 int
	_, err := fmt.Sscanf(before.String(), "%d", &n0)
	require.NoError(t, err)
	_, err = fmt.Sscanf(after.String(), "%d", &n1)
	require.NoError(t, err)
	assert.Equal(t, n0+2, n1)
}
