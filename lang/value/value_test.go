package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roguh/clox/lang/value"
)

func TestTruthy(t *testing.T) {
	assert.False(t, value.NilValue.Truthy())
	assert.False(t, value.False.Truthy())
	assert.True(t, value.True.Truthy())
	assert.True(t, value.IntValue(0).Truthy())
	assert.True(t, value.DoubleValue(0).Truthy())
	assert.True(t, value.ObjValue(value.NewArray(0)).Truthy())
}

func TestEqualSameKind(t *testing.T) {
	assert.True(t, value.Equal(value.NilValue, value.NilValue))
	assert.True(t, value.Equal(value.IntValue(3), value.IntValue(3)))
	assert.False(t, value.Equal(value.IntValue(3), value.IntValue(4)))
	assert.True(t, value.Equal(value.DoubleValue(1.5), value.DoubleValue(1.5)))
}

func TestEqualCrossNumericKind(t *testing.T) {
	assert.True(t, value.Equal(value.IntValue(2), value.DoubleValue(2.0)))
	assert.True(t, value.Equal(value.DoubleValue(2.0), value.ComplexValue(complex(2, 0))))
	assert.True(t, value.Equal(value.IntValue(1), value.True))
	assert.True(t, value.Equal(value.IntValue(0), value.False))
	assert.False(t, value.Equal(value.IntValue(1), value.False))
}

func TestEqualCrossKindOtherwiseFalse(t *testing.T) {
	assert.False(t, value.Equal(value.NilValue, value.False))
	assert.False(t, value.Equal(value.IntValue(0), value.NilValue))
	s := value.ObjValue(value.NewString("x"))
	assert.False(t, value.Equal(s, value.IntValue(0)))
}

func TestEqualStringContent(t *testing.T) {
	a := value.ObjValue(value.NewString("abcd"))
	b := value.ObjValue(value.NewString("abcd"))
	assert.True(t, value.Equal(a, b))
}

func TestIsZero(t *testing.T) {
	assert.True(t, value.DoubleValue(0).IsZero())
	assert.False(t, value.DoubleValue(1).IsZero())
	assert.True(t, value.ComplexValue(0).IsZero())
	// integer zero is NOT "zero" per the source material's IS_ZERO quirk;
	// OP_DIV checks an Int divisor for zero on its own, and the predicate
	// itself is preserved.
	assert.False(t, value.IntValue(0).IsZero())
}

func TestPrintFormatsNumbers(t *testing.T) {
	assert.Equal(t, "nil", value.Print(value.NilValue))
	assert.Equal(t, "true", value.Print(value.True))
	assert.Equal(t, "42", value.Print(value.IntValue(42)))
	assert.Equal(t, "1.5", value.Print(value.DoubleValue(1.5)))
	assert.Equal(t, "nan", value.Print(value.DoubleValue(nanValue())))
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestPrintStringQuoting(t *testing.T) {
	assert.Equal(t, "hi", value.Print(value.ObjValue(value.NewString("hi"))))
	assert.Equal(t, `"hi"`, value.Inspect(value.ObjValue(value.NewString("hi"))))
	assert.Equal(t, `'has "quote'`, value.Inspect(value.ObjValue(value.NewString(`has "quote`))))
}

func TestPrintArrayAndHashmap(t *testing.T) {
	arr := value.NewArray(2)
	arr.Insert(value.IntValue(1))
	arr.Insert(value.IntValue(2))
	assert.Equal(t, "[1, 2]", value.Print(value.ObjValue(arr)))

	m := value.NewHashmapObj(4)
	m.Map.Add(value.ObjValue(value.NewString("a")), value.IntValue(1))
	assert.Equal(t, `{"a": 1}`, value.Print(value.ObjValue(m)))
}
