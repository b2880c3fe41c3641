package machine

import "github.com/roguh/clox/lang/value"

// widenKind classifies a and b to the narrowest numeric representation that
// can hold both: complex if either is complex, else double if either is
// double, else int. Mirrors the source material's three-step int -> double
// -> complex widening ladder used by every arithmetic binary op.
type numKind int

const (
	numInt numKind = iota
	numDouble
	numComplex
)

func kindOf(v value.Value) numKind {
	switch {
	case v.IsComplex():
		return numComplex
	case v.IsDouble():
		return numDouble
	default:
		return numInt
	}
}

func widenKind(a, b value.Value) numKind {
	ka, kb := kindOf(a), kindOf(b)
	if ka > kb {
		return ka
	}
	return kb
}

type binOp struct {
	int     func(a, b int32) int32
	double  func(a, b float64) float64
	complex func(a, b complex64) complex64
}

var addOp = binOp{
	int:     func(a, b int32) int32 { return a + b },
	double:  func(a, b float64) float64 { return a + b },
	complex: func(a, b complex64) complex64 { return a + b },
}
var subOp = binOp{
	int:     func(a, b int32) int32 { return a - b },
	double:  func(a, b float64) float64 { return a - b },
	complex: func(a, b complex64) complex64 { return a - b },
}
var mulOp = binOp{
	int:     func(a, b int32) int32 { return a * b },
	double:  func(a, b float64) float64 { return a * b },
	complex: func(a, b complex64) complex64 { return a * b },
}
var divOp = binOp{
	int:     func(a, b int32) int32 { return a / b },
	double:  func(a, b float64) float64 { return a / b },
	complex: func(a, b complex64) complex64 { return a / b },
}

// arith applies op to a and b after widening both to the narrowest shared
// representation, exactly as ARITH_BIN_OP does in the source material.
func arith(a, b value.Value, op binOp) value.Value {
	switch widenKind(a, b) {
	case numComplex:
		return value.ComplexValue(op.complex(asComplex(a), asComplex(b)))
	case numDouble:
		return value.DoubleValue(op.double(a.AsDouble(), b.AsDouble()))
	default:
		return value.IntValue(op.int(a.AsInt(), b.AsInt()))
	}
}

func asComplex(v value.Value) complex64 {
	switch {
	case v.IsComplex():
		return v.AsComplex()
	case v.IsDouble():
		return complex(float32(v.AsDouble()), 0)
	default:
		return complex(float32(v.AsInt()), 0)
	}
}

// numLess implements OP_LESS/OP_GREATER's comparison: double comparison if
// either operand is a double, else integer comparison (complex values are
// not ordered and are treated as their integer/double component would be,
// matching the source material's AS_DOUBLE/AS_INTEGER dispatch which never
// special-cases complex here).
func numLess(a, b value.Value) bool {
	if a.IsDouble() || b.IsDouble() {
		return a.AsDouble() < b.AsDouble()
	}
	return a.AsInt() < b.AsInt()
}

func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case isStringLike(a) || isStringLike(b):
		if !(isStringLike(a) && isStringLike(b)) {
			return vm.runtimeError("Strings can only be added to other strings")
		}
		vm.concatenate()
		return nil
	case isArray(a) || isArray(b):
		if !(isArray(a) && isArray(b)) {
			return vm.runtimeError("Arrays can only be added to other arrays")
		}
		vm.concatenateArrays()
		return nil
	default:
		vm.pop()
		vm.pop()
		vm.push(arith(a, b, addOp))
		return nil
	}
}

func isStringLike(v value.Value) bool {
	_, ok := value.AsStringBytes(v)
	return ok
}

func isArray(v value.Value) bool {
	if !v.IsObject() {
		return false
	}
	_, ok := v.AsObj().(*value.Array)
	return ok
}

func (vm *VM) concatenate() {
	b, _ := value.AsStringBytes(vm.pop())
	a, _ := value.AsStringBytes(vm.pop())
	vm.push(value.ObjValue(vm.intern(a + b)))
}

func (vm *VM) concatenateArrays() {
	b := vm.pop().AsObj().(*value.Array)
	a := vm.pop().AsObj().(*value.Array)
	result := value.NewArray(len(a.Values) + len(b.Values))
	result.Values = append(result.Values, a.Values...)
	result.Values = append(result.Values, b.Values...)
	vm.push(value.ObjValue(vm.track(result)))
}

func (vm *VM) size() error {
	top := vm.peek(0)
	if s, ok := value.AsStringBytes(top); ok {
		vm.pop()
		vm.push(value.IntValue(int32(len(s))))
		return nil
	}
	if top.IsObject() {
		switch o := top.AsObj().(type) {
		case *value.Array:
			vm.pop()
			vm.push(value.IntValue(int32(len(o.Values))))
			return nil
		case *value.HashmapObj:
			vm.pop()
			vm.push(value.IntValue(int32(o.Map.Len())))
			return nil
		}
	}
	vm.pop()
	vm.push(value.IntValue(sizeofValue))
	return nil
}
