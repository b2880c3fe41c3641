// Package value implements the tagged dynamic Value type, the heap object
// model, and the open-addressed Hashmap used for globals, string interning
// and language-level hashmap literals.
package value

import "fmt"

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	Nil Kind = iota
	Bool
	Int
	Double
	Complex
	Object
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Double:
		return "double"
	case Complex:
		return "complex"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// Value is the tagged union at the heart of the VM: nil, int32, float64,
// complex64, bool, or a reference to a heap Obj. Only the field matching
// Kind is meaningful; the others are left at their zero value.
type Value struct {
	Kind Kind

	boolv    bool
	intv     int32
	doublev  float64
	complexv complex64
	obj      Obj
}

// NilValue is the singleton nil value.
var NilValue = Value{Kind: Nil}

// True and False are the two bool values.
var (
	True  = Value{Kind: Bool, boolv: true}
	False = Value{Kind: Bool, boolv: false}
)

func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

func IntValue(i int32) Value { return Value{Kind: Int, intv: i} }

func DoubleValue(f float64) Value { return Value{Kind: Double, doublev: f} }

func ComplexValue(c complex64) Value { return Value{Kind: Complex, complexv: c} }

func ObjValue(o Obj) Value { return Value{Kind: Object, obj: o} }

func (v Value) IsNil() bool     { return v.Kind == Nil }
func (v Value) IsBool() bool    { return v.Kind == Bool }
func (v Value) IsInt() bool     { return v.Kind == Int }
func (v Value) IsDouble() bool  { return v.Kind == Double }
func (v Value) IsComplex() bool { return v.Kind == Complex }
func (v Value) IsObject() bool  { return v.Kind == Object }

func (v Value) AsBool() bool { return v.boolv }

// AsInt mirrors the original AS_INTEGER conversion: exact for Int/Bool,
// truncated-from-double for everything else, so arithmetic that narrows a
// mixed-kind pair to Int still gets the right payload.
func (v Value) AsInt() int32 {
	switch v.Kind {
	case Int:
		return v.intv
	case Bool:
		if v.boolv {
			return 1
		}
		return 0
	default:
		return int32(v.doublev)
	}
}

// AsDouble mirrors the original AS_DOUBLE conversion: exact for Double,
// widened-from-int for everything else, so arithmetic that widens a mixed
// Int/Double pair to Double sees the Int operand's numeric value rather
// than its zeroed doublev field.
func (v Value) AsDouble() float64 {
	if v.Kind == Double {
		return v.doublev
	}
	return float64(v.AsInt())
}

func (v Value) AsComplex() complex64 { return v.complexv }
func (v Value) AsObj() Obj           { return v.obj }

// IsZero mirrors the original IS_ZERO predicate used by the division
// operator: it is true for a zero double or a zero complex, and false for
// everything else (including an integer zero, which is the source
// material's own quirk — retained verbatim; OP_DIV tests an Int divisor
// for zero separately).
func (v Value) IsZero() bool {
	switch v.Kind {
	case Double:
		return v.doublev == 0.0
	case Complex:
		return v.complexv == 0
	default:
		return false
	}
}

// Truthy implements the language's truthiness rule: nil and false are
// falsey, everything else (including 0, 0.0 and empty containers) is
// truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case Nil:
		return false
	case Bool:
		return v.boolv
	default:
		return true
	}
}

// numericAsComplex widens a Bool/Int/Double/Complex value to complex128 for
// cross-kind comparison. ok is false for Nil and Object values.
func numericAsComplex(v Value) (complex128, bool) {
	switch v.Kind {
	case Bool:
		if v.boolv {
			return complex(1, 0), true
		}
		return complex(0, 0), true
	case Int:
		return complex(float64(v.intv), 0), true
	case Double:
		return complex(v.doublev, 0), true
	case Complex:
		return complex128(v.complexv), true
	default:
		return 0, false
	}
}

// Equal implements the language's equality rule: same-kind values compare
// payloads directly; mixed numeric kinds (including Bool, which shares
// Int's representation) compare by widened value; every other cross-kind
// pairing is false.
func Equal(a, b Value) bool {
	if a.Kind == b.Kind {
		switch a.Kind {
		case Nil:
			return true
		case Bool:
			return a.boolv == b.boolv
		case Int:
			return a.intv == b.intv
		case Double:
			return a.doublev == b.doublev
		case Complex:
			return a.complexv == b.complexv
		case Object:
			return equalObjects(a.obj, b.obj)
		}
	}
	ac, aok := numericAsComplex(a)
	bc, bok := numericAsComplex(b)
	if aok && bok {
		return ac == bc
	}
	return false
}

func equalObjects(a, b Obj) bool {
	if a == b {
		return true
	}
	as, aok := AsStringBytes(ObjValue(a))
	bs, bok := AsStringBytes(ObjValue(b))
	if aok && bok {
		return as == bs
	}
	return false
}

// asInteger mirrors the original AS_INTEGER conversion used by the hash
// function: exact for Int/Bool, truncated-from-double otherwise.
func asInteger(v Value) int32 {
	switch v.Kind {
	case Int:
		return v.intv
	case Bool:
		if v.boolv {
			return 1
		}
		return 0
	case Double:
		return int32(v.doublev)
	case Complex:
		return int32(real(v.complexv))
	default:
		return 0
	}
}

// hashInt is a Thomas-Wang style integer mix, ported byte-for-byte from the
// source material's hashInt.
func hashInt(elem uint32) uint32 {
	elem = (elem ^ 61) ^ (elem >> 16)
	elem = elem + (elem << 3)
	elem = elem ^ (elem >> 4)
	elem = elem * 0x27d4eb2d
	elem = elem ^ (elem >> 15)
	return elem
}

// hashString is the FNV-1a variant used throughout for string/byte hashing.
func hashString(s []byte) uint32 {
	var hash uint32 = 2166136261
	for _, c := range s {
		hash ^= uint32(c)
		hash *= 16777619
	}
	return hash
}

// HashValue computes the hash used to place v in a Hashmap: nil, numeric
// and bool values hash their integer representation; objects that carry
// string bytes (String, StringView) hash their content; every other object
// kind falls back to hashing its pointer identity so it can still occupy a
// hashmap slot deterministically within a single run.
func HashValue(v Value) uint32 {
	switch v.Kind {
	case Nil:
		return hashInt(0)
	case Bool, Int, Double, Complex:
		return hashInt(uint32(asInteger(v)))
	case Object:
		if s, ok := AsStringBytes(v); ok {
			return hashString([]byte(s))
		}
		return hashPointer(v.obj)
	default:
		return 0
	}
}

func hashPointer(o Obj) uint32 {
	return hashString([]byte(fmt.Sprintf("%p", o)))
}
