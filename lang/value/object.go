package value

import "fmt"

// ObjKind discriminates the concrete type of a heap Obj.
type ObjKind uint8

const (
	ObjString ObjKind = iota
	ObjStringView
	ObjArray
	ObjHashmap
	ObjFunction
	ObjNative
)

// Obj is the common interface implemented by every heap-allocated value.
// Objects the VM creates while running (interned strings, array and
// hashmap literals, concatenation and slicing results) are linked into
// its intrusive object list; there is no per-object GC.
type Obj interface {
	ObjKind() ObjKind
	// Next/SetNext implement the intrusive singly-linked heap list.
	Next() Obj
	SetNext(o Obj)
}

type objHeader struct {
	link Obj
}

func (h *objHeader) Next() Obj     { return h.link }
func (h *objHeader) SetNext(o Obj) { h.link = o }

// String is an immutable, interned byte string.
type String struct {
	objHeader
	Chars string
	Hash  uint32
}

func (*String) ObjKind() ObjKind { return ObjString }

func NewString(s string) *String {
	return &String{Chars: s, Hash: hashString([]byte(s))}
}

// StringView is a non-owning slice into a base String. The VM's own
// subscript and slice operations do not create StringViews; they intern
// a new String instead.
type StringView struct {
	objHeader
	Base   *String
	Offset int
	Length int
}

func (*StringView) ObjKind() ObjKind { return ObjStringView }

func (sv *StringView) Chars() string {
	return sv.Base.Chars[sv.Offset : sv.Offset+sv.Length]
}

// AsStringBytes returns the string content of v if it is a String or
// StringView object, and reports whether the extraction succeeded.
func AsStringBytes(v Value) (string, bool) {
	if !v.IsObject() {
		return "", false
	}
	switch o := v.AsObj().(type) {
	case *String:
		return o.Chars, true
	case *StringView:
		return o.Chars(), true
	default:
		return "", false
	}
}

// Array is a growable, doubling value array.
type Array struct {
	objHeader
	Values []Value
}

func NewArray(capacity int) *Array {
	return &Array{Values: make([]Value, 0, capacity)}
}

func (*Array) ObjKind() ObjKind { return ObjArray }

func (a *Array) Len() int { return len(a.Values) }

// Insert appends value at the end, growing the backing slice by doubling
// when full, mirroring insertArray's append-only usage by OP_INSERT_ARRAY.
func (a *Array) Insert(v Value) {
	a.Values = append(a.Values, v)
}

// HashmapObj wraps a Hashmap as a heap object, usable as a Value.
type HashmapObj struct {
	objHeader
	Map *Hashmap
}

func (*HashmapObj) ObjKind() ObjKind { return ObjHashmap }

func NewHashmapObj(capacity int) *HashmapObj {
	return &HashmapObj{Map: NewHashmap(capacity)}
}

// Function is a compiled, callable chunk of bytecode. Chunk is declared in
// package bytecode; Function stores it as an opaque interface{} to avoid an
// import cycle (bytecode.Chunk embeds value.Value in its constant pool).
type Function struct {
	objHeader
	Name  string
	Arity int
	Chunk any
}

func (*Function) ObjKind() ObjKind { return ObjFunction }

func (f *Function) String() string {
	name := f.Name
	if name == "" {
		name = "<no_name>"
	}
	return fmt.Sprintf("<fn %s>", name)
}

// NativeFunc is the signature of a native (Go-implemented) function:
// receives the argument slice, returns a Value or an error.
type NativeFunc func(args []Value) (Value, error)

// Native wraps a Go function as a callable Value. Arity < 0 means
// variadic (no arity check).
type Native struct {
	objHeader
	Name  string
	Arity int
	Fn    NativeFunc
}

func (*Native) ObjKind() ObjKind { return ObjNative }

func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }
