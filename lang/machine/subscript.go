package machine

import "github.com/roguh/clox/lang/value"

// subscript implements OP_SUBSCRIPT: key is either a plain index (for a
// string/array/hashmap) or an Array of 0-2 integer bounds built by the
// compiler's slice syntax, distinguished the same way the source material
// does — an Array key always means "this is a slice", since a plain
// integer index is never wrapped in one.
func (vm *VM) subscript(key value.Value) error {
	if isArray(key) {
		return vm.slice(key)
	}
	if isHashmap(vm.peek(0)) {
		hm := vm.pop().AsObj().(*value.HashmapObj)
		v, _ := hm.Map.Get(key)
		vm.push(v)
		return nil
	}
	if !key.IsInt() {
		return vm.runtimeError("Array index must be an integer or a slice")
	}
	i := int(key.AsInt())
	switch {
	case isStringLike(vm.peek(0)):
		s, _ := value.AsStringBytes(vm.pop())
		if i < 0 {
			i = len(s) + i
		}
		if i < 0 || i >= len(s) {
			return vm.runtimeError("String index %d out of bounds", i)
		}
		vm.push(value.ObjValue(vm.intern(string(s[i]))))
		return nil
	case isArray(vm.peek(0)):
		arr := vm.pop().AsObj().(*value.Array)
		if i < 0 {
			i = len(arr.Values) + i
		}
		if i < 0 || i >= len(arr.Values) {
			return vm.runtimeError("Array index %d out of bounds", i)
		}
		vm.push(arr.Values[i])
		return nil
	default:
		return vm.runtimeError("Indexing into a non-array, non-string, non-hashmap value")
	}
}

func isHashmap(v value.Value) bool {
	if !v.IsObject() {
		return false
	}
	_, ok := v.AsObj().(*value.HashmapObj)
	return ok
}

// slice reads 0, 1 or 2 integer bounds out of the Array key and applies
// them as [start, end) to the string or array beneath, clamping end to the
// container's length and wrapping negative indices from the end exactly
// as the plain-index path does.
func (vm *VM) slice(key value.Value) error {
	bounds := key.AsObj().(*value.Array)
	top := vm.peek(0)

	switch {
	case isStringLike(top):
		s, _ := value.AsStringBytes(vm.pop())
		start, end := 0, len(s)
		switch len(bounds.Values) {
		case 0:
		case 1:
			start = int(bounds.Values[0].AsInt())
		case 2:
			start = int(bounds.Values[0].AsInt())
			end = int(bounds.Values[1].AsInt())
		default:
			return vm.runtimeError("Cannot slice with more than two indices")
		}
		if end < 0 {
			end = len(s) + end
			if end < 0 {
				end = 0
			}
		}
		if start < 0 {
			start = max(len(s)+start, 0)
		}
		end = min(end, len(s))
		if start > end || start > len(s) {
			start, end = 0, 0
		}
		vm.push(value.ObjValue(vm.intern(s[start:end])))
		return nil
	case isArray(top):
		arr := vm.pop().AsObj().(*value.Array)
		start, end := 0, len(arr.Values)
		switch len(bounds.Values) {
		case 0:
		case 1:
			start = int(bounds.Values[0].AsInt())
		case 2:
			start = int(bounds.Values[0].AsInt())
			end = int(bounds.Values[1].AsInt())
		default:
			return vm.runtimeError("Cannot slice with more than two indices")
		}
		if end < 0 {
			end = len(arr.Values) + end
			if end < 0 {
				end = 0
			}
		}
		if start < 0 {
			start = max(len(arr.Values)+start, 0)
		}
		end = min(end, len(arr.Values))
		if start > end || start > len(arr.Values) {
			start, end = 0, 0
		}
		result := value.NewArray(end - start)
		if end > start {
			result.Values = append(result.Values, arr.Values[start:end]...)
		}
		vm.push(value.ObjValue(vm.track(result)))
		return nil
	case isHashmap(top):
		return vm.runtimeError("Cannot slice into hashmap yet")
	default:
		return vm.runtimeError("Indexing into a non-array, non-string, non-hashmap value")
	}
}
