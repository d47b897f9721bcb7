package vm

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// str Primitives
// ---------------------------------------------------------------------------

func (vm *VM) strOf(v Value) (string, bool) {
	if vm.ClassOf(v).Kind != KindStr {
		return "", false
	}
	s, ok := payloadOf(v).(string)
	return s, ok
}

func (vm *VM) registerStringPrimitives() {
	c := vm.StrClass

	// __add__ - concatenation. A non-str operand is an error rather than a
	// decline; the sequence compatibility rule gives the right operand's
	// __radd__ its chance first.
	vm.addBuiltin1(c, "__add__", func(vm *VM, self, other Value) (Value, error) {
		a, ok := vm.strOf(self)
		if !ok {
			return NotImplemented, nil
		}
		b, ok := vm.strOf(other)
		if !ok {
			return Value{}, newOpError(ErrUnsupportedOperandTypes, "+",
				"can only concatenate str (not \"%s\") to str", vm.ClassOf(other).Name)
		}
		return vm.NewStr(a + b), nil
	})

	vm.registerRepeat(c,
		func(v Value) (int, bool) {
			s, ok := vm.strOf(v)
			return len(s), ok
		},
		func(v Value, k int) Value {
			s, _ := vm.strOf(v)
			return vm.NewStr(strings.Repeat(s, k))
		})

	for _, which := range CompareOps {
		op := which.Spec().Op
		vm.addBuiltin1(c, which.Spec().Name, func(vm *VM, self, other Value) (Value, error) {
			a, ok1 := vm.strOf(self)
			b, ok2 := vm.strOf(other)
			if !ok1 || !ok2 {
				return NotImplemented, nil
			}
			return FromBool(compareResult(op, strings.Compare(a, b), false)), nil
		})
	}

	vm.addBuiltin1(c, "__contains__", func(vm *VM, self, item Value) (Value, error) {
		s, ok := vm.strOf(self)
		if !ok {
			return NotImplemented, nil
		}
		sub, ok := vm.strOf(item)
		if !ok {
			return Value{}, newOpError(ErrUnsupportedOperandTypes, "in",
				"'in <string>' requires string as left operand, not %s", vm.ClassOf(item).Name)
		}
		return FromBool(strings.Contains(s, sub)), nil
	})

	vm.addBuiltin0(c, "__len__", func(vm *VM, self Value) (Value, error) {
		s, ok := vm.strOf(self)
		if !ok {
			return NotImplemented, nil
		}
		return FromInt(int64(utf8.RuneCountInString(s))), nil
	})
}

// ---------------------------------------------------------------------------
// bytes and bytearray Primitives
// ---------------------------------------------------------------------------

// bytesOf returns the contents of a bytes or bytearray value.
func (vm *VM) bytesOf(v Value) ([]byte, bool) {
	switch vm.ClassOf(v).Kind {
	case KindBytes, KindByteArray:
		b, ok := payloadOf(v).([]byte)
		return b, ok
	}
	return nil, false
}

// newBytesLike creates a value of the same builtin layout as like.
func (vm *VM) newBytesLike(like Value, b []byte) Value {
	if vm.ClassOf(like).Kind == KindByteArray {
		return vm.NewByteArray(b)
	}
	return vm.NewBytes(b)
}

func (vm *VM) registerBytesPrimitives() {
	for _, c := range []*Class{vm.BytesClass, vm.ByteArrayClass} {
		vm.addBuiltin1(c, "__add__", func(vm *VM, self, other Value) (Value, error) {
			a, ok := vm.bytesOf(self)
			if !ok {
				return NotImplemented, nil
			}
			b, ok := vm.bytesOf(other)
			if !ok {
				return Value{}, newOpError(ErrUnsupportedOperandTypes, "+",
					"can't concat %s to %s", vm.ClassOf(other).Name, vm.ClassOf(self).Name)
			}
			out := make([]byte, 0, len(a)+len(b))
			return vm.newBytesLike(self, append(append(out, a...), b...)), nil
		})

		vm.registerRepeat(c,
			func(v Value) (int, bool) {
				b, ok := vm.bytesOf(v)
				return len(b), ok
			},
			func(v Value, k int) Value {
				b, _ := vm.bytesOf(v)
				return vm.newBytesLike(v, bytes.Repeat(b, k))
			})

		// bytes and bytearray compare with each other.
		for _, which := range CompareOps {
			op := which.Spec().Op
			vm.addBuiltin1(c, which.Spec().Name, func(vm *VM, self, other Value) (Value, error) {
				a, ok1 := vm.bytesOf(self)
				b, ok2 := vm.bytesOf(other)
				if !ok1 || !ok2 {
					return NotImplemented, nil
				}
				return FromBool(compareResult(op, bytes.Compare(a, b), false)), nil
			})
		}

		vm.addBuiltin1(c, "__contains__", func(vm *VM, self, item Value) (Value, error) {
			b, ok := vm.bytesOf(self)
			if !ok {
				return NotImplemented, nil
			}
			if n, ok := intOperand(item); ok {
				if n.IsWideInt() || int64(n.bits) < 0 || int64(n.bits) > 255 {
					return Value{}, newOpError(ErrOverflow, "in", "byte must be in range(0, 256)")
				}
				return FromBool(bytes.IndexByte(b, byte(n.bits)) >= 0), nil
			}
			sub, ok := vm.bytesOf(item)
			if !ok {
				return Value{}, newOpError(ErrUnsupportedOperandTypes, "in",
					"a bytes-like object is required, not '%s'", vm.ClassOf(item).Name)
			}
			return FromBool(bytes.Contains(b, sub)), nil
		})

		vm.addBuiltin0(c, "__len__", func(vm *VM, self Value) (Value, error) {
			b, ok := vm.bytesOf(self)
			if !ok {
				return NotImplemented, nil
			}
			return FromInt(int64(len(b))), nil
		})
	}
}
