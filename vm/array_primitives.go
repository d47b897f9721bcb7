package vm

import "math/big"

// ---------------------------------------------------------------------------
// list and tuple Primitives
// ---------------------------------------------------------------------------

// maxRepeatLen bounds the length of a repeated sequence.
const maxRepeatLen = 1 << 28

// elementsOf returns the elements of a list or tuple value of the given
// layout.
func (vm *VM) elementsOf(v Value, kind Kind) ([]Value, bool) {
	if vm.ClassOf(v).Kind != kind {
		return nil, false
	}
	elems, ok := payloadOf(v).([]Value)
	return elems, ok
}

func (vm *VM) registerArrayPrimitives() {
	vm.registerElementSequence(vm.ListClass, KindList, vm.NewList)
	vm.registerElementSequence(vm.TupleClass, KindTuple, vm.NewTuple)
}

func (vm *VM) registerElementSequence(c *Class, kind Kind, build func(...Value) Value) {
	// __add__ - concatenation with the same sequence type only
	vm.addBuiltin1(c, "__add__", func(vm *VM, self, other Value) (Value, error) {
		a, ok := vm.elementsOf(self, kind)
		if !ok {
			return NotImplemented, nil
		}
		b, ok := vm.elementsOf(other, kind)
		if !ok {
			return Value{}, newOpError(ErrUnsupportedOperandTypes, "+",
				"can only concatenate %s (not \"%s\") to %s", c.Name, vm.ClassOf(other).Name, c.Name)
		}
		out := make([]Value, 0, len(a)+len(b))
		return build(append(append(out, a...), b...)...), nil
	})

	vm.registerRepeat(c,
		func(v Value) (int, bool) {
			elems, ok := vm.elementsOf(v, kind)
			return len(elems), ok
		},
		func(v Value, k int) Value {
			elems, _ := vm.elementsOf(v, kind)
			out := make([]Value, 0, len(elems)*k)
			for i := 0; i < k; i++ {
				out = append(out, elems...)
			}
			return build(out...)
		})

	for _, which := range CompareOps {
		op := which.Spec().Op
		vm.addBuiltin1(c, which.Spec().Name, func(vm *VM, self, other Value) (Value, error) {
			a, ok1 := vm.elementsOf(self, kind)
			b, ok2 := vm.elementsOf(other, kind)
			if !ok1 || !ok2 {
				return NotImplemented, nil
			}
			return vm.compareElements(op, a, b)
		})
	}

	vm.addBuiltin1(c, "__contains__", func(vm *VM, self, item Value) (Value, error) {
		elems, ok := vm.elementsOf(self, kind)
		if !ok {
			return NotImplemented, nil
		}
		for _, e := range elems {
			if Identical(e, item) {
				return True, nil
			}
			eq, err := vm.CompareBool(EQ, e, item)
			if err != nil {
				return Value{}, err
			}
			if eq {
				return True, nil
			}
		}
		return False, nil
	})

	vm.addBuiltin0(c, "__len__", func(vm *VM, self Value) (Value, error) {
		elems, ok := vm.elementsOf(self, kind)
		if !ok {
			return NotImplemented, nil
		}
		return FromInt(int64(len(elems))), nil
	})
}

// compareElements compares two element sequences lexicographically: the
// first pair that isn't equal decides, otherwise the lengths do.
func (vm *VM) compareElements(op Op, a, b []Value) (Value, error) {
	i := 0
	for ; i < len(a) && i < len(b); i++ {
		if Identical(a[i], b[i]) {
			continue
		}
		eq, err := vm.CompareBool(EQ, a[i], b[i])
		if err != nil {
			return Value{}, err
		}
		if !eq {
			break
		}
	}

	if i >= len(a) || i >= len(b) {
		return FromBool(compareResult(op, len(a)-len(b), false)), nil
	}
	switch op {
	case OpEq:
		return False, nil
	case OpNe:
		return True, nil
	}
	return vm.Compare(compareOpOf(op), a[i], b[i])
}

// ---------------------------------------------------------------------------
// Repetition, shared by every builtin sequence
// ---------------------------------------------------------------------------

// registerRepeat installs __mul__ and __rmul__ on c. length reports the
// length of a receiver of c's layout; repeat builds the result for a
// validated count.
func (vm *VM) registerRepeat(c *Class, length func(Value) (int, bool), repeat func(v Value, k int) Value) {
	fn := func(vm *VM, self, count Value) (Value, error) {
		n, ok := length(self)
		if !ok {
			return NotImplemented, nil
		}
		k, ok, err := repeatCount(n, count)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Value{}, newOpError(ErrUnsupportedOperandTypes, "*",
				"can't multiply sequence by non-int of type '%s'", vm.ClassOf(count).Name)
		}
		return repeat(self, k), nil
	}
	vm.addBuiltin1(c, "__mul__", fn)
	vm.addBuiltin1(c, "__rmul__", fn)
}

// repeatCount validates a repetition count for a sequence of length n.
// Negative counts repeat zero times. ok is false when count isn't an int.
func repeatCount(n int, count Value) (k int, ok bool, err error) {
	c, ok := intOperand(count)
	if !ok {
		return 0, false, nil
	}
	if c.IsWideInt() {
		if c.ref.(*big.Int).Sign() < 0 || n == 0 {
			return 0, true, nil
		}
		return 0, true, newOpError(ErrOverflow, "*", "cannot fit 'int' into an index-sized integer")
	}
	times := int64(c.bits)
	if times <= 0 || n == 0 {
		return 0, true, nil
	}
	if times > maxRepeatLen/int64(n) {
		return 0, true, newOpError(ErrOverflow, "*", "repeated sequence is too long")
	}
	return int(times), true, nil
}
