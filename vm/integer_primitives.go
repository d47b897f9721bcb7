package vm

// ---------------------------------------------------------------------------
// int Primitives
// ---------------------------------------------------------------------------

// intOperand returns the integer held by v: a bool, an int, or an instance of
// a user subclass of int or bool carrying one.
func intOperand(v Value) (Value, bool) {
	switch v.rep {
	case RepBool, RepFixedInt, RepWideInt:
		return v, true
	case RepObject:
		if p, ok := payloadOf(v).(Value); ok && (p.IsBool() || p.IsInt()) {
			return p, true
		}
	}
	return Value{}, false
}

func (vm *VM) registerIntegerPrimitives() {
	c := vm.IntClass

	// Arithmetic and bitwise slots. Floats are left to float's reflected
	// slots.
	for _, spec := range BinaryOperators {
		if spec.Op == OpMatMul {
			continue
		}
		op := spec.Op
		vm.addBuiltin1(c, spec.Name, func(_ *VM, self, other Value) (Value, error) {
			a, ok1 := intOperand(self)
			b, ok2 := intOperand(other)
			if !ok1 || !ok2 {
				return NotImplemented, nil
			}
			return intArith(op, a, b)
		})
		vm.addBuiltin1(c, spec.RName, func(_ *VM, self, other Value) (Value, error) {
			a, ok1 := intOperand(self)
			b, ok2 := intOperand(other)
			if !ok1 || !ok2 {
				return NotImplemented, nil
			}
			return intArith(op, b, a)
		})
	}

	// Comparisons
	for _, which := range CompareOps {
		op := which.Spec().Op
		vm.addBuiltin1(c, which.Spec().Name, func(_ *VM, self, other Value) (Value, error) {
			a, ok1 := intOperand(self)
			b, ok2 := intOperand(other)
			if !ok1 || !ok2 {
				return NotImplemented, nil
			}
			return FromBool(compareResult(op, compareInts(a, b), false)), nil
		})
	}

	vm.addBuiltin0(c, "__bool__", func(_ *VM, self Value) (Value, error) {
		a, ok := intOperand(self)
		if !ok {
			return NotImplemented, nil
		}
		return FromBool(a.IsWideInt() || a.bits != 0), nil
	})
}
