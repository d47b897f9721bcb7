package vm

// ---------------------------------------------------------------------------
// bool Primitives
// ---------------------------------------------------------------------------

// bool inherits everything from int except the bitwise slots, which stay
// within bool when both operands are bools.

func boolBitwise(op Op, a, b bool) Value {
	switch op {
	case OpAnd:
		return FromBool(a && b)
	case OpOr:
		return FromBool(a || b)
	}
	return FromBool(a != b)
}

func (vm *VM) registerBooleanPrimitives() {
	c := vm.BoolClass

	for _, spec := range []*OperatorSpec{And, Or, Xor} {
		op := spec.Op
		vm.addBuiltin1(c, spec.Name, func(_ *VM, self, other Value) (Value, error) {
			return boolOrIntBitwise(op, self, other, false)
		})
		vm.addBuiltin1(c, spec.RName, func(_ *VM, self, other Value) (Value, error) {
			return boolOrIntBitwise(op, self, other, true)
		})
	}
}

func boolOrIntBitwise(op Op, self, other Value, reversed bool) (Value, error) {
	a, ok1 := intOperand(self)
	b, ok2 := intOperand(other)
	if !ok1 || !ok2 {
		return NotImplemented, nil
	}
	if reversed {
		a, b = b, a
	}
	if a.IsBool() && b.IsBool() {
		return boolBitwise(op, a.Bool(), b.Bool()), nil
	}
	return intArith(op, a, b)
}
