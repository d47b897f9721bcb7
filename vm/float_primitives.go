package vm

// ---------------------------------------------------------------------------
// float Primitives
// ---------------------------------------------------------------------------

// numericOperand returns the number held by v: a bool, an int, a float, or
// an instance of a user subclass of one of them.
func numericOperand(v Value) (Value, bool) {
	if v.rep.IsPrimitive() {
		return v, true
	}
	if p, ok := payloadOf(v).(Value); ok && p.rep.IsPrimitive() {
		return p, true
	}
	return Value{}, false
}

// floatOperand widens a numeric operand to float64. Ints too large for a
// float are an overflow error.
func floatOperand(v Value) (f float64, ok bool, err error) {
	n, ok := numericOperand(v)
	if !ok {
		return 0, false, nil
	}
	if n.IsFloat() {
		return n.Float64(), true, nil
	}
	f, err = intToFloat(n)
	return f, true, err
}

func (vm *VM) registerFloatPrimitives() {
	c := vm.FloatClass

	// Arithmetic. Unlike int, float's slots accept int operands on either
	// side, which is how mixed int/float expressions resolve.
	for _, spec := range []*OperatorSpec{Add, Sub, Mul, TrueDiv, FloorDiv, Mod} {
		op := spec.Op
		vm.addBuiltin1(c, spec.Name, func(_ *VM, self, other Value) (Value, error) {
			return floatBinary(op, self, other, false)
		})
		vm.addBuiltin1(c, spec.RName, func(_ *VM, self, other Value) (Value, error) {
			return floatBinary(op, self, other, true)
		})
	}

	// Comparisons are exact against ints.
	for _, which := range CompareOps {
		op := which.Spec().Op
		vm.addBuiltin1(c, which.Spec().Name, func(_ *VM, self, other Value) (Value, error) {
			a, ok1 := numericOperand(self)
			b, ok2 := numericOperand(other)
			if !ok1 || !ok2 {
				return NotImplemented, nil
			}
			cmp, unordered := compareNumbers(a, b)
			return FromBool(compareResult(op, cmp, unordered)), nil
		})
	}

	vm.addBuiltin0(c, "__bool__", func(_ *VM, self Value) (Value, error) {
		f, ok, err := floatOperand(self)
		if !ok || err != nil {
			return NotImplemented, err
		}
		return FromBool(f != 0), nil
	})
}

func floatBinary(op Op, self, other Value, reversed bool) (Value, error) {
	x, ok, err := floatOperand(self)
	if !ok || err != nil {
		return NotImplemented, err
	}
	y, ok, err := floatOperand(other)
	if !ok || err != nil {
		return NotImplemented, err
	}
	if reversed {
		x, y = y, x
	}
	return floatArith(op, x, y)
}
