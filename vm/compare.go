package vm

// Compare evaluates a rich comparison.
//
// When neither operand implements the comparison, == and != fall back to
// identity and the ordering comparisons fail with an unsupported operand
// error. Any other result is returned as is; it need not be a bool.
func (vm *VM) Compare(which CompareOp, left, right Value) (Value, error) {
	out, err := vm.Resolve(which.Spec(), left, right)
	if err != nil {
		return Value{}, err
	}
	if v, ok := out.Value(); ok {
		return v, nil
	}
	switch which {
	case EQ:
		return FromBool(Identical(left, right)), nil
	case NE:
		return FromBool(!Identical(left, right)), nil
	}
	return Value{}, vm.unorderable(which.String(), left, right)
}

// CompareBool is Compare for call sites that need a Go bool: the result is
// coerced through Truthy.
func (vm *VM) CompareBool(which CompareOp, left, right Value) (bool, error) {
	v, err := vm.Compare(which, left, right)
	if err != nil {
		return false, err
	}
	return vm.Truthy(v)
}

// Truthy returns the truth value of v.
//
// Primitives are true when non-zero and None is false. Objects are asked
// through __bool__, which must return a bool, then through __len__. Objects
// defining neither are true.
func (vm *VM) Truthy(v Value) (bool, error) {
	switch v.rep {
	case RepBool, RepFixedInt:
		return v.bits != 0, nil
	case RepWideInt:
		return true, nil
	case RepFloat:
		return v.Float64() != 0, nil
	}
	if v.IsNone() {
		return false, nil
	}

	class := vm.ClassOf(v)
	if m, err := vm.Locate(class, "__bool__", false); err != nil {
		return false, err
	} else if m != nil {
		r, err := m.Invoke(vm, v, nil)
		if err != nil {
			return false, err
		}
		if !r.IsBool() {
			return false, newOpError(ErrBadTruthValue, "__bool__",
				"__bool__ should return bool, returned %s", vm.ClassOf(r).Name)
		}
		return r.Bool(), nil
	}

	if m, err := vm.Locate(class, "__len__", false); err != nil {
		return false, err
	} else if m != nil {
		r, err := m.Invoke(vm, v, nil)
		if err != nil {
			return false, err
		}
		if !r.IsInt() {
			return false, newOpError(ErrBadTruthValue, "__len__",
				"'%s' object cannot be interpreted as an integer", vm.ClassOf(r).Name)
		}
		if r.IsWideInt() || r.Int() < 0 {
			return false, newOpError(ErrBadTruthValue, "__len__", "__len__() should return >= 0")
		}
		return r.Int() != 0, nil
	}
	return true, nil
}
