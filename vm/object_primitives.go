package vm

// ---------------------------------------------------------------------------
// object Primitives
// ---------------------------------------------------------------------------

func (vm *VM) registerObjectPrimitives() {
	c := vm.ObjectClass

	// __eq__ - identity, otherwise declines so the other operand gets a say
	vm.addBuiltin1(c, "__eq__", func(_ *VM, self, other Value) (Value, error) {
		if Identical(self, other) {
			return True, nil
		}
		return NotImplemented, nil
	})

	// __ne__ - inverts whatever __eq__ on the receiver's class answers
	vm.addBuiltin1(c, "__ne__", func(vm *VM, self, other Value) (Value, error) {
		eq, err := vm.Locate(vm.ClassOf(self), "__eq__", true)
		if err != nil || eq == nil {
			return NotImplemented, err
		}
		r, err := vm.call(eq, self, other)
		if err != nil || r.IsNotImplemented() {
			return r, err
		}
		b, err := vm.Truthy(r)
		if err != nil {
			return Value{}, err
		}
		return FromBool(!b), nil
	})
}

// addBuiltin1 registers a one-argument builtin owned by c.
func (vm *VM) addBuiltin1(c *Class, name string, fn Method1Func) {
	c.AddMethod(vm.Selectors, name, NewBuiltin1(c, name, fn))
}

// addBuiltin0 registers a zero-argument builtin owned by c.
func (vm *VM) addBuiltin0(c *Class, name string, fn Method0Func) {
	c.AddMethod(vm.Selectors, name, NewBuiltin0(c, name, fn))
}

// payloadOf returns the payload of an object value, or nil.
func payloadOf(v Value) any {
	if o, ok := v.ref.(*Object); ok && v.rep == RepObject {
		return o.payload
	}
	return nil
}
