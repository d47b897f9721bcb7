package vm

import "fmt"

// Method represents a callable class attribute.
type Method interface {
	Invoke(vm *VM, receiver Value, args []Value) (Value, error)
}

// Method0Func is a method taking no arguments besides the receiver.
type Method0Func func(vm *VM, receiver Value) (Value, error)

// Method1Func is a method taking one argument besides the receiver. All
// binary operator slots have this shape.
type Method1Func func(vm *VM, receiver Value, arg Value) (Value, error)

// ---------------------------------------------------------------------------
// Arity-specialized method wrappers
// ---------------------------------------------------------------------------

// Method0 wraps a zero-argument function.
type Method0 struct {
	name  string
	owner *Class
	fn    Method0Func
}

func (m *Method0) Invoke(vm *VM, receiver Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, fmt.Errorf("%s() takes no arguments (%d given)", m.name, len(args))
	}
	return m.fn(vm, receiver)
}

func (m *Method0) Owner() *Class { return m.owner }

// Method1 wraps a one-argument function.
type Method1 struct {
	name  string
	owner *Class
	fn    Method1Func
}

func (m *Method1) Invoke(vm *VM, receiver Value, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, fmt.Errorf("%s() takes exactly one argument (%d given)", m.name, len(args))
	}
	return m.fn(vm, receiver, args[0])
}

func (m *Method1) Owner() *Class { return m.owner }

// ---------------------------------------------------------------------------
// Descriptors
// ---------------------------------------------------------------------------

// Binder is implemented by attributes that must be bound to the receiver's
// class before they can be called.
type Binder interface {
	Bind(class *Class) (Method, error)
}

// Descriptor is a class attribute that is only valid for instances of its
// owner class. Binding it to any other class fails.
type Descriptor struct {
	name   string
	owner  *Class
	target Method
}

// NewDescriptor creates a descriptor exposing target to instances of owner.
func NewDescriptor(name string, owner *Class, target Method) *Descriptor {
	return &Descriptor{name: name, owner: owner, target: target}
}

// Bind returns the underlying method when class is owner or a subclass.
func (d *Descriptor) Bind(class *Class) (Method, error) {
	if d.owner != nil && !class.IsSubclassOf(d.owner) {
		return nil, &OperatorError{
			Kind: ErrDescriptorBinding,
			Op:   d.name,
			Message: fmt.Sprintf("descriptor '%s' for '%s' objects doesn't apply to a '%s' object",
				d.name, d.owner.Name, class.Name),
		}
	}
	return d.target, nil
}

func (d *Descriptor) Invoke(vm *VM, receiver Value, args []Value) (Value, error) {
	m, err := d.Bind(vm.ClassOf(receiver))
	if err != nil {
		return Value{}, err
	}
	return m.Invoke(vm, receiver, args)
}

// ---------------------------------------------------------------------------
// Factory functions
// ---------------------------------------------------------------------------

// NewMethod0 creates a zero-argument method with no owner class.
func NewMethod0(name string, fn Method0Func) Method {
	return &Method0{name: name, fn: fn}
}

// NewMethod1 creates a one-argument method with no owner class.
func NewMethod1(name string, fn Method1Func) Method {
	return &Method1{name: name, fn: fn}
}

// NewBuiltin0 creates a zero-argument builtin bound to owner. Calling it
// with a receiver that isn't an owner instance is a binding error.
func NewBuiltin0(owner *Class, name string, fn Method0Func) Method {
	return &Method0{name: name, owner: owner, fn: fn}
}

// NewBuiltin1 creates a one-argument builtin bound to owner.
func NewBuiltin1(owner *Class, name string, fn Method1Func) Method {
	return &Method1{name: name, owner: owner, fn: fn}
}

// ---------------------------------------------------------------------------
// Method metadata
// ---------------------------------------------------------------------------

// OwnedMethod is implemented by builtin methods that declare the class
// they were defined on.
type OwnedMethod interface {
	Method
	Owner() *Class
}

// EnclosingType returns the declared owner of a builtin method, or nil for
// methods that can be called on anything.
func EnclosingType(m Method) *Class {
	if om, ok := m.(OwnedMethod); ok {
		return om.Owner()
	}
	return nil
}
