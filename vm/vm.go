package vm

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("binop.vm")

// ---------------------------------------------------------------------------
// VM: operator resolution context
// ---------------------------------------------------------------------------

// Options configures a VM.
type Options struct {
	// FastPaths enables the primitive fast-path table.
	FastPaths bool
	// MethodCache enables the locator's read-through method cache.
	MethodCache bool
}

// DefaultOptions returns the options used by NewVM.
func DefaultOptions() Options {
	return Options{FastPaths: true, MethodCache: true}
}

// VM holds the class hierarchy and the builtin types operators resolve
// against. A VM is safe for concurrent use; classes may be defined and
// methods added while other goroutines resolve operators.
type VM struct {
	// Global tables
	Selectors *SelectorTable // method name -> ID
	Classes   *ClassTable    // class name -> Class

	// Builtin classes
	ObjectClass             *Class
	NoneTypeClass           *Class
	NotImplementedTypeClass *Class
	IntClass                *Class
	BoolClass               *Class
	FloatClass              *Class
	StrClass                *Class
	BytesClass              *Class
	ByteArrayClass          *Class
	ListClass               *Class
	TupleClass              *Class

	// Locator cache; nil when disabled
	cache *MethodCache

	fastPaths bool

	// pristine holds the bootstrap slot methods of the primitive classes.
	// Read-only after bootstrap.
	pristine map[cacheKey]Method

	tracer Tracer
}

// NewVM creates and bootstraps a VM with the default options.
func NewVM() *VM {
	return NewVMWithOptions(DefaultOptions())
}

// NewVMWithOptions creates and bootstraps a VM.
func NewVMWithOptions(opts Options) *VM {
	vm := &VM{
		Selectors: NewSelectorTable(),
		Classes:   NewClassTable(),
		fastPaths: opts.FastPaths,
	}
	if opts.MethodCache {
		vm.cache = NewMethodCache()
	}
	vm.bootstrap()
	return vm
}

// Options returns the options the VM was created with.
func (vm *VM) Options() Options {
	return Options{FastPaths: vm.fastPaths, MethodCache: vm.cache != nil}
}

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

func (vm *VM) bootstrap() {
	vm.ObjectClass = vm.createBuiltinClass("object", KindObject)
	vm.NoneTypeClass = vm.createBuiltinClass("NoneType", KindNone, vm.ObjectClass)
	vm.NotImplementedTypeClass = vm.createBuiltinClass("NotImplementedType", KindNotImplemented, vm.ObjectClass)

	// Numbers; bool is a subclass of int
	vm.IntClass = vm.createBuiltinClass("int", KindInt, vm.ObjectClass)
	vm.BoolClass = vm.createBuiltinClass("bool", KindBool, vm.IntClass)
	vm.FloatClass = vm.createBuiltinClass("float", KindFloat, vm.ObjectClass)

	// Sequences
	vm.StrClass = vm.createBuiltinClass("str", KindStr, vm.ObjectClass)
	vm.BytesClass = vm.createBuiltinClass("bytes", KindBytes, vm.ObjectClass)
	vm.ByteArrayClass = vm.createBuiltinClass("bytearray", KindByteArray, vm.ObjectClass)
	vm.ListClass = vm.createBuiltinClass("list", KindList, vm.ObjectClass)
	vm.TupleClass = vm.createBuiltinClass("tuple", KindTuple, vm.ObjectClass)

	vm.registerObjectPrimitives()
	vm.registerIntegerPrimitives()
	vm.registerBooleanPrimitives()
	vm.registerFloatPrimitives()
	vm.registerStringPrimitives()
	vm.registerBytesPrimitives()
	vm.registerArrayPrimitives()

	vm.recordPristine()
}

func (vm *VM) createBuiltinClass(name string, kind Kind, bases ...*Class) *Class {
	c := NewClass(name, bases...)
	c.Builtin = true
	c.Kind = kind
	vm.Classes.Register(c)
	return c
}

// DefineClass creates and registers a user class. With no bases the class
// derives from object. Class names are unique within a VM.
func (vm *VM) DefineClass(name string, bases ...*Class) (*Class, error) {
	if vm.Classes.Lookup(name) != nil {
		return nil, fmt.Errorf("class %q is already defined", name)
	}
	if len(bases) == 0 {
		bases = []*Class{vm.ObjectClass}
	}
	c, err := DefineClass(name, bases...)
	if err != nil {
		return nil, err
	}
	if vm.Classes.Register(c) != nil {
		return nil, fmt.Errorf("class %q is already defined", name)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Values
// ---------------------------------------------------------------------------

// ClassOf returns the runtime class of v.
func (vm *VM) ClassOf(v Value) *Class {
	switch v.rep {
	case RepBool:
		return vm.BoolClass
	case RepFixedInt, RepWideInt:
		return vm.IntClass
	case RepFloat:
		return vm.FloatClass
	}
	o, _ := v.ref.(*Object)
	switch o {
	case nil, noneObject:
		return vm.NoneTypeClass
	case notImplementedObject:
		return vm.NotImplementedTypeClass
	}
	return o.class
}

// NewInstance creates an instance of class. Instances of user subclasses of
// int, bool or float carry the primitive value they extend as payload.
func (vm *VM) NewInstance(class *Class, payload any) Value {
	return FromObject(NewObject(class, payload))
}

// NewStr creates a str.
func (vm *VM) NewStr(s string) Value {
	return vm.NewInstance(vm.StrClass, s)
}

// NewBytes creates a bytes value. b is not copied.
func (vm *VM) NewBytes(b []byte) Value {
	return vm.NewInstance(vm.BytesClass, b)
}

// NewByteArray creates a bytearray. b is not copied.
func (vm *VM) NewByteArray(b []byte) Value {
	return vm.NewInstance(vm.ByteArrayClass, b)
}

// NewList creates a list holding elems.
func (vm *VM) NewList(elems ...Value) Value {
	return vm.NewInstance(vm.ListClass, append([]Value{}, elems...))
}

// NewTuple creates a tuple holding elems.
func (vm *VM) NewTuple(elems ...Value) Value {
	return vm.NewInstance(vm.TupleClass, append([]Value{}, elems...))
}
