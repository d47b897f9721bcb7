package vm

// Object represents a heap-allocated instance.
//
// Builtin containers keep their contents in payload:
//   - str: string
//   - bytes, bytearray: []byte
//   - list, tuple: []Value
//   - user subclasses of int/float/bool: the primitive Value being extended
//
// Plain user objects have a nil payload.
type Object struct {
	class   *Class
	payload any
}

// NewObject creates a new instance of class with the given payload.
func NewObject(class *Class, payload any) *Object {
	return &Object{class: class, payload: payload}
}

// Class returns the object's class. Sentinel objects return nil; use
// (*VM).ClassOf to resolve them.
func (o *Object) Class() *Class {
	return o.class
}

// Payload returns the object's native payload.
func (o *Object) Payload() any {
	return o.payload
}

// Class is a type in the hierarchy.
// Full implementation is in class.go.
type Class struct {
	Name  string
	Bases []*Class

	// Builtin is set for classes created by the VM bootstrap. Only builtin
	// classes take part in the sequence compatibility rule.
	Builtin bool

	// Native marks foreign-interop classes whose layout the VM doesn't own.
	Native bool

	// Kind is the builtin layout this class (or its nearest builtin ancestor)
	// uses.
	Kind Kind

	mro    []*Class
	epoch  *Epoch
	VTable *VTable
}

// Kind identifies the builtin layout of a class.
type Kind uint8

const (
	KindOther Kind = iota
	KindObject
	KindNone
	KindNotImplemented
	KindBool
	KindInt
	KindFloat
	KindStr
	KindBytes
	KindByteArray
	KindList
	KindTuple
)

// IsSequence reports whether k is one of the builtin sequence layouts that
// take part in the concatenation/repetition compatibility rule.
func (k Kind) IsSequence() bool {
	switch k {
	case KindStr, KindBytes, KindByteArray, KindList, KindTuple:
		return true
	}
	return false
}
