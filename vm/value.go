package vm

import (
	"math"
	"math/big"
)

// Rep identifies the representation a Value is stored in.
//
// The primitive representations (Bool, FixedInt, WideInt, Float) carry their
// payload inline and are eligible for the fast-path dispatch table. Everything
// else is an Object: an opaque heap instance whose behavior is defined purely
// by its class.
type Rep uint8

const (
	RepObject   Rep = iota // Heap object, dispatched through its class
	RepBool                // true / false
	RepFixedInt            // int64
	RepWideInt             // *big.Int outside the int64 range
	RepFloat               // float64
)

// NumReps is the number of distinct representations.
const NumReps = 5

var repNames = [NumReps]string{"Object", "Bool", "FixedInt", "WideInt", "Float"}

func (r Rep) String() string {
	if int(r) < len(repNames) {
		return repNames[r]
	}
	return "Rep(?)"
}

// IsPrimitive reports whether r is one of the inline numeric representations.
func (r Rep) IsPrimitive() bool {
	return r != RepObject
}

// Value is a tagged interpreter value.
//
// Encoding:
//   - Bool: bits is 0 or 1
//   - FixedInt: bits holds the two's complement int64
//   - Float: bits holds the IEEE 754 pattern
//   - WideInt: ref holds a *big.Int that never fits in an int64
//   - Object: ref holds the *Object
//
// Values are immutable. Copying a Value never copies the referenced object.
type Value struct {
	rep  Rep
	bits uint64
	ref  any
}

// Sentinel objects. Their classes are resolved per VM in ClassOf.
var (
	noneObject           = &Object{}
	notImplementedObject = &Object{}
)

// Pre-defined special values
var (
	None           = Value{rep: RepObject, ref: noneObject}
	NotImplemented = Value{rep: RepObject, ref: notImplementedObject}
	True           = Value{rep: RepBool, bits: 1}
	False          = Value{rep: RepBool, bits: 0}
)

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// Rep returns the representation tag of v.
func (v Value) Rep() Rep { return v.rep }

func (v Value) IsBool() bool     { return v.rep == RepBool }
func (v Value) IsFixedInt() bool { return v.rep == RepFixedInt }
func (v Value) IsWideInt() bool  { return v.rep == RepWideInt }
func (v Value) IsFloat() bool    { return v.rep == RepFloat }
func (v Value) IsObject() bool   { return v.rep == RepObject }

// IsInt returns true for either integer representation.
func (v Value) IsInt() bool {
	return v.rep == RepFixedInt || v.rep == RepWideInt
}

// IsNone returns true if v is the None singleton.
func (v Value) IsNone() bool {
	return v.rep == RepObject && v.ref == noneObject
}

// IsNotImplemented returns true if v is the decline sentinel.
func (v Value) IsNotImplemented() bool {
	return v.rep == RepObject && v.ref == notImplementedObject
}

// ---------------------------------------------------------------------------
// Bool
// ---------------------------------------------------------------------------

// FromBool creates a Value from a bool.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Bool returns v as a bool.
// Panics if v is not a bool.
func (v Value) Bool() bool {
	if v.rep != RepBool {
		panic("Value.Bool: not a bool")
	}
	return v.bits != 0
}

// ---------------------------------------------------------------------------
// Integers
// ---------------------------------------------------------------------------

// FromInt creates a FixedInt value.
func FromInt(n int64) Value {
	return Value{rep: RepFixedInt, bits: uint64(n)}
}

// FromBigInt creates an integer value, normalizing to FixedInt when n fits.
// n is not retained; callers may keep mutating it.
func FromBigInt(n *big.Int) Value {
	if n.IsInt64() {
		return FromInt(n.Int64())
	}
	return Value{rep: RepWideInt, ref: new(big.Int).Set(n)}
}

// Int returns v as an int64.
// Panics if v is not a FixedInt.
func (v Value) Int() int64 {
	if v.rep != RepFixedInt {
		panic("Value.Int: not a fixed integer")
	}
	return int64(v.bits)
}

// BigInt returns the integer value of v as a fresh *big.Int.
// Bools are widened to 0/1. Panics for other representations.
func (v Value) BigInt() *big.Int {
	switch v.rep {
	case RepFixedInt:
		return big.NewInt(int64(v.bits))
	case RepBool:
		return big.NewInt(int64(v.bits))
	case RepWideInt:
		return new(big.Int).Set(v.ref.(*big.Int))
	}
	panic("Value.BigInt: not an integer")
}

// ---------------------------------------------------------------------------
// Float
// ---------------------------------------------------------------------------

// FromFloat64 creates a Value from a float64.
func FromFloat64(f float64) Value {
	return Value{rep: RepFloat, bits: math.Float64bits(f)}
}

// Float64 returns v as a float64.
// Panics if v is not a float.
func (v Value) Float64() float64 {
	if v.rep != RepFloat {
		panic("Value.Float64: not a float")
	}
	return math.Float64frombits(v.bits)
}

// ---------------------------------------------------------------------------
// Objects
// ---------------------------------------------------------------------------

// FromObject wraps a heap object.
func FromObject(o *Object) Value {
	return Value{rep: RepObject, ref: o}
}

// Object returns the heap object referenced by v.
// Panics if v is not an object.
func (v Value) Object() *Object {
	if v.rep != RepObject {
		panic("Value.Object: not an object")
	}
	return v.ref.(*Object)
}

// ---------------------------------------------------------------------------
// Identity
// ---------------------------------------------------------------------------

// Identical reports whether a and b are the same value.
//
// Objects are identical only when they are the same instance. Primitive
// values have no identity beyond their value, so two primitives are identical
// when they share a representation and hold the same payload.
func Identical(a, b Value) bool {
	if a.rep != b.rep {
		return false
	}
	switch a.rep {
	case RepObject:
		return a.ref == b.ref
	case RepWideInt:
		return a.ref.(*big.Int).Cmp(b.ref.(*big.Int)) == 0
	default:
		return a.bits == b.bits
	}
}
