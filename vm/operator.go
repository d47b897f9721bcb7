package vm

// Op identifies a primitive operation for the fast-path table. Operator
// specs built for custom slots use OpNone and always take the generic path.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpMatMul
	OpTrueDiv
	OpFloorDiv
	OpMod
	OpLShift
	OpRShift
	OpAnd
	OpOr
	OpXor
	OpLt
	OpLe
	OpEq
	OpNe
	OpGt
	OpGe
	numOps
)

var opSymbols = [numOps]string{
	OpNone: "?", OpAdd: "+", OpSub: "-", OpMul: "*", OpMatMul: "@",
	OpTrueDiv: "/", OpFloorDiv: "//", OpMod: "%", OpLShift: "<<", OpRShift: ">>",
	OpAnd: "&", OpOr: "|", OpXor: "^",
	OpLt: "<", OpLe: "<=", OpEq: "==", OpNe: "!=", OpGt: ">", OpGe: ">=",
}

func (op Op) String() string {
	if op < numOps {
		return opSymbols[op]
	}
	return "?"
}

// IsComparison reports whether op is one of the six rich comparisons.
func (op Op) IsComparison() bool {
	return op >= OpLt && op <= OpGe
}

// NotImplementedHandler is called when every candidate for an operator
// declined. Whatever it returns becomes the result of the resolution.
type NotImplementedHandler func(vm *VM, left, right Value) (Value, error)

// OperatorSpec describes one binary operator call site. It is immutable once
// built and safe to share between goroutines.
type OperatorSpec struct {
	Name   string // forward slot, e.g. "__add__"
	RName  string // reverse slot, e.g. "__radd__"; empty if not reversible
	Symbol string // operator as written, for error messages
	Op     Op     // fast-path key; OpNone disables fast paths

	// Fallback runs when every candidate declined. Nil means the resolution
	// reports NoImplementation.
	Fallback NotImplementedHandler

	// AlwaysCheckReverse keeps the reverse candidate even when it is the
	// same callable as the forward one. Comparisons set it.
	AlwaysCheckReverse bool

	// IgnoreDescriptorError treats descriptors that can't be bound as absent
	// instead of failing the lookup.
	IgnoreDescriptorError bool
}

// IsReversible reports whether the spec has a reflected slot.
func (s *OperatorSpec) IsReversible() bool {
	return s.RName != ""
}

// NewOperator creates a non-reversible operator that only consults the left
// operand.
func NewOperator(name, symbol string) *OperatorSpec {
	return &OperatorSpec{Name: name, Symbol: symbol}
}

// NewReversible creates a reversible operator.
func NewReversible(name, rname, symbol string) *OperatorSpec {
	return &OperatorSpec{Name: name, RName: rname, Symbol: symbol}
}

// WithFallback returns a copy of s that calls handler instead of reporting
// NoImplementation.
func (s *OperatorSpec) WithFallback(handler NotImplementedHandler) *OperatorSpec {
	c := *s
	c.Fallback = handler
	return &c
}

func reversible(op Op, name, rname string) *OperatorSpec {
	return &OperatorSpec{Name: name, RName: rname, Symbol: op.String(), Op: op}
}

func comparison(op Op, name, rname string) *OperatorSpec {
	return &OperatorSpec{
		Name:                  name,
		RName:                 rname,
		Symbol:                op.String(),
		Op:                    op,
		AlwaysCheckReverse:    true,
		IgnoreDescriptorError: true,
	}
}

// Binary arithmetic and bitwise operators.
var (
	Add      = reversible(OpAdd, "__add__", "__radd__")
	Sub      = reversible(OpSub, "__sub__", "__rsub__")
	Mul      = reversible(OpMul, "__mul__", "__rmul__")
	MatMul   = reversible(OpMatMul, "__matmul__", "__rmatmul__")
	TrueDiv  = reversible(OpTrueDiv, "__truediv__", "__rtruediv__")
	FloorDiv = reversible(OpFloorDiv, "__floordiv__", "__rfloordiv__")
	Mod      = reversible(OpMod, "__mod__", "__rmod__")
	LShift   = reversible(OpLShift, "__lshift__", "__rlshift__")
	RShift   = reversible(OpRShift, "__rshift__", "__rrshift__")
	And      = reversible(OpAnd, "__and__", "__rand__")
	Or       = reversible(OpOr, "__or__", "__ror__")
	Xor      = reversible(OpXor, "__xor__", "__rxor__")
)

// Contains is the membership test. It only consults the container, which
// is passed as the left operand.
var Contains = NewOperator("__contains__", "in")

// CompareOp selects one of the six rich comparisons.
type CompareOp uint8

const (
	LT CompareOp = iota
	LE
	EQ
	NE
	GT
	GE
)

// Comparison operator specs. The reverse slot of each comparison is its
// mirror: a < b falls back to b > a.
var compareSpecs = [...]*OperatorSpec{
	LT: comparison(OpLt, "__lt__", "__gt__"),
	LE: comparison(OpLe, "__le__", "__ge__"),
	EQ: comparison(OpEq, "__eq__", "__eq__"),
	NE: comparison(OpNe, "__ne__", "__ne__"),
	GT: comparison(OpGt, "__gt__", "__lt__"),
	GE: comparison(OpGe, "__ge__", "__le__"),
}

// Spec returns the operator spec used for this comparison.
func (c CompareOp) Spec() *OperatorSpec {
	return compareSpecs[c]
}

func (c CompareOp) String() string {
	return compareSpecs[c].Symbol
}

// compareOpOf maps a comparison Op to its CompareOp. op must satisfy
// op.IsComparison().
func compareOpOf(op Op) CompareOp {
	return CompareOp(op - OpLt)
}

// BinaryOperators lists the predefined reversible operators in a stable
// order.
var BinaryOperators = []*OperatorSpec{Add, Sub, Mul, MatMul, TrueDiv, FloorDiv, Mod, LShift, RShift, And, Or, Xor}

// CompareOps lists the comparisons in a stable order.
var CompareOps = []CompareOp{LT, LE, EQ, NE, GT, GE}
