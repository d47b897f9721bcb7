package vm

import (
	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Primitive fast paths
// ---------------------------------------------------------------------------

// Operands in the inline representations (bool, fixed int, float) skip the
// generic protocol when nothing has shadowed the builtin slots involved. The
// table is keyed by (op, left rep, right rep); a missing entry means the pair
// always takes the generic path. WideInt never has an entry.
//
// A fast function either produces the result the builtin methods would have
// produced, or asks for escalation. Escalation runs the generic protocol for
// the same operands in the same order, and that result must fit the entry's
// result family.

type fastStatus uint8

const (
	fastOK fastStatus = iota
	fastEscalate
)

type fastFunc func(op Op, a, b Value) (Value, fastStatus)

// resultFamily constrains what an escalated resolution may return.
type resultFamily uint8

const (
	familyNumeric resultFamily = iota
	familyBool
)

func (f resultFamily) String() string {
	if f == familyBool {
		return "bool"
	}
	return "number"
}

func (f resultFamily) accepts(v Value) bool {
	if f == familyBool {
		return v.IsBool()
	}
	return v.rep.IsPrimitive()
}

type fastEntry struct {
	fn     fastFunc
	result resultFamily
}

var fastTable [numOps][NumReps][NumReps]fastEntry

func init() {
	intReps := []Rep{RepBool, RepFixedInt}
	numReps := []Rep{RepBool, RepFixedInt, RepFloat}

	for op := OpAdd; op <= OpXor; op++ {
		if op == OpMatMul {
			continue
		}
		for _, l := range intReps {
			for _, r := range intReps {
				fastTable[op][l][r] = fastEntry{fastIntArith, familyNumeric}
			}
		}
		if !isFloatOp(op) {
			continue
		}
		for _, l := range numReps {
			for _, r := range numReps {
				if l == RepFloat || r == RepFloat {
					fastTable[op][l][r] = fastEntry{fastFloatArith, familyNumeric}
				}
			}
		}
	}

	for op := OpLt; op <= OpGe; op++ {
		for _, l := range numReps {
			for _, r := range numReps {
				fastTable[op][l][r] = fastEntry{fastCompare, familyBool}
			}
		}
	}
}

func isFloatOp(op Op) bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpTrueDiv, OpFloorDiv, OpMod:
		return true
	}
	return false
}

func isBitwise(op Op) bool {
	return op == OpAnd || op == OpOr || op == OpXor
}

func fastIntArith(op Op, a, b Value) (Value, fastStatus) {
	if a.IsBool() && b.IsBool() && isBitwise(op) {
		return boolBitwise(op, a.Bool(), b.Bool()), fastOK
	}
	v, ok := fixedArith(op, int64(a.bits), int64(b.bits))
	if !ok {
		return Value{}, fastEscalate
	}
	return v, fastOK
}

func fastFloatArith(op Op, a, b Value) (Value, fastStatus) {
	x, y := fastFloat(a), fastFloat(b)
	if y == 0 && op != OpAdd && op != OpSub && op != OpMul {
		return Value{}, fastEscalate
	}
	v, err := floatArith(op, x, y)
	if err != nil || v.IsNotImplemented() {
		return Value{}, fastEscalate
	}
	return v, fastOK
}

// fastFloat widens a bool, fixed int, or float to float64.
func fastFloat(v Value) float64 {
	if v.IsFloat() {
		return v.Float64()
	}
	return float64(int64(v.bits))
}

func fastCompare(op Op, a, b Value) (Value, fastStatus) {
	c, unordered := compareNumbers(a, b)
	return FromBool(compareResult(op, c, unordered)), fastOK
}

// fastResolve runs the fast path for spec. handled is false when the pair
// has no entry or a builtin slot has been shadowed; the caller then runs the
// generic protocol itself.
func (vm *VM) fastResolve(spec *OperatorSpec, left, right Value) (out Outcome, handled bool, err error) {
	e := &fastTable[spec.Op][left.rep][right.rep]
	if e.fn == nil || !vm.slotsPristine(spec, left, right) {
		return NoImplementation, false, nil
	}

	v, status := e.fn(spec.Op, left, right)
	if status == fastOK {
		vm.trace(TraceEvent{Kind: EventFastPath, Op: spec.Symbol, Detail: left.rep.String() + "," + right.rep.String()})
		return ValueOutcome(v), true, nil
	}

	if log.AllowLevel(commonlog.Debug) {
		log.Debugf("fast path %s escalated for %s, %s", spec.Symbol, left.rep, right.rep)
	}
	vm.trace(TraceEvent{Kind: EventEscalate, Op: spec.Symbol, Detail: left.rep.String() + "," + right.rep.String()})

	out, err = vm.resolveGeneric(spec, left, right)
	if err != nil {
		return NoImplementation, true, err
	}
	result, ok := out.Value()
	if !ok {
		return NoImplementation, true, newOpError(ErrEscalationInvariant, spec.Symbol,
			"%s on %s and %s escalated to a resolution without implementation", spec.Symbol, left.rep, right.rep)
	}
	if !e.result.accepts(result) {
		if e.result == familyBool {
			return NoImplementation, true, newOpError(ErrEscalationInvariant, spec.Symbol,
				"comparison on primitive values didn't return a boolean")
		}
		return NoImplementation, true, newOpError(ErrEscalationInvariant, spec.Symbol,
			"%s on %s and %s escalated to a non-numeric %s", spec.Symbol, left.rep, right.rep, vm.ClassOf(result).Name)
	}
	return out, true, nil
}

// slotsPristine reports whether the forward slot on left's class and the
// reverse slot on right's class are still the bootstrap builtins.
func (vm *VM) slotsPristine(spec *OperatorSpec, left, right Value) bool {
	return vm.isPristine(vm.ClassOf(left), spec.Name) && vm.isPristine(vm.ClassOf(right), spec.RName)
}

func (vm *VM) isPristine(class *Class, name string) bool {
	selector := vm.Selectors.Lookup(name)
	if selector < 0 {
		return false
	}
	key := cacheKey{class, selector}
	want, ok := vm.pristine[key]
	return ok && vm.lookupAttr(class, selector) == want
}

// recordPristine snapshots the builtin slots of the primitive classes. It
// runs once, at the end of bootstrap.
func (vm *VM) recordPristine() {
	vm.pristine = make(map[cacheKey]Method)
	specs := append([]*OperatorSpec(nil), BinaryOperators...)
	for _, which := range CompareOps {
		specs = append(specs, which.Spec())
	}
	for _, class := range []*Class{vm.BoolClass, vm.IntClass, vm.FloatClass} {
		for _, spec := range specs {
			for _, name := range []string{spec.Name, spec.RName} {
				selector := vm.Selectors.Intern(name)
				vm.pristine[cacheKey{class, selector}] = class.VTable.Lookup(selector)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

// FastPathEntry describes one populated cell of the fast-path table.
type FastPathEntry struct {
	Op     Op
	Left   Rep
	Right  Rep
	Result string
}

// FastPathTable lists the populated fast-path entries in table order.
func FastPathTable() []FastPathEntry {
	var entries []FastPathEntry
	for op := Op(0); op < numOps; op++ {
		for l := Rep(0); l < NumReps; l++ {
			for r := Rep(0); r < NumReps; r++ {
				if e := fastTable[op][l][r]; e.fn != nil {
					entries = append(entries, FastPathEntry{Op: op, Left: l, Right: r, Result: e.result.String()})
				}
			}
		}
	}
	return entries
}
