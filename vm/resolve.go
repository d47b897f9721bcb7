package vm

import "github.com/tliron/commonlog"

// ---------------------------------------------------------------------------
// Outcome
// ---------------------------------------------------------------------------

// OutcomeKind tags an Outcome.
type OutcomeKind uint8

const (
	// OutcomeNoImplementation means no candidate produced a result.
	OutcomeNoImplementation OutcomeKind = iota
	// OutcomeValue means a candidate produced a result.
	OutcomeValue
)

// Outcome is the result of resolving a binary operator: either a value or
// NoImplementation. Raised errors travel separately as the error return.
// A value Outcome never holds the NotImplemented sentinel.
type Outcome struct {
	kind  OutcomeKind
	value Value
}

// NoImplementation is the Outcome reported when every candidate declined.
var NoImplementation = Outcome{kind: OutcomeNoImplementation}

// ValueOutcome wraps a result value.
func ValueOutcome(v Value) Outcome {
	if v.IsNotImplemented() {
		return NoImplementation
	}
	return Outcome{kind: OutcomeValue, value: v}
}

// Kind returns the outcome tag.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// Value returns the result and true, or the zero Value and false for
// NoImplementation.
func (o Outcome) Value() (Value, bool) {
	return o.value, o.kind == OutcomeValue
}

// IsNoImplementation reports whether no candidate produced a result.
func (o Outcome) IsNoImplementation() bool {
	return o.kind == OutcomeNoImplementation
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// Resolve applies a binary operator to left and right.
//
// Primitive operand pairs go through the fast-path table when possible.
// Everything else, and every fast path that can't produce a conforming
// result, runs the generic dual-dispatch protocol:
//
//  1. a non-reversible operator only consults left's forward slot
//  2. otherwise left's forward slot and right's reverse slot are looked up
//  3. if both are the same callable and the operator doesn't insist on
//     checking the reverse, the reverse is dropped
//  4. if right's class is a proper subclass of left's (or the sequence
//     compatibility rule applies) the reverse is tried first
//  5. then the forward slot, then the reverse slot if still pending
//  6. if everything declined, the operator's fallback runs, or the result
//     is NoImplementation
func (vm *VM) Resolve(spec *OperatorSpec, left, right Value) (Outcome, error) {
	if vm.fastPaths && spec.Op != OpNone && left.rep.IsPrimitive() && right.rep.IsPrimitive() {
		if out, ok, err := vm.fastResolve(spec, left, right); ok {
			return out, err
		}
	}
	return vm.resolveGeneric(spec, left, right)
}

// BinaryOp is the evaluation entry point for a binary expression: it resolves
// the operator and turns NoImplementation into an unsupported operand error.
func (vm *VM) BinaryOp(spec *OperatorSpec, left, right Value) (Value, error) {
	out, err := vm.Resolve(spec, left, right)
	if err != nil {
		return Value{}, err
	}
	if v, ok := out.Value(); ok {
		return v, nil
	}
	return Value{}, vm.unsupportedOperands(spec.Symbol, left, right)
}

// Contains evaluates "item in container".
func (vm *VM) Contains(container, item Value) (bool, error) {
	out, err := vm.Resolve(Contains, container, item)
	if err != nil {
		return false, err
	}
	v, ok := out.Value()
	if !ok {
		return false, newOpError(ErrUnsupportedOperandTypes, Contains.Symbol,
			"argument of type '%s' is not iterable", vm.ClassOf(container).Name)
	}
	return vm.Truthy(v)
}

func (vm *VM) resolveGeneric(spec *OperatorSpec, left, right Value) (Outcome, error) {
	if !spec.IsReversible() {
		return vm.resolveForward(spec, left, right)
	}

	leftClass := vm.ClassOf(left)
	rightClass := vm.ClassOf(right)

	leftCallable, err := vm.Locate(leftClass, spec.Name, spec.IgnoreDescriptorError)
	if err != nil {
		return NoImplementation, err
	}
	rightCallable, err := vm.Locate(rightClass, spec.RName, spec.IgnoreDescriptorError)
	if err != nil {
		return NoImplementation, err
	}

	// The same inherited implementation would otherwise run twice.
	if !spec.AlwaysCheckReverse && rightCallable != nil && leftCallable == rightCallable {
		rightCallable = nil
	}

	if leftCallable != nil {
		if rightCallable != nil &&
			(rightClass.IsProperSubclassOf(leftClass) ||
				isSequenceCompat(spec, leftClass, rightClass)) {
			result, err := vm.dispatch(spec, spec.RName, rightCallable, right, left, rightClass, true)
			if err != nil {
				return NoImplementation, err
			}
			if !result.IsNotImplemented() {
				return ValueOutcome(result), nil
			}
			rightCallable = nil
		}

		result, err := vm.dispatch(spec, spec.Name, leftCallable, left, right, leftClass, false)
		if err != nil {
			return NoImplementation, err
		}
		if !result.IsNotImplemented() {
			return ValueOutcome(result), nil
		}
	}

	if rightCallable != nil {
		result, err := vm.dispatch(spec, spec.RName, rightCallable, right, left, rightClass, true)
		if err != nil {
			return NoImplementation, err
		}
		if !result.IsNotImplemented() {
			return ValueOutcome(result), nil
		}
	}

	return vm.noImplementation(spec, left, right)
}

// resolveForward handles operators without a reflected slot.
func (vm *VM) resolveForward(spec *OperatorSpec, left, right Value) (Outcome, error) {
	leftClass := vm.ClassOf(left)
	callable, err := vm.Locate(leftClass, spec.Name, spec.IgnoreDescriptorError)
	if err != nil {
		return NoImplementation, err
	}
	if callable == nil {
		return vm.noImplementation(spec, left, right)
	}

	vm.trace(TraceEvent{Kind: EventInvoke, Op: spec.Symbol, Slot: spec.Name, Class: leftClass.Name})
	result, err := vm.call(callable, left, right)
	if err != nil {
		return NoImplementation, err
	}
	if result.IsNotImplemented() {
		vm.trace(TraceEvent{Kind: EventDecline, Op: spec.Symbol, Slot: spec.Name, Class: leftClass.Name})
	}
	return ValueOutcome(result), nil
}

// dispatch invokes one candidate. Builtin slots check that the receiver is
// an instance of the class they were defined on, since a builtin can end up
// in an unrelated class's namespace.
func (vm *VM) dispatch(spec *OperatorSpec, slot string, callable Method, self, other Value, selfClass *Class, reversed bool) (Value, error) {
	if owner := EnclosingType(callable); owner != nil && !selfClass.IsSubclassOf(owner) {
		if log.AllowLevel(commonlog.Debug) {
			log.Debugf("binding check failed: %s.%s owned by %s", selfClass.Name, slot, owner.Name)
		}
		return Value{}, vm.descriptorRequires(slot, owner, self)
	}

	vm.trace(TraceEvent{Kind: EventInvoke, Op: spec.Symbol, Slot: slot, Class: selfClass.Name, Reversed: reversed})
	result, err := vm.call(callable, self, other)
	if err != nil {
		return Value{}, err
	}
	if result.IsNotImplemented() {
		vm.trace(TraceEvent{Kind: EventDecline, Op: spec.Symbol, Slot: slot, Class: selfClass.Name, Reversed: reversed})
	}
	return result, nil
}

func (vm *VM) noImplementation(spec *OperatorSpec, left, right Value) (Outcome, error) {
	if spec.Fallback == nil {
		vm.trace(TraceEvent{Kind: EventNoImplementation, Op: spec.Symbol})
		return NoImplementation, nil
	}
	vm.trace(TraceEvent{Kind: EventFallback, Op: spec.Symbol})
	result, err := spec.Fallback(vm, left, right)
	if err != nil {
		return NoImplementation, err
	}
	return ValueOutcome(result), nil
}

// call invokes a binary method.
func (vm *VM) call(m Method, self, other Value) (Value, error) {
	// Skip the argument slice for the common binary shape.
	if m1, ok := m.(*Method1); ok {
		return m1.fn(vm, self, other)
	}
	return m.Invoke(vm, self, []Value{other})
}

// isSequenceCompat reports whether the sequence compatibility rule applies:
// for + and *, a builtin str/bytes/bytearray/list/tuple on the left and
// anything else on the right tries the right operand's reflected slot first,
// even without a subclass relationship. Native classes never qualify.
func isSequenceCompat(spec *OperatorSpec, leftClass, rightClass *Class) bool {
	if leftClass.Native || rightClass.Native {
		return false
	}
	if spec.Name != "__add__" && spec.Name != "__mul__" {
		return false
	}
	return isBuiltinSequence(leftClass) && !isBuiltinSequence(rightClass)
}

func isBuiltinSequence(c *Class) bool {
	return c.Builtin && c.Kind.IsSequence()
}
