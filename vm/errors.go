package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error kinds
// ---------------------------------------------------------------------------

// Error kinds raised by the resolution engine. Match them with errors.Is.
var (
	// ErrDescriptorBinding is raised when a builtin slot method is invoked on
	// a value whose class doesn't derive from the method's owner, or when a
	// descriptor can't be bound to the receiver's class.
	ErrDescriptorBinding = errors.New("descriptor binding error")

	// ErrUnsupportedOperandTypes is raised when no implementation exists for
	// an operator and no fallback applies.
	ErrUnsupportedOperandTypes = errors.New("unsupported operand types")

	// ErrEscalationInvariant means a fast path asked for escalation and the
	// generic path didn't produce a conforming result. It's a VM bug.
	ErrEscalationInvariant = errors.New("fast path escalation invariant violated")
)

// Error kinds raised by builtin slot methods.
var (
	ErrZeroDivision  = errors.New("division by zero")
	ErrOverflow      = errors.New("numeric overflow")
	ErrNegativeShift = errors.New("negative shift count")
	ErrBadTruthValue = errors.New("invalid truth value")
)

// OperatorError carries an error kind together with the operator it was
// raised for and a user-facing message.
type OperatorError struct {
	Kind    error
	Op      string
	Message string
}

func (e *OperatorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return e.Kind.Error()
}

func (e *OperatorError) Unwrap() error {
	return e.Kind
}

func newOpError(kind error, op, format string, args ...any) *OperatorError {
	return &OperatorError{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// ---------------------------------------------------------------------------
// Message helpers
// ---------------------------------------------------------------------------

func (vm *VM) unsupportedOperands(symbol string, left, right Value) error {
	return newOpError(ErrUnsupportedOperandTypes, symbol,
		"unsupported operand type(s) for %s: '%s' and '%s'",
		symbol, vm.ClassOf(left).Name, vm.ClassOf(right).Name)
}

func (vm *VM) unorderable(symbol string, left, right Value) error {
	return newOpError(ErrUnsupportedOperandTypes, symbol,
		"'%s' not supported between instances of '%s' and '%s'",
		symbol, vm.ClassOf(left).Name, vm.ClassOf(right).Name)
}

func (vm *VM) descriptorRequires(op string, owner *Class, value Value) error {
	return newOpError(ErrDescriptorBinding, op,
		"descriptor '%s' requires a '%s' object but received a '%s'",
		op, owner.Name, vm.ClassOf(value).Name)
}

func zeroDivision(op, what string) error {
	return newOpError(ErrZeroDivision, op, "%s by zero", what)
}
