// Package vm implements binary operator resolution for a dynamically typed
// object model.
//
// This package contains:
//   - Tagged value representation (bool, fixed int, wide int, float, object)
//   - Classes with C3 method resolution order and copy-on-write vtables
//   - The method locator and its epoch-stamped read-through cache
//   - The reflected-operand dispatch protocol (Resolve, BinaryOp, Compare)
//   - Fast paths for primitive operand pairs
//   - Builtin int, bool, float, str, bytes, bytearray, list and tuple slots
//   - Dispatch tracing
package vm
