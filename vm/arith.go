package vm

import (
	"math"
	"math/big"
)

// Numeric kernels shared by the builtin slot methods and the fast-path table.
// Both sides call the same functions, so a fast path and the generic path
// can only differ in whether they get to run, never in what they compute.

// maxExactFloatInt bounds the integers that convert to float64 exactly.
const maxExactFloatInt = 1 << 53

// maxShift bounds left shifts of non-zero integers.
const maxShift = 1 << 26

// ---------------------------------------------------------------------------
// Fixed-width integers
// ---------------------------------------------------------------------------

func addFixed(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) == (b > 0) {
		return c, true
	}
	return 0, false
}

func subFixed(a, b int64) (int64, bool) {
	c := a - b
	if (c < a) == (b > 0) {
		return c, true
	}
	return 0, false
}

func mulFixed(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (c < 0) != ((a < 0) != (b < 0)) || c/b != a {
		return 0, false
	}
	return c, true
}

// floorDivFixed rounds toward negative infinity. b must be non-zero.
func floorDivFixed(a, b int64) (int64, bool) {
	if a == math.MinInt64 && b == -1 {
		return 0, false
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q, true
}

// floorModFixed returns a remainder with the sign of b. b must be non-zero.
func floorModFixed(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func lshiftFixed(a, n int64) (int64, bool) {
	if a == 0 {
		return 0, true
	}
	if n >= 63 {
		return 0, false
	}
	c := a << uint(n)
	if c>>uint(n) != a {
		return 0, false
	}
	return c, true
}

func rshiftFixed(a, n int64) int64 {
	if n >= 63 {
		if a < 0 {
			return -1
		}
		return 0
	}
	return a >> uint(n)
}

func fitsExactFloat(n int64) bool {
	return n > -maxExactFloatInt && n < maxExactFloatInt
}

// fixedArith computes op on two int64 operands. ok is false when the result
// doesn't fit, or when the operation raises (zero divisor, negative shift);
// bigArith produces the result or the error in that case.
func fixedArith(op Op, a, b int64) (v Value, ok bool) {
	switch op {
	case OpAdd:
		c, ok := addFixed(a, b)
		return FromInt(c), ok
	case OpSub:
		c, ok := subFixed(a, b)
		return FromInt(c), ok
	case OpMul:
		c, ok := mulFixed(a, b)
		return FromInt(c), ok
	case OpTrueDiv:
		if b == 0 || !fitsExactFloat(a) || !fitsExactFloat(b) {
			return Value{}, false
		}
		return FromFloat64(float64(a) / float64(b)), true
	case OpFloorDiv:
		if b == 0 {
			return Value{}, false
		}
		c, ok := floorDivFixed(a, b)
		return FromInt(c), ok
	case OpMod:
		if b == 0 {
			return Value{}, false
		}
		return FromInt(floorModFixed(a, b)), true
	case OpLShift:
		if b < 0 {
			return Value{}, false
		}
		c, ok := lshiftFixed(a, b)
		return FromInt(c), ok
	case OpRShift:
		if b < 0 {
			return Value{}, false
		}
		return FromInt(rshiftFixed(a, b)), true
	case OpAnd:
		return FromInt(a & b), true
	case OpOr:
		return FromInt(a | b), true
	case OpXor:
		return FromInt(a ^ b), true
	}
	return Value{}, false
}

// ---------------------------------------------------------------------------
// Arbitrary precision integers
// ---------------------------------------------------------------------------

// intArith computes op on two integer values (bools count as 0 and 1).
// The result is NotImplemented for operations ints don't define.
func intArith(op Op, a, b Value) (Value, error) {
	if !a.IsWideInt() && !b.IsWideInt() {
		if v, ok := fixedArith(op, int64(a.bits), int64(b.bits)); ok {
			return v, nil
		}
	}
	return bigArith(op, a.BigInt(), b.BigInt())
}

func bigArith(op Op, x, y *big.Int) (Value, error) {
	z := new(big.Int)
	switch op {
	case OpAdd:
		return FromBigInt(z.Add(x, y)), nil
	case OpSub:
		return FromBigInt(z.Sub(x, y)), nil
	case OpMul:
		return FromBigInt(z.Mul(x, y)), nil
	case OpTrueDiv:
		if y.Sign() == 0 {
			return Value{}, zeroDivision("/", "division")
		}
		f, _ := new(big.Rat).SetFrac(x, y).Float64()
		if f == 0 {
			// Rat has no negative zero; the quotient keeps the operand signs.
			f = math.Copysign(0, float64(y.Sign()))
			if x.Sign() < 0 {
				f = -f
			}
		}
		if math.IsInf(f, 0) {
			return Value{}, newOpError(ErrOverflow, "/", "integer division result too large for a float")
		}
		return FromFloat64(f), nil
	case OpFloorDiv, OpMod:
		if y.Sign() == 0 {
			return Value{}, zeroDivision(op.String(), "integer division or modulo")
		}
		q, m := floorDivModBig(x, y)
		if op == OpFloorDiv {
			return FromBigInt(q), nil
		}
		return FromBigInt(m), nil
	case OpLShift:
		if y.Sign() < 0 {
			return Value{}, newOpError(ErrNegativeShift, "<<", "negative shift count")
		}
		if x.Sign() == 0 {
			return FromInt(0), nil
		}
		if !y.IsInt64() || y.Int64() > maxShift {
			return Value{}, newOpError(ErrOverflow, "<<", "too many digits in integer")
		}
		return FromBigInt(z.Lsh(x, uint(y.Int64()))), nil
	case OpRShift:
		if y.Sign() < 0 {
			return Value{}, newOpError(ErrNegativeShift, ">>", "negative shift count")
		}
		if !y.IsInt64() || y.Int64() > int64(x.BitLen()) {
			if x.Sign() < 0 {
				return FromInt(-1), nil
			}
			return FromInt(0), nil
		}
		return FromBigInt(z.Rsh(x, uint(y.Int64()))), nil
	case OpAnd:
		return FromBigInt(z.And(x, y)), nil
	case OpOr:
		return FromBigInt(z.Or(x, y)), nil
	case OpXor:
		return FromBigInt(z.Xor(x, y)), nil
	}
	return NotImplemented, nil
}

// floorDivModBig returns the floored quotient and a remainder with the sign
// of y.
func floorDivModBig(x, y *big.Int) (q, m *big.Int) {
	q, m = new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && m.Sign() != y.Sign() {
		q.Sub(q, big.NewInt(1))
		m.Add(m, y)
	}
	return q, m
}

// ---------------------------------------------------------------------------
// Floats
// ---------------------------------------------------------------------------

// intToFloat converts an integer value to the nearest float64.
func intToFloat(v Value) (float64, error) {
	if !v.IsWideInt() {
		return float64(int64(v.bits)), nil
	}
	f, _ := new(big.Float).SetInt(v.ref.(*big.Int)).Float64()
	if math.IsInf(f, 0) {
		return 0, newOpError(ErrOverflow, "", "int too large to convert to float")
	}
	return f, nil
}

// floatArith computes op on two floats. The result is NotImplemented for
// operations floats don't define.
func floatArith(op Op, x, y float64) (Value, error) {
	switch op {
	case OpAdd:
		return FromFloat64(x + y), nil
	case OpSub:
		return FromFloat64(x - y), nil
	case OpMul:
		return FromFloat64(x * y), nil
	case OpTrueDiv:
		if y == 0 {
			return Value{}, zeroDivision("/", "float division")
		}
		return FromFloat64(x / y), nil
	case OpFloorDiv:
		if y == 0 {
			return Value{}, zeroDivision("//", "float floor division")
		}
		q, _ := floatDivmod(x, y)
		return FromFloat64(q), nil
	case OpMod:
		if y == 0 {
			return Value{}, zeroDivision("%", "float modulo")
		}
		_, m := floatDivmod(x, y)
		return FromFloat64(m), nil
	}
	return NotImplemented, nil
}

// floatDivmod returns the floored quotient and the remainder of x / y with
// the remainder taking the sign of y. y must be non-zero.
func floatDivmod(x, y float64) (floordiv, mod float64) {
	mod = math.Mod(x, y)
	div := (x - mod) / y
	if mod != 0 {
		if (y < 0) != (mod < 0) {
			mod += y
			div -= 1.0
		}
	} else {
		mod = math.Copysign(0, y)
	}
	if div != 0 {
		floordiv = math.Floor(div)
		if div-floordiv > 0.5 {
			floordiv += 1.0
		}
	} else {
		floordiv = math.Copysign(0, x/y)
	}
	return floordiv, mod
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// compareNumbers compares two numeric values exactly, whatever their
// representations. unordered is set when either side is NaN.
func compareNumbers(a, b Value) (c int, unordered bool) {
	switch {
	case a.IsFloat() && b.IsFloat():
		return compareFloats(a.Float64(), b.Float64())
	case a.IsFloat():
		c, unordered = compareIntFloat(b, a.Float64())
		return -c, unordered
	case b.IsFloat():
		return compareIntFloat(a, b.Float64())
	}
	return compareInts(a, b), false
}

func compareInts(a, b Value) int {
	if !a.IsWideInt() && !b.IsWideInt() {
		x, y := int64(a.bits), int64(b.bits)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return a.BigInt().Cmp(b.BigInt())
}

func compareFloats(x, y float64) (int, bool) {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return 0, true
	case x < y:
		return -1, false
	case x > y:
		return 1, false
	}
	return 0, false
}

// compareIntFloat compares an integer with a float without rounding the
// integer first.
func compareIntFloat(i Value, f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, true
	}
	if math.IsInf(f, 0) {
		if f > 0 {
			return -1, false
		}
		return 1, false
	}
	if !i.IsWideInt() && fitsExactFloat(int64(i.bits)) {
		return compareFloats(float64(int64(i.bits)), f)
	}
	bi := new(big.Float).SetInt(i.BigInt())
	return bi.Cmp(new(big.Float).SetFloat64(f)), false
}

// compareResult maps a three-way comparison to the outcome of op.
func compareResult(op Op, c int, unordered bool) bool {
	if unordered {
		return op == OpNe
	}
	switch op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	}
	return false
}
