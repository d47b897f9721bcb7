package vm

import (
	"math"
	"math/big"
	"testing"
)

func TestFixedOverflowDetection(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (int64, bool)
		want int64
		ok   bool
	}{
		{"add", func() (int64, bool) { return addFixed(1, 2) }, 3, true},
		{"add max", func() (int64, bool) { return addFixed(math.MaxInt64, 1) }, 0, false},
		{"add min", func() (int64, bool) { return addFixed(math.MinInt64, -1) }, 0, false},
		{"add zero", func() (int64, bool) { return addFixed(math.MinInt64, 0) }, math.MinInt64, true},
		{"sub", func() (int64, bool) { return subFixed(-1, math.MaxInt64) }, math.MinInt64, true},
		{"sub min", func() (int64, bool) { return subFixed(math.MinInt64, 1) }, 0, false},
		{"sub neg", func() (int64, bool) { return subFixed(0, math.MinInt64) }, 0, false},
		{"mul", func() (int64, bool) { return mulFixed(-3, 7) }, -21, true},
		{"mul zero", func() (int64, bool) { return mulFixed(0, math.MinInt64) }, 0, true},
		{"mul max", func() (int64, bool) { return mulFixed(math.MaxInt64, 2) }, 0, false},
		{"mul min neg", func() (int64, bool) { return mulFixed(math.MinInt64, -1) }, 0, false},
		{"mul neg min", func() (int64, bool) { return mulFixed(-1, math.MinInt64) }, 0, false},
		{"mul edge", func() (int64, bool) { return mulFixed(1<<31, 1<<31) }, 1 << 62, true},
		{"floordiv", func() (int64, bool) { return floorDivFixed(-1, 3) }, -1, true},
		{"floordiv exact", func() (int64, bool) { return floorDivFixed(-6, 3) }, -2, true},
		{"floordiv min", func() (int64, bool) { return floorDivFixed(math.MinInt64, -1) }, 0, false},
		{"lshift", func() (int64, bool) { return lshiftFixed(-3, 2) }, -12, true},
		{"lshift sign", func() (int64, bool) { return lshiftFixed(1, 63) }, 0, false},
		{"lshift lost bits", func() (int64, bool) { return lshiftFixed(3, 62) }, 0, false},
		{"lshift min", func() (int64, bool) { return lshiftFixed(-1, 62) }, math.MinInt64 / 2, true},
	}
	for _, tt := range tests {
		got, ok := tt.fn()
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("%s = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFloorModFixed(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{7, 3, 1},
		{-7, 3, 2},
		{7, -3, -2},
		{-7, -3, -1},
		{6, -3, 0},
		{math.MinInt64, -1, 0},
	}
	for _, tt := range tests {
		if got := floorModFixed(tt.a, tt.b); got != tt.want {
			t.Errorf("floorModFixed(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFloorDivModBigMatchesFixed(t *testing.T) {
	for _, a := range []int64{-100, -7, -1, 0, 1, 7, 100} {
		for _, b := range []int64{-7, -3, -1, 1, 3, 7} {
			q, m := floorDivModBig(big.NewInt(a), big.NewInt(b))
			wantQ, _ := floorDivFixed(a, b)
			wantM := floorModFixed(a, b)
			if q.Int64() != wantQ || m.Int64() != wantM {
				t.Errorf("floorDivModBig(%d, %d) = %v, %v; want %d, %d", a, b, q, m, wantQ, wantM)
			}
		}
	}
}

func TestFloatDivmod(t *testing.T) {
	negZero := math.Copysign(0, -1)
	tests := []struct {
		x, y    float64
		q, m    float64
		qNegZer bool
	}{
		{7, 2, 3, 1, false},
		{-7, 2, -4, 1, false},
		{7, -2, -4, -1, false},
		{-7, -2, 3, -1, false},
		{0.5, 2, 0, 0.5, false},
		{-0.5, 2, -1, 1.5, false},
		{0, -2, negZero, negZero, true},
	}
	for _, tt := range tests {
		q, m := floatDivmod(tt.x, tt.y)
		if q != tt.q || m != tt.m {
			t.Errorf("floatDivmod(%v, %v) = %v, %v; want %v, %v", tt.x, tt.y, q, m, tt.q, tt.m)
		}
		if tt.qNegZer && !math.Signbit(q) {
			t.Errorf("floatDivmod(%v, %v) quotient should be -0", tt.x, tt.y)
		}
	}
}

func TestIntToFloat(t *testing.T) {
	f, err := intToFloat(FromInt(maxExactFloatInt + 1))
	if err != nil || f != maxExactFloatInt {
		t.Errorf("intToFloat(2**53 + 1) = %v, %v; want rounding to 2**53", f, err)
	}
	f, err = intToFloat(FromBigInt(new(big.Int).Lsh(big.NewInt(1), 1000)))
	if err != nil || f != math.Ldexp(1, 1000) {
		t.Errorf("intToFloat(2**1000) = %v, %v", f, err)
	}
	if _, err := intToFloat(FromBigInt(new(big.Int).Lsh(big.NewInt(1), 1024))); err == nil {
		t.Error("2**1024 should overflow")
	}
}

func TestCompareIntFloat(t *testing.T) {
	tests := []struct {
		i         Value
		f         float64
		want      int
		unordered bool
	}{
		{FromInt(1), 1.5, -1, false},
		{FromInt(2), 1.5, 1, false},
		{FromInt(maxExactFloatInt + 1), maxExactFloatInt, 1, false},
		{FromInt(maxExactFloatInt + 1), maxExactFloatInt + 2, -1, false},
		{FromInt(math.MaxInt64), 9223372036854775808.0, -1, false},
		{FromBigInt(new(big.Int).Lsh(big.NewInt(1), 63)), 9223372036854775808.0, 0, false},
		{FromInt(0), math.Inf(-1), 1, false},
		{FromInt(0), math.NaN(), 0, true},
	}
	for _, tt := range tests {
		c, unordered := compareIntFloat(tt.i, tt.f)
		if c != tt.want || unordered != tt.unordered {
			t.Errorf("compareIntFloat(%v, %v) = %d, %v; want %d, %v", tt.i.BigInt(), tt.f, c, unordered, tt.want, tt.unordered)
		}
	}
}

func TestCompareResult(t *testing.T) {
	ops := []Op{OpLt, OpLe, OpEq, OpNe, OpGt, OpGe}
	tests := []struct {
		c         int
		unordered bool
		want      []bool
	}{
		{-1, false, []bool{true, true, false, true, false, false}},
		{0, false, []bool{false, true, true, false, false, true}},
		{1, false, []bool{false, false, false, true, true, true}},
		{0, true, []bool{false, false, false, true, false, false}},
	}
	for _, tt := range tests {
		for i, op := range ops {
			if got := compareResult(op, tt.c, tt.unordered); got != tt.want[i] {
				t.Errorf("compareResult(%s, %d, %v) = %v, want %v", op, tt.c, tt.unordered, got, tt.want[i])
			}
		}
	}
}

func TestFixedArithDeclines(t *testing.T) {
	tests := []struct {
		op   Op
		a, b int64
	}{
		{OpTrueDiv, 1, 0},
		{OpFloorDiv, 1, 0},
		{OpMod, 1, 0},
		{OpLShift, 1, -1},
		{OpRShift, 1, -1},
		{OpTrueDiv, maxExactFloatInt, 1},
		{OpMatMul, 1, 1},
	}
	for _, tt := range tests {
		if _, ok := fixedArith(tt.op, tt.a, tt.b); ok {
			t.Errorf("fixedArith(%s, %d, %d) should defer to bigArith", tt.op, tt.a, tt.b)
		}
	}

	if v, err := bigArith(OpMatMul, big.NewInt(1), big.NewInt(1)); err != nil || !v.IsNotImplemented() {
		t.Errorf("bigArith(@) = %v, %v; want NotImplemented", v, err)
	}
	if v, err := floatArith(OpLShift, 1, 1); err != nil || !v.IsNotImplemented() {
		t.Errorf("floatArith(<<) = %v, %v; want NotImplemented", v, err)
	}
}
