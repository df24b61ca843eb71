package ir

import (
	"math/big"

	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// maskTo returns v truncated to an unsigned width-bit value.
func maskTo(v *big.Int, width uint) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))

	out := new(big.Int).And(v, mask)

	return out
}

// toSigned reinterprets an unsigned width-bit value as two's-complement
// signed.
func toSigned(v *big.Int, width uint) *big.Int {
	half := new(big.Int).Lsh(big.NewInt(1), width-1)
	if v.Cmp(half) >= 0 {
		full := new(big.Int).Lsh(big.NewInt(1), width)
		return new(big.Int).Sub(v, full)
	}

	return new(big.Int).Set(v)
}

// FoldBinary evaluates a binary opcode over two constants, per property 6:
// add/sub/mul/and/or/xor/comparisons/shifts all fold when both operands are
// constant. Returns (nil, false) if op is not an arithmetic/bitwise/
// comparison/shift opcode (callers fall back to building an Expr node).
func FoldBinary(op Opcode, lhs, rhs *value.Const) (*value.Const, bool, error) {
	resultT, err := DeriveBinaryOpType(op, lhs, rhs)
	if err != nil {
		return nil, false, err
	}

	var raw *big.Int

	switch op {
	case OpAdd:
		raw = new(big.Int).Add(lhs.Val, rhs.Val)
	case OpSub:
		raw = new(big.Int).Sub(lhs.Val, rhs.Val)
	case OpMul:
		raw = new(big.Int).Mul(lhs.Val, rhs.Val)
	case OpAnd:
		raw = new(big.Int).And(lhs.Val, rhs.Val)
	case OpOr:
		raw = new(big.Int).Or(lhs.Val, rhs.Val)
	case OpXor:
		raw = new(big.Int).Xor(lhs.Val, rhs.Val)
	case OpShl:
		raw = new(big.Int).Lsh(lhs.Val, uint(rhs.Val.Uint64()))
	case OpShr:
		raw = new(big.Int).Rsh(maskTo(lhs.Val, lhs.T.BitWidth()), uint(rhs.Val.Uint64()))
	case OpSar:
		raw = new(big.Int).Rsh(lhs.Val, uint(rhs.Val.Uint64()))
	case OpLt:
		raw = boolInt(lhs.Val.Cmp(rhs.Val) < 0)
	case OpLe:
		raw = boolInt(lhs.Val.Cmp(rhs.Val) <= 0)
	case OpGt:
		raw = boolInt(lhs.Val.Cmp(rhs.Val) > 0)
	case OpGe:
		raw = boolInt(lhs.Val.Cmp(rhs.Val) >= 0)
	case OpEq:
		raw = boolInt(lhs.Val.Cmp(rhs.Val) == 0)
	case OpNe:
		raw = boolInt(lhs.Val.Cmp(rhs.Val) != 0)
	default:
		return nil, false, nil
	}

	raw = maskTo(raw, resultT.BitWidth())
	if resultT.Kind() == dtype.SignedInt {
		raw = toSigned(raw, resultT.BitWidth())
	}

	c, err := value.NewConst(resultT, raw)
	if err != nil {
		return nil, false, err
	}

	return c, true, nil
}

func boolInt(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}

	return big.NewInt(0)
}

// FoldSlice evaluates Arg[lo:hi] when Arg is constant (§4.1, mandatory).
func FoldSlice(c *value.Const, lo, hi uint) (*value.Const, error) {
	resultT, err := DeriveSliceType(c, lo, hi)
	if err != nil {
		return nil, err
	}

	shifted := new(big.Int).Rsh(c.Val, lo)
	raw := maskTo(shifted, hi-lo+1)

	return value.NewConst(resultT, raw)
}

// FoldConcat evaluates {lhs, rhs} when both are constant (§4.1, mandatory).
func FoldConcat(lhs, rhs *value.Const) (*value.Const, error) {
	resultT := DeriveConcatType(lhs, rhs)

	raw := new(big.Int).Lsh(lhs.Val, rhs.T.BitWidth())
	raw.Or(raw, maskTo(rhs.Val, rhs.T.BitWidth()))

	return value.NewConst(resultT, raw)
}

// FoldUnary evaluates a unary opcode over a constant.
func FoldUnary(op Opcode, arg *value.Const) (*value.Const, bool, error) {
	resultT, err := DeriveUnaryOpType(op, arg)
	if err != nil {
		return nil, false, err
	}

	var raw *big.Int

	switch op {
	case OpNot:
		raw = new(big.Int).Not(maskTo(arg.Val, resultT.BitWidth()))
	case OpNeg:
		raw = new(big.Int).Neg(arg.Val)
	default:
		return nil, false, nil
	}

	raw = maskTo(raw, resultT.BitWidth())

	c, err := value.NewConst(resultT, raw)
	if err != nil {
		return nil, false, err
	}

	return c, true, nil
}

// FoldCast evaluates a cast opcode over a constant.
func FoldCast(op Opcode, target *dtype.DType, c *value.Const) (*big.Int, error) {
	switch op {
	case OpBitcast:
		return maskTo(c.Val, target.BitWidth()), nil
	case OpZExt:
		return maskTo(c.Val, target.BitWidth()), nil
	case OpSExt:
		return toSigned(maskTo(c.Val, c.T.BitWidth()), c.T.BitWidth()), nil
	default:
		return nil, diag.New(diag.TypeMismatch, "%s is not a cast opcode", op)
	}
}
